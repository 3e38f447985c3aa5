package model

import "time"

// Sender identifies who authored a transcript entry.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Role is the role tag sent to the completion endpoint.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry of the display transcript.
// Array position is the canonical chronological order.
type ChatMessage struct {
	ID        string
	Sender    Sender
	Text      string
	Timestamp time.Time
}

// Turn is one role-tagged entry of the history mirror.
type Turn struct {
	Role    Role
	Content string
}

// Turn returns the history mirror entry for this message
// (user -> user, bot -> assistant).
func (m ChatMessage) Turn() Turn {
	role := RoleUser
	if m.Sender == SenderBot {
		role = RoleAssistant
	}
	return Turn{Role: role, Content: m.Text}
}
