package model

import (
	"context"
	"errors"
)

// ErrEmptyReply is returned by providers when the endpoint answered
// successfully but carried no reply text.
var ErrEmptyReply = errors.New("no response from assistant")

// CompletionRequest is everything a provider needs for one exchange.
// History already ends with the new user turn.
type CompletionRequest struct {
	SystemPrompt string
	History      []Turn
	MaxTokens    int64
	Temperature  float64
}

// Messages returns the system turn followed by the history, the order
// every provider sends them in.
func (r CompletionRequest) Messages() []Turn {
	out := make([]Turn, 0, len(r.History)+1)
	if r.SystemPrompt != "" {
		out = append(out, Turn{Role: RoleSystem, Content: r.SystemPrompt})
	}
	return append(out, r.History...)
}

// Provider abstracts the remote completion service (OpenAI, OpenRouter,
// Anthropic, Ollama).
//
// Defined here rather than in the provider package so the chat session can
// depend on it without importing any SDK.
type Provider interface {
	// Complete sends one request and returns the trimmed reply text.
	// Non-success responses and empty replies are errors.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// GetModel returns the model identifier sent with each request.
	GetModel() string

	// Ping checks if the provider is reachable.
	Ping(ctx context.Context) error
}
