package ui

import (
	"thinky/feed"
	"thinky/mood"
)

// chatReplyMsg arrives when a send finishes, successfully or not.
type chatReplyMsg struct {
	err error
}

// feedLoadedMsg carries a fresh feed from storage.
type feedLoadedMsg struct {
	posts []feed.Person
	err   error
}

// feedChangedMsg follows a like, comment or delete.
type feedChangedMsg struct {
	status string
	err    error
}

// pingMsg reports whether the assistant answered after sign in.
type pingMsg struct {
	err error
}

// moodCheckedMsg follows recording a mood check-in.
type moodCheckedMsg struct {
	checkIn mood.CheckIn
	err     error
}

// moodHistoryMsg carries stored check-ins, newest first.
type moodHistoryMsg struct {
	history []mood.CheckIn
	err     error
}

// copiedMsg reports the outcome of a clipboard write.
type copiedMsg struct {
	err error
}
