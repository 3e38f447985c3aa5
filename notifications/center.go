// Package notifications keeps the in-app notification list and its read
// state. Nothing here is persisted.
package notifications

import "sync"

type Notification struct {
	ID      int
	Title   string
	Time    string
	Message string
	Read    bool
}

// Seed returns the notifications shown on a fresh start.
func Seed() []Notification {
	return []Notification{
		{ID: 1, Title: "Your Daily Focus is ready!", Time: "2 min ago", Message: "Try today's 5-min breathing before your next study session."},
		{ID: 2, Title: "Journal Prompt", Time: "10 min ago", Message: "What's one thing you're proud of today?"},
		{ID: 3, Title: "Reminder: Take a break!", Time: "30 min ago", Message: "You've been focused for 50 minutes. Stretch and hydrate."},
		{ID: 4, Title: "Mood check saved", Time: "Today", Message: "Your emotional log was saved at 8:00 AM."},
		{ID: 5, Title: "Session rescheduled", Time: "Yesterday", Message: "Your focus session is now set for 6:00 PM."},
	}
}

// Center is safe for concurrent use.
type Center struct {
	mu    sync.RWMutex
	items []Notification
}

func NewCenter(items []Notification) *Center {
	return &Center{items: append([]Notification(nil), items...)}
}

// List returns a copy in display order.
func (c *Center) List() []Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Notification(nil), c.items...)
}

func (c *Center) UnreadCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, item := range c.items {
		if !item.Read {
			n++
		}
	}
	return n
}

// MarkAsRead marks one notification read and returns it. Unknown ids are
// ignored.
func (c *Center) MarkAsRead(id int) (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Read = true
			return c.items[i], true
		}
	}
	return Notification{}, false
}

func (c *Center) MarkAllRead() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		c.items[i].Read = true
	}
}
