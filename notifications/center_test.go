package notifications

import "testing"

func TestSeedAllUnread(t *testing.T) {
	c := NewCenter(Seed())
	if got := c.UnreadCount(); got != 5 {
		t.Errorf("unread: got %d, want 5", got)
	}
	if got := c.List()[0].Title; got != "Your Daily Focus is ready!" {
		t.Errorf("first title: got %q", got)
	}
}

func TestMarkAsRead(t *testing.T) {
	c := NewCenter(Seed())

	n, ok := c.MarkAsRead(3)
	if !ok || !n.Read || n.ID != 3 {
		t.Errorf("MarkAsRead(3): got %+v, %v", n, ok)
	}
	if got := c.UnreadCount(); got != 4 {
		t.Errorf("unread: got %d, want 4", got)
	}

	// Marking again changes nothing.
	c.MarkAsRead(3)
	if got := c.UnreadCount(); got != 4 {
		t.Errorf("unread after repeat: got %d, want 4", got)
	}

	if _, ok := c.MarkAsRead(42); ok {
		t.Error("unknown id should report false")
	}
	if got := c.UnreadCount(); got != 4 {
		t.Errorf("unread after unknown id: got %d, want 4", got)
	}
}

func TestMarkAllRead(t *testing.T) {
	c := NewCenter(Seed())
	c.MarkAllRead()
	if got := c.UnreadCount(); got != 0 {
		t.Errorf("unread: got %d", got)
	}
	for _, n := range c.List() {
		if !n.Read {
			t.Errorf("%d still unread", n.ID)
		}
	}
}

func TestListReturnsCopy(t *testing.T) {
	c := NewCenter(Seed())
	list := c.List()
	list[0].Read = true
	if c.UnreadCount() != 5 {
		t.Error("List must not expose internal state")
	}
}
