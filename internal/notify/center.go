package notify

import (
	"context"
	"sync"
)

// Center is an in-memory notification inbox keeping per-user notifications
// with unread counts. It is the default in-app Notifier.
type Center struct {
	mu      sync.RWMutex
	byUser  map[string][]Notification
	maxKeep int
}

// NewCenter constructs an empty notification center. Each user's inbox is
// capped at maxKeep entries (oldest dropped first); zero means unbounded.
func NewCenter(maxKeep int) *Center {
	return &Center{
		byUser:  make(map[string][]Notification),
		maxKeep: maxKeep,
	}
}

// Notify appends a notification to the target user's inbox.
func (c *Center) Notify(_ context.Context, n Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	inbox := append(c.byUser[n.UserID], n)
	if c.maxKeep > 0 && len(inbox) > c.maxKeep {
		inbox = inbox[len(inbox)-c.maxKeep:]
	}
	c.byUser[n.UserID] = inbox
	return nil
}

// List returns the user's notifications, newest last.
func (c *Center) List(userID string) []Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()
	inbox := c.byUser[userID]
	out := make([]Notification, len(inbox))
	copy(out, inbox)
	return out
}

// UnreadCount returns the number of unread notifications for the user.
func (c *Center) UnreadCount(userID string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	count := 0
	for _, n := range c.byUser[userID] {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkRead marks a single notification read. It reports whether the
// notification existed.
func (c *Center) MarkRead(userID, notificationID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	inbox := c.byUser[userID]
	for i := range inbox {
		if inbox[i].ID == notificationID {
			inbox[i].Read = true
			return true
		}
	}
	return false
}

// MarkAllRead marks every notification for the user read and returns the
// number affected.
func (c *Center) MarkAllRead(userID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	inbox := c.byUser[userID]
	affected := 0
	for i := range inbox {
		if !inbox[i].Read {
			inbox[i].Read = true
			affected++
		}
	}
	return affected
}
