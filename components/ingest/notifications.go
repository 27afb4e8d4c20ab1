package ingest

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Notifier publishes user-facing notifications raised during ingestion.
type Notifier interface {
	Notify(ctx context.Context, id, title, message string)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, string, string, string) {}

// Notification is a persistent message shown until dismissed.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationCenter is an in-process Notifier that keeps the latest
// notification per id, mirroring persistent-notification semantics.
type NotificationCenter struct {
	mu    sync.RWMutex
	items map[string]Notification
}

// NewNotificationCenter returns an empty center.
func NewNotificationCenter() *NotificationCenter {
	return &NotificationCenter{items: make(map[string]Notification)}
}

// Notify stores or replaces the notification with the given id.
func (c *NotificationCenter) Notify(_ context.Context, id, title, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[id] = Notification{
		ID:        id,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}

// Pending returns undismissed notifications, oldest first.
func (c *NotificationCenter) Pending() []Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Notification, 0, len(c.items))
	for _, n := range c.items {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Dismiss removes a notification by id.
func (c *NotificationCenter) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
}
