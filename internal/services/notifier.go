package services

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// NotificationType is the severity shown by the front end
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

const (
	defaultNotificationTTL = 4 * time.Second
	maxNotifications       = 50
)

// Notification is an ephemeral user-facing message. It carries no game state.
type Notification struct {
	ID        string           `json:"id"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	CreatedAt time.Time        `json:"created_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// Notifier queues transient messages and forgets them after their TTL
type Notifier struct {
	mu    sync.Mutex
	ttl   time.Duration
	clock Clock
	items []Notification
}

// NewNotifier creates a notifier. ttl <= 0 uses the default of four seconds.
func NewNotifier(ttl time.Duration, clock Clock) *Notifier {
	if ttl <= 0 {
		ttl = defaultNotificationTTL
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &Notifier{ttl: ttl, clock: clock}
}

// Notify enqueues a message
func (n *Notifier) Notify(message string, typ NotificationType) Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.clock.Now()
	item := Notification{
		ID:        uuid.New().String(),
		Message:   message,
		Type:      typ,
		CreatedAt: now,
		ExpiresAt: now.Add(n.ttl),
	}
	n.pruneLocked(now)
	n.items = append(n.items, item)
	if over := len(n.items) - maxNotifications; over > 0 {
		n.items = slices.Delete(n.items, 0, over)
	}
	return item
}

// Active returns the messages that have not expired yet, oldest first
func (n *Notifier) Active() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.pruneLocked(n.clock.Now())
	return slices.Clone(n.items)
}

// Dismiss removes a message before it expires
func (n *Notifier) Dismiss(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	before := len(n.items)
	n.items = slices.DeleteFunc(n.items, func(item Notification) bool { return item.ID == id })
	return len(n.items) != before
}

func (n *Notifier) pruneLocked(now time.Time) {
	n.items = slices.DeleteFunc(n.items, func(item Notification) bool { return !now.Before(item.ExpiresAt) })
}
