// Package notify implements the side-effect dispatcher: best-effort
// notification and email delivery decoupled from lifecycle transitions.
package notify

import "context"

// Kind classifies an in-app notification.
type Kind string

// Notification kinds mirror the severities surfaced in the notification center.
const (
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

// RoleManager is the role expanded for manager-targeted events.
const RoleManager = "real_estate_manager"

// Module is the module tag carried on every dispatched notification.
const Module = "real_estate"

// Email describes an outbound message to a single address.
type Email struct {
	To       string
	Subject  string
	Template string
	Data     map[string]string
}

// Event is a transition side effect awaiting dispatch. Exactly one of
// TargetUserID or Role addresses the in-app channel; ClientEmail, when set,
// is delivered independently of either.
type Event struct {
	TargetUserID string
	Role         string
	Kind         Kind
	Title        string
	Message      string
	Module       string
	EntityType   string
	EntityID     string
	ActionURL    string
	SendEmail    bool
	ClientEmail  *Email
}

// Notification is a delivered in-app record retained by the Notifier.
type Notification struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Kind       Kind   `json:"kind"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	Module     string `json:"module"`
	EntityType string `json:"entity_type,omitempty"`
	EntityID   string `json:"entity_id,omitempty"`
	ActionURL  string `json:"action_url,omitempty"`
	Read       bool   `json:"read"`
	CreatedAt  int64  `json:"created_at"`
}

// Notifier delivers in-app notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Mailer delivers outbound email.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// Recipient is a resolved delivery target for a role-addressed event.
type Recipient struct {
	UserID string
	Email  string
}

// Directory resolves event targets against the current user set. Role
// expansion happens at dispatch time, so membership changes between enqueue
// and delivery are reflected.
type Directory interface {
	ActiveUsersByRole(ctx context.Context, role string) ([]Recipient, error)
	User(ctx context.Context, id string) (Recipient, bool)
}
