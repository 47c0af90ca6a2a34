package notify

import (
	"context"
	"log/slog"

	"estatecore/pkg/domain"
)

// StoreDirectory resolves recipients from the domain user records.
type StoreDirectory struct {
	store domain.PersistentStore
}

// NewStoreDirectory constructs a directory backed by the persistent store.
func NewStoreDirectory(store domain.PersistentStore) *StoreDirectory {
	return &StoreDirectory{store: store}
}

// ActiveUsersByRole returns active users carrying the named role.
func (d *StoreDirectory) ActiveUsersByRole(_ context.Context, role string) ([]Recipient, error) {
	var out []Recipient
	for _, user := range d.store.ListUsers() {
		if !user.Active || !user.HasRole(role) {
			continue
		}
		out = append(out, Recipient{UserID: user.ID, Email: user.Email})
	}
	return out, nil
}

// User resolves a single user by ID.
func (d *StoreDirectory) User(_ context.Context, id string) (Recipient, bool) {
	user, ok := d.store.GetUser(id)
	if !ok {
		return Recipient{}, false
	}
	return Recipient{UserID: user.ID, Email: user.Email}, true
}

// LogMailer writes outbound email to the structured log instead of a wire
// transport. It stands in where no SMTP relay is configured.
type LogMailer struct {
	Logger *slog.Logger
}

// Send logs the email envelope.
func (m LogMailer) Send(_ context.Context, email Email) error {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("email dispatched", "to", email.To, "subject", email.Subject, "template", email.Template)
	return nil
}
