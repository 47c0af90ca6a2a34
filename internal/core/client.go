package core

import (
	"context"
	"strings"

	"estatecore/internal/notify"
	"estatecore/pkg/domain"
)

func clientEmailTaken(view domain.TransactionView, email, excludeID string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for _, existing := range view.ListClients() {
		if existing.ID == excludeID {
			continue
		}
		if strings.ToLower(strings.TrimSpace(existing.Email)) == email {
			return true
		}
	}
	return false
}

// CreateClient persists a new client. The email, when present, must be
// unique among clients; a referenced agent must exist.
func (s *Service) CreateClient(ctx context.Context, client Client) (Client, Result, error) {
	var created Client
	res, err := s.run(ctx, "create_client", func(tx domain.Transaction, _ *[]notify.Event) error {
		view := tx.Snapshot()
		if clientEmailTaken(view, client.Email, "") {
			return domain.ConflictError{
				Entity: domain.EntityClient,
				Reason: "a client with this email already exists",
			}
		}
		if client.AgentID != nil {
			if _, ok := view.FindUser(*client.AgentID); !ok {
				return domain.NotFoundError{Entity: domain.EntityUser, ID: *client.AgentID}
			}
		}
		var err error
		created, err = tx.CreateClient(client)
		return err
	})
	return created, res, err
}

// UpdateClient mutates a client, re-validating email uniqueness and the agent
// reference against the mutated record.
func (s *Service) UpdateClient(ctx context.Context, id string, mutator func(*Client) error) (Client, Result, error) {
	var updated Client
	res, err := s.run(ctx, "update_client", func(tx domain.Transaction, _ *[]notify.Event) error {
		view := tx.Snapshot()
		var err error
		updated, err = tx.UpdateClient(id, func(c *Client) error {
			if err := mutator(c); err != nil {
				return err
			}
			if clientEmailTaken(view, c.Email, id) {
				return domain.ConflictError{
					Entity: domain.EntityClient,
					ID:     id,
					Reason: "another client with this email already exists",
				}
			}
			if c.AgentID != nil {
				if _, ok := view.FindUser(*c.AgentID); !ok {
					return domain.NotFoundError{Entity: domain.EntityUser, ID: *c.AgentID}
				}
			}
			return nil
		})
		return err
	})
	return updated, res, err
}

// DeleteClient removes a client. Deletion is blocked while any showing or
// offer references the client.
func (s *Service) DeleteClient(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_client", func(tx domain.Transaction, _ *[]notify.Event) error {
		view := tx.Snapshot()
		if _, ok := view.FindClient(id); !ok {
			return domain.NotFoundError{Entity: domain.EntityClient, ID: id}
		}
		for _, showing := range view.ListShowings() {
			if showing.ClientID == id {
				return domain.ConflictError{
					Entity: domain.EntityClient,
					ID:     id,
					Reason: "cannot delete client with associated showings",
				}
			}
		}
		for _, offer := range view.ListOffers() {
			if offer.ClientID == id {
				return domain.ConflictError{
					Entity: domain.EntityClient,
					ID:     id,
					Reason: "cannot delete client with associated offers",
				}
			}
		}
		return tx.DeleteClient(id)
	})
}

// GetClient fetches a client by ID.
func (s *Service) GetClient(ctx context.Context, id string) (Client, error) {
	var client Client
	err := s.view(ctx, "get_client", func(view domain.TransactionView) error {
		found, ok := view.FindClient(id)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntityClient, ID: id}
		}
		client = found
		return nil
	})
	return client, err
}

// ListClients returns all clients.
func (s *Service) ListClients() []Client {
	return s.store.ListClients()
}
