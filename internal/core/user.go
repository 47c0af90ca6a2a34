package core

import (
	"context"
	"fmt"
	"strings"

	"estatecore/internal/notify"
	"estatecore/pkg/domain"
)

// CreateUser registers a platform user. New users are active unless created
// otherwise.
func (s *Service) CreateUser(ctx context.Context, user User) (User, Result, error) {
	var created User
	res, err := s.run(ctx, "create_user", func(tx domain.Transaction, _ *[]notify.Event) error {
		if strings.TrimSpace(user.Email) == "" {
			return fmt.Errorf("user email required")
		}
		var err error
		created, err = tx.CreateUser(user)
		return err
	})
	return created, res, err
}

// UpdateUser mutates a user using the provided mutator.
func (s *Service) UpdateUser(ctx context.Context, id string, mutator func(*User) error) (User, Result, error) {
	var updated User
	res, err := s.run(ctx, "update_user", func(tx domain.Transaction, _ *[]notify.Event) error {
		var err error
		updated, err = tx.UpdateUser(id, mutator)
		return err
	})
	return updated, res, err
}

// DeleteUser removes a user. Deletion is blocked while any listing names the
// user as its agent.
func (s *Service) DeleteUser(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_user", func(tx domain.Transaction, _ *[]notify.Event) error {
		view := tx.Snapshot()
		if _, ok := view.FindUser(id); !ok {
			return domain.NotFoundError{Entity: domain.EntityUser, ID: id}
		}
		for _, listing := range view.ListListings() {
			if listing.AgentID == id {
				return domain.ConflictError{
					Entity: domain.EntityUser,
					ID:     id,
					Reason: "cannot delete user with associated listings",
				}
			}
		}
		return tx.DeleteUser(id)
	})
}

// GetUser fetches a user by ID.
func (s *Service) GetUser(ctx context.Context, id string) (User, error) {
	var user User
	err := s.view(ctx, "get_user", func(view domain.TransactionView) error {
		found, ok := view.FindUser(id)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntityUser, ID: id}
		}
		user = found
		return nil
	})
	return user, err
}

// ListUsers returns all users.
func (s *Service) ListUsers() []User {
	return s.store.ListUsers()
}
