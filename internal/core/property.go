package core

import (
	"context"
	"fmt"

	"estatecore/internal/notify"
	"estatecore/pkg/domain"
)

// CreateProperty persists a new property record.
func (s *Service) CreateProperty(ctx context.Context, property Property) (Property, Result, error) {
	var created Property
	res, err := s.run(ctx, "create_property", func(tx domain.Transaction, _ *[]notify.Event) error {
		if property.Address == "" {
			return fmt.Errorf("property address required")
		}
		var err error
		created, err = tx.CreateProperty(property)
		return err
	})
	return created, res, err
}

// UpdateProperty mutates a property using the provided mutator.
func (s *Service) UpdateProperty(ctx context.Context, id string, mutator func(*Property) error) (Property, Result, error) {
	var updated Property
	res, err := s.run(ctx, "update_property", func(tx domain.Transaction, _ *[]notify.Event) error {
		var err error
		updated, err = tx.UpdateProperty(id, mutator)
		return err
	})
	return updated, res, err
}

// DeleteProperty removes a property. Deletion is blocked while any Active
// listing references it.
func (s *Service) DeleteProperty(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_property", func(tx domain.Transaction, _ *[]notify.Event) error {
		view := tx.Snapshot()
		if _, ok := view.FindProperty(id); !ok {
			return domain.NotFoundError{Entity: domain.EntityProperty, ID: id}
		}
		for _, listing := range view.ListListings() {
			if listing.PropertyID == id && listing.Status == domain.ListingActive {
				return domain.ConflictError{
					Entity: domain.EntityProperty,
					ID:     id,
					Reason: "cannot delete property with active listings",
				}
			}
		}
		return tx.DeleteProperty(id)
	})
}

// GetProperty fetches a property by ID.
func (s *Service) GetProperty(ctx context.Context, id string) (Property, error) {
	var property Property
	err := s.view(ctx, "get_property", func(view domain.TransactionView) error {
		found, ok := view.FindProperty(id)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntityProperty, ID: id}
		}
		property = found
		return nil
	})
	return property, err
}

// ListProperties returns all properties.
func (s *Service) ListProperties() []Property {
	return s.store.ListProperties()
}
