package core

import (
	"context"
	"fmt"

	"estatecore/internal/notify"
	"estatecore/pkg/domain"
)

func otherActiveListingExists(view domain.TransactionView, propertyID, excludeID string) bool {
	for _, listing := range view.ListListings() {
		if listing.ID == excludeID {
			continue
		}
		if listing.PropertyID == propertyID && listing.Status == domain.ListingActive {
			return true
		}
	}
	return false
}

// CreateListing persists a new listing for an existing property and agent. An
// Active listing must be the only Active listing for its property; creating
// it marks the property Available.
func (s *Service) CreateListing(ctx context.Context, listing Listing) (Listing, Result, error) {
	var created Listing
	res, err := s.run(ctx, "create_listing", func(tx domain.Transaction, events *[]notify.Event) error {
		view := tx.Snapshot()
		property, ok := view.FindProperty(listing.PropertyID)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntityProperty, ID: listing.PropertyID}
		}
		if _, ok := view.FindUser(listing.AgentID); !ok {
			return domain.NotFoundError{Entity: domain.EntityUser, ID: listing.AgentID}
		}
		if listing.Status == "" {
			listing.Status = domain.ListingActive
		}
		if listing.Status == domain.ListingActive && otherActiveListingExists(view, listing.PropertyID, "") {
			return domain.ConflictError{
				Entity: domain.EntityProperty,
				ID:     listing.PropertyID,
				Reason: "property already has an active listing",
			}
		}

		var err error
		created, err = tx.CreateListing(listing)
		if err != nil {
			return err
		}

		if created.Status == domain.ListingActive && property.Status != domain.PropertyAvailable {
			if _, err := tx.UpdateProperty(property.ID, func(p *Property) error {
				p.Status = domain.PropertyAvailable
				return nil
			}); err != nil {
				return err
			}
		}

		appendEvent(events, managerEvent(
			notify.KindInfo,
			"New Listing Created",
			fmt.Sprintf("A new listing has been created for %s at %s", property.FullAddress(), formatCurrency(created.ListPrice)),
			EntityListing,
			created.ID,
			"/real-estate/listings/"+created.ID,
		))
		return nil
	})
	return created, res, err
}

// UpdateListing replaces a listing's mutable fields and cascades the property
// status by the listing's new status.
func (s *Service) UpdateListing(ctx context.Context, id string, updated Listing) (Listing, Result, error) {
	var result Listing
	res, err := s.run(ctx, "update_listing", func(tx domain.Transaction, events *[]notify.Event) error {
		view := tx.Snapshot()
		current, ok := view.FindListing(id)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntityListing, ID: id}
		}
		property, ok := view.FindProperty(updated.PropertyID)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntityProperty, ID: updated.PropertyID}
		}
		agent, ok := view.FindUser(updated.AgentID)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntityUser, ID: updated.AgentID}
		}
		if updated.Status == domain.ListingActive && current.Status != domain.ListingActive &&
			otherActiveListingExists(view, updated.PropertyID, id) {
			return domain.ConflictError{
				Entity: domain.EntityProperty,
				ID:     updated.PropertyID,
				Reason: "property already has an active listing",
			}
		}

		var err error
		result, err = tx.UpdateListing(id, func(l *Listing) error {
			l.PropertyID = updated.PropertyID
			l.AgentID = updated.AgentID
			l.ListPrice = updated.ListPrice
			l.StartDate = updated.StartDate
			l.EndDate = updated.EndDate
			l.Status = updated.Status
			return nil
		})
		if err != nil {
			return err
		}

		if err := cascadePropertyForListing(tx, property, result, id); err != nil {
			return err
		}

		if current.Status != result.Status {
			appendEvent(events, notify.Event{
				TargetUserID: agent.ID,
				Kind:         notify.KindInfo,
				Title:        "Listing Status Updated",
				Message:      fmt.Sprintf("The listing for %s has been updated to %s", property.Address, result.Status),
				Module:       notify.Module,
				EntityType:   string(EntityListing),
				EntityID:     id,
				ActionURL:    "/real-estate/listings/" + id,
				SendEmail:    true,
			})
		}
		return nil
	})
	return result, res, err
}

// cascadePropertyForListing applies the listing-status to property-status
// cascade. Expired and Cancelled listings park the property as Inactive only
// when no other Active listing remains; the asymmetry is deliberate.
func cascadePropertyForListing(tx domain.Transaction, property Property, listing Listing, listingID string) error {
	switch listing.Status {
	case domain.ListingActive:
		if property.Status == domain.PropertyAvailable {
			return nil
		}
		_, err := tx.UpdateProperty(property.ID, func(p *Property) error {
			p.Status = domain.PropertyAvailable
			return nil
		})
		return err
	case domain.ListingSold:
		if property.Status == domain.PropertySold {
			return nil
		}
		_, err := tx.UpdateProperty(property.ID, func(p *Property) error {
			p.Status = domain.PropertySold
			return nil
		})
		return err
	case domain.ListingExpired, domain.ListingCancelled:
		if otherActiveListingExists(tx.Snapshot(), property.ID, listingID) {
			return nil
		}
		if property.Status == domain.PropertyInactive {
			return nil
		}
		_, err := tx.UpdateProperty(property.ID, func(p *Property) error {
			p.Status = domain.PropertyInactive
			return nil
		})
		return err
	}
	return nil
}

// DeleteListing removes a listing. Deletion is blocked while any showing or
// offer references it; removing the last Active listing parks the property
// as Inactive.
func (s *Service) DeleteListing(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_listing", func(tx domain.Transaction, _ *[]notify.Event) error {
		view := tx.Snapshot()
		listing, ok := view.FindListing(id)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntityListing, ID: id}
		}
		for _, showing := range view.ListShowings() {
			if showing.ListingID == id {
				return domain.ConflictError{
					Entity: domain.EntityListing,
					ID:     id,
					Reason: "cannot delete listing with scheduled showings",
				}
			}
		}
		for _, offer := range view.ListOffers() {
			if offer.ListingID == id {
				return domain.ConflictError{
					Entity: domain.EntityListing,
					ID:     id,
					Reason: "cannot delete listing with associated offers",
				}
			}
		}
		if err := tx.DeleteListing(id); err != nil {
			return err
		}
		if listing.Status == domain.ListingActive && !otherActiveListingExists(tx.Snapshot(), listing.PropertyID, id) {
			if _, ok := tx.Snapshot().FindProperty(listing.PropertyID); ok {
				if _, err := tx.UpdateProperty(listing.PropertyID, func(p *Property) error {
					p.Status = domain.PropertyInactive
					return nil
				}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// GetListing fetches a listing by ID.
func (s *Service) GetListing(ctx context.Context, id string) (Listing, error) {
	var listing Listing
	err := s.view(ctx, "get_listing", func(view domain.TransactionView) error {
		found, ok := view.FindListing(id)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntityListing, ID: id}
		}
		listing = found
		return nil
	})
	return listing, err
}

// ListListings returns all listings.
func (s *Service) ListListings() []Listing {
	return s.store.ListListings()
}
