package core

import (
	"context"
	"fmt"

	"estatecore/internal/notify"
	"estatecore/pkg/domain"
)

// CreateOffer records a client's bid against an Active listing.
func (s *Service) CreateOffer(ctx context.Context, offer Offer) (Offer, Result, error) {
	var created Offer
	res, err := s.run(ctx, "create_offer", func(tx domain.Transaction, events *[]notify.Event) error {
		view := tx.Snapshot()
		lc, err := resolveListingContext(view, offer.ListingID)
		if err != nil {
			return err
		}
		if lc.listing.Status != domain.ListingActive {
			return domain.InvalidStateError{
				Entity: domain.EntityListing,
				ID:     lc.listing.ID,
				Status: string(lc.listing.Status),
				Reason: "cannot create an offer for a non-active listing",
			}
		}
		client, err := resolveClient(view, offer.ClientID)
		if err != nil {
			return err
		}

		created, err = tx.CreateOffer(offer)
		if err != nil {
			return err
		}

		message := fmt.Sprintf("A new offer of %s has been received for %s", formatCurrency(created.OfferPrice), lc.property.Address)
		appendEvent(events, agentEvent(lc,
			notify.KindInfo,
			"New Offer Received",
			message,
			EntityOffer,
			created.ID,
			"/real-estate/offers/"+created.ID,
		))
		appendEvent(events, managerEvent(
			notify.KindInfo,
			"New Offer Received",
			message,
			EntityOffer,
			created.ID,
			"/real-estate/offers/"+created.ID,
		))
		appendEvent(events, clientEmailEvent(client,
			"Offer Submission Confirmation",
			"offer-confirmation",
			EntityOffer,
			created.ID,
			offerEmailData(client, lc, created),
		))
		return nil
	})
	return created, res, err
}

// UpdateOffer replaces an offer's fields. A transition into Accepted moves
// the listing to Pending; other status transitions leave the listing alone.
func (s *Service) UpdateOffer(ctx context.Context, id string, updated Offer) (Offer, Result, error) {
	var result Offer
	res, err := s.run(ctx, "update_offer", func(tx domain.Transaction, events *[]notify.Event) error {
		view := tx.Snapshot()
		current, ok := view.FindOffer(id)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntityOffer, ID: id}
		}
		lc, err := resolveListingContext(view, updated.ListingID)
		if err != nil {
			return err
		}
		client, err := resolveClient(view, updated.ClientID)
		if err != nil {
			return err
		}

		result, err = tx.UpdateOffer(id, func(o *Offer) error {
			o.ListingID = updated.ListingID
			o.ClientID = updated.ClientID
			o.OfferPrice = updated.OfferPrice
			o.OfferDate = updated.OfferDate
			o.ExpirationDate = updated.ExpirationDate
			o.Status = updated.Status
			o.Contingencies = updated.Contingencies
			o.Notes = updated.Notes
			return nil
		})
		if err != nil {
			return err
		}

		if result.Status == domain.OfferAccepted && current.Status != domain.OfferAccepted {
			if _, err := tx.UpdateListing(lc.listing.ID, func(l *Listing) error {
				l.Status = domain.ListingPending
				return nil
			}); err != nil {
				return err
			}
		}

		if current.Status != result.Status {
			appendEvent(events, agentEvent(lc,
				notify.KindInfo,
				"Offer Status Updated",
				fmt.Sprintf("The offer for %s has been updated to %s", lc.property.Address, result.Status),
				EntityOffer,
				id,
				"/real-estate/offers/"+id,
			))
			if subject, template, ok := offerStatusEmail(result.Status); ok {
				data := offerEmailData(client, lc, result)
				data["notes"] = result.Notes
				appendEvent(events, clientEmailEvent(client, subject, template, EntityOffer, id, data))
			}
		}
		return nil
	})
	return result, res, err
}

// DeleteOffer removes an offer. Deletion is blocked while a transaction
// references it; no entity cascade occurs.
func (s *Service) DeleteOffer(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_offer", func(tx domain.Transaction, events *[]notify.Event) error {
		view := tx.Snapshot()
		offer, ok := view.FindOffer(id)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntityOffer, ID: id}
		}
		for _, txn := range view.ListSaleTransactions() {
			if txn.OfferID == id {
				return domain.ConflictError{
					Entity: domain.EntityOffer,
					ID:     id,
					Reason: "cannot delete an offer with an associated transaction",
				}
			}
		}
		lc, lcErr := resolveListingContext(view, offer.ListingID)
		client, clientErr := resolveClient(view, offer.ClientID)
		if err := tx.DeleteOffer(id); err != nil {
			return err
		}
		if lcErr == nil {
			appendEvent(events, agentEvent(lc,
				notify.KindInfo,
				"Offer Deleted",
				fmt.Sprintf("The offer for %s has been deleted", lc.property.Address),
				EntityOffer,
				id,
				"",
			))
			if clientErr == nil {
				appendEvent(events, clientEmailEvent(client,
					"Offer Deleted",
					"offer-deleted",
					EntityOffer,
					id,
					offerEmailData(client, lc, offer),
				))
			}
		}
		return nil
	})
}

// offerStatusEmail maps an offer status to the client email it triggers.
func offerStatusEmail(status domain.OfferStatus) (subject, template string, ok bool) {
	switch status {
	case domain.OfferAccepted:
		return "Your Offer Has Been Accepted", "offer-accepted", true
	case domain.OfferRejected:
		return "Your Offer Status Update", "offer-rejected", true
	case domain.OfferCountered:
		return "Counter Offer Received", "offer-countered", true
	case domain.OfferWithdrawn:
		return "Offer Withdrawn Confirmation", "offer-withdrawn", true
	}
	return "", "", false
}

func offerEmailData(client Client, lc listingContext, offer Offer) map[string]string {
	data := map[string]string{
		"clientName":      client.FullName(),
		"propertyAddress": lc.property.FullAddress(),
		"offerAmount":     formatCurrency(offer.OfferPrice),
		"offerDate":       formatDate(offer.OfferDate),
		"agentName":       lc.agent.FullName(),
		"agentEmail":      lc.agent.Email,
	}
	if offer.ExpirationDate != nil {
		data["expirationDate"] = formatDate(*offer.ExpirationDate)
	}
	return data
}

// GetOffer fetches an offer by ID.
func (s *Service) GetOffer(ctx context.Context, id string) (Offer, error) {
	var offer Offer
	err := s.view(ctx, "get_offer", func(view domain.TransactionView) error {
		found, ok := view.FindOffer(id)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntityOffer, ID: id}
		}
		offer = found
		return nil
	})
	return offer, err
}

// ListOffers returns all offers.
func (s *Service) ListOffers() []Offer {
	return s.store.ListOffers()
}
