package core

import (
	"context"
	"fmt"

	"estatecore/pkg/domain"
)

// NewReferenceIntegrityRule returns the commit-time rule verifying that every
// row written in the transaction resolves its foreign references: listings to
// properties and agents, showings and offers to listings and clients,
// transactions to offers. Deletes are not re-checked here; dependent records
// are covered by the per-operation deletion guards.
func NewReferenceIntegrityRule() domain.Rule {
	return referenceIntegrityRule{}
}

type referenceIntegrityRule struct{}

func (referenceIntegrityRule) Name() string { return "reference_integrity" }

func (referenceIntegrityRule) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	missing := func(entity domain.EntityType, id string, message string) {
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "reference_integrity",
			Severity: domain.SeverityBlock,
			Message:  message,
			Entity:   entity,
			EntityID: id,
		})
	}

	for _, change := range changes {
		if change.Action == domain.ActionDelete {
			continue
		}
		switch change.Entity {
		case domain.EntityListing:
			listing, err := decodeChangePayload[domain.Listing](change.After)
			if err != nil {
				return domain.Result{}, err
			}
			if _, ok := view.FindProperty(listing.PropertyID); !ok {
				missing(domain.EntityListing, listing.ID, fmt.Sprintf("listing %s references missing property %s", listing.ID, listing.PropertyID))
			}
			if _, ok := view.FindUser(listing.AgentID); !ok {
				missing(domain.EntityListing, listing.ID, fmt.Sprintf("listing %s references missing agent %s", listing.ID, listing.AgentID))
			}
		case domain.EntityShowing:
			showing, err := decodeChangePayload[domain.Showing](change.After)
			if err != nil {
				return domain.Result{}, err
			}
			if _, ok := view.FindListing(showing.ListingID); !ok {
				missing(domain.EntityShowing, showing.ID, fmt.Sprintf("showing %s references missing listing %s", showing.ID, showing.ListingID))
			}
			if _, ok := view.FindClient(showing.ClientID); !ok {
				missing(domain.EntityShowing, showing.ID, fmt.Sprintf("showing %s references missing client %s", showing.ID, showing.ClientID))
			}
		case domain.EntityOffer:
			offer, err := decodeChangePayload[domain.Offer](change.After)
			if err != nil {
				return domain.Result{}, err
			}
			if _, ok := view.FindListing(offer.ListingID); !ok {
				missing(domain.EntityOffer, offer.ID, fmt.Sprintf("offer %s references missing listing %s", offer.ID, offer.ListingID))
			}
			if _, ok := view.FindClient(offer.ClientID); !ok {
				missing(domain.EntityOffer, offer.ID, fmt.Sprintf("offer %s references missing client %s", offer.ID, offer.ClientID))
			}
		case domain.EntitySaleTransaction:
			txn, err := decodeChangePayload[domain.SaleTransaction](change.After)
			if err != nil {
				return domain.Result{}, err
			}
			if _, ok := view.FindOffer(txn.OfferID); !ok {
				missing(domain.EntitySaleTransaction, txn.ID, fmt.Sprintf("transaction %s references missing offer %s", txn.ID, txn.OfferID))
			}
		}
	}
	return res, nil
}
