package core

import (
	"context"
	"fmt"

	"estatecore/internal/notify"
	"estatecore/pkg/domain"
)

func transactionForOffer(view domain.TransactionView, offerID, excludeID string) (SaleTransaction, bool) {
	for _, txn := range view.ListSaleTransactions() {
		if txn.ID == excludeID {
			continue
		}
		if txn.OfferID == offerID {
			return txn, true
		}
	}
	return SaleTransaction{}, false
}

// resolveOfferContext loads an offer with its listing, property, agent, and
// client for transaction operations.
func resolveOfferContext(view domain.TransactionView, offerID string) (Offer, listingContext, Client, error) {
	offer, ok := view.FindOffer(offerID)
	if !ok {
		return Offer{}, listingContext{}, Client{}, domain.NotFoundError{Entity: domain.EntityOffer, ID: offerID}
	}
	lc, err := resolveListingContext(view, offer.ListingID)
	if err != nil {
		return Offer{}, listingContext{}, Client{}, err
	}
	client, err := resolveClient(view, offer.ClientID)
	if err != nil {
		return Offer{}, listingContext{}, Client{}, err
	}
	return offer, lc, client, nil
}

// CreateTransaction opens the closing record for an Accepted offer. The
// listing and property both move to Sold, and the property records the offer
// price as its sale price.
func (s *Service) CreateTransaction(ctx context.Context, txn SaleTransaction) (SaleTransaction, Result, error) {
	var created SaleTransaction
	res, err := s.run(ctx, "create_transaction", func(tx domain.Transaction, events *[]notify.Event) error {
		view := tx.Snapshot()
		offer, lc, client, err := resolveOfferContext(view, txn.OfferID)
		if err != nil {
			return err
		}
		if offer.Status != domain.OfferAccepted {
			return domain.InvalidStateError{
				Entity: domain.EntityOffer,
				ID:     offer.ID,
				Status: string(offer.Status),
				Reason: "cannot create a transaction for a non-accepted offer",
			}
		}
		if existing, ok := transactionForOffer(view, offer.ID, ""); ok {
			return domain.ConflictError{
				Entity: domain.EntityOffer,
				ID:     offer.ID,
				Reason: fmt.Sprintf("offer already has transaction %s", existing.ID),
			}
		}

		created, err = tx.CreateSaleTransaction(txn)
		if err != nil {
			return err
		}
		if _, err := tx.UpdateListing(lc.listing.ID, func(l *Listing) error {
			l.Status = domain.ListingSold
			return nil
		}); err != nil {
			return err
		}
		salePrice := offer.OfferPrice
		if _, err := tx.UpdateProperty(lc.property.ID, func(p *Property) error {
			p.Status = domain.PropertySold
			p.SalePrice = &salePrice
			return nil
		}); err != nil {
			return err
		}

		appendEvent(events, agentEvent(lc,
			notify.KindInfo,
			"New Transaction Created",
			fmt.Sprintf("A new transaction has been created for the sale of %s", lc.property.Address),
			EntitySaleTransaction,
			created.ID,
			"/real-estate/transactions/"+created.ID,
		))
		appendEvent(events, managerEvent(
			notify.KindInfo,
			"New Transaction Created",
			fmt.Sprintf("A new transaction has been created for the sale of %s for %s", lc.property.Address, formatCurrency(offer.OfferPrice)),
			EntitySaleTransaction,
			created.ID,
			"/real-estate/transactions/"+created.ID,
		))
		appendEvent(events, clientEmailEvent(client,
			"Property Sale Transaction Initiated",
			"transaction-created",
			EntitySaleTransaction,
			created.ID,
			map[string]string{
				"clientName":      client.FullName(),
				"propertyAddress": lc.property.FullAddress(),
				"salePrice":       formatCurrency(offer.OfferPrice),
				"closingDate":     formatDate(created.ClosingDate),
				"agentName":       lc.agent.FullName(),
				"agentEmail":      lc.agent.Email,
			},
		))
		return nil
	})
	return created, res, err
}

// UpdateTransaction replaces a transaction's fields. Moving it to a different
// offer re-checks the one-transaction-per-offer invariant; a changed closing
// date fires side effects only.
func (s *Service) UpdateTransaction(ctx context.Context, id string, updated SaleTransaction) (SaleTransaction, Result, error) {
	var result SaleTransaction
	res, err := s.run(ctx, "update_transaction", func(tx domain.Transaction, events *[]notify.Event) error {
		view := tx.Snapshot()
		current, ok := view.FindSaleTransaction(id)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntitySaleTransaction, ID: id}
		}
		offer, lc, client, err := resolveOfferContext(view, updated.OfferID)
		if err != nil {
			return err
		}
		if offer.Status != domain.OfferAccepted {
			return domain.InvalidStateError{
				Entity: domain.EntityOffer,
				ID:     offer.ID,
				Status: string(offer.Status),
				Reason: "cannot update a transaction with a non-accepted offer",
			}
		}
		if updated.OfferID != current.OfferID {
			if existing, ok := transactionForOffer(view, updated.OfferID, id); ok {
				return domain.ConflictError{
					Entity: domain.EntityOffer,
					ID:     updated.OfferID,
					Reason: fmt.Sprintf("offer already has transaction %s", existing.ID),
				}
			}
		}

		result, err = tx.UpdateSaleTransaction(id, func(t *SaleTransaction) error {
			t.OfferID = updated.OfferID
			t.ClosingDate = updated.ClosingDate
			t.CommissionAmount = updated.CommissionAmount
			t.ClosingCosts = updated.ClosingCosts
			t.Notes = updated.Notes
			return nil
		})
		if err != nil {
			return err
		}

		if !current.ClosingDate.Equal(result.ClosingDate) {
			appendEvent(events, agentEvent(lc,
				notify.KindInfo,
				"Transaction Updated",
				fmt.Sprintf("The closing date for %s has moved to %s", lc.property.Address, formatDate(result.ClosingDate)),
				EntitySaleTransaction,
				id,
				"/real-estate/transactions/"+id,
			))
			appendEvent(events, clientEmailEvent(client,
				"Transaction Closing Date Updated",
				"transaction-updated",
				EntitySaleTransaction,
				id,
				map[string]string{
					"clientName":          client.FullName(),
					"propertyAddress":     lc.property.FullAddress(),
					"previousClosingDate": formatDate(current.ClosingDate),
					"closingDate":         formatDate(result.ClosingDate),
					"agentName":           lc.agent.FullName(),
					"agentEmail":          lc.agent.Email,
				},
			))
		}
		return nil
	})
	return result, res, err
}

// DeleteTransaction removes a closing record and reverses its cascade: the
// listing returns to Active and the property to Available with its sale
// price cleared.
func (s *Service) DeleteTransaction(ctx context.Context, id string) (Result, error) {
	return s.run(ctx, "delete_transaction", func(tx domain.Transaction, events *[]notify.Event) error {
		view := tx.Snapshot()
		txn, ok := view.FindSaleTransaction(id)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntitySaleTransaction, ID: id}
		}
		_, lc, client, resolveErr := resolveOfferContext(view, txn.OfferID)
		if err := tx.DeleteSaleTransaction(id); err != nil {
			return err
		}
		if resolveErr != nil {
			return nil
		}
		if _, err := tx.UpdateListing(lc.listing.ID, func(l *Listing) error {
			l.Status = domain.ListingActive
			return nil
		}); err != nil {
			return err
		}
		if _, err := tx.UpdateProperty(lc.property.ID, func(p *Property) error {
			p.Status = domain.PropertyAvailable
			p.SalePrice = nil
			return nil
		}); err != nil {
			return err
		}

		message := fmt.Sprintf("The transaction for %s has been deleted", lc.property.Address)
		appendEvent(events, agentEvent(lc,
			notify.KindWarning,
			"Transaction Deleted",
			message,
			EntitySaleTransaction,
			id,
			"",
		))
		appendEvent(events, managerEvent(
			notify.KindWarning,
			"Transaction Deleted",
			message,
			EntitySaleTransaction,
			id,
			"",
		))
		appendEvent(events, clientEmailEvent(client,
			"Transaction Cancelled",
			"transaction-cancelled",
			EntitySaleTransaction,
			id,
			map[string]string{
				"clientName":      client.FullName(),
				"propertyAddress": lc.property.FullAddress(),
				"agentName":       lc.agent.FullName(),
				"agentEmail":      lc.agent.Email,
			},
		))
		return nil
	})
}

// GetTransaction fetches a transaction by ID.
func (s *Service) GetTransaction(ctx context.Context, id string) (SaleTransaction, error) {
	var txn SaleTransaction
	err := s.view(ctx, "get_transaction", func(view domain.TransactionView) error {
		found, ok := view.FindSaleTransaction(id)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntitySaleTransaction, ID: id}
		}
		txn = found
		return nil
	})
	return txn, err
}

// ListTransactions returns all transactions.
func (s *Service) ListTransactions() []SaleTransaction {
	return s.store.ListSaleTransactions()
}
