package core

import (
	"context"
	"fmt"

	"estatecore/pkg/domain"
)

// NewTransactionPerOfferRule returns the commit-time rule enforcing at most
// one transaction per offer.
func NewTransactionPerOfferRule() domain.Rule {
	return transactionPerOfferRule{}
}

type transactionPerOfferRule struct{}

func (transactionPerOfferRule) Name() string { return "transaction_per_offer" }

func (transactionPerOfferRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	perOffer := make(map[string]int)
	for _, txn := range view.ListSaleTransactions() {
		perOffer[txn.OfferID]++
	}

	res := domain.Result{}
	for offerID, count := range perOffer {
		if count > 1 {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "transaction_per_offer",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("offer %s has %d transactions", offerID, count),
				Entity:   domain.EntityOffer,
				EntityID: offerID,
			})
		}
	}
	return res, nil
}
