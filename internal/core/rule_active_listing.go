package core

import (
	"context"
	"fmt"

	"estatecore/pkg/domain"
)

// NewSingleActiveListingRule returns the commit-time rule enforcing at most
// one Active listing per property.
func NewSingleActiveListingRule() domain.Rule {
	return singleActiveListingRule{}
}

type singleActiveListingRule struct{}

func (singleActiveListingRule) Name() string { return "single_active_listing" }

func (singleActiveListingRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	active := make(map[string]int)
	for _, listing := range view.ListListings() {
		if listing.Status == domain.ListingActive {
			active[listing.PropertyID]++
		}
	}

	res := domain.Result{}
	for propertyID, count := range active {
		if count > 1 {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "single_active_listing",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("property %s has %d active listings", propertyID, count),
				Entity:   domain.EntityProperty,
				EntityID: propertyID,
			})
		}
	}
	return res, nil
}
