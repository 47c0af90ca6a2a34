package core

import (
	"context"
	"fmt"
	"sort"

	"estatecore/pkg/domain"
)

// NewShowingOverlapRule returns the commit-time rule rejecting overlapping
// showing windows on the same listing.
func NewShowingOverlapRule() domain.Rule {
	return showingOverlapRule{}
}

type showingOverlapRule struct{}

func (showingOverlapRule) Name() string { return "showing_overlap" }

func (showingOverlapRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	byListing := make(map[string][]domain.Showing)
	for _, showing := range view.ListShowings() {
		byListing[showing.ListingID] = append(byListing[showing.ListingID], showing)
	}

	res := domain.Result{}
	for listingID, showings := range byListing {
		sort.Slice(showings, func(i, j int) bool { return showings[i].StartTime.Before(showings[j].StartTime) })
		for i := 1; i < len(showings); i++ {
			prev, cur := showings[i-1], showings[i]
			if overlaps(cur.StartTime, cur.EndTime, prev.StartTime, prev.EndTime) {
				res.Violations = append(res.Violations, domain.Violation{
					Rule:     "showing_overlap",
					Severity: domain.SeverityBlock,
					Message:  fmt.Sprintf("showings %s and %s overlap on listing %s", prev.ID, cur.ID, listingID),
					Entity:   domain.EntityShowing,
					EntityID: cur.ID,
				})
			}
		}
	}
	return res, nil
}
