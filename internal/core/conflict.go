package core

import (
	"time"

	"estatecore/pkg/domain"
)

// overlaps reports whether the half-open intervals [start, end) and
// [otherStart, otherEnd) intersect.
func overlaps(start, end, otherStart, otherEnd time.Time) bool {
	return start.Before(otherEnd) && otherStart.Before(end)
}

// findShowingConflict tests a candidate window against every other showing of
// the same listing, skipping excludeID (the showing being updated). It returns
// the first conflicting showing found.
func findShowingConflict(showings []domain.Showing, listingID, excludeID string, start, end time.Time) (domain.Showing, bool) {
	for _, existing := range showings {
		if existing.ListingID != listingID || existing.ID == excludeID {
			continue
		}
		if overlaps(start, end, existing.StartTime, existing.EndTime) {
			return existing, true
		}
	}
	return domain.Showing{}, false
}
