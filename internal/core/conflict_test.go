package core

import (
	"testing"
	"time"

	"estatecore/pkg/domain"
)

func TestOverlaps(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

	cases := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"partial overlap", at(10, 0), at(11, 0), at(10, 30), at(11, 30), true},
		{"contained", at(10, 0), at(12, 0), at(10, 30), at(11, 0), true},
		{"identical", at(10, 0), at(11, 0), at(10, 0), at(11, 0), true},
		{"adjacent", at(10, 0), at(11, 0), at(11, 0), at(12, 0), false},
		{"disjoint", at(10, 0), at(11, 0), at(13, 0), at(14, 0), false},
	}
	for _, tc := range cases {
		if got := overlaps(tc.s1, tc.e1, tc.s2, tc.e2); got != tc.want {
			t.Errorf("%s: overlaps = %v, want %v", tc.name, got, tc.want)
		}
		// Overlap is symmetric.
		if got := overlaps(tc.s2, tc.e2, tc.s1, tc.e1); got != tc.want {
			t.Errorf("%s (swapped): overlaps = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestFindShowingConflict(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	showings := []domain.Showing{
		{Base: domain.Base{ID: "s1"}, ListingID: "l1", StartTime: day.Add(10 * time.Hour), EndTime: day.Add(11 * time.Hour)},
		{Base: domain.Base{ID: "s2"}, ListingID: "l2", StartTime: day.Add(10 * time.Hour), EndTime: day.Add(11 * time.Hour)},
	}

	if _, ok := findShowingConflict(showings, "l1", "", day.Add(10*time.Hour+30*time.Minute), day.Add(11*time.Hour+30*time.Minute)); !ok {
		t.Fatal("expected conflict against s1")
	}
	// Other listings never conflict.
	if _, ok := findShowingConflict(showings, "l3", "", day.Add(10*time.Hour), day.Add(11*time.Hour)); ok {
		t.Fatal("unexpected conflict for unrelated listing")
	}
	// The showing being rescheduled is excluded from its own check.
	if _, ok := findShowingConflict(showings, "l1", "s1", day.Add(10*time.Hour), day.Add(11*time.Hour)); ok {
		t.Fatal("unexpected self conflict")
	}
}
