package core

import (
	"testing"
	"time"
)

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{950, "$950"},
		{350000, "$350,000"},
		{1234567, "$1,234,567"},
		{-4500, "-$4,500"},
		{350000.49, "$350,000"},
	}
	for _, tc := range cases {
		if got := formatCurrency(tc.in); got != tc.want {
			t.Errorf("formatCurrency(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatDateAndTime(t *testing.T) {
	at := time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)
	if got := formatDate(at); got != "Saturday, March 14, 2026" {
		t.Errorf("formatDate = %q", got)
	}
	if got := formatTime(at); got != "3:30 PM" {
		t.Errorf("formatTime = %q", got)
	}
	if got := formatWindow(at, at.Add(time.Hour)); got != "3:30 PM - 4:30 PM" {
		t.Errorf("formatWindow = %q", got)
	}
}
