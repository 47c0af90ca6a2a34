package core

import (
	"fmt"
	"strings"
	"time"
)

// formatCurrency renders a whole-dollar USD amount with thousands separators,
// e.g. 350000 -> "$350,000".
func formatCurrency(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	whole := int64(amount + 0.5)
	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if negative {
		return "-$" + b.String()
	}
	return "$" + b.String()
}

// formatDate renders a long-form date, e.g. "Monday, January 2, 2006".
func formatDate(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}

// formatTime renders a clock time, e.g. "3:04 PM".
func formatTime(t time.Time) string {
	return t.Format("3:04 PM")
}

// formatDateTime renders date and time together for notification messages.
func formatDateTime(t time.Time) string {
	return formatDate(t) + " " + formatTime(t)
}

// formatWindow renders a showing window, e.g. "3:00 PM - 4:00 PM".
func formatWindow(start, end time.Time) string {
	return formatTime(start) + " - " + formatTime(end)
}
