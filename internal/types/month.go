package types

import (
	"fmt"
	"strings"
	"time"
)

// Statements store the billing month by its Spanish name ("enero".."diciembre")
// alongside the numeric year, matching the operator-facing records.
var monthNames = map[time.Month]string{
	time.January:   "enero",
	time.February:  "febrero",
	time.March:     "marzo",
	time.April:     "abril",
	time.May:       "mayo",
	time.June:      "junio",
	time.July:      "julio",
	time.August:    "agosto",
	time.September: "septiembre",
	time.October:   "octubre",
	time.November:  "noviembre",
	time.December:  "diciembre",
}

// MonthName returns the Spanish name for a month
func MonthName(m time.Month) string {
	return monthNames[m]
}

// MonthFromName resolves a Spanish month name back to a time.Month
func MonthFromName(name string) (time.Month, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for m, n := range monthNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("invalid month name: %s", name)
}

// PeriodBounds returns the first and last day of the given month, both at
// midnight UTC. The billing window is a closed interval on both ends.
func PeriodBounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// DateOnly normalizes a timestamp to midnight UTC so closed-interval day
// arithmetic is not skewed by time-of-day components.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
