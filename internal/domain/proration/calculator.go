// Package proration implements the day-weighted fee arithmetic shared by
// outage credits and mid-month installation billing. Everything here is pure:
// no state, no side effects, safe to call from concurrent billing runs.
package proration

import (
	"time"

	"github.com/shopspring/decimal"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/types"
)

// DaysInMonth returns the number of calendar days in the given month,
// accounting for leap years.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysInOverlap returns the inclusive day count of the intersection of two
// closed date ranges, or 0 if they are disjoint. Both ranges are inclusive on
// both ends: a one-day outage (start == end) counts as 1.
func DaysInOverlap(rangeStart, rangeEnd, periodStart, periodEnd time.Time) int {
	rangeStart = types.DateOnly(rangeStart)
	rangeEnd = types.DateOnly(rangeEnd)
	periodStart = types.DateOnly(periodStart)
	periodEnd = types.DateOnly(periodEnd)

	start := rangeStart
	if periodStart.After(start) {
		start = periodStart
	}
	end := rangeEnd
	if periodEnd.Before(end) {
		end = periodEnd
	}

	if end.Before(start) {
		return 0
	}

	return int(end.Sub(start).Hours()/24) + 1
}

// Prorate converts a monthly fee into a day-weighted partial amount for the
// given reference month: round(fee / daysInMonth * overlappingDays), rounded
// half-up to the nearest whole currency unit.
//
// An overlappingDays outside [0, daysInMonth] is a caller contract violation
// and fails fast rather than being clamped; silent clamping would hide a
// billing-period misconfiguration upstream.
func Prorate(monthlyFee decimal.Decimal, year int, month time.Month, overlappingDays int) (decimal.Decimal, error) {
	totalDays := DaysInMonth(year, month)

	if overlappingDays < 0 || overlappingDays > totalDays {
		return decimal.Zero, ierr.NewError("overlapping days out of range").
			WithHintf("Overlapping days must be between 0 and %d, got %d", totalDays, overlappingDays).
			WithReportableDetails(map[string]any{
				"overlapping_days":  overlappingDays,
				"days_in_month":     totalDays,
				"reference_year":    year,
				"reference_month":   int(month),
			}).
			Mark(ierr.ErrInvalidRange)
	}

	if monthlyFee.IsNegative() {
		return decimal.Zero, ierr.NewError("monthly fee must be non negative").
			WithHintf("Monthly fee cannot be negative, got %s", monthlyFee).
			Mark(ierr.ErrInvalidRange)
	}

	amount := monthlyFee.
		Div(decimal.NewFromInt(int64(totalDays))).
		Mul(decimal.NewFromInt(int64(overlappingDays)))

	// Whole currency units; decimal.Round is half away from zero, which is
	// half-up for the non-negative amounts handled here.
	return amount.Round(0), nil
}
