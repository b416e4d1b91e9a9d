package proration

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	ierr "github.com/zandres28/imvcrm/internal/errors"
)

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		want  int
	}{
		{name: "january", year: 2025, month: time.January, want: 31},
		{name: "february non leap", year: 2025, month: time.February, want: 28},
		{name: "february leap", year: 2024, month: time.February, want: 29},
		{name: "february century non leap", year: 1900, month: time.February, want: 28},
		{name: "february 400 year leap", year: 2000, month: time.February, want: 29},
		{name: "april", year: 2025, month: time.April, want: 30},
		{name: "december", year: 2025, month: time.December, want: 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysInMonth(tt.year, tt.month))
		})
	}
}

func TestDaysInOverlap(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name        string
		rangeStart  time.Time
		rangeEnd    time.Time
		periodStart time.Time
		periodEnd   time.Time
		want        int
	}{
		{
			name:        "range fully inside period",
			rangeStart:  day(2025, time.February, 10),
			rangeEnd:    day(2025, time.February, 12),
			periodStart: day(2025, time.February, 1),
			periodEnd:   day(2025, time.February, 28),
			want:        3,
		},
		{
			name:        "single day range",
			rangeStart:  day(2025, time.February, 10),
			rangeEnd:    day(2025, time.February, 10),
			periodStart: day(2025, time.February, 1),
			periodEnd:   day(2025, time.February, 28),
			want:        1,
		},
		{
			name:        "disjoint ranges",
			rangeStart:  day(2025, time.January, 1),
			rangeEnd:    day(2025, time.January, 31),
			periodStart: day(2025, time.February, 1),
			periodEnd:   day(2025, time.February, 28),
			want:        0,
		},
		{
			name:        "range spans month boundary march side",
			rangeStart:  day(2025, time.March, 30),
			rangeEnd:    day(2025, time.April, 2),
			periodStart: day(2025, time.March, 1),
			periodEnd:   day(2025, time.March, 31),
			want:        2,
		},
		{
			name:        "range spans month boundary april side",
			rangeStart:  day(2025, time.March, 30),
			rangeEnd:    day(2025, time.April, 2),
			periodStart: day(2025, time.April, 1),
			periodEnd:   day(2025, time.April, 30),
			want:        2,
		},
		{
			name:        "range covers whole period",
			rangeStart:  day(2024, time.December, 15),
			rangeEnd:    day(2025, time.March, 15),
			periodStart: day(2025, time.February, 1),
			periodEnd:   day(2025, time.February, 28),
			want:        28,
		},
		{
			name:        "time of day components are ignored",
			rangeStart:  time.Date(2025, time.February, 10, 23, 59, 0, 0, time.UTC),
			rangeEnd:    time.Date(2025, time.February, 11, 0, 1, 0, 0, time.UTC),
			periodStart: day(2025, time.February, 1),
			periodEnd:   day(2025, time.February, 28),
			want:        2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaysInOverlap(tt.rangeStart, tt.rangeEnd, tt.periodStart, tt.periodEnd)
			assert.Equal(t, tt.want, got)
		})
	}
}

// A range split across a month boundary must bill every day exactly once.
func TestDaysInOverlapPartition(t *testing.T) {
	start := time.Date(2025, time.March, 30, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC)

	march := DaysInOverlap(start, end,
		time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC))
	april := DaysInOverlap(start, end,
		time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, 4, march+april)
}

// Splitting a month between two charges must reconstruct the fee to within
// one rounding unit, whatever the split point.
func TestProratePartition(t *testing.T) {
	fees := []decimal.Decimal{
		decimal.NewFromInt(90000),
		decimal.NewFromInt(99999),
		decimal.NewFromInt(45),
	}
	months := []struct {
		year  int
		month time.Month
	}{
		{2025, time.February},
		{2024, time.February},
		{2025, time.April},
		{2025, time.January},
	}

	for _, m := range months {
		n := DaysInMonth(m.year, m.month)
		for _, fee := range fees {
			for d := 0; d <= n; d++ {
				left, err := Prorate(fee, m.year, m.month, d)
				assert.NoError(t, err)
				right, err := Prorate(fee, m.year, m.month, n-d)
				assert.NoError(t, err)

				drift := left.Add(right).Sub(fee).Abs()
				assert.True(t, drift.LessThanOrEqual(decimal.NewFromInt(1)),
					"fee %s split %d/%d in %s %d drifts by %s", fee, d, n-d, m.month, m.year, drift)
			}
		}
	}
}

func TestProrate(t *testing.T) {
	tests := []struct {
		name    string
		fee     decimal.Decimal
		year    int
		month   time.Month
		days    int
		want    decimal.Decimal
		wantErr bool
	}{
		{
			name:  "three outage days in february",
			fee:   decimal.NewFromInt(90000),
			year:  2025,
			month: time.February,
			days:  3,
			want:  decimal.NewFromInt(9643),
		},
		{
			name:  "full month equals the fee",
			fee:   decimal.NewFromInt(90000),
			year:  2025,
			month: time.February,
			days:  28,
			want:  decimal.NewFromInt(90000),
		},
		{
			name:  "zero days is zero",
			fee:   decimal.NewFromInt(90000),
			year:  2025,
			month: time.February,
			days:  0,
			want:  decimal.Zero,
		},
		{
			name:  "half rounds up",
			fee:   decimal.NewFromInt(45),
			year:  2025,
			month: time.April,
			days:  1,
			want:  decimal.NewFromInt(2),
		},
		{
			name:  "leap february uses 29 days",
			fee:   decimal.NewFromInt(29000),
			year:  2024,
			month: time.February,
			days:  1,
			want:  decimal.NewFromInt(1000),
		},
		{
			name:    "negative days fails fast",
			fee:     decimal.NewFromInt(90000),
			year:    2025,
			month:   time.February,
			days:    -1,
			wantErr: true,
		},
		{
			name:    "days beyond month length fails fast",
			fee:     decimal.NewFromInt(90000),
			year:    2025,
			month:   time.February,
			days:    29,
			wantErr: true,
		},
		{
			name:    "negative fee is rejected",
			fee:     decimal.NewFromInt(-90000),
			year:    2025,
			month:   time.February,
			days:    3,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Prorate(tt.fee, tt.year, tt.month, tt.days)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, ierr.IsInvalidRange(err))
				return
			}
			assert.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}
