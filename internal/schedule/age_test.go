package schedule

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)

func dobDaysAgo(now time.Time, days int) string {
	return now.UTC().AddDate(0, 0, -days).Format(DOBLayout)
}

func TestCalculateAgeTotalDays(t *testing.T) {
	for _, n := range []int{0, 1, 6, 7, 13, 42, 50, 365} {
		t.Run(fmt.Sprintf("%d days ago", n), func(t *testing.T) {
			age := CalculateAge(dobDaysAgo(testNow, n), testNow)
			require.NotNil(t, age)
			assert.Equal(t, n, age.TotalDays)
			assert.Equal(t, n/7, age.TotalWeeks)
		})
	}
}

func TestCalculateAgeRejects(t *testing.T) {
	tests := []struct {
		name string
		dob  string
	}{
		{name: "empty", dob: ""},
		{name: "unparseable", dob: "not-a-date"},
		{name: "wrong shape", dob: "15-06-2025"},
		{name: "impossible date", dob: "2025-02-30"},
		{name: "future", dob: testNow.AddDate(0, 0, 1).Format(DOBLayout)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, CalculateAge(tt.dob, testNow))
		})
	}
}

func TestCalculateAgeBreakdown(t *testing.T) {
	tests := []struct {
		name        string
		dob         string
		now         time.Time
		years       int
		months      int
		days        int
		totalMonths int
		formatted   string
	}{
		{
			name: "plain breakdown",
			dob:  "2024-01-10", now: time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC),
			years: 1, months: 2, days: 5, totalMonths: 14,
			formatted: "1 year, 2 months, 5 days",
		},
		{
			name: "day underflow borrows previous month length",
			dob:  "2024-01-20", now: time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC),
			years: 0, months: 1, days: 19, totalMonths: 2,
			formatted: "1 month, 19 days",
		},
		{
			name: "month underflow borrows a year",
			dob:  "2024-10-05", now: time.Date(2025, 2, 5, 8, 0, 0, 0, time.UTC),
			years: 0, months: 4, days: 0, totalMonths: 4,
			formatted: "4 months",
		},
		{
			name: "exact month hides zero days",
			dob:  "2024-01-10", now: time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC),
			years: 0, months: 1, days: 0, totalMonths: 1,
			formatted: "1 month",
		},
		{
			name: "newborn shows zero days",
			dob:  "2025-06-15", now: testNow,
			years: 0, months: 0, days: 0, totalMonths: 0,
			formatted: "0 days",
		},
		{
			name: "singular units",
			dob:  "2024-06-14", now: testNow,
			years: 1, months: 0, days: 1, totalMonths: 12,
			formatted: "1 year, 1 day",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			age := CalculateAge(tt.dob, tt.now)
			require.NotNil(t, age)
			assert.Equal(t, tt.years, age.Years, "years")
			assert.Equal(t, tt.months, age.Months, "months")
			assert.Equal(t, tt.days, age.Days, "days")
			assert.Equal(t, tt.totalMonths, age.TotalMonths, "totalMonths")
			assert.Equal(t, tt.formatted, age.Formatted)
		})
	}
}

// TotalMonths counts calendar months regardless of day-of-month, so it may
// exceed the breakdown by one near month boundaries. That divergence is
// kept on purpose.
func TestTotalMonthsIgnoresDayOfMonth(t *testing.T) {
	age := CalculateAge("2024-01-20", time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))
	require.NotNil(t, age)
	assert.Equal(t, 1, age.Months)
	assert.Equal(t, 2, age.TotalMonths)
}

func TestDueDate(t *testing.T) {
	assert.Equal(t, "Jan 1, 2024", DueDate("2024-01-01", 0))
	assert.Equal(t, "Feb 12, 2024", DueDate("2024-01-01", 42))
	assert.Equal(t, "Mar 26, 2025", DueDate("2024-01-01", 450))
	assert.Equal(t, "", DueDate("garbage", 42))
}

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		name string
		dob  string
		want int
	}{
		{name: "due today", dob: dobDaysAgo(testNow, 42), want: 0},
		{name: "overdue the day after", dob: dobDaysAgo(testNow, 43), want: -1},
		{name: "remaining the day before", dob: dobDaysAgo(testNow, 41), want: 1},
		{name: "long overdue", dob: dobDaysAgo(testNow, 100), want: -58},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntil(tt.dob, 42, testNow))
		})
	}
}
