package schedule

import (
	"fmt"
	"strings"
	"time"
)

// DOBLayout is the only accepted birth date format.
const DOBLayout = "2006-01-02"

const day = 24 * time.Hour

// AgeBreakdown is the civil-calendar age of a baby at one instant.
//
// TotalMonths counts elapsed calendar months ignoring day-of-month, so it
// can disagree with the Years/Months/Days breakdown by one unit near month
// boundaries. It feeds progress display only, never due-date math, and the
// two month-counting schemes are intentionally not unified.
type AgeBreakdown struct {
	Years       int    `json:"years"`
	Months      int    `json:"months"`
	Days        int    `json:"days"`
	TotalDays   int    `json:"totalDays"`
	TotalWeeks  int    `json:"totalWeeks"`
	TotalMonths int    `json:"totalMonths"`
	Formatted   string `json:"formatted"`
}

// ParseDOB parses a YYYY-MM-DD birth date into UTC midnight.
func ParseDOB(dob string) (time.Time, bool) {
	t, err := time.Parse(DOBLayout, dob)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CalculateAge computes the age breakdown for a birth date at the given
// instant. Returns nil when dob is empty, unparseable, or after now.
// Callers within one logical operation must pass the same now to every
// schedule computation; requestcontext.Now supplies it per request.
func CalculateAge(dob string, now time.Time) *AgeBreakdown {
	birth, ok := ParseDOB(dob)
	if !ok {
		return nil
	}
	now = now.UTC()
	if birth.After(now) {
		return nil
	}

	years := now.Year() - birth.Year()
	months := int(now.Month()) - int(birth.Month())
	days := now.Day() - birth.Day()

	// Borrow from the previous month using that month's actual length.
	if days < 0 {
		months--
		lastOfPrevMonth := time.Date(now.Year(), now.Month(), 0, 0, 0, 0, 0, time.UTC)
		days += lastOfPrevMonth.Day()
	}
	if months < 0 {
		years--
		months += 12
	}

	totalDays := int(now.Sub(birth) / day)
	totalMonths := (now.Year()-birth.Year())*12 + int(now.Month()) - int(birth.Month())

	return &AgeBreakdown{
		Years:       years,
		Months:      months,
		Days:        days,
		TotalDays:   totalDays,
		TotalWeeks:  totalDays / 7,
		TotalMonths: totalMonths,
		Formatted:   formatAge(years, months, days),
	}
}

// formatAge joins the non-zero largest units, always showing at least
// "0 days" for a newborn.
func formatAge(years, months, days int) string {
	var parts []string
	if years > 0 {
		parts = append(parts, pluralize(years, "year"))
	}
	if months > 0 {
		parts = append(parts, pluralize(months, "month"))
	}
	if days > 0 || len(parts) == 0 {
		parts = append(parts, pluralize(days, "day"))
	}
	return strings.Join(parts, ", ")
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// dueTime is birth plus a whole number of days. The offset is always an
// integral day count, so absolute arithmetic is exact here.
func dueTime(birth time.Time, offsetDays int) time.Time {
	return birth.Add(time.Duration(offsetDays) * day)
}

// DueDate formats the due date of a vaccine offset as "Jan 2, 2006".
// Returns "" for an unparseable birth date.
func DueDate(dob string, offsetDays int) string {
	birth, ok := ParseDOB(dob)
	if !ok {
		return ""
	}
	return dueTime(birth, offsetDays).Format("Jan 2, 2006")
}

// DaysUntil reports the signed whole days between now and the due date:
// negative means overdue by that many days, zero means due today, positive
// means days remaining. The comparison is day-granular: now is truncated
// to its calendar day first, so the result is 0 for the whole due date.
func DaysUntil(dob string, offsetDays int, now time.Time) int {
	birth, ok := ParseDOB(dob)
	if !ok {
		return 0
	}
	return int(dueTime(birth, offsetDays).Sub(startOfDay(now)) / day)
}

// startOfDay truncates an instant to its UTC calendar day.
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
