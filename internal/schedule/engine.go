package schedule

import (
	"fmt"
	"math"
	"time"
)

// AnnotatedEntry is a schedule entry classified for one baby at one instant.
// Derived display state only; never persisted.
type AnnotatedEntry struct {
	Entry
	Status        Status `json:"status"`
	StatusMessage string `json:"statusMessage"`
	DueDate       string `json:"dueDate"`
	DaysUntil     int    `json:"daysUntil"`
	IsCompleted   bool   `json:"isCompleted"`
	IsPast        bool   `json:"isPast"`
}

// ProgressSummary aggregates completion across the whole schedule.
type ProgressSummary struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Remaining  int `json:"remaining"`
	Percentage int `json:"percentage"`
}

// Statuses classifies every schedule entry for a baby, in table order.
// A missing key in the completion map means not completed. Returns an
// empty sequence when dob is absent, unparseable, or in the future.
//
// Precedence, first match wins: completed, overdue, due today, due within
// a week, upcoming within a month (days wording), upcoming beyond a month
// (weeks wording).
func Statuses(dob string, completed map[string]bool, now time.Time) []AnnotatedEntry {
	if dob == "" {
		return nil
	}
	age := CalculateAge(dob, now)
	if age == nil {
		return nil
	}

	entries := make([]AnnotatedEntry, 0, len(BDEPISchedule))
	for _, entry := range BDEPISchedule {
		isCompleted := completed[entry.Key]
		daysUntil := DaysUntil(dob, entry.Day, now)

		var status Status
		var message string
		switch {
		case isCompleted:
			status = StatusCompleted
			message = "Completed"
		case daysUntil < 0:
			status = StatusOverdue
			message = fmt.Sprintf("Overdue by %s", pluralize(-daysUntil, "day"))
		case daysUntil == 0:
			status = StatusDue
			message = "Due today"
		case daysUntil <= 7:
			status = StatusDue
			message = fmt.Sprintf("Due in %s", pluralize(daysUntil, "day"))
		case daysUntil <= 30:
			status = StatusUpcoming
			message = fmt.Sprintf("Due in %d days", daysUntil)
		default:
			status = StatusUpcoming
			message = fmt.Sprintf("Due in %s", pluralize(daysUntil/7, "week"))
		}

		entries = append(entries, AnnotatedEntry{
			Entry:         entry,
			Status:        status,
			StatusMessage: message,
			DueDate:       DueDate(dob, entry.Day),
			DaysUntil:     daysUntil,
			IsCompleted:   isCompleted,
			IsPast:        age.TotalDays >= entry.Day,
		})
	}
	return entries
}

// Progress summarizes how much of the schedule is completed.
func Progress(entries []AnnotatedEntry) ProgressSummary {
	total := len(entries)
	completed := 0
	for _, e := range entries {
		if e.IsCompleted {
			completed++
		}
	}
	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(completed) / float64(total) * 100))
	}
	return ProgressSummary{
		Total:      total,
		Completed:  completed,
		Remaining:  total - completed,
		Percentage: percentage,
	}
}

// Next returns the closest vaccine that is neither completed nor overdue,
// ties broken by schedule order. Nil when no candidate remains.
func Next(entries []AnnotatedEntry) *AnnotatedEntry {
	var next *AnnotatedEntry
	for i := range entries {
		e := &entries[i]
		if e.IsCompleted || e.Status == StatusOverdue {
			continue
		}
		if next == nil || e.DaysUntil < next.DaysUntil {
			next = e
		}
	}
	if next == nil {
		return nil
	}
	out := *next
	return &out
}

// Overdue filters to overdue entries, preserving schedule order.
func Overdue(entries []AnnotatedEntry) []AnnotatedEntry {
	var overdue []AnnotatedEntry
	for _, e := range entries {
		if e.Status == StatusOverdue {
			overdue = append(overdue, e)
		}
	}
	return overdue
}

// Stage describes how far along the fixed schedule order the completions
// reach: the highest-index completed entry wins, not the most recently
// toggled one.
func Stage(entries []AnnotatedEntry) string {
	var last *AnnotatedEntry
	for i := range entries {
		if entries[i].IsCompleted {
			last = &entries[i]
		}
	}
	if last == nil {
		return "Not started"
	}
	return fmt.Sprintf("Vaccinated up to %s", last.AgeLabel)
}
