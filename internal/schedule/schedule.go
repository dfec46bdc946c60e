// Package schedule implements the vaccination schedule engine: the fixed
// Bangladesh EPI table, civil-calendar age arithmetic, and per-vaccine
// status classification derived from a baby's completion map.
//
// Everything in this package is a pure function of its inputs. "Now" is
// always an explicit parameter so one request renders an internally
// consistent schedule; nothing computed here is ever persisted.
package schedule

// Status classifies one scheduled vaccine relative to a baby's birth date
// and completion map.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusDue       Status = "due"
	StatusUpcoming  Status = "upcoming"
	StatusOverdue   Status = "overdue"
)

// Entry is one row of the fixed immutable vaccination schedule.
// Day is the due offset in whole days from birth.
type Entry struct {
	Key        string `json:"key"`
	Day        int    `json:"day"`
	Label      string `json:"label"`
	ShortLabel string `json:"shortLabel"`
	AgeLabel   string `json:"ageLabel"`
}

// BDEPISchedule is the Bangladesh EPI vaccination schedule. The table is
// process-wide and never mutated at runtime; completion state lives in the
// per-baby completion map keyed by Entry.Key.
var BDEPISchedule = []Entry{
	{Key: "bcg", Day: 0, Label: "BCG + OPV 0", ShortLabel: "BCG", AgeLabel: "At Birth"},
	{Key: "penta1", Day: 42, Label: "Pentavalent 1 + OPV 1 + PCV 1", ShortLabel: "Penta 1", AgeLabel: "6 weeks"},
	{Key: "penta2", Day: 70, Label: "Pentavalent 2 + OPV 2 + PCV 2", ShortLabel: "Penta 2", AgeLabel: "10 weeks"},
	{Key: "penta3", Day: 98, Label: "Pentavalent 3 + OPV 3 + PCV 3", ShortLabel: "Penta 3", AgeLabel: "14 weeks"},
	{Key: "mr1", Day: 270, Label: "MR (Measles-Rubella)", ShortLabel: "MR 1", AgeLabel: "9 months"},
	{Key: "mr2", Day: 450, Label: "MR 2", ShortLabel: "MR 2", AgeLabel: "15 months"},
}
