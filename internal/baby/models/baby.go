package models

import "time"

// Gender of a baby profile. The zero value means unspecified.
type Gender string

const (
	GenderUnspecified Gender = ""
	GenderMale        Gender = "male"
	GenderFemale      Gender = "female"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderUnspecified, GenderMale, GenderFemale:
		return true
	}
	return false
}

// BloodGroup is one of the 8 standard ABO/Rh types; optional on a profile.
type BloodGroup string

var bloodGroups = map[BloodGroup]bool{
	"A+": true, "A-": true, "B+": true, "B-": true,
	"AB+": true, "AB-": true, "O+": true, "O-": true,
}

func (b BloodGroup) Valid() bool {
	return b == "" || bloodGroups[b]
}

// Baby is the aggregate root for one tracked child. The persisted blob is
// a JSON array of these records.
//
// Invariants:
//   - ID is unique within the store, assigned at construction, never mutated
//   - Vaccines holds only toggled keys; a missing key means not completed,
//     and entries are toggled, never removed
//   - GrowthRecords stay sorted ascending by date after every mutation
//   - Deleting a baby removes every owned sub-collection in one store write
type Baby struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	DOB            string          `json:"dob"`
	Gender         Gender          `json:"gender"`
	BloodGroup     BloodGroup      `json:"bloodGroup"`
	Photo          string          `json:"photo"`
	Vaccines       map[string]bool `json:"vaccines"`
	Milestones     []Milestone     `json:"milestones"`
	GrowthRecords  []GrowthRecord  `json:"growthRecords"`
	MedicalRecords []MedicalRecord `json:"medicalRecords"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt,omitzero"`
}

// Milestone is one developmental milestone, custom or predefined.
// Insertion order is preserved; the sequence is never re-sorted.
type Milestone struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        string    `json:"date"`
	IsCustom    bool      `json:"isCustom"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GrowthRecord is one dated set of body measurements. Optional measurements
// are pointers so an absent value is distinguishable from zero. Date is
// YYYY-MM-DD, so lexicographic order is chronological.
type GrowthRecord struct {
	ID                string    `json:"id"`
	Date              string    `json:"date"`
	Weight            *float64  `json:"weight,omitempty"`
	Height            *float64  `json:"height,omitempty"`
	HeadCircumference *float64  `json:"headCircumference,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// MedicalRecord is one attached document, stored inline as a data URL.
// The upload boundary caps size and restricts MIME types before records
// reach the store; the store itself does not enforce either.
type MedicalRecord struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Size       int64     `json:"size"`
	Data       string    `json:"data"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// NewBaby constructs a baby record with empty sub-collections. The store
// assigns the id and stamps the creation time.
func NewBaby(id, name, dob string, gender Gender, bloodGroup BloodGroup, photo string, now time.Time) Baby {
	return Baby{
		ID:             id,
		Name:           name,
		DOB:            dob,
		Gender:         gender,
		BloodGroup:     bloodGroup,
		Photo:          photo,
		Vaccines:       map[string]bool{},
		Milestones:     []Milestone{},
		GrowthRecords:  []GrowthRecord{},
		MedicalRecords: []MedicalRecord{},
		CreatedAt:      now,
	}
}
