// Package store implements CRUD over the baby collection, backed by a
// single serialized blob.
//
// Every mutation is a whole-collection read-modify-write: it loads the full
// collection, applies the change, and writes the full collection back.
// Nothing coordinates concurrent writers of the same blob, so the last
// writer wins for the whole collection, not just the touched record. That
// is an accepted limitation of the single-user, single-device design.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"nestcare/internal/baby/models"
	"nestcare/internal/platform/metrics"
	"nestcare/pkg/platform/sentinel"
	"nestcare/pkg/requestcontext"
)

// Store performs CRUD over the baby collection in one Blob. A read that
// fails degrades to an empty collection; a write that fails surfaces as
// sentinel.ErrUnavailable. Neither is retried.
type Store struct {
	blob    Blob
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(blob Blob, logger *slog.Logger, m *metrics.Metrics) *Store {
	return &Store{blob: blob, logger: logger, metrics: m}
}

// NewBabyParams carries the user-supplied fields of a new profile.
// Callers validate them first; the store only assigns identity and stamps
// timestamps.
type NewBabyParams struct {
	Name       string
	DOB        string
	Gender     models.Gender
	BloodGroup models.BloodGroup
	Photo      string
}

// Update is a shallow merge onto an existing record: nil fields are left
// untouched, non-nil fields replace the stored value wholesale. The record
// id can never change through an update.
type Update struct {
	Name           *string
	DOB            *string
	Gender         *models.Gender
	BloodGroup     *models.BloodGroup
	Photo          *string
	Vaccines       map[string]bool
	Milestones     []models.Milestone
	GrowthRecords  []models.GrowthRecord
	MedicalRecords []models.MedicalRecord
}

// GetAll returns every baby record. A failed blob read degrades to an
// empty collection so the UI can keep rendering; the failure is logged,
// never propagated.
func (s *Store) GetAll(ctx context.Context) []models.Baby {
	return s.load(ctx)
}

// GetByID returns one record or sentinel.ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id string) (models.Baby, error) {
	for _, b := range s.load(ctx) {
		if b.ID == id {
			return b, nil
		}
	}
	return models.Baby{}, sentinel.ErrNotFound
}

// Add creates a record with a fresh opaque id, empty sub-collections, and
// a creation timestamp taken from the request-scoped clock.
func (s *Store) Add(ctx context.Context, params NewBabyParams) (models.Baby, error) {
	babies := s.load(ctx)
	baby := models.NewBaby(
		uuid.NewString(),
		params.Name,
		params.DOB,
		params.Gender,
		params.BloodGroup,
		params.Photo,
		requestcontext.Now(ctx),
	)
	if err := s.save(ctx, append(babies, baby)); err != nil {
		return models.Baby{}, err
	}
	s.metrics.IncBabiesCreated()
	return baby, nil
}

// apply merges the update onto a record, preserving its id.
func (u Update) apply(b models.Baby) models.Baby {
	if u.Name != nil {
		b.Name = *u.Name
	}
	if u.DOB != nil {
		b.DOB = *u.DOB
	}
	if u.Gender != nil {
		b.Gender = *u.Gender
	}
	if u.BloodGroup != nil {
		b.BloodGroup = *u.BloodGroup
	}
	if u.Photo != nil {
		b.Photo = *u.Photo
	}
	if u.Vaccines != nil {
		b.Vaccines = u.Vaccines
	}
	if u.Milestones != nil {
		b.Milestones = u.Milestones
	}
	if u.GrowthRecords != nil {
		b.GrowthRecords = u.GrowthRecords
	}
	if u.MedicalRecords != nil {
		b.MedicalRecords = u.MedicalRecords
	}
	return b
}

// Update shallow-merges the given fields onto the record and stamps
// UpdatedAt. Returns sentinel.ErrNotFound when the id does not exist.
func (s *Store) Update(ctx context.Context, id string, upd Update) (models.Baby, error) {
	babies := s.load(ctx)
	for i, b := range babies {
		if b.ID != id {
			continue
		}
		merged := upd.apply(b)
		merged.ID = id
		merged.UpdatedAt = requestcontext.Now(ctx)
		babies[i] = merged
		if err := s.save(ctx, babies); err != nil {
			return models.Baby{}, err
		}
		return merged, nil
	}
	return models.Baby{}, sentinel.ErrNotFound
}

// Remove filters the record out of the collection along with all of its
// owned sub-collections in a single write, and returns the remaining
// records. Removing an id that is not present rewrites the collection
// unchanged.
func (s *Store) Remove(ctx context.Context, id string) ([]models.Baby, error) {
	babies := s.load(ctx)
	remaining := make([]models.Baby, 0, len(babies))
	for _, b := range babies {
		if b.ID != id {
			remaining = append(remaining, b)
		}
	}
	if err := s.save(ctx, remaining); err != nil {
		return nil, err
	}
	return remaining, nil
}

// ToggleVaccine flips one completion flag. Keys are only ever toggled,
// never removed, so a once-touched key stays in the map.
func (s *Store) ToggleVaccine(ctx context.Context, babyID, vaccineKey string) (models.Baby, error) {
	baby, err := s.GetByID(ctx, babyID)
	if err != nil {
		return models.Baby{}, err
	}
	vaccines := make(map[string]bool, len(baby.Vaccines)+1)
	for k, v := range baby.Vaccines {
		vaccines[k] = v
	}
	vaccines[vaccineKey] = !vaccines[vaccineKey]
	return s.Update(ctx, babyID, Update{Vaccines: vaccines})
}

// MilestoneParams carries the user-supplied fields of a new milestone.
type MilestoneParams struct {
	Title       string
	Description string
	Date        string
	IsCustom    bool
}

// AddMilestone appends a milestone; insertion order is preserved.
func (s *Store) AddMilestone(ctx context.Context, babyID string, params MilestoneParams) (models.Baby, error) {
	baby, err := s.GetByID(ctx, babyID)
	if err != nil {
		return models.Baby{}, err
	}
	milestones := append(append([]models.Milestone(nil), baby.Milestones...), models.Milestone{
		ID:          uuid.NewString(),
		Title:       params.Title,
		Description: params.Description,
		Date:        params.Date,
		IsCustom:    params.IsCustom,
		CreatedAt:   requestcontext.Now(ctx),
	})
	return s.Update(ctx, babyID, Update{Milestones: milestones})
}

// DeleteMilestone removes one milestone by id.
func (s *Store) DeleteMilestone(ctx context.Context, babyID, milestoneID string) (models.Baby, error) {
	baby, err := s.GetByID(ctx, babyID)
	if err != nil {
		return models.Baby{}, err
	}
	milestones := make([]models.Milestone, 0, len(baby.Milestones))
	for _, m := range baby.Milestones {
		if m.ID != milestoneID {
			milestones = append(milestones, m)
		}
	}
	return s.Update(ctx, babyID, Update{Milestones: milestones})
}

// GrowthRecordParams carries the user-supplied fields of a new growth
// record. Absent measurements stay nil.
type GrowthRecordParams struct {
	Date              string
	Weight            *float64
	Height            *float64
	HeadCircumference *float64
}

// AddGrowthRecord appends a measurement and re-sorts the sequence so it
// stays ascending by date. The sort is stable, so same-day records keep
// their insertion order.
func (s *Store) AddGrowthRecord(ctx context.Context, babyID string, params GrowthRecordParams) (models.Baby, error) {
	baby, err := s.GetByID(ctx, babyID)
	if err != nil {
		return models.Baby{}, err
	}
	records := append(append([]models.GrowthRecord(nil), baby.GrowthRecords...), models.GrowthRecord{
		ID:                uuid.NewString(),
		Date:              params.Date,
		Weight:            params.Weight,
		Height:            params.Height,
		HeadCircumference: params.HeadCircumference,
		CreatedAt:         requestcontext.Now(ctx),
	})
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date < records[j].Date
	})
	return s.Update(ctx, babyID, Update{GrowthRecords: records})
}

// DeleteGrowthRecord removes one measurement by id. The remaining
// sequence is already sorted, so no re-sort is needed.
func (s *Store) DeleteGrowthRecord(ctx context.Context, babyID, recordID string) (models.Baby, error) {
	baby, err := s.GetByID(ctx, babyID)
	if err != nil {
		return models.Baby{}, err
	}
	records := make([]models.GrowthRecord, 0, len(baby.GrowthRecords))
	for _, r := range baby.GrowthRecords {
		if r.ID != recordID {
			records = append(records, r)
		}
	}
	return s.Update(ctx, babyID, Update{GrowthRecords: records})
}

// MedicalRecordParams carries one uploaded document, already size-capped
// and MIME-checked by the upload boundary and encoded as a data URL.
type MedicalRecordParams struct {
	Name string
	Type string
	Size int64
	Data string
}

// AddMedicalRecord appends an uploaded document.
func (s *Store) AddMedicalRecord(ctx context.Context, babyID string, params MedicalRecordParams) (models.Baby, error) {
	baby, err := s.GetByID(ctx, babyID)
	if err != nil {
		return models.Baby{}, err
	}
	records := append(append([]models.MedicalRecord(nil), baby.MedicalRecords...), models.MedicalRecord{
		ID:         uuid.NewString(),
		Name:       params.Name,
		Type:       params.Type,
		Size:       params.Size,
		Data:       params.Data,
		UploadedAt: requestcontext.Now(ctx),
	})
	return s.Update(ctx, babyID, Update{MedicalRecords: records})
}

// DeleteMedicalRecord removes one document by id.
func (s *Store) DeleteMedicalRecord(ctx context.Context, babyID, recordID string) (models.Baby, error) {
	baby, err := s.GetByID(ctx, babyID)
	if err != nil {
		return models.Baby{}, err
	}
	records := make([]models.MedicalRecord, 0, len(baby.MedicalRecords))
	for _, r := range baby.MedicalRecords {
		if r.ID != recordID {
			records = append(records, r)
		}
	}
	return s.Update(ctx, babyID, Update{MedicalRecords: records})
}

func (s *Store) load(ctx context.Context) []models.Baby {
	data, err := s.blob.Read(ctx)
	if err != nil {
		s.logger.Error("reading baby collection failed, degrading to empty", "error", err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	var babies []models.Baby
	if err := json.Unmarshal(data, &babies); err != nil {
		s.logger.Error("stored baby collection is corrupt, degrading to empty", "error", err)
		return nil
	}
	return babies
}

func (s *Store) save(ctx context.Context, babies []models.Baby) error {
	if babies == nil {
		babies = []models.Baby{}
	}
	data, err := json.Marshal(babies)
	if err != nil {
		return fmt.Errorf("marshal baby collection: %w", err)
	}
	if err := s.blob.Write(ctx, data); err != nil {
		s.logger.Error("writing baby collection failed", "error", err)
		s.metrics.IncStorageWriteFailures()
		return fmt.Errorf("%w: write baby collection: %v", sentinel.ErrUnavailable, err)
	}
	return nil
}
