// Package service holds the application state provider: the in-memory
// image of the baby collection plus the currently selected baby.
package service

import (
	"context"
	"log/slog"
	"sync"

	"nestcare/internal/baby/models"
	"nestcare/internal/baby/store"
	"nestcare/pkg/platform/sentinel"
)

// Provider caches the full baby collection and the selected-baby id,
// loaded once at startup. Every mutation goes through the store first and
// only a successful result replaces the in-memory entry, keeping memory
// and storage in lockstep. Selection is purely in-memory and never
// touches storage.
type Provider struct {
	mu         sync.RWMutex
	store      *store.Store
	logger     *slog.Logger
	babies     []models.Baby
	selectedID string
}

func NewProvider(st *store.Store, logger *slog.Logger) *Provider {
	return &Provider{store: st, logger: logger}
}

// Load reads the collection from storage and selects the first baby when
// nothing is selected yet. Call once at startup.
func (p *Provider) Load(ctx context.Context) {
	babies := p.store.GetAll(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.babies = babies
	if p.selectedID == "" && len(babies) > 0 {
		p.selectedID = babies[0].ID
	}
	p.logger.Info("baby collection loaded", "count", len(babies))
}

// Babies returns a copy of the cached collection.
func (p *Provider) Babies() []models.Baby {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]models.Baby(nil), p.babies...)
}

// Baby returns one cached record by id.
func (p *Provider) Baby(id string) (models.Baby, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.findLocked(id)
}

// Selected returns the currently selected baby, or ErrNotFound when the
// collection is empty.
func (p *Provider) Selected() (models.Baby, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.selectedID == "" {
		return models.Baby{}, sentinel.ErrNotFound
	}
	return p.findLocked(p.selectedID)
}

// Select switches the selected baby. The id must reference a baby in the
// cached collection; storage is not touched.
func (p *Provider) Select(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.findLocked(id); err != nil {
		return err
	}
	p.selectedID = id
	return nil
}

// AddBaby persists a new profile and, on success, caches it and makes it
// the selected baby.
func (p *Provider) AddBaby(ctx context.Context, params store.NewBabyParams) (models.Baby, error) {
	baby, err := p.store.Add(ctx, params)
	if err != nil {
		return models.Baby{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.babies = append(p.babies, baby)
	p.selectedID = baby.ID
	return baby, nil
}

// UpdateBaby persists a shallow merge and refreshes the cached entry on
// success.
func (p *Provider) UpdateBaby(ctx context.Context, id string, upd store.Update) (models.Baby, error) {
	return p.applyMutation(p.store.Update(ctx, id, upd))
}

// DeleteBaby removes a profile and all owned sub-collections. When the
// deleted baby was selected, selection moves to the first remaining baby
// or clears if none remain.
func (p *Provider) DeleteBaby(ctx context.Context, id string) error {
	remaining, err := p.store.Remove(ctx, id)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.babies = remaining
	if p.selectedID == id {
		p.selectedID = ""
		if len(remaining) > 0 {
			p.selectedID = remaining[0].ID
		}
	}
	return nil
}

// ToggleVaccine flips one completion flag on a baby's schedule.
func (p *Provider) ToggleVaccine(ctx context.Context, babyID, vaccineKey string) (models.Baby, error) {
	return p.applyMutation(p.store.ToggleVaccine(ctx, babyID, vaccineKey))
}

// AddMilestone records a milestone for a baby.
func (p *Provider) AddMilestone(ctx context.Context, babyID string, params store.MilestoneParams) (models.Baby, error) {
	return p.applyMutation(p.store.AddMilestone(ctx, babyID, params))
}

// DeleteMilestone removes a milestone from a baby.
func (p *Provider) DeleteMilestone(ctx context.Context, babyID, milestoneID string) (models.Baby, error) {
	return p.applyMutation(p.store.DeleteMilestone(ctx, babyID, milestoneID))
}

// AddGrowthRecord records a measurement for a baby.
func (p *Provider) AddGrowthRecord(ctx context.Context, babyID string, params store.GrowthRecordParams) (models.Baby, error) {
	return p.applyMutation(p.store.AddGrowthRecord(ctx, babyID, params))
}

// DeleteGrowthRecord removes a measurement from a baby.
func (p *Provider) DeleteGrowthRecord(ctx context.Context, babyID, recordID string) (models.Baby, error) {
	return p.applyMutation(p.store.DeleteGrowthRecord(ctx, babyID, recordID))
}

// AddMedicalRecord attaches an uploaded document to a baby.
func (p *Provider) AddMedicalRecord(ctx context.Context, babyID string, params store.MedicalRecordParams) (models.Baby, error) {
	return p.applyMutation(p.store.AddMedicalRecord(ctx, babyID, params))
}

// DeleteMedicalRecord removes a document from a baby.
func (p *Provider) DeleteMedicalRecord(ctx context.Context, babyID, recordID string) (models.Baby, error) {
	return p.applyMutation(p.store.DeleteMedicalRecord(ctx, babyID, recordID))
}

// applyMutation replaces the cached entry with the store's result, but only
// when the store reported success; a failed mutation leaves memory exactly
// as it was.
func (p *Provider) applyMutation(baby models.Baby, err error) (models.Baby, error) {
	if err != nil {
		return models.Baby{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.babies {
		if p.babies[i].ID == baby.ID {
			p.babies[i] = baby
			return baby, nil
		}
	}
	// The store knows a record the cache does not; resync rather than drift.
	p.babies = append(p.babies, baby)
	return baby, nil
}

func (p *Provider) findLocked(id string) (models.Baby, error) {
	for _, b := range p.babies {
		if b.ID == id {
			return b, nil
		}
	}
	return models.Baby{}, sentinel.ErrNotFound
}
