// Package handler exposes the baby collection over a JSON HTTP API. It is
// a thin layer: validation happens in internal/validate, state changes in
// the provider, and schedule math in internal/schedule.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"nestcare/internal/baby/models"
	"nestcare/internal/baby/store"
	"nestcare/internal/baby/upload"
	"nestcare/internal/schedule"
	"nestcare/internal/transport/http/shared"
	"nestcare/internal/validate"
	"nestcare/pkg/platform/sentinel"
	"nestcare/pkg/requestcontext"
)

// Service is the slice of the state provider this handler needs.
type Service interface {
	Babies() []models.Baby
	Baby(id string) (models.Baby, error)
	Selected() (models.Baby, error)
	Select(id string) error
	AddBaby(ctx context.Context, params store.NewBabyParams) (models.Baby, error)
	UpdateBaby(ctx context.Context, id string, upd store.Update) (models.Baby, error)
	DeleteBaby(ctx context.Context, id string) error
	ToggleVaccine(ctx context.Context, babyID, vaccineKey string) (models.Baby, error)
	AddMilestone(ctx context.Context, babyID string, params store.MilestoneParams) (models.Baby, error)
	DeleteMilestone(ctx context.Context, babyID, milestoneID string) (models.Baby, error)
	AddGrowthRecord(ctx context.Context, babyID string, params store.GrowthRecordParams) (models.Baby, error)
	DeleteGrowthRecord(ctx context.Context, babyID, recordID string) (models.Baby, error)
	AddMedicalRecord(ctx context.Context, babyID string, params store.MedicalRecordParams) (models.Baby, error)
	DeleteMedicalRecord(ctx context.Context, babyID, recordID string) (models.Baby, error)
}

// Handler handles baby profile and sub-collection endpoints.
type Handler struct {
	logger *slog.Logger
	babies Service
}

func New(babies Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, babies: babies}
}

// Register wires the baby routes into the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/babies", h.handleList)
	r.Post("/babies", h.handleCreate)
	r.Get("/babies/selected", h.handleSelected)
	r.Route("/babies/{babyID}", func(r chi.Router) {
		r.Get("/", h.handleGet)
		r.Patch("/", h.handleUpdate)
		r.Delete("/", h.handleDelete)
		r.Post("/select", h.handleSelect)
		r.Get("/schedule", h.handleSchedule)
		r.Post("/vaccines/{vaccineKey}", h.handleToggleVaccine)
		r.Post("/milestones", h.handleAddMilestone)
		r.Delete("/milestones/{milestoneID}", h.handleDeleteMilestone)
		r.Post("/growth-records", h.handleAddGrowthRecord)
		r.Delete("/growth-records/{recordID}", h.handleDeleteGrowthRecord)
		r.Post("/medical-records", h.handleAddMedicalRecord)
		r.Delete("/medical-records/{recordID}", h.handleDeleteMedicalRecord)
	})
}

type babyRequest struct {
	Name       string `json:"name"`
	DOB        string `json:"dob"`
	Gender     string `json:"gender"`
	BloodGroup string `json:"bloodGroup"`
	Photo      string `json:"photo"`
}

func (h *Handler) handleList(w http.ResponseWriter, _ *http.Request) {
	shared.WriteJSON(w, http.StatusOK, h.babies.Babies())
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req babyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params, errMsg := validateBabyRequest(ctx, req)
	if errMsg != "" {
		shared.WriteError(w, http.StatusBadRequest, errMsg)
		return
	}

	baby, err := h.babies.AddBaby(ctx, params)
	if err != nil {
		h.writeStoreError(ctx, w, err, "failed to create baby")
		return
	}
	shared.WriteJSON(w, http.StatusCreated, baby)
}

func validateBabyRequest(ctx context.Context, req babyRequest) (store.NewBabyParams, string) {
	name := validate.BabyName(req.Name)
	if !name.OK {
		return store.NewBabyParams{}, name.Err
	}
	dob := validate.DOB(req.DOB, requestcontext.Now(ctx))
	if !dob.OK {
		return store.NewBabyParams{}, dob.Err
	}
	photo := validate.URL(req.Photo)
	if !photo.OK {
		return store.NewBabyParams{}, photo.Err
	}
	gender := models.Gender(req.Gender)
	if !gender.Valid() {
		return store.NewBabyParams{}, "Invalid gender"
	}
	bloodGroup := models.BloodGroup(req.BloodGroup)
	if !bloodGroup.Valid() {
		return store.NewBabyParams{}, "Invalid blood group"
	}
	return store.NewBabyParams{
		Name:       name.Value,
		DOB:        dob.Value,
		Gender:     gender,
		BloodGroup: bloodGroup,
		Photo:      photo.Value,
	}, ""
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	baby, err := h.babies.Baby(chi.URLParam(r, "babyID"))
	if err != nil {
		h.writeStoreError(r.Context(), w, err, "failed to load baby")
		return
	}
	shared.WriteJSON(w, http.StatusOK, baby)
}

type updateBabyRequest struct {
	Name       *string `json:"name"`
	DOB        *string `json:"dob"`
	Gender     *string `json:"gender"`
	BloodGroup *string `json:"bloodGroup"`
	Photo      *string `json:"photo"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updateBabyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var upd store.Update
	if req.Name != nil {
		name := validate.BabyName(*req.Name)
		if !name.OK {
			shared.WriteError(w, http.StatusBadRequest, name.Err)
			return
		}
		upd.Name = &name.Value
	}
	if req.DOB != nil {
		dob := validate.DOB(*req.DOB, requestcontext.Now(ctx))
		if !dob.OK {
			shared.WriteError(w, http.StatusBadRequest, dob.Err)
			return
		}
		upd.DOB = &dob.Value
	}
	if req.Gender != nil {
		gender := models.Gender(*req.Gender)
		if !gender.Valid() {
			shared.WriteError(w, http.StatusBadRequest, "Invalid gender")
			return
		}
		upd.Gender = &gender
	}
	if req.BloodGroup != nil {
		bloodGroup := models.BloodGroup(*req.BloodGroup)
		if !bloodGroup.Valid() {
			shared.WriteError(w, http.StatusBadRequest, "Invalid blood group")
			return
		}
		upd.BloodGroup = &bloodGroup
	}
	if req.Photo != nil {
		photo := validate.URL(*req.Photo)
		if !photo.OK {
			shared.WriteError(w, http.StatusBadRequest, photo.Err)
			return
		}
		upd.Photo = &photo.Value
	}

	baby, err := h.babies.UpdateBaby(ctx, chi.URLParam(r, "babyID"), upd)
	if err != nil {
		h.writeStoreError(ctx, w, err, "failed to update baby")
		return
	}
	shared.WriteJSON(w, http.StatusOK, baby)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.babies.DeleteBaby(r.Context(), chi.URLParam(r, "babyID")); err != nil {
		h.writeStoreError(r.Context(), w, err, "failed to delete baby")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	if err := h.babies.Select(chi.URLParam(r, "babyID")); err != nil {
		h.writeStoreError(r.Context(), w, err, "failed to select baby")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSelected(w http.ResponseWriter, r *http.Request) {
	baby, err := h.babies.Selected()
	if err != nil {
		h.writeStoreError(r.Context(), w, err, "no baby selected")
		return
	}
	shared.WriteJSON(w, http.StatusOK, baby)
}

// scheduleResponse is the derived schedule view for one baby. Computed per
// request from one captured "now"; never persisted.
type scheduleResponse struct {
	Age      *schedule.AgeBreakdown    `json:"age"`
	Vaccines []schedule.AnnotatedEntry `json:"vaccines"`
	Progress schedule.ProgressSummary  `json:"progress"`
	Next     *schedule.AnnotatedEntry  `json:"next"`
	Overdue  []schedule.AnnotatedEntry `json:"overdue"`
	Stage    string                    `json:"stage"`
}

func (h *Handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	baby, err := h.babies.Baby(chi.URLParam(r, "babyID"))
	if err != nil {
		h.writeStoreError(ctx, w, err, "failed to load baby")
		return
	}

	now := requestcontext.Now(ctx)
	entries := schedule.Statuses(baby.DOB, baby.Vaccines, now)
	shared.WriteJSON(w, http.StatusOK, scheduleResponse{
		Age:      schedule.CalculateAge(baby.DOB, now),
		Vaccines: entries,
		Progress: schedule.Progress(entries),
		Next:     schedule.Next(entries),
		Overdue:  schedule.Overdue(entries),
		Stage:    schedule.Stage(entries),
	})
}

func (h *Handler) handleToggleVaccine(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "vaccineKey")
	if !knownVaccine(key) {
		shared.WriteError(w, http.StatusNotFound, "unknown vaccine")
		return
	}
	baby, err := h.babies.ToggleVaccine(r.Context(), chi.URLParam(r, "babyID"), key)
	if err != nil {
		h.writeStoreError(r.Context(), w, err, "failed to toggle vaccine")
		return
	}
	shared.WriteJSON(w, http.StatusOK, baby)
}

// knownVaccine keeps completion maps closed over the schedule's key set.
func knownVaccine(key string) bool {
	for _, entry := range schedule.BDEPISchedule {
		if entry.Key == key {
			return true
		}
	}
	return false
}

type milestoneRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	IsCustom    bool   `json:"isCustom"`
}

func (h *Handler) handleAddMilestone(w http.ResponseWriter, r *http.Request) {
	var req milestoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	title := validate.SanitizeString(req.Title, 100)
	if title == "" {
		shared.WriteError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if req.Date == "" {
		shared.WriteError(w, http.StatusBadRequest, "Date is required")
		return
	}
	baby, err := h.babies.AddMilestone(r.Context(), chi.URLParam(r, "babyID"), store.MilestoneParams{
		Title:       title,
		Description: validate.SanitizeString(req.Description, 500),
		Date:        req.Date,
		IsCustom:    req.IsCustom,
	})
	if err != nil {
		h.writeStoreError(r.Context(), w, err, "failed to add milestone")
		return
	}
	shared.WriteJSON(w, http.StatusCreated, baby)
}

func (h *Handler) handleDeleteMilestone(w http.ResponseWriter, r *http.Request) {
	baby, err := h.babies.DeleteMilestone(r.Context(), chi.URLParam(r, "babyID"), chi.URLParam(r, "milestoneID"))
	if err != nil {
		h.writeStoreError(r.Context(), w, err, "failed to delete milestone")
		return
	}
	shared.WriteJSON(w, http.StatusOK, baby)
}

type growthRecordRequest struct {
	Date              string   `json:"date"`
	Weight            *float64 `json:"weight"`
	Height            *float64 `json:"height"`
	HeadCircumference *float64 `json:"headCircumference"`
}

func (h *Handler) handleAddGrowthRecord(w http.ResponseWriter, r *http.Request) {
	var req growthRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Date == "" {
		shared.WriteError(w, http.StatusBadRequest, "Date is required")
		return
	}
	if req.Weight == nil && req.Height == nil && req.HeadCircumference == nil {
		shared.WriteError(w, http.StatusBadRequest, "At least one measurement is required")
		return
	}
	baby, err := h.babies.AddGrowthRecord(r.Context(), chi.URLParam(r, "babyID"), store.GrowthRecordParams{
		Date:              req.Date,
		Weight:            req.Weight,
		Height:            req.Height,
		HeadCircumference: req.HeadCircumference,
	})
	if err != nil {
		h.writeStoreError(r.Context(), w, err, "failed to add growth record")
		return
	}
	shared.WriteJSON(w, http.StatusCreated, baby)
}

func (h *Handler) handleDeleteGrowthRecord(w http.ResponseWriter, r *http.Request) {
	baby, err := h.babies.DeleteGrowthRecord(r.Context(), chi.URLParam(r, "babyID"), chi.URLParam(r, "recordID"))
	if err != nil {
		h.writeStoreError(r.Context(), w, err, "failed to delete growth record")
		return
	}
	shared.WriteJSON(w, http.StatusOK, baby)
}

type medicalRecordRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Data string `json:"data"`
}

func (h *Handler) handleAddMedicalRecord(w http.ResponseWriter, r *http.Request) {
	var req medicalRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := validate.SanitizeString(req.Name, 255)
	if name == "" {
		shared.WriteError(w, http.StatusBadRequest, "File name is required")
		return
	}
	payload, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		shared.WriteError(w, http.StatusBadRequest, "File data must be base64 encoded")
		return
	}
	params, err := upload.RecordParams(name, req.Type, payload)
	if err != nil {
		shared.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	baby, err := h.babies.AddMedicalRecord(r.Context(), chi.URLParam(r, "babyID"), params)
	if err != nil {
		h.writeStoreError(r.Context(), w, err, "failed to add medical record")
		return
	}
	shared.WriteJSON(w, http.StatusCreated, baby)
}

func (h *Handler) handleDeleteMedicalRecord(w http.ResponseWriter, r *http.Request) {
	baby, err := h.babies.DeleteMedicalRecord(r.Context(), chi.URLParam(r, "babyID"), chi.URLParam(r, "recordID"))
	if err != nil {
		h.writeStoreError(r.Context(), w, err, "failed to delete medical record")
		return
	}
	shared.WriteJSON(w, http.StatusOK, baby)
}

// writeStoreError maps store facts to HTTP statuses: a missing record is
// 404, a failed blob write is 503, anything else 500.
func (h *Handler) writeStoreError(ctx context.Context, w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		shared.WriteError(w, http.StatusNotFound, "baby not found")
	case errors.Is(err, sentinel.ErrUnavailable):
		h.logger.ErrorContext(ctx, message,
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, http.StatusServiceUnavailable, "storage unavailable")
	default:
		h.logger.ErrorContext(ctx, message,
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, http.StatusInternalServerError, message)
	}
}
