// Package handler serves the read-only shared view and issues share links
// for existing profiles.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"nestcare/internal/baby/models"
	"nestcare/internal/platform/metrics"
	"nestcare/internal/schedule"
	"nestcare/internal/sharelink"
	"nestcare/internal/transport/http/shared"
	"nestcare/pkg/requestcontext"
)

// BabyGetter is the slice of the state provider link generation needs.
type BabyGetter interface {
	Baby(id string) (models.Baby, error)
}

// Handler handles the share endpoints.
type Handler struct {
	logger  *slog.Logger
	babies  BabyGetter
	metrics *metrics.Metrics
	baseURL string
}

func New(babies BabyGetter, baseURL string, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{logger: logger, babies: babies, metrics: m, baseURL: baseURL}
}

// Register wires the share routes into the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/share", h.handleSharedView)
	r.Post("/babies/{babyID}/share-link", h.handleCreateLink)
}

// sharedViewResponse is everything the read-only view renders. The
// completion map travels inside the link itself; the local store is never
// consulted.
type sharedViewResponse struct {
	Name     string                    `json:"name"`
	DOB      string                    `json:"dob"`
	Age      *schedule.AgeBreakdown    `json:"age"`
	Vaccines []schedule.AnnotatedEntry `json:"vaccines"`
	Progress schedule.ProgressSummary  `json:"progress"`
	Stage    string                    `json:"stage"`
}

func (h *Handler) handleSharedView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := requestcontext.Now(ctx)

	snapshot, err := sharelink.Decode(r.URL.Query(), now)
	if err != nil {
		if !errors.Is(err, sharelink.ErrInvalidLink) {
			h.logger.ErrorContext(ctx, "decoding share link failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
		}
		h.metrics.IncShareLinksRejected()
		shared.WriteError(w, http.StatusBadRequest, "Invalid Share Link")
		return
	}

	entries := schedule.Statuses(snapshot.DOB, snapshot.Vaccines, now)
	h.metrics.IncShareViewsServed()
	shared.WriteJSON(w, http.StatusOK, sharedViewResponse{
		Name:     snapshot.Name,
		DOB:      snapshot.DOB,
		Age:      schedule.CalculateAge(snapshot.DOB, now),
		Vaccines: entries,
		Progress: schedule.Progress(entries),
		Stage:    schedule.Stage(entries),
	})
}

func (h *Handler) handleCreateLink(w http.ResponseWriter, r *http.Request) {
	baby, err := h.babies.Baby(chi.URLParam(r, "babyID"))
	if err != nil {
		shared.WriteError(w, http.StatusNotFound, "baby not found")
		return
	}

	link, err := sharelink.Encode(baby, h.baseURL)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "building share link failed",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err.Error(),
		)
		shared.WriteError(w, http.StatusInternalServerError, "failed to build share link")
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"url": link})
}
