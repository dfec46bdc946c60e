package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nestcare/internal/baby/models"
	"nestcare/internal/baby/service"
	"nestcare/internal/baby/store"
	"nestcare/pkg/requestcontext"
)

var testNow = time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)

// newTestRouter wires the handler over a real provider and in-memory blob,
// with every request pinned to testNow.
func newTestRouter(t *testing.T) (http.Handler, *service.Provider) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	provider := service.NewProvider(store.New(store.NewMemoryBlob(), logger, nil), logger)
	provider.Load(requestcontext.WithTime(context.Background(), testNow))

	h := New(provider, logger)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(requestcontext.WithTime(req.Context(), testNow)))
		})
	})
	h.Register(r)
	return r, provider
}

func doJSON(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, reader))
	return rec
}

func createBaby(t *testing.T, router http.Handler, name string) models.Baby {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/babies", `{"name":"`+name+`","dob":"2025-01-10"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var baby models.Baby
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &baby))
	return baby
}

func TestHandleCreate(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("valid profile", func(t *testing.T) {
		baby := createBaby(t, router, "Aisha")
		assert.NotEmpty(t, baby.ID)
		assert.Equal(t, "Aisha", baby.Name)
	})

	t.Run("validation failures carry the field message", func(t *testing.T) {
		tests := []struct {
			name    string
			body    string
			wantErr string
		}{
			{name: "missing name", body: `{"dob":"2025-01-10"}`, wantErr: "Name is required"},
			{name: "short name", body: `{"name":"A","dob":"2025-01-10"}`, wantErr: "Name must be at least 2 characters"},
			{name: "digits in name", body: `{"name":"Aisha123","dob":"2025-01-10"}`, wantErr: "Name contains invalid characters"},
			{name: "missing dob", body: `{"name":"Aisha"}`, wantErr: "Date of birth is required"},
			{name: "future dob", body: `{"name":"Aisha","dob":"2026-01-01"}`, wantErr: "Date cannot be in the future"},
			{name: "bad gender", body: `{"name":"Aisha","dob":"2025-01-10","gender":"other"}`, wantErr: "Invalid gender"},
			{name: "bad photo URL", body: `{"name":"Aisha","dob":"2025-01-10","photo":"ftp://x/y"}`, wantErr: "Only HTTP/HTTPS URLs are allowed"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec := doJSON(t, router, http.MethodPost, "/babies", tt.body)
				require.Equal(t, http.StatusBadRequest, rec.Code)

				var body map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantErr, body["error"])
			})
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/babies", `{not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleGetAndList(t *testing.T) {
	router, _ := newTestRouter(t)
	baby := createBaby(t, router, "Aisha")

	t.Run("get by id", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/babies/"+baby.ID, "")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/babies/nope", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/babies", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var babies []models.Baby
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &babies))
		assert.Len(t, babies, 1)
	})
}

func TestHandleUpdate(t *testing.T) {
	router, _ := newTestRouter(t)
	baby := createBaby(t, router, "Aisha")

	t.Run("partial update touches only sent fields", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPatch, "/babies/"+baby.ID, `{"bloodGroup":"O+"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var updated models.Baby
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.Equal(t, models.BloodGroup("O+"), updated.BloodGroup)
		assert.Equal(t, "Aisha", updated.Name)
	})

	t.Run("invalid field rejects the whole update", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPatch, "/babies/"+baby.ID, `{"name":"A"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleSelection(t *testing.T) {
	router, _ := newTestRouter(t)
	a := createBaby(t, router, "Aisha")
	b := createBaby(t, router, "Rahim")

	t.Run("latest creation is selected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/babies/selected", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var selected models.Baby
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &selected))
		assert.Equal(t, b.ID, selected.ID)
	})

	t.Run("explicit select switches", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/babies/"+a.ID+"/select", "")
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(t, router, http.MethodGet, "/babies/selected", "")
		var selected models.Baby
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &selected))
		assert.Equal(t, a.ID, selected.ID)
	})

	t.Run("delete reassigns selection", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, "/babies/"+a.ID, "")
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(t, router, http.MethodGet, "/babies/selected", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var selected models.Baby
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &selected))
		assert.Equal(t, b.ID, selected.ID)
	})
}

func TestHandleToggleVaccine(t *testing.T) {
	router, _ := newTestRouter(t)
	baby := createBaby(t, router, "Aisha")

	t.Run("known key flips", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/babies/"+baby.ID+"/vaccines/bcg", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var updated models.Baby
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.True(t, updated.Vaccines["bcg"])
	})

	t.Run("unknown key is rejected before storage", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/babies/"+baby.ID+"/vaccines/polio9", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleSchedule(t *testing.T) {
	router, _ := newTestRouter(t)
	baby := createBaby(t, router, "Aisha")

	rec := doJSON(t, router, http.MethodGet, "/babies/"+baby.ID+"/schedule", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Age *struct {
			TotalDays int `json:"totalDays"`
		} `json:"age"`
		Vaccines []struct {
			Key    string `json:"key"`
			Status string `json:"status"`
		} `json:"vaccines"`
		Progress struct {
			Total int `json:"total"`
		} `json:"progress"`
		Stage string `json:"stage"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Age)
	assert.Equal(t, 156, body.Age.TotalDays)
	assert.Len(t, body.Vaccines, 6)
	assert.Equal(t, 6, body.Progress.Total)
	assert.Equal(t, "Not started", body.Stage)
}

func TestHandleMilestones(t *testing.T) {
	router, _ := newTestRouter(t)
	baby := createBaby(t, router, "Aisha")

	t.Run("add", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/babies/"+baby.ID+"/milestones",
			`{"title":"First smile","date":"2025-02-20"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var updated models.Baby
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		require.Len(t, updated.Milestones, 1)
		assert.Equal(t, "First smile", updated.Milestones[0].Title)
	})

	t.Run("title required", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/babies/"+baby.ID+"/milestones", `{"date":"2025-02-20"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleGrowthRecords(t *testing.T) {
	router, _ := newTestRouter(t)
	baby := createBaby(t, router, "Aisha")

	t.Run("at least one measurement required", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/babies/"+baby.ID+"/growth-records", `{"date":"2025-03-01"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("add with weight only", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/babies/"+baby.ID+"/growth-records",
			`{"date":"2025-03-01","weight":5.2}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var updated models.Baby
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		require.Len(t, updated.GrowthRecords, 1)
		require.NotNil(t, updated.GrowthRecords[0].Weight)
		assert.InDelta(t, 5.2, *updated.GrowthRecords[0].Weight, 0.001)
		assert.Nil(t, updated.GrowthRecords[0].Height)
	})
}

func TestHandleMedicalRecords(t *testing.T) {
	router, _ := newTestRouter(t)
	baby := createBaby(t, router, "Aisha")
	payload := base64.StdEncoding.EncodeToString([]byte{1, 2, 3})

	t.Run("add pdf", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/babies/"+baby.ID+"/medical-records",
			`{"name":"prescription.pdf","type":"application/pdf","data":"`+payload+`"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var updated models.Baby
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		require.Len(t, updated.MedicalRecords, 1)
		assert.Equal(t, "data:application/pdf;base64,AQID", updated.MedicalRecords[0].Data)
	})

	t.Run("disallowed type", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/babies/"+baby.ID+"/medical-records",
			`{"name":"script.exe","type":"application/x-msdownload","data":"`+payload+`"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("data must be base64", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/babies/"+baby.ID+"/medical-records",
			`{"name":"x.pdf","type":"application/pdf","data":"%%%"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
