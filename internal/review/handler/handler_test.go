package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PuntoEntrega/PDE-sub002/internal/review/models"
	"github.com/PuntoEntrega/PDE-sub002/internal/review/service"
	"github.com/PuntoEntrega/PDE-sub002/internal/review/store/memory"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	"github.com/PuntoEntrega/PDE-sub002/pkg/requestcontext"
)

const reviewBase = "/admin-panel/review"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestRouter wires the handler against the in-memory stores with an
// actor-injecting middleware standing in for the gate.
func newTestRouter(t *testing.T, seed ...*models.Entity) chi.Router {
	t.Helper()

	entities := memory.NewEntityStore()
	history := memory.NewHistoryStore()
	for _, e := range seed {
		require.NoError(t, entities.Put(context.Background(), e))
	}

	workflow := service.New(entities, history, service.WithLogger(testLogger()))
	h := New(workflow, testLogger())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := requestcontext.WithActor(req.Context(), requestcontext.Actor{
				AccountID: id.AccountID(uuid.New()),
				RoleLevel: 5,
				Status:    "active",
			})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	h.Register(r)
	return r
}

func seedCompany(status models.Status) *models.Entity {
	return &models.Entity{
		Kind:        models.KindCompany,
		ID:          uuid.New(),
		DisplayName: "Distribuidora Sol",
		Status:      status,
		Contact:     models.Contact{Email: "sol@example.cr"},
		Version:     1,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

func doJSON(t *testing.T, r chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChangeStatusEndpoint(t *testing.T) {
	entity := seedCompany(models.StatusUnderReview)
	r := newTestRouter(t, entity)

	w := doJSON(t, r, http.MethodPatch, reviewBase+"/companies/"+entity.ID.String()+"/status",
		ChangeStatusRequest{NewStatus: "active", Reason: "documentación completa"})

	require.Equal(t, http.StatusOK, w.Code)
	var resp statusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, int64(2), resp.Version)
	assert.Equal(t, "company", resp.Kind)
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	entity := seedCompany(models.StatusUnderReview)
	r := newTestRouter(t, entity)

	w := doJSON(t, r, http.MethodPatch, reviewBase+"/companies/"+entity.ID.String()+"/status",
		ChangeStatusRequest{NewStatus: "banana"})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Nothing was written.
	h := doJSON(t, r, http.MethodGet, reviewBase+"/companies/"+entity.ID.String()+"/history", nil)
	require.Equal(t, http.StatusOK, h.Code)
	var hist struct {
		History []historyEntry `json:"history"`
	}
	require.NoError(t, json.Unmarshal(h.Body.Bytes(), &hist))
	assert.Empty(t, hist.History)
}

func TestChangeStatusRejectsIllegalTransition(t *testing.T) {
	entity := seedCompany(models.StatusDraft)
	r := newTestRouter(t, entity)

	w := doJSON(t, r, http.MethodPatch, reviewBase+"/companies/"+entity.ID.String()+"/status",
		ChangeStatusRequest{NewStatus: "active"})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestChangeStatusUnknownEntity(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPatch, reviewBase+"/companies/"+uuid.NewString()+"/status",
		ChangeStatusRequest{NewStatus: "active"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChangeStatusRejectsMalformedID(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPatch, reviewBase+"/companies/not-a-uuid/status",
		ChangeStatusRequest{NewStatus: "active"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitReviewEndpointIsIdempotent(t *testing.T) {
	entity := seedCompany(models.StatusDraft)
	r := newTestRouter(t, entity)

	first := doJSON(t, r, http.MethodPost, reviewBase+"/companies/"+entity.ID.String()+"/submit-review", nil)
	require.Equal(t, http.StatusOK, first.Code)
	var resp statusResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &resp))
	assert.Equal(t, "under_review", resp.Status)
	assert.False(t, resp.Unchanged)

	second := doJSON(t, r, http.MethodPost, reviewBase+"/companies/"+entity.ID.String()+"/submit-review", nil)
	require.Equal(t, http.StatusOK, second.Code)
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.True(t, resp.Unchanged)

	h := doJSON(t, r, http.MethodGet, reviewBase+"/companies/"+entity.ID.String()+"/history", nil)
	var hist struct {
		History []historyEntry `json:"history"`
	}
	require.NoError(t, json.Unmarshal(h.Body.Bytes(), &hist))
	assert.Len(t, hist.History, 1)
}

func TestSubmitReviewAcceptsReasonBody(t *testing.T) {
	entity := seedCompany(models.StatusDraft)
	r := newTestRouter(t, entity)

	w := doJSON(t, r, http.MethodPost, reviewBase+"/companies/"+entity.ID.String()+"/submit-review",
		SubmitReviewRequest{Reason: "listo para revisión"})
	require.Equal(t, http.StatusOK, w.Code)

	h := doJSON(t, r, http.MethodGet, reviewBase+"/companies/"+entity.ID.String()+"/history", nil)
	var hist struct {
		History []historyEntry `json:"history"`
	}
	require.NoError(t, json.Unmarshal(h.Body.Bytes(), &hist))
	require.Len(t, hist.History, 1)
	assert.Equal(t, "listo para revisión", hist.History[0].Reason)
}

func TestHistoryEndpointOrdersOldestFirst(t *testing.T) {
	entity := seedCompany(models.StatusDraft)
	r := newTestRouter(t, entity)

	steps := []string{"under_review", "active", "inactive"}
	path := reviewBase + "/companies/" + entity.ID.String()
	for _, s := range steps {
		w := doJSON(t, r, http.MethodPatch, path+"/status", ChangeStatusRequest{NewStatus: s})
		require.Equal(t, http.StatusOK, w.Code, "transition to %s", s)
	}

	h := doJSON(t, r, http.MethodGet, path+"/history", nil)
	require.Equal(t, http.StatusOK, h.Code)
	var hist struct {
		History []historyEntry `json:"history"`
	}
	require.NoError(t, json.Unmarshal(h.Body.Bytes(), &hist))
	require.Len(t, hist.History, 3)
	assert.Equal(t, "draft", hist.History[0].PreviousStatus)
	for i := 1; i < len(hist.History); i++ {
		assert.Equal(t, hist.History[i-1].NewStatus, hist.History[i].PreviousStatus)
	}
}

func TestEndpointsCoverAllEntityKinds(t *testing.T) {
	account := &models.Entity{Kind: models.KindAccount, ID: uuid.New(), DisplayName: "Ana Mora", Status: models.StatusDraft, Version: 1}
	point := &models.Entity{Kind: models.KindDeliveryPoint, ID: uuid.New(), DisplayName: "PdE Central", Status: models.StatusDraft, Version: 1}
	r := newTestRouter(t, account, point)

	w := doJSON(t, r, http.MethodPost, reviewBase+"/accounts/"+account.ID.String()+"/submit-review", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, reviewBase+"/delivery-points/"+point.ID.String()+"/submit-review", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
