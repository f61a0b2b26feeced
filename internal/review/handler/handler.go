// Package handler exposes the status transition workflow over HTTP for the
// three reviewable entity families.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/PuntoEntrega/PDE-sub002/internal/review/models"
	"github.com/PuntoEntrega/PDE-sub002/internal/review/service"
	dErrors "github.com/PuntoEntrega/PDE-sub002/pkg/domain-errors"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/httputil"
	"github.com/PuntoEntrega/PDE-sub002/pkg/requestcontext"
)

// Service is the workflow surface the handler needs.
type Service interface {
	ChangeStatus(ctx context.Context, kind models.Kind, entityID uuid.UUID, rawStatus, reason string) (*service.Result, error)
	SubmitForReview(ctx context.Context, kind models.Kind, entityID uuid.UUID, reason string) (*service.Result, error)
	GetHistory(ctx context.Context, kind models.Kind, entityID uuid.UUID) ([]models.StatusChange, error)
}

// Handler serves status workflow endpoints.
type Handler struct {
	workflow Service
	logger   *slog.Logger
}

func New(workflow Service, logger *slog.Logger) *Handler {
	return &Handler{workflow: workflow, logger: logger}
}

// kindSegments maps URL path segments to entity kinds.
var kindSegments = map[string]models.Kind{
	"accounts":        models.KindAccount,
	"companies":       models.KindCompany,
	"delivery-points": models.KindDeliveryPoint,
}

// Register mounts the workflow routes for every reviewable entity family
// under the review section of the admin panel.
func (h *Handler) Register(r chi.Router) {
	r.Route("/admin-panel/review", func(rr chi.Router) {
		for segment, kind := range kindSegments {
			rr.Route("/"+segment+"/{id}", func(sr chi.Router) {
				sr.Patch("/status", h.handleChangeStatus(kind))
				sr.Post("/submit-review", h.handleSubmitReview(kind))
				sr.Get("/history", h.handleGetHistory(kind))
			})
		}
	})
}

type statusResponse struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Status    string `json:"status"`
	Version   int64  `json:"version"`
	Unchanged bool   `json:"unchanged,omitempty"`
	Message   string `json:"message,omitempty"`
}

type historyEntry struct {
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	Reason         string    `json:"reason,omitempty"`
	ActorID        string    `json:"actor_id"`
	ActorDevice    string    `json:"actor_device,omitempty"`
	ChangedAt      time.Time `json:"changed_at"`
}

func (h *Handler) handleChangeStatus(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := requestcontext.RequestID(ctx)

		entityID, ok := pathID(w, r)
		if !ok {
			return
		}

		req, ok := httputil.DecodeAndPrepare[ChangeStatusRequest](w, r, h.logger, ctx, requestID)
		if !ok {
			return
		}

		result, err := h.workflow.ChangeStatus(ctx, kind, entityID, req.NewStatus, req.Reason)
		if err != nil {
			h.writeWorkflowError(ctx, w, requestID, "status change failed", err)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, toStatusResponse(result))
	}
}

func (h *Handler) handleSubmitReview(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := requestcontext.RequestID(ctx)

		entityID, ok := pathID(w, r)
		if !ok {
			return
		}

		// The body is optional for this endpoint.
		var reason string
		if r.ContentLength != 0 {
			req, ok := httputil.DecodeAndPrepare[SubmitReviewRequest](w, r, h.logger, ctx, requestID)
			if !ok {
				return
			}
			reason = req.Reason
		}

		result, err := h.workflow.SubmitForReview(ctx, kind, entityID, reason)
		if err != nil {
			h.writeWorkflowError(ctx, w, requestID, "submit for review failed", err)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, toStatusResponse(result))
	}
}

func (h *Handler) handleGetHistory(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := requestcontext.RequestID(ctx)

		entityID, ok := pathID(w, r)
		if !ok {
			return
		}

		changes, err := h.workflow.GetHistory(ctx, kind, entityID)
		if err != nil {
			h.writeWorkflowError(ctx, w, requestID, "history lookup failed", err)
			return
		}

		entries := make([]historyEntry, 0, len(changes))
		for _, c := range changes {
			entries = append(entries, historyEntry{
				PreviousStatus: string(c.PreviousStatus),
				NewStatus:      string(c.NewStatus),
				Reason:         c.Reason,
				ActorID:        c.ActorID.String(),
				ActorDevice:    c.ActorDevice,
				ChangedAt:      c.ChangedAt,
			})
		}

		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"entity_id": entityID.String(),
			"kind":      string(kind),
			"history":   entries,
		})
	}
}

// pathID parses the {id} URL parameter. On failure it writes the error
// response and returns ok=false.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	entityID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID"))
		return uuid.Nil, false
	}
	return entityID, true
}

func (h *Handler) writeWorkflowError(ctx context.Context, w http.ResponseWriter, requestID, msg string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestID,
			"error", err.Error(),
		)
	} else {
		h.logger.WarnContext(ctx, msg,
			"request_id", requestID,
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}

func toStatusResponse(result *service.Result) statusResponse {
	return statusResponse{
		ID:        result.Entity.ID.String(),
		Kind:      string(result.Entity.Kind),
		Status:    string(result.Entity.Status),
		Version:   result.Entity.Version,
		Unchanged: result.Unchanged,
		Message:   result.Message,
	}
}
