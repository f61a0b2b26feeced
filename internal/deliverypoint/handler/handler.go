// Package handler exposes delivery point registration over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/PuntoEntrega/PDE-sub002/internal/deliverypoint/models"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	dErrors "github.com/PuntoEntrega/PDE-sub002/pkg/domain-errors"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/httputil"
	"github.com/PuntoEntrega/PDE-sub002/pkg/requestcontext"
)

// Service is the delivery point surface the handler needs.
type Service interface {
	CreatePoint(ctx context.Context, companyID id.CompanyID, name, address, contactEmail, contactPhone, scheduleNote string) (*models.DeliveryPoint, error)
	ListByCompany(ctx context.Context, companyID id.CompanyID) ([]*models.DeliveryPoint, error)
}

// Handler serves delivery point endpoints.
type Handler struct {
	points Service
	logger *slog.Logger
}

func New(points Service, logger *slog.Logger) *Handler {
	return &Handler{points: points, logger: logger}
}

// Register mounts the delivery point routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/delivery-points", h.handleCreate)
	r.Get("/companies/{id}/delivery-points", h.handleListByCompany)
}

// CreatePointRequest is the body for PdE creation.
type CreatePointRequest struct {
	CompanyID    string `json:"company_id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
	ScheduleNote string `json:"schedule_note,omitempty"`
}

func (r *CreatePointRequest) Normalize() {
	r.CompanyID = strings.TrimSpace(r.CompanyID)
	r.Name = strings.TrimSpace(r.Name)
	r.Address = strings.TrimSpace(r.Address)
	r.ContactEmail = strings.TrimSpace(strings.ToLower(r.ContactEmail))
	r.ContactPhone = strings.TrimSpace(r.ContactPhone)
	r.ScheduleNote = strings.TrimSpace(r.ScheduleNote)
}

func (r *CreatePointRequest) Validate() error {
	if r.CompanyID == "" {
		return dErrors.New(dErrors.CodeValidation, "company_id is required")
	}
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if len(r.Name) > 128 {
		return dErrors.New(dErrors.CodeValidation, "name must be 128 characters or less")
	}
	if r.ContactEmail != "" && !strings.Contains(r.ContactEmail, "@") {
		return dErrors.New(dErrors.CodeValidation, "contact_email must be a valid address")
	}
	return nil
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreatePointRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	companyID, err := id.ParseCompanyID(req.CompanyID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	point, err := h.points.CreatePoint(ctx, companyID, req.Name, req.Address, req.ContactEmail, req.ContactPhone, req.ScheduleNote)
	if err != nil {
		h.logger.WarnContext(ctx, "delivery point creation failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, point)
}

func (h *Handler) handleListByCompany(w http.ResponseWriter, r *http.Request) {
	companyID, err := id.ParseCompanyID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	points, err := h.points.ListByCompany(r.Context(), companyID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if points == nil {
		points = []*models.DeliveryPoint{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"company_id":      companyID.String(),
		"delivery_points": points,
	})
}
