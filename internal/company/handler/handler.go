// Package handler exposes company onboarding over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PuntoEntrega/PDE-sub002/internal/company/models"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/httputil"
	"github.com/PuntoEntrega/PDE-sub002/pkg/requestcontext"
)

// Service is the company surface the handler needs.
type Service interface {
	CreateCompany(ctx context.Context, legalName, tradeName, taxID, contactEmail, contactPhone string) (*models.Company, error)
	GetCompany(ctx context.Context, companyID id.CompanyID) (*models.Company, error)
	GetProgress(ctx context.Context, companyID id.CompanyID) (*models.Progress, error)
}

// Handler serves company endpoints.
type Handler struct {
	companies Service
	logger    *slog.Logger
}

func New(companies Service, logger *slog.Logger) *Handler {
	return &Handler{companies: companies, logger: logger}
}

// Register mounts the company routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/companies", h.handleCreate)
	r.Get("/companies/{id}", h.handleGet)
	r.Get("/companies/{id}/progress", h.handleProgress)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateCompanyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	company, err := h.companies.CreateCompany(ctx, req.LegalName, req.TradeName, req.TaxID, req.ContactEmail, req.ContactPhone)
	if err != nil {
		h.logger.WarnContext(ctx, "company creation failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, company)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	companyID, err := id.ParseCompanyID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	company, err := h.companies.GetCompany(r.Context(), companyID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, company)
}

func (h *Handler) handleProgress(w http.ResponseWriter, r *http.Request) {
	companyID, err := id.ParseCompanyID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	progress, err := h.companies.GetProgress(r.Context(), companyID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, progress)
}
