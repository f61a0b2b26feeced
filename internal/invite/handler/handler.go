// Package handler exposes invitations over HTTP. Creation is gated;
// acceptance is public because the invitee has no session yet.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	accountmodels "github.com/PuntoEntrega/PDE-sub002/internal/account/models"
	"github.com/PuntoEntrega/PDE-sub002/internal/invite/models"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	dErrors "github.com/PuntoEntrega/PDE-sub002/pkg/domain-errors"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/httputil"
	"github.com/PuntoEntrega/PDE-sub002/pkg/requestcontext"
)

// Service is the invitation surface the handler needs.
type Service interface {
	Invite(ctx context.Context, companyID id.CompanyID, inviteeEmail, role string) (*models.Invitation, error)
	Accept(ctx context.Context, inviteeEmail, rawToken, password string) (*accountmodels.Account, error)
}

// Handler serves invitation endpoints.
type Handler struct {
	invitations Service
	logger      *slog.Logger
}

func New(invitations Service, logger *slog.Logger) *Handler {
	return &Handler{invitations: invitations, logger: logger}
}

// Register mounts the gated invitation routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/invitations", h.handleCreate)
}

// RegisterPublic mounts the acceptance route outside the gate.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/invitations/accept", h.handleAccept)
}

// CreateInvitationRequest is the body for issuing an invitation.
type CreateInvitationRequest struct {
	CompanyID string `json:"company_id"`
	Email     string `json:"email"`
	Role      string `json:"role,omitempty"`
}

func (r *CreateInvitationRequest) Normalize() {
	r.CompanyID = strings.TrimSpace(r.CompanyID)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.Role = strings.TrimSpace(strings.ToLower(r.Role))
}

func (r *CreateInvitationRequest) Validate() error {
	if r.CompanyID == "" {
		return dErrors.New(dErrors.CodeValidation, "company_id is required")
	}
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return dErrors.New(dErrors.CodeValidation, "email must be a valid address")
	}
	return nil
}

// AcceptInvitationRequest is the body for redeeming an invitation token.
type AcceptInvitationRequest struct {
	Email    string `json:"email"`
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (r *AcceptInvitationRequest) Normalize() {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.Token = strings.TrimSpace(r.Token)
}

func (r *AcceptInvitationRequest) Validate() error {
	if r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if r.Token == "" {
		return dErrors.New(dErrors.CodeValidation, "token is required")
	}
	if len(r.Password) < 8 {
		return dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}
	return nil
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateInvitationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	companyID, err := id.ParseCompanyID(req.CompanyID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	invitation, err := h.invitations.Invite(ctx, companyID, req.Email, req.Role)
	if err != nil {
		h.logger.WarnContext(ctx, "invitation creation failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, invitation)
}

func (h *Handler) handleAccept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AcceptInvitationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	account, err := h.invitations.Accept(ctx, req.Email, req.Token, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "invitation acceptance failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"account_id": account.ID.String(),
		"email":      account.Email,
		"first_name": account.FirstName,
		"last_name":  account.LastName,
		"status":     string(account.Status),
	})
}
