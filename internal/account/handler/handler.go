// Package handler exposes account registration, login and lookup over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/PuntoEntrega/PDE-sub002/internal/account/models"
	"github.com/PuntoEntrega/PDE-sub002/internal/session"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	dErrors "github.com/PuntoEntrega/PDE-sub002/pkg/domain-errors"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/httputil"
	"github.com/PuntoEntrega/PDE-sub002/pkg/requestcontext"
)

// DefaultSessionTTL bounds how long a login survives without re-auth.
const DefaultSessionTTL = 12 * time.Hour

// Service is the account surface the handler needs.
type Service interface {
	Register(ctx context.Context, email, password, firstName, lastName string, role models.Role) (*models.Account, error)
	Authenticate(ctx context.Context, email, password string) (*models.Account, error)
	GetAccount(ctx context.Context, accountID id.AccountID) (*models.Account, error)
}

// Handler serves account endpoints and issues the session cookie.
type Handler struct {
	accounts   Service
	codec      *session.Codec
	sessionTTL time.Duration
	logger     *slog.Logger
}

func New(accounts Service, codec *session.Codec, logger *slog.Logger) *Handler {
	return &Handler{
		accounts:   accounts,
		codec:      codec,
		sessionTTL: DefaultSessionTTL,
		logger:     logger,
	}
}

// RegisterPublic mounts the routes that must stay outside the gate.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/register", h.handleRegister)
	r.Post("/logout", h.handleLogout)
}

// Register mounts the gated account routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/accounts/{id}", h.handleGetAccount)
}

type accountResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	Status    string `json:"status"`
}

func toAccountResponse(a *models.Account) accountResponse {
	return accountResponse{
		ID:        a.ID.String(),
		Email:     a.Email,
		Phone:     a.Phone,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Role:      string(a.Role),
		Status:    string(a.Status),
	}
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	account, err := h.accounts.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "login failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	token, err := h.codec.Generate(
		account.ID, account.Role.Level(), string(account.Status),
		account.FirstName, account.LastName, h.sessionTTL,
	)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to sign session token",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to establish session"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.InfoContext(ctx, "login succeeded",
		"request_id", requestID,
		"account_id", account.ID.String(),
	)
	httputil.WriteJSON(w, http.StatusOK, toAccountResponse(account))
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	account, err := h.accounts.Register(ctx, req.Email, req.Password, req.FirstName, req.LastName, models.RoleCollaborator)
	if err != nil {
		h.logger.WarnContext(ctx, "registration failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toAccountResponse(account))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID, err := id.ParseAccountID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	account, err := h.accounts.GetAccount(ctx, accountID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAccountResponse(account))
}
