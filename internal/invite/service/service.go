// Package service orchestrates collaborator invitations: issuing tokens,
// sending the invitation email and turning accepted invitations into draft
// accounts.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	accountmodels "github.com/PuntoEntrega/PDE-sub002/internal/account/models"
	"github.com/PuntoEntrega/PDE-sub002/internal/invite/models"
	"github.com/PuntoEntrega/PDE-sub002/internal/invite/store"
	"github.com/PuntoEntrega/PDE-sub002/internal/notify"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	dErrors "github.com/PuntoEntrega/PDE-sub002/pkg/domain-errors"
	"github.com/PuntoEntrega/PDE-sub002/pkg/email"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/sentinel"
	"github.com/PuntoEntrega/PDE-sub002/pkg/requestcontext"
)

// DefaultInvitationTTL bounds how long an invitation stays acceptable.
const DefaultInvitationTTL = 7 * 24 * time.Hour

// AccountCreator turns an accepted invitation into a draft account.
// Implemented by the account service.
type AccountCreator interface {
	Register(ctx context.Context, email, password, firstName, lastName string, role accountmodels.Role) (*accountmodels.Account, error)
}

// Service manages invitations.
type Service struct {
	invitations store.Store
	accounts    AccountCreator
	mail        notify.Channel
	ttl         time.Duration
	logger      *slog.Logger
}

func New(invitations store.Store, accounts AccountCreator, mail notify.Channel, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		invitations: invitations,
		accounts:    accounts,
		mail:        mail,
		ttl:         DefaultInvitationTTL,
		logger:      logger,
	}
}

// Invite issues an invitation for inviteeEmail to join companyID with the
// given role and emails the raw token. Only the bcrypt hash of the token is
// stored. Email delivery is best-effort: a send failure is logged, the
// invitation stands.
func (s *Service) Invite(ctx context.Context, companyID id.CompanyID, inviteeEmail, role string) (*models.Invitation, error) {
	actor, ok := requestcontext.ActorFrom(ctx)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if companyID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "company id is required")
	}
	inviteeEmail = strings.TrimSpace(strings.ToLower(inviteeEmail))
	if inviteeEmail == "" || !strings.Contains(inviteeEmail, "@") {
		return nil, dErrors.New(dErrors.CodeValidation, "invitee email must be a valid address")
	}
	role = strings.TrimSpace(strings.ToLower(role))
	if role == "" {
		role = string(accountmodels.RoleCollaborator)
	}
	if !accountmodels.Role(role).IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown role")
	}

	rawToken := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(rawToken), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash invitation token")
	}

	now := requestcontext.Now(ctx)
	invitation := &models.Invitation{
		ID:        id.InvitationID(uuid.New()),
		CompanyID: companyID,
		Email:     inviteeEmail,
		Role:      role,
		TokenHash: string(hash),
		State:     models.StatePending,
		InvitedBy: actor.AccountID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.invitations.Create(ctx, invitation); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create invitation")
	}

	s.sendInvitationEmail(ctx, invitation, rawToken)

	s.logger.InfoContext(ctx, "invitation created",
		"request_id", requestcontext.RequestID(ctx),
		"invitation_id", invitation.ID.String(),
		"company_id", companyID.String(),
	)
	return invitation, nil
}

func (s *Service) sendInvitationEmail(ctx context.Context, invitation *models.Invitation, rawToken string) {
	if s.mail == nil {
		return
	}
	msg := notify.Message{
		To:      invitation.Email,
		Subject: "Invitación a Punto Entrega",
		Body: "Hola,\n\n" +
			"Has sido invitado a colaborar en Punto Entrega.\n" +
			"Usa este código para aceptar la invitación: " + rawToken + "\n\n" +
			"La invitación vence el " + invitation.ExpiresAt.Format("02/01/2006") + ".\n",
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "failed to send invitation email",
			"invitation_id", invitation.ID.String(),
			"error", err,
		)
	}
}

// Accept redeems an invitation token and creates a draft account with a
// display name derived from the email's local part. Invalid, expired and
// already-used tokens all fail without revealing which it was.
func (s *Service) Accept(ctx context.Context, inviteeEmail, rawToken, password string) (*accountmodels.Account, error) {
	inviteeEmail = strings.TrimSpace(strings.ToLower(inviteeEmail))
	if inviteeEmail == "" || rawToken == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid invitation")
	}

	pending, err := s.invitations.ListPendingByEmail(ctx, inviteeEmail)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up invitations")
	}

	var matched *models.Invitation
	for _, inv := range pending {
		if bcrypt.CompareHashAndPassword([]byte(inv.TokenHash), []byte(rawToken)) == nil {
			matched = inv
			break
		}
	}
	if matched == nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid invitation")
	}

	now := requestcontext.Now(ctx)
	if err := matched.Accept(now); err != nil {
		return nil, err
	}

	firstName, lastName := email.DeriveNameFromEmail(inviteeEmail)
	account, err := s.accounts.Register(ctx, inviteeEmail, password, firstName, lastName, accountmodels.Role(matched.Role))
	if err != nil {
		return nil, err
	}

	if err := s.invitations.MarkAccepted(ctx, matched.ID); err != nil {
		if dErrors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeInternal, "invitation disappeared during acceptance")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark invitation accepted")
	}

	s.logger.InfoContext(ctx, "invitation accepted",
		"request_id", requestcontext.RequestID(ctx),
		"invitation_id", matched.ID.String(),
		"account_id", account.ID.String(),
	)
	return account, nil
}
