// Package service orchestrates account registration, authentication and
// admin recipient resolution.
package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/PuntoEntrega/PDE-sub002/internal/account/models"
	"github.com/PuntoEntrega/PDE-sub002/internal/account/store"
	"github.com/PuntoEntrega/PDE-sub002/internal/notify"
	reviewmodels "github.com/PuntoEntrega/PDE-sub002/internal/review/models"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	dErrors "github.com/PuntoEntrega/PDE-sub002/pkg/domain-errors"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/sentinel"
	"github.com/PuntoEntrega/PDE-sub002/pkg/requestcontext"
)

// Registrar registers a newly created account with the status workflow's
// entity registry. The in-memory review store needs this; the SQL review
// store reads the accounts table directly and uses NopRegistrar.
type Registrar interface {
	Put(ctx context.Context, e *reviewmodels.Entity) error
}

// NopRegistrar satisfies Registrar without doing anything.
type NopRegistrar struct{}

func (NopRegistrar) Put(context.Context, *reviewmodels.Entity) error { return nil }

// Service manages account records.
type Service struct {
	accounts  store.Store
	registrar Registrar
	logger    *slog.Logger
}

func New(accounts store.Store, registrar Registrar, logger *slog.Logger) *Service {
	if registrar == nil {
		registrar = NopRegistrar{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{accounts: accounts, registrar: registrar, logger: logger}
}

// Register creates a draft account pending review.
func (s *Service) Register(ctx context.Context, email, password, firstName, lastName string, role models.Role) (*models.Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if len(password) < 8 {
		return nil, dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	account, err := models.NewAccount(
		id.AccountID(uuid.New()), email,
		strings.TrimSpace(firstName), strings.TrimSpace(lastName),
		role, string(hash), requestcontext.Now(ctx),
	)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if dErrors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "email is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create account")
	}

	if err := s.registrar.Put(ctx, account.AsReviewEntity()); err != nil {
		s.logger.ErrorContext(ctx, "failed to register account with review workflow",
			"account_id", account.ID.String(),
			"error", err,
		)
	}

	s.logger.InfoContext(ctx, "account registered",
		"request_id", requestcontext.RequestID(ctx),
		"account_id", account.ID.String(),
		"role", account.Role,
	)
	return account, nil
}

// Authenticate verifies credentials and returns the account. Credential
// failures collapse into one unauthorized error so callers cannot probe
// which part was wrong.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if dErrors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up account")
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	return account, nil
}

// GetAccount loads one account by id.
func (s *Service) GetAccount(ctx context.Context, accountID id.AccountID) (*models.Account, error) {
	if accountID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "account id is required")
	}
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if dErrors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "account not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up account")
	}
	return account, nil
}

// ListAdminRecipients implements the notification dispatcher's admin
// directory: active accounts at or above minLevel with a contact channel.
func (s *Service) ListAdminRecipients(ctx context.Context, minLevel int) ([]notify.Recipient, error) {
	admins, err := s.accounts.ListAdminsByMinLevel(ctx, minLevel)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list admin accounts")
	}
	var recipients []notify.Recipient
	for _, a := range admins {
		if a.Email == "" && a.Phone == "" {
			continue
		}
		recipients = append(recipients, notify.Recipient{
			Name:  a.FullName(),
			Email: a.Email,
			Phone: a.Phone,
		})
	}
	return recipients, nil
}
