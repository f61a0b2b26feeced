// Package service orchestrates company onboarding and progress reporting.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/PuntoEntrega/PDE-sub002/internal/company/models"
	"github.com/PuntoEntrega/PDE-sub002/internal/company/store"
	reviewmodels "github.com/PuntoEntrega/PDE-sub002/internal/review/models"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	dErrors "github.com/PuntoEntrega/PDE-sub002/pkg/domain-errors"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/sentinel"
	"github.com/PuntoEntrega/PDE-sub002/pkg/requestcontext"
)

// Registrar registers new companies with the status workflow's entity
// registry (in-memory mode only; the SQL review store reads the companies
// table directly).
type Registrar interface {
	Put(ctx context.Context, e *reviewmodels.Entity) error
}

// Counter reports how many records another context holds for a company.
// Implemented by the delivery point store and the invitation store to feed
// onboarding progress.
type Counter interface {
	CountByCompany(ctx context.Context, companyID id.CompanyID) (int, error)
}

// Cache is the subset of the redis client the service uses. Nil-able: a
// nil cache means every progress read recomputes.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Service manages company records and onboarding progress.
type Service struct {
	companies   store.Store
	points      Counter
	invitations Counter
	registrar   Registrar
	cache       Cache
	cacheTTL    time.Duration
	logger      *slog.Logger
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithCache enables Redis-backed progress caching.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithRegistrar sets the review workflow registrar.
func WithRegistrar(r Registrar) Option {
	return func(s *Service) { s.registrar = r }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func New(companies store.Store, points, invitations Counter, opts ...Option) *Service {
	s := &Service{
		companies:   companies,
		points:      points,
		invitations: invitations,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// CreateCompany registers a draft company owned by the calling account.
func (s *Service) CreateCompany(ctx context.Context, legalName, tradeName, taxID, contactEmail, contactPhone string) (*models.Company, error) {
	actor, ok := requestcontext.ActorFrom(ctx)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	company, err := models.NewCompany(
		id.CompanyID(uuid.New()),
		strings.TrimSpace(legalName), strings.TrimSpace(tradeName),
		strings.ToUpper(strings.TrimSpace(taxID)),
		actor.AccountID, requestcontext.Now(ctx),
	)
	if err != nil {
		return nil, err
	}
	company.ContactEmail = strings.TrimSpace(strings.ToLower(contactEmail))
	company.ContactPhone = strings.TrimSpace(contactPhone)

	if err := s.companies.Create(ctx, company); err != nil {
		if dErrors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "a company with this tax id already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create company")
	}

	if s.registrar != nil {
		if err := s.registrar.Put(ctx, company.AsReviewEntity()); err != nil {
			s.logger.ErrorContext(ctx, "failed to register company with review workflow",
				"company_id", company.ID.String(),
				"error", err,
			)
		}
	}

	s.logger.InfoContext(ctx, "company created",
		"request_id", requestcontext.RequestID(ctx),
		"company_id", company.ID.String(),
		"owner_id", actor.AccountID.String(),
	)
	return company, nil
}

// GetCompany loads one company by id.
func (s *Service) GetCompany(ctx context.Context, companyID id.CompanyID) (*models.Company, error) {
	if companyID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "company id is required")
	}
	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		if dErrors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "company not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up company")
	}
	return company, nil
}

func progressKey(companyID id.CompanyID) string {
	return "company:progress:" + companyID.String()
}

// GetProgress returns onboarding progress counters. Served from the cache
// when fresh; recomputed from the stores and re-cached on miss. Cache
// failures degrade to recomputation, never to an error.
func (s *Service) GetProgress(ctx context.Context, companyID id.CompanyID) (*models.Progress, error) {
	if _, err := s.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, progressKey(companyID)).Result()
		if err == nil {
			var cached models.Progress
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.WarnContext(ctx, "progress cache read failed",
				"company_id", companyID.String(),
				"error", err,
			)
		}
	}

	progress, err := s.computeProgress(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(progress); err == nil {
			if err := s.cache.Set(ctx, progressKey(companyID), raw, s.cacheTTL).Err(); err != nil {
				s.logger.WarnContext(ctx, "progress cache write failed",
					"company_id", companyID.String(),
					"error", err,
				)
			}
		}
	}
	return progress, nil
}

func (s *Service) computeProgress(ctx context.Context, companyID id.CompanyID) (*models.Progress, error) {
	docs, err := s.companies.CountDocuments(ctx, companyID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count documents")
	}
	points, err := s.points.CountByCompany(ctx, companyID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count delivery points")
	}
	invited, err := s.invitations.CountByCompany(ctx, companyID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count invitations")
	}
	return &models.Progress{
		CompanyID:            companyID,
		DocumentsUploaded:    docs,
		DeliveryPoints:       points,
		CollaboratorsInvited: invited,
		ComputedAt:           requestcontext.Now(ctx),
	}, nil
}
