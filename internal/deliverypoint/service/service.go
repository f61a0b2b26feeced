// Package service orchestrates delivery point registration.
package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	companymodels "github.com/PuntoEntrega/PDE-sub002/internal/company/models"
	"github.com/PuntoEntrega/PDE-sub002/internal/deliverypoint/models"
	"github.com/PuntoEntrega/PDE-sub002/internal/deliverypoint/store"
	reviewmodels "github.com/PuntoEntrega/PDE-sub002/internal/review/models"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	dErrors "github.com/PuntoEntrega/PDE-sub002/pkg/domain-errors"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/sentinel"
	"github.com/PuntoEntrega/PDE-sub002/pkg/requestcontext"
)

// CompanyReader checks that the owning company exists before a PdE is
// attached to it.
type CompanyReader interface {
	GetCompany(ctx context.Context, companyID id.CompanyID) (*companymodels.Company, error)
}

// Registrar registers new PdEs with the status workflow's entity registry
// (in-memory mode only).
type Registrar interface {
	Put(ctx context.Context, e *reviewmodels.Entity) error
}

// Service manages delivery point records.
type Service struct {
	points    store.Store
	companies CompanyReader
	registrar Registrar
	logger    *slog.Logger
}

func New(points store.Store, companies CompanyReader, registrar Registrar, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{points: points, companies: companies, registrar: registrar, logger: logger}
}

// CreatePoint registers a draft PdE under an existing company.
func (s *Service) CreatePoint(ctx context.Context, companyID id.CompanyID, name, address, contactEmail, contactPhone, scheduleNote string) (*models.DeliveryPoint, error) {
	if _, ok := requestcontext.ActorFrom(ctx); !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	if _, err := s.companies.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}

	point, err := models.NewDeliveryPoint(
		id.DeliveryPointID(uuid.New()), companyID,
		strings.TrimSpace(name), strings.TrimSpace(address),
		requestcontext.Now(ctx),
	)
	if err != nil {
		return nil, err
	}
	point.ContactEmail = strings.TrimSpace(strings.ToLower(contactEmail))
	point.ContactPhone = strings.TrimSpace(contactPhone)
	point.ScheduleNote = strings.TrimSpace(scheduleNote)

	if err := s.points.Create(ctx, point); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create delivery point")
	}

	if s.registrar != nil {
		if err := s.registrar.Put(ctx, point.AsReviewEntity()); err != nil {
			s.logger.ErrorContext(ctx, "failed to register delivery point with review workflow",
				"delivery_point_id", point.ID.String(),
				"error", err,
			)
		}
	}

	s.logger.InfoContext(ctx, "delivery point created",
		"request_id", requestcontext.RequestID(ctx),
		"delivery_point_id", point.ID.String(),
		"company_id", companyID.String(),
	)
	return point, nil
}

// ListByCompany returns the company's PdEs, oldest first.
func (s *Service) ListByCompany(ctx context.Context, companyID id.CompanyID) ([]*models.DeliveryPoint, error) {
	if companyID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "company id is required")
	}
	points, err := s.points.ListByCompany(ctx, companyID)
	if err != nil {
		if dErrors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "company not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list delivery points")
	}
	return points, nil
}
