// Package models holds the delivery point (PdE) aggregate.
package models

import (
	"time"

	reviewmodels "github.com/PuntoEntrega/PDE-sub002/internal/review/models"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	dErrors "github.com/PuntoEntrega/PDE-sub002/pkg/domain-errors"
)

// DeliveryPoint is a physical pickup/dropoff location operated by a company.
//
// Invariants:
//   - CompanyID is set; a PdE never exists without its company
//   - Name is non-empty and at most 128 characters
//   - Status follows the reviewable lifecycle; writes go through the
//     status workflow
type DeliveryPoint struct {
	ID           id.DeliveryPointID  `json:"id"`
	CompanyID    id.CompanyID        `json:"company_id"`
	Name         string              `json:"name"`
	Address      string              `json:"address"`
	ContactEmail string              `json:"contact_email,omitempty"`
	ContactPhone string              `json:"contact_phone,omitempty"`
	ScheduleNote string              `json:"schedule_note,omitempty"`
	Status       reviewmodels.Status `json:"status"`
	Version      int64               `json:"version"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// AsReviewEntity projects the PdE into the status workflow's shape.
func (p *DeliveryPoint) AsReviewEntity() *reviewmodels.Entity {
	return &reviewmodels.Entity{
		Kind:        reviewmodels.KindDeliveryPoint,
		ID:          p.ID.UUID(),
		DisplayName: p.Name,
		Status:      p.Status,
		Contact:     reviewmodels.Contact{Email: p.ContactEmail, Phone: p.ContactPhone},
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// NewDeliveryPoint constructs a draft PdE pending review.
func NewDeliveryPoint(pointID id.DeliveryPointID, companyID id.CompanyID, name, address string, now time.Time) (*DeliveryPoint, error) {
	if companyID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "delivery point requires a company")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "delivery point name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "delivery point name must be 128 characters or less")
	}
	return &DeliveryPoint{
		ID:        pointID,
		CompanyID: companyID,
		Name:      name,
		Address:   address,
		Status:    reviewmodels.StatusDraft,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
