// Package models holds the company aggregate.
package models

import (
	"time"

	reviewmodels "github.com/PuntoEntrega/PDE-sub002/internal/review/models"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	dErrors "github.com/PuntoEntrega/PDE-sub002/pkg/domain-errors"
)

// Company is an onboarded merchant organization.
//
// Invariants:
//   - LegalName is non-empty and at most 200 characters
//   - TaxID is unique across companies (enforced by the store)
//   - Status follows the reviewable lifecycle; writes go through the
//     status workflow
type Company struct {
	ID           id.CompanyID        `json:"id"`
	LegalName    string              `json:"legal_name"`
	TradeName    string              `json:"trade_name,omitempty"`
	TaxID        string              `json:"tax_id"`
	ContactEmail string              `json:"contact_email,omitempty"`
	ContactPhone string              `json:"contact_phone,omitempty"`
	OwnerID      id.AccountID        `json:"owner_id"`
	Status       reviewmodels.Status `json:"status"`
	Version      int64               `json:"version"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// DisplayName prefers the trade name for notifications and listings.
func (c *Company) DisplayName() string {
	if c.TradeName != "" {
		return c.TradeName
	}
	return c.LegalName
}

// AsReviewEntity projects the company into the status workflow's shape.
func (c *Company) AsReviewEntity() *reviewmodels.Entity {
	return &reviewmodels.Entity{
		Kind:        reviewmodels.KindCompany,
		ID:          c.ID.UUID(),
		DisplayName: c.DisplayName(),
		Status:      c.Status,
		Contact:     reviewmodels.Contact{Email: c.ContactEmail, Phone: c.ContactPhone},
		Version:     c.Version,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// Progress counts onboarding steps completed so far. Served from cache
// when fresh, recomputed from the stores on miss.
type Progress struct {
	CompanyID            id.CompanyID `json:"company_id"`
	DocumentsUploaded    int          `json:"documents_uploaded"`
	DeliveryPoints       int          `json:"delivery_points"`
	CollaboratorsInvited int          `json:"collaborators_invited"`
	ComputedAt           time.Time    `json:"computed_at"`
}

// NewCompany constructs a draft company pending review.
func NewCompany(companyID id.CompanyID, legalName, tradeName, taxID string, ownerID id.AccountID, now time.Time) (*Company, error) {
	if legalName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "company legal name cannot be empty")
	}
	if len(legalName) > 200 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "company legal name must be 200 characters or less")
	}
	if taxID == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "company tax id cannot be empty")
	}
	return &Company{
		ID:        companyID,
		LegalName: legalName,
		TradeName: tradeName,
		TaxID:     taxID,
		OwnerID:   ownerID,
		Status:    reviewmodels.StatusDraft,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
