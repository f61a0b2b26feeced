package models

import (
	"time"

	reviewmodels "github.com/PuntoEntrega/PDE-sub002/internal/review/models"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	dErrors "github.com/PuntoEntrega/PDE-sub002/pkg/domain-errors"
)

// Account is a collaborator or administrator record.
//
// Invariants:
//   - Email is unique across accounts (enforced by the store)
//   - Role is one of the known tiers
//   - Status follows the reviewable lifecycle; writes go through the
//     status workflow, never directly
//   - PasswordHash is a bcrypt hash, never the raw password
type Account struct {
	ID           id.AccountID        `json:"id"`
	Email        string              `json:"email"`
	Phone        string              `json:"phone,omitempty"`
	FirstName    string              `json:"first_name"`
	LastName     string              `json:"last_name"`
	Role         Role                `json:"role"`
	Status       reviewmodels.Status `json:"status"`
	PasswordHash string              `json:"-"`
	Version      int64               `json:"version"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// FullName joins the name parts for display and notifications.
func (a *Account) FullName() string {
	if a.FirstName == "" {
		return a.LastName
	}
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// IsActive reports whether the account may authenticate.
func (a *Account) IsActive() bool {
	return a.Status == reviewmodels.StatusActive
}

// AsReviewEntity projects the account into the status workflow's shape.
func (a *Account) AsReviewEntity() *reviewmodels.Entity {
	return &reviewmodels.Entity{
		Kind:        reviewmodels.KindAccount,
		ID:          a.ID.UUID(),
		DisplayName: a.FullName(),
		Status:      a.Status,
		Contact:     reviewmodels.Contact{Email: a.Email, Phone: a.Phone},
		Version:     a.Version,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// NewAccount constructs a draft account pending review.
func NewAccount(accountID id.AccountID, email, firstName, lastName string, role Role, passwordHash string, now time.Time) (*Account, error) {
	if email == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "account email cannot be empty")
	}
	if !role.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unknown account role")
	}
	return &Account{
		ID:           accountID,
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         role,
		Status:       reviewmodels.StatusDraft,
		PasswordHash: passwordHash,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
