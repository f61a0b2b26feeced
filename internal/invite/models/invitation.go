// Package models holds the collaborator invitation aggregate.
package models

import (
	"time"

	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	dErrors "github.com/PuntoEntrega/PDE-sub002/pkg/domain-errors"
)

// State tracks an invitation through its lifecycle.
type State string

const (
	StatePending  State = "pending"
	StateAccepted State = "accepted"
	StateExpired  State = "expired"
)

// Invitation is a pending offer for a collaborator to join a company.
//
// Invariants:
//   - TokenHash is a bcrypt hash of the raw token; the raw token leaves
//     the process only inside the invitation email
//   - An accepted invitation is never accepted again
//   - ExpiresAt is fixed at creation
type Invitation struct {
	ID        id.InvitationID `json:"id"`
	CompanyID id.CompanyID    `json:"company_id"`
	Email     string          `json:"email"`
	Role      string          `json:"role"`
	TokenHash string          `json:"-"`
	State     State           `json:"state"`
	InvitedBy id.AccountID    `json:"invited_by"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Expired reports whether the invitation can no longer be accepted.
func (i *Invitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// Accept marks the invitation as used. Fails on reuse or expiry.
func (i *Invitation) Accept(now time.Time) error {
	if i.State == StateAccepted {
		return dErrors.New(dErrors.CodeConflict, "invitation has already been accepted")
	}
	if i.Expired(now) {
		return dErrors.New(dErrors.CodeConflict, "invitation has expired")
	}
	i.State = StateAccepted
	return nil
}
