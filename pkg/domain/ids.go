// Package domain holds strongly typed identifiers shared across contexts.
//
// Each entity gets its own UUID-backed type so the compiler rejects mixing
// an AccountID where a CompanyID is expected. ParseX functions enforce the
// invariant "IDs are valid, non-empty, non-nil UUIDs" at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "github.com/PuntoEntrega/PDE-sub002/pkg/domain-errors"
)

type (
	// AccountID identifies a collaborator or administrator account.
	AccountID uuid.UUID
	// CompanyID identifies an onboarded company.
	CompanyID uuid.UUID
	// DeliveryPointID identifies a PdE (punto de entrega).
	DeliveryPointID uuid.UUID
	// InvitationID identifies a collaborator invitation.
	InvitationID uuid.UUID
)

func (id AccountID) String() string       { return uuid.UUID(id).String() }
func (id CompanyID) String() string       { return uuid.UUID(id).String() }
func (id DeliveryPointID) String() string { return uuid.UUID(id).String() }
func (id InvitationID) String() string    { return uuid.UUID(id).String() }

func (id AccountID) UUID() uuid.UUID       { return uuid.UUID(id) }
func (id CompanyID) UUID() uuid.UUID       { return uuid.UUID(id) }
func (id DeliveryPointID) UUID() uuid.UUID { return uuid.UUID(id) }
func (id InvitationID) UUID() uuid.UUID    { return uuid.UUID(id) }

func (id AccountID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id CompanyID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id DeliveryPointID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id InvitationID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// ParseAccountID parses and validates an account ID.
func ParseAccountID(s string) (AccountID, error) {
	u, err := parseUUID(s, "account id")
	return AccountID(u), err
}

// ParseCompanyID parses and validates a company ID.
func ParseCompanyID(s string) (CompanyID, error) {
	u, err := parseUUID(s, "company id")
	return CompanyID(u), err
}

// ParseDeliveryPointID parses and validates a delivery point ID.
func ParseDeliveryPointID(s string) (DeliveryPointID, error) {
	u, err := parseUUID(s, "delivery point id")
	return DeliveryPointID(u), err
}

// ParseInvitationID parses and validates an invitation ID.
func ParseInvitationID(s string) (InvitationID, error) {
	u, err := parseUUID(s, "invitation id")
	return InvitationID(u), err
}

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" must not be the nil UUID")
	}
	return u, nil
}
