package models

import (
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes the three reviewable entity families.
type Kind string

const (
	KindAccount       Kind = "account"
	KindCompany       Kind = "company"
	KindDeliveryPoint Kind = "delivery_point"
)

// IsValid reports whether k names a reviewable entity family.
func (k Kind) IsValid() bool {
	switch k {
	case KindAccount, KindCompany, KindDeliveryPoint:
		return true
	}
	return false
}

// Contact is the entity's own notification channel. Either field may be
// empty; an entity with no contact simply gets no owner notification.
type Contact struct {
	Email string
	Phone string
}

// Empty reports whether the entity has no reachable channel at all.
func (c Contact) Empty() bool {
	return c.Email == "" && c.Phone == ""
}

// Entity is the review workflow's projection of a reviewable record.
//
// Invariants:
//   - Status is always one of the five lifecycle states
//   - Version increments by exactly one per committed transition; the
//     workflow checks it inside the transaction to detect lost updates
//   - Status changes go through the workflow only, never as direct writes
type Entity struct {
	Kind        Kind
	ID          uuid.UUID
	DisplayName string
	Status      Status
	Contact     Contact
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
