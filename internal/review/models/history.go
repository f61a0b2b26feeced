package models

import (
	"time"

	"github.com/google/uuid"

	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
)

// StatusChange is one immutable history record. Records are append-only:
// created exclusively by the workflow, never mutated or deleted. For a
// given entity the records form a contiguous chain: record k's NewStatus
// equals record k+1's PreviousStatus.
type StatusChange struct {
	EntityKind     Kind
	EntityID       uuid.UUID
	PreviousStatus Status
	NewStatus      Status
	Reason         string
	ActorID        id.AccountID
	ActorDevice    string
	ChangedAt      time.Time
}

// TransitionEvent is handed to the notification dispatcher after a
// transition commits. Ephemeral: construct, dispatch, discard.
type TransitionEvent struct {
	EntityKind     Kind
	EntityID       uuid.UUID
	EntityName     string
	PreviousStatus Status
	NewStatus      Status
	Reason         string
	Contact        Contact
}
