package models

import (
	"strings"

	dErrors "github.com/PuntoEntrega/PDE-sub002/pkg/domain-errors"
)

// Status is the review lifecycle state shared by accounts, companies and
// delivery points.
type Status string

const (
	StatusDraft       Status = "draft"
	StatusUnderReview Status = "under_review"
	StatusActive      Status = "active"
	StatusInactive    Status = "inactive"
	StatusRejected    Status = "rejected"
)

var allStatuses = map[Status]struct{}{
	StatusDraft:       {},
	StatusUnderReview: {},
	StatusActive:      {},
	StatusInactive:    {},
	StatusRejected:    {},
}

// IsValid reports whether s is one of the five lifecycle states.
func (s Status) IsValid() bool {
	_, ok := allStatuses[s]
	return ok
}

// ParseStatus validates and canonicalizes a raw status value.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(strings.ToLower(raw)))
	if !s.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "new_status must be one of draft, under_review, active, inactive, rejected")
	}
	return s, nil
}

// TransitionTable lists the legal (from, to) pairs. It is injected so the
// graph can be adjusted per deployment without touching workflow code.
type TransitionTable map[Status][]Status

// CanTransition reports whether from → to is legal under the table.
// Self-transitions are never legal here; idempotent submit is handled by
// the workflow before consulting the table.
func (t TransitionTable) CanTransition(from, to Status) bool {
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

// DefaultTransitions is the production graph:
//
//	draft → under_review
//	under_review → active | rejected
//	active → inactive
//	inactive → active
//	rejected → under_review (resubmission after fixing observations)
func DefaultTransitions() TransitionTable {
	return TransitionTable{
		StatusDraft:       {StatusUnderReview},
		StatusUnderReview: {StatusActive, StatusRejected},
		StatusActive:      {StatusInactive},
		StatusInactive:    {StatusActive},
		StatusRejected:    {StatusUnderReview},
	}
}
