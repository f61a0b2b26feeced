package handler

import (
	"strings"

	dErrors "github.com/PuntoEntrega/PDE-sub002/pkg/domain-errors"
)

const maxReasonLength = 500

// ChangeStatusRequest is the body for the status transition endpoint.
type ChangeStatusRequest struct {
	NewStatus string `json:"new_status"`
	Reason    string `json:"reason,omitempty"`
}

func (r *ChangeStatusRequest) Normalize() {
	r.NewStatus = strings.ToLower(strings.TrimSpace(r.NewStatus))
	r.Reason = strings.TrimSpace(r.Reason)
}

func (r *ChangeStatusRequest) Validate() error {
	if r.NewStatus == "" {
		return dErrors.New(dErrors.CodeValidation, "new_status is required")
	}
	if len(r.Reason) > maxReasonLength {
		return dErrors.New(dErrors.CodeValidation, "reason exceeds 500 characters")
	}
	return nil
}

// SubmitReviewRequest is the optional body for the submit-review endpoint.
type SubmitReviewRequest struct {
	Reason string `json:"reason,omitempty"`
}

func (r *SubmitReviewRequest) Normalize() {
	r.Reason = strings.TrimSpace(r.Reason)
}

func (r *SubmitReviewRequest) Validate() error {
	if len(r.Reason) > maxReasonLength {
		return dErrors.New(dErrors.CodeValidation, "reason exceeds 500 characters")
	}
	return nil
}
