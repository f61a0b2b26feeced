package handler

import (
	"strings"

	dErrors "github.com/PuntoEntrega/PDE-sub002/pkg/domain-errors"
)

// CreateCompanyRequest is the body for company creation.
type CreateCompanyRequest struct {
	LegalName    string `json:"legal_name"`
	TradeName    string `json:"trade_name,omitempty"`
	TaxID        string `json:"tax_id"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
}

func (r *CreateCompanyRequest) Normalize() {
	r.LegalName = strings.TrimSpace(r.LegalName)
	r.TradeName = strings.TrimSpace(r.TradeName)
	r.TaxID = strings.ToUpper(strings.TrimSpace(r.TaxID))
	r.ContactEmail = strings.TrimSpace(strings.ToLower(r.ContactEmail))
	r.ContactPhone = strings.TrimSpace(r.ContactPhone)
}

func (r *CreateCompanyRequest) Validate() error {
	if r.LegalName == "" {
		return dErrors.New(dErrors.CodeValidation, "legal_name is required")
	}
	if len(r.LegalName) > 200 {
		return dErrors.New(dErrors.CodeValidation, "legal_name must be 200 characters or less")
	}
	if r.TaxID == "" {
		return dErrors.New(dErrors.CodeValidation, "tax_id is required")
	}
	if r.ContactEmail != "" && !strings.Contains(r.ContactEmail, "@") {
		return dErrors.New(dErrors.CodeValidation, "contact_email must be a valid address")
	}
	return nil
}
