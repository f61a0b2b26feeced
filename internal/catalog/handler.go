// Package catalog serves the static lookup data that registration forms
// need before a session exists, so its routes are public.
package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/httputil"
)

// DocumentType describes one kind of document a company can upload during
// onboarding.
type DocumentType struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

// DocumentTypes returns the onboarding documents reviewers expect, in the
// order registration forms display them.
func DocumentTypes() []DocumentType {
	return []DocumentType{
		{Code: "cedula_juridica", Name: "Cédula jurídica", Required: true},
		{Code: "personeria", Name: "Personería jurídica", Required: true},
		{Code: "cedula_representante", Name: "Cédula del representante legal", Required: true},
		{Code: "recibo_servicio", Name: "Recibo de servicio público", Required: false},
		{Code: "permiso_funcionamiento", Name: "Permiso de funcionamiento", Required: false},
	}
}

// Handler serves catalog lookups.
type Handler struct{}

func New() *Handler {
	return &Handler{}
}

// RegisterPublic mounts the catalog routes.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/catalog/document-types", h.handleDocumentTypes)
}

func (h *Handler) handleDocumentTypes(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"document_types": DocumentTypes(),
	})
}
