package notify

import (
	"fmt"

	"github.com/PuntoEntrega/PDE-sub002/internal/review/models"
)

// statusLabels maps lifecycle states to the display labels used in
// outbound messages (the product ships in es-MX).
var statusLabels = map[models.Status]string{
	models.StatusDraft:       "Borrador",
	models.StatusUnderReview: "En revisión",
	models.StatusActive:      "Activo",
	models.StatusInactive:    "Inactivo",
	models.StatusRejected:    "Rechazado",
}

var kindLabels = map[models.Kind]string{
	models.KindAccount:       "la cuenta",
	models.KindCompany:       "la empresa",
	models.KindDeliveryPoint: "el punto de entrega",
}

// StatusLabel returns the display label for a status. Unknown statuses
// fall back to the raw enum value.
func StatusLabel(s models.Status) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

func renderSubject(evt models.TransitionEvent) string {
	return fmt.Sprintf("Actualización de estado: %s", evt.EntityName)
}

func renderBody(evt models.TransitionEvent) string {
	kind := kindLabels[evt.EntityKind]
	if kind == "" {
		kind = string(evt.EntityKind)
	}
	body := fmt.Sprintf("El estado de %s %q cambió de %s a %s.",
		kind, evt.EntityName, StatusLabel(evt.PreviousStatus), StatusLabel(evt.NewStatus))
	if evt.Reason != "" {
		body += fmt.Sprintf(" Motivo: %s", evt.Reason)
	}
	return body
}
