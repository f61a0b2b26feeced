// Package notify resolves recipients for committed status transitions and
// fans rendered messages out to email/SMS channels. Delivery is strictly
// best-effort: failures are logged, never retried, never surfaced to the
// workflow that triggered them.
package notify

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/PuntoEntrega/PDE-sub002/internal/review/models"
	"github.com/PuntoEntrega/PDE-sub002/pkg/requestcontext"
)

// Recipient is one resolved notification target.
type Recipient struct {
	Name  string
	Email string
	Phone string
}

// AdminDirectory lists administrator recipients at or above a role level.
// Implemented by the account service; accounts without any contact channel
// are excluded by the implementation.
type AdminDirectory interface {
	ListAdminRecipients(ctx context.Context, minLevel int) ([]Recipient, error)
}

// Dispatcher resolves recipients and dispatches rendered messages.
type Dispatcher struct {
	email      Channel
	sms        Channel
	admins     AdminDirectory
	adminLevel int
	logger     *slog.Logger
}

// NewDispatcher constructs a Dispatcher. adminLevel is the minimum role
// level that receives administrator notifications.
func NewDispatcher(email, sms Channel, admins AdminDirectory, adminLevel int, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		email:      email,
		sms:        sms,
		admins:     admins,
		adminLevel: adminLevel,
		logger:     logger,
	}
}

// Dispatch sends one message per recipient. Sends run concurrently and
// independently: one recipient failing never blocks or cancels the rest.
func (d *Dispatcher) Dispatch(ctx context.Context, evt models.TransitionEvent) {
	recipients := d.resolveRecipients(ctx, evt)
	if len(recipients) == 0 {
		d.logger.InfoContext(ctx, "no notification recipients",
			"entity_kind", evt.EntityKind,
			"entity_id", evt.EntityID.String(),
		)
		return
	}

	subject := renderSubject(evt)
	body := renderBody(evt)

	var g errgroup.Group
	for _, r := range recipients {
		r := r
		g.Go(func() error {
			// Errors are logged and swallowed so failures stay isolated
			// per recipient.
			if err := d.sendOne(ctx, r, subject, body); err != nil {
				d.logger.ErrorContext(ctx, "notification delivery failed",
					"request_id", requestcontext.RequestID(ctx),
					"recipient", r.Name,
					"entity_kind", evt.EntityKind,
					"entity_id", evt.EntityID.String(),
					"error", err,
				)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (d *Dispatcher) sendOne(ctx context.Context, r Recipient, subject, body string) error {
	if r.Email != "" && d.email != nil {
		return d.email.Send(ctx, Message{To: r.Email, Subject: subject, Body: body})
	}
	if r.Phone != "" && d.sms != nil {
		return d.sms.Send(ctx, Message{To: r.Phone, Subject: subject, Body: body})
	}
	return nil
}

func (d *Dispatcher) resolveRecipients(ctx context.Context, evt models.TransitionEvent) []Recipient {
	var recipients []Recipient

	if !evt.Contact.Empty() {
		recipients = append(recipients, Recipient{
			Name:  evt.EntityName,
			Email: evt.Contact.Email,
			Phone: evt.Contact.Phone,
		})
	}

	if d.admins != nil {
		admins, err := d.admins.ListAdminRecipients(ctx, d.adminLevel)
		if err != nil {
			d.logger.ErrorContext(ctx, "failed to resolve admin recipients",
				"error", err,
			)
		} else {
			recipients = append(recipients, admins...)
		}
	}

	return recipients
}
