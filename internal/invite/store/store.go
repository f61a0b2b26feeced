// Package store persists collaborator invitations.
package store

import (
	"context"

	"github.com/PuntoEntrega/PDE-sub002/internal/invite/models"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
)

// Store is the persistence contract for invitations.
//
// Error contract: sentinel.ErrNotFound for missing invitations.
type Store interface {
	Create(ctx context.Context, invitation *models.Invitation) error
	FindByID(ctx context.Context, invitationID id.InvitationID) (*models.Invitation, error)
	// ListPendingByEmail returns pending invitations for an email address,
	// newest first. Token lookup hashes can't be queried directly (bcrypt),
	// so acceptance scans the candidate set.
	ListPendingByEmail(ctx context.Context, email string) ([]*models.Invitation, error)
	MarkAccepted(ctx context.Context, invitationID id.InvitationID) error
	CountByCompany(ctx context.Context, companyID id.CompanyID) (int, error)
}
