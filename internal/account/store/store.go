// Package store persists collaborator and administrator accounts.
package store

import (
	"context"

	"github.com/PuntoEntrega/PDE-sub002/internal/account/models"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
)

// Store is the persistence contract for accounts.
//
// Error contract: sentinel.ErrNotFound for missing accounts,
// sentinel.ErrAlreadyUsed when an email is taken.
type Store interface {
	Create(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, accountID id.AccountID) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	ListAdminsByMinLevel(ctx context.Context, minLevel int) ([]*models.Account, error)
}
