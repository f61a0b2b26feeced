// Package store persists companies.
package store

import (
	"context"

	"github.com/PuntoEntrega/PDE-sub002/internal/company/models"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
)

// Store is the persistence contract for companies.
//
// Error contract: sentinel.ErrNotFound for missing companies,
// sentinel.ErrAlreadyUsed when a tax id is taken.
type Store interface {
	Create(ctx context.Context, company *models.Company) error
	FindByID(ctx context.Context, companyID id.CompanyID) (*models.Company, error)
	CountDocuments(ctx context.Context, companyID id.CompanyID) (int, error)
}
