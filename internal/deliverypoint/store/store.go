// Package store persists delivery points.
package store

import (
	"context"

	"github.com/PuntoEntrega/PDE-sub002/internal/deliverypoint/models"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
)

// Store is the persistence contract for delivery points.
//
// Error contract: sentinel.ErrNotFound for missing points.
type Store interface {
	Create(ctx context.Context, point *models.DeliveryPoint) error
	FindByID(ctx context.Context, pointID id.DeliveryPointID) (*models.DeliveryPoint, error)
	ListByCompany(ctx context.Context, companyID id.CompanyID) ([]*models.DeliveryPoint, error)
	CountByCompany(ctx context.Context, companyID id.CompanyID) (int, error)
}
