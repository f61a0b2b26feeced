package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/PuntoEntrega/PDE-sub002/internal/deliverypoint/models"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/sentinel"
)

// MemoryStore keeps delivery points in a map guarded by a mutex.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[id.DeliveryPointID]*models.DeliveryPoint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[id.DeliveryPointID]*models.DeliveryPoint)}
}

func (s *MemoryStore) Create(_ context.Context, point *models.DeliveryPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *point
	s.byID[point.ID] = &clone
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, pointID id.DeliveryPointID) (*models.DeliveryPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[pointID]
	if !ok {
		return nil, fmt.Errorf("delivery point %s: %w", pointID, sentinel.ErrNotFound)
	}
	clone := *p
	return &clone, nil
}

func (s *MemoryStore) ListByCompany(_ context.Context, companyID id.CompanyID) ([]*models.DeliveryPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var points []*models.DeliveryPoint
	for _, p := range s.byID {
		if p.CompanyID == companyID {
			clone := *p
			points = append(points, &clone)
		}
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].CreatedAt.Before(points[j].CreatedAt)
	})
	return points, nil
}

func (s *MemoryStore) CountByCompany(ctx context.Context, companyID id.CompanyID) (int, error) {
	points, err := s.ListByCompany(ctx, companyID)
	if err != nil {
		return 0, err
	}
	return len(points), nil
}
