package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/PuntoEntrega/PDE-sub002/internal/invite/models"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/sentinel"
)

// MemoryStore keeps invitations in a map guarded by a mutex.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[id.InvitationID]*models.Invitation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[id.InvitationID]*models.Invitation)}
}

func (s *MemoryStore) Create(_ context.Context, invitation *models.Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *invitation
	s.byID[invitation.ID] = &clone
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, invitationID id.InvitationID) (*models.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.byID[invitationID]
	if !ok {
		return nil, fmt.Errorf("invitation %s: %w", invitationID, sentinel.ErrNotFound)
	}
	clone := *inv
	return &clone, nil
}

func (s *MemoryStore) ListPendingByEmail(_ context.Context, email string) ([]*models.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := strings.ToLower(email)
	var pending []*models.Invitation
	for _, inv := range s.byID {
		if strings.ToLower(inv.Email) == key && inv.State == models.StatePending {
			clone := *inv
			pending = append(pending, &clone)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.After(pending[j].CreatedAt)
	})
	return pending, nil
}

func (s *MemoryStore) MarkAccepted(_ context.Context, invitationID id.InvitationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.byID[invitationID]
	if !ok {
		return fmt.Errorf("invitation %s: %w", invitationID, sentinel.ErrNotFound)
	}
	inv.State = models.StateAccepted
	return nil
}

func (s *MemoryStore) CountByCompany(_ context.Context, companyID id.CompanyID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, inv := range s.byID {
		if inv.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}
