package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PuntoEntrega/PDE-sub002/internal/account/models"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/sentinel"
)

// MemoryStore keeps accounts in maps guarded by a mutex. Used by tests and
// local development.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[id.AccountID]*models.Account
	byEmail map[string]id.AccountID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[id.AccountID]*models.Account),
		byEmail: make(map[string]id.AccountID),
	}
}

func (s *MemoryStore) Create(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(account.Email)
	if _, taken := s.byEmail[key]; taken {
		return fmt.Errorf("email %s: %w", account.Email, sentinel.ErrAlreadyUsed)
	}
	clone := *account
	s.byID[account.ID] = &clone
	s.byEmail[key] = account.ID
	return nil
}

// Replace overwrites an existing account. Used by seeding and tests; the
// status workflow does not go through here.
func (s *MemoryStore) Replace(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[account.ID]; !ok {
		return fmt.Errorf("account %s: %w", account.ID, sentinel.ErrNotFound)
	}
	clone := *account
	s.byID[account.ID] = &clone
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, accountID id.AccountID) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byID[accountID]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", accountID, sentinel.ErrNotFound)
	}
	clone := *a
	return &clone, nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accountID, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", email, sentinel.ErrNotFound)
	}
	clone := *s.byID[accountID]
	return &clone, nil
}

func (s *MemoryStore) ListAdminsByMinLevel(_ context.Context, minLevel int) ([]*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var admins []*models.Account
	for _, a := range s.byID {
		if a.Role.Level() >= minLevel && a.IsActive() {
			clone := *a
			admins = append(admins, &clone)
		}
	}
	return admins, nil
}
