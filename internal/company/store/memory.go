package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PuntoEntrega/PDE-sub002/internal/company/models"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/sentinel"
)

// MemoryStore keeps companies in maps guarded by a mutex.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[id.CompanyID]*models.Company
	byTaxID map[string]id.CompanyID
	docs    map[id.CompanyID]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[id.CompanyID]*models.Company),
		byTaxID: make(map[string]id.CompanyID),
		docs:    make(map[id.CompanyID]int),
	}
}

func (s *MemoryStore) Create(_ context.Context, company *models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToUpper(company.TaxID)
	if _, taken := s.byTaxID[key]; taken {
		return fmt.Errorf("tax id %s: %w", company.TaxID, sentinel.ErrAlreadyUsed)
	}
	clone := *company
	s.byID[company.ID] = &clone
	s.byTaxID[key] = company.ID
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, companyID id.CompanyID) (*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[companyID]
	if !ok {
		return nil, fmt.Errorf("company %s: %w", companyID, sentinel.ErrNotFound)
	}
	clone := *c
	return &clone, nil
}

func (s *MemoryStore) CountDocuments(_ context.Context, companyID id.CompanyID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[companyID], nil
}

// SetDocumentCount seeds the document counter for tests and local runs.
func (s *MemoryStore) SetDocumentCount(companyID id.CompanyID, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[companyID] = n
}
