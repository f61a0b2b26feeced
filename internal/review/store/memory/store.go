// Package memory provides in-memory review stores for tests and local
// development.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PuntoEntrega/PDE-sub002/internal/review/models"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/sentinel"
)

type entityKey struct {
	kind models.Kind
	id   uuid.UUID
}

// EntityStore keeps reviewable entities in a map guarded by a mutex.
type EntityStore struct {
	mu       sync.RWMutex
	entities map[entityKey]*models.Entity
}

// NewEntityStore constructs an empty in-memory entity store.
func NewEntityStore() *EntityStore {
	return &EntityStore{entities: make(map[entityKey]*models.Entity)}
}

// Put inserts or replaces an entity. Used by seeding and by the context
// adapters that register their records with the review workflow.
func (s *EntityStore) Put(_ context.Context, e *models.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *e
	s.entities[entityKey{kind: e.Kind, id: e.ID}] = &clone
	return nil
}

func (s *EntityStore) Find(_ context.Context, kind models.Kind, entityID uuid.UUID) (*models.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entities[entityKey{kind: kind, id: entityID}]
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", kind, entityID, sentinel.ErrNotFound)
	}
	clone := *e
	return &clone, nil
}

// UpdateStatus applies the status change if the stored version still
// matches expectedVersion, mirroring the SQL store's optimistic check.
func (s *EntityStore) UpdateStatus(_ context.Context, kind models.Kind, entityID uuid.UUID, to models.Status, expectedVersion int64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entities[entityKey{kind: kind, id: entityID}]
	if !ok {
		return fmt.Errorf("%s %s: %w", kind, entityID, sentinel.ErrNotFound)
	}
	if e.Version != expectedVersion {
		return fmt.Errorf("version %d != expected %d: %w", e.Version, expectedVersion, sentinel.ErrConflict)
	}
	e.Status = to
	e.Version++
	e.UpdatedAt = now
	return nil
}

// HistoryStore keeps status change records in append order.
type HistoryStore struct {
	mu      sync.RWMutex
	changes map[entityKey][]models.StatusChange
}

// NewHistoryStore constructs an empty in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{changes: make(map[entityKey][]models.StatusChange)}
}

func (s *HistoryStore) Append(_ context.Context, change models.StatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := entityKey{kind: change.EntityKind, id: change.EntityID}
	s.changes[key] = append(s.changes[key], change)
	return nil
}

// Discard removes the newest record matching change. The workflow calls it
// when the status update fails after the history row was already written,
// which only persists anything here because these stores run without a
// surrounding transaction.
func (s *HistoryStore) Discard(_ context.Context, change models.StatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := entityKey{kind: change.EntityKind, id: change.EntityID}
	records := s.changes[key]
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		if r.ChangedAt.Equal(change.ChangedAt) && r.NewStatus == change.NewStatus && r.PreviousStatus == change.PreviousStatus {
			s.changes[key] = append(records[:i], records[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *HistoryStore) ListByEntity(_ context.Context, kind models.Kind, entityID uuid.UUID) ([]models.StatusChange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := entityKey{kind: kind, id: entityID}
	return append([]models.StatusChange{}, s.changes[key]...), nil
}
