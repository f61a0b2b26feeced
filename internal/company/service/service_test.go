package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PuntoEntrega/PDE-sub002/internal/company/store"
	reviewmodels "github.com/PuntoEntrega/PDE-sub002/internal/review/models"
	reviewmemory "github.com/PuntoEntrega/PDE-sub002/internal/review/store/memory"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	dErrors "github.com/PuntoEntrega/PDE-sub002/pkg/domain-errors"
	"github.com/PuntoEntrega/PDE-sub002/pkg/requestcontext"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixedCounter returns the same count for every company.
type fixedCounter int

func (c fixedCounter) CountByCompany(context.Context, id.CompanyID) (int, error) {
	return int(c), nil
}

// mapCache implements Cache over a plain map, counting hits and misses.
type mapCache struct {
	mu     sync.Mutex
	values map[string]string
	gets   int
	sets   int
}

func newMapCache() *mapCache {
	return &mapCache{values: make(map[string]string)}
}

func (c *mapCache) Get(ctx context.Context, key string) *redis.StringCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if v, ok := c.values[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (c *mapCache) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.values[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func actorContext() context.Context {
	ctx := requestcontext.WithActor(context.Background(), requestcontext.Actor{
		AccountID: id.AccountID(uuid.New()),
		RoleLevel: 4,
		Status:    "active",
	})
	return requestcontext.WithTime(ctx, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
}

func TestCreateCompany(t *testing.T) {
	ctx := actorContext()
	companies := store.NewMemoryStore()
	registry := reviewmemory.NewEntityStore()
	svc := New(companies, fixedCounter(0), fixedCounter(0),
		WithRegistrar(registry), WithLogger(testLogger()))

	company, err := svc.CreateCompany(ctx, "Distribuidora Sol S.A.", "Sol", "3-101-123456", "sol@example.cr", "")
	require.NoError(t, err)
	assert.Equal(t, reviewmodels.StatusDraft, company.Status)
	assert.Equal(t, "3-101-123456", company.TaxID)
	assert.False(t, company.OwnerID.IsNil())

	entity, err := registry.Find(ctx, reviewmodels.KindCompany, company.ID.UUID())
	require.NoError(t, err)
	assert.Equal(t, "Sol", entity.DisplayName)
}

func TestCreateCompanyRequiresActor(t *testing.T) {
	svc := New(store.NewMemoryStore(), fixedCounter(0), fixedCounter(0), WithLogger(testLogger()))
	_, err := svc.CreateCompany(context.Background(), "Sol S.A.", "", "3-101-1", "", "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestCreateCompanyRejectsDuplicateTaxID(t *testing.T) {
	ctx := actorContext()
	svc := New(store.NewMemoryStore(), fixedCounter(0), fixedCounter(0), WithLogger(testLogger()))

	_, err := svc.CreateCompany(ctx, "Primera S.A.", "", "3-101-777", "", "")
	require.NoError(t, err)

	_, err = svc.CreateCompany(ctx, "Segunda S.A.", "", "3-101-777", "", "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestGetProgressComputesAndCaches(t *testing.T) {
	ctx := actorContext()
	companies := store.NewMemoryStore()
	cache := newMapCache()
	svc := New(companies, fixedCounter(3), fixedCounter(2),
		WithCache(cache, 5*time.Minute), WithLogger(testLogger()))

	company, err := svc.CreateCompany(ctx, "Sol S.A.", "", "3-101-9", "", "")
	require.NoError(t, err)
	companies.SetDocumentCount(company.ID, 4)

	progress, err := svc.GetProgress(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, progress.DocumentsUploaded)
	assert.Equal(t, 3, progress.DeliveryPoints)
	assert.Equal(t, 2, progress.CollaboratorsInvited)
	assert.Equal(t, 1, cache.sets)

	// Second read is served from the cache: counters change, result does not.
	companies.SetDocumentCount(company.ID, 9)
	cached, err := svc.GetProgress(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, cached.DocumentsUploaded)
	assert.Equal(t, 1, cache.sets)
}

func TestGetProgressWithoutCache(t *testing.T) {
	ctx := actorContext()
	companies := store.NewMemoryStore()
	svc := New(companies, fixedCounter(1), fixedCounter(0), WithLogger(testLogger()))

	company, err := svc.CreateCompany(ctx, "Sol S.A.", "", "3-101-10", "", "")
	require.NoError(t, err)

	progress, err := svc.GetProgress(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.DeliveryPoints)
}

func TestGetProgressUnknownCompany(t *testing.T) {
	svc := New(store.NewMemoryStore(), fixedCounter(0), fixedCounter(0), WithLogger(testLogger()))
	_, err := svc.GetProgress(actorContext(), id.CompanyID(uuid.New()))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
