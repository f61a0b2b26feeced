package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	companyservice "github.com/PuntoEntrega/PDE-sub002/internal/company/service"
	companystore "github.com/PuntoEntrega/PDE-sub002/internal/company/store"
	"github.com/PuntoEntrega/PDE-sub002/internal/deliverypoint/store"
	reviewmodels "github.com/PuntoEntrega/PDE-sub002/internal/review/models"
	reviewmemory "github.com/PuntoEntrega/PDE-sub002/internal/review/store/memory"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	dErrors "github.com/PuntoEntrega/PDE-sub002/pkg/domain-errors"
	"github.com/PuntoEntrega/PDE-sub002/pkg/requestcontext"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func actorContext() context.Context {
	ctx := requestcontext.WithActor(context.Background(), requestcontext.Actor{
		AccountID: id.AccountID(uuid.New()),
		RoleLevel: 4,
		Status:    "active",
	})
	return requestcontext.WithTime(ctx, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
}

type fixture struct {
	svc       *Service
	companies *companyservice.Service
	registry  *reviewmemory.EntityStore
}

func newFixture() *fixture {
	registry := reviewmemory.NewEntityStore()
	points := store.NewMemoryStore()
	companies := companyservice.New(
		companystore.NewMemoryStore(), points, countNone{},
		companyservice.WithLogger(testLogger()),
	)
	return &fixture{
		svc:       New(points, companies, registry, testLogger()),
		companies: companies,
		registry:  registry,
	}
}

type countNone struct{}

func (countNone) CountByCompany(context.Context, id.CompanyID) (int, error) { return 0, nil }

func TestCreatePoint(t *testing.T) {
	ctx := actorContext()
	f := newFixture()

	company, err := f.companies.CreateCompany(ctx, "Sol S.A.", "", "3-101-1", "", "")
	require.NoError(t, err)

	point, err := f.svc.CreatePoint(ctx, company.ID, "PdE Central", "Av. Central 42, San José", "central@sol.cr", "", "L-V 8:00-17:00")
	require.NoError(t, err)
	assert.Equal(t, reviewmodels.StatusDraft, point.Status)
	assert.Equal(t, company.ID, point.CompanyID)

	entity, err := f.registry.Find(ctx, reviewmodels.KindDeliveryPoint, point.ID.UUID())
	require.NoError(t, err)
	assert.Equal(t, "PdE Central", entity.DisplayName)
}

func TestCreatePointRequiresExistingCompany(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreatePoint(actorContext(), id.CompanyID(uuid.New()), "PdE", "Dir", "", "", "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestCreatePointRequiresActor(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreatePoint(context.Background(), id.CompanyID(uuid.New()), "PdE", "Dir", "", "", "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestListByCompany(t *testing.T) {
	ctx := actorContext()
	f := newFixture()

	company, err := f.companies.CreateCompany(ctx, "Sol S.A.", "", "3-101-2", "", "")
	require.NoError(t, err)

	names := []string{"PdE Norte", "PdE Sur", "PdE Este"}
	for i, name := range names {
		stepCtx := requestcontext.WithTime(ctx, time.Date(2026, 3, 10, 9, i, 0, 0, time.UTC))
		_, err := f.svc.CreatePoint(stepCtx, company.ID, name, "Dir", "", "", "")
		require.NoError(t, err)
	}

	points, err := f.svc.ListByCompany(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, points, 3)
	for i, name := range names {
		assert.Equal(t, name, points[i].Name)
	}
}
