package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PuntoEntrega/PDE-sub002/internal/review/models"
	"github.com/PuntoEntrega/PDE-sub002/internal/review/store/memory"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	dErrors "github.com/PuntoEntrega/PDE-sub002/pkg/domain-errors"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/sentinel"
	"github.com/PuntoEntrega/PDE-sub002/pkg/requestcontext"
)

type captureNotifier struct {
	events []models.TransitionEvent
}

func (n *captureNotifier) StatusChanged(evt models.TransitionEvent) {
	n.events = append(n.events, evt)
}

// failingHistoryStore simulates a history insert failure so the atomicity
// contract can be observed from the outside.
type failingHistoryStore struct{}

func (failingHistoryStore) Append(context.Context, models.StatusChange) error {
	return errors.New("history insert failed")
}

func (failingHistoryStore) Discard(context.Context, models.StatusChange) error {
	return nil
}

func (failingHistoryStore) ListByEntity(context.Context, models.Kind, uuid.UUID) ([]models.StatusChange, error) {
	return nil, nil
}

func actorContext(t *testing.T) context.Context {
	t.Helper()
	ctx := requestcontext.WithActor(context.Background(), requestcontext.Actor{
		AccountID: id.AccountID(uuid.New()),
		RoleLevel: 5,
		Status:    "active",
	})
	return requestcontext.WithTime(ctx, time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
}

func seedEntity(t *testing.T, entities *memory.EntityStore, status models.Status) *models.Entity {
	t.Helper()
	e := &models.Entity{
		Kind:        models.KindCompany,
		ID:          uuid.New(),
		DisplayName: "Paqueteria del Centro",
		Status:      status,
		Contact:     models.Contact{Email: "admin@paqueteria.mx"},
		Version:     1,
	}
	require.NoError(t, entities.Put(context.Background(), e))
	return e
}

func TestChangeStatus_HappyPathWritesHistoryAndNotifies(t *testing.T) {
	entities := memory.NewEntityStore()
	history := memory.NewHistoryStore()
	notifier := &captureNotifier{}
	svc := New(entities, history, WithNotifier(notifier))

	ctx := actorContext(t)
	e := seedEntity(t, entities, models.StatusDraft)

	result, err := svc.ChangeStatus(ctx, models.KindCompany, e.ID, "under_review", "docs complete")
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnderReview, result.Entity.Status)
	assert.Equal(t, int64(2), result.Entity.Version)
	assert.False(t, result.Unchanged)

	stored, err := entities.Find(ctx, models.KindCompany, e.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnderReview, stored.Status)

	changes, err := history.ListByEntity(ctx, models.KindCompany, e.ID)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, models.StatusDraft, changes[0].PreviousStatus)
	assert.Equal(t, models.StatusUnderReview, changes[0].NewStatus)
	assert.Equal(t, "docs complete", changes[0].Reason)
	assert.False(t, changes[0].ActorID.IsNil())

	require.Len(t, notifier.events, 1)
	assert.Equal(t, models.StatusUnderReview, notifier.events[0].NewStatus)
	assert.Equal(t, "admin@paqueteria.mx", notifier.events[0].Contact.Email)
}

func TestChangeStatus_InvalidStatusLeavesNoTrace(t *testing.T) {
	entities := memory.NewEntityStore()
	history := memory.NewHistoryStore()
	svc := New(entities, history)

	ctx := actorContext(t)
	e := seedEntity(t, entities, models.StatusDraft)

	_, err := svc.ChangeStatus(ctx, models.KindCompany, e.ID, "bogus", "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	stored, err := entities.Find(ctx, models.KindCompany, e.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, stored.Status)

	changes, err := history.ListByEntity(ctx, models.KindCompany, e.ID)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestChangeStatus_IllegalTransitionRejected(t *testing.T) {
	entities := memory.NewEntityStore()
	svc := New(entities, memory.NewHistoryStore())

	ctx := actorContext(t)
	e := seedEntity(t, entities, models.StatusDraft)

	// draft -> active skips review and is not in the default graph.
	_, err := svc.ChangeStatus(ctx, models.KindCompany, e.ID, "active", "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestChangeStatus_UnknownEntity(t *testing.T) {
	svc := New(memory.NewEntityStore(), memory.NewHistoryStore())

	_, err := svc.ChangeStatus(actorContext(t), models.KindCompany, uuid.New(), "under_review", "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestChangeStatus_RequiresActor(t *testing.T) {
	entities := memory.NewEntityStore()
	svc := New(entities, memory.NewHistoryStore())
	e := seedEntity(t, entities, models.StatusDraft)

	_, err := svc.ChangeStatus(context.Background(), models.KindCompany, e.ID, "under_review", "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestChangeStatus_HistoryFailureLeavesStatusUntouched(t *testing.T) {
	entities := memory.NewEntityStore()
	svc := New(entities, failingHistoryStore{})

	ctx := actorContext(t)
	e := seedEntity(t, entities, models.StatusDraft)

	_, err := svc.ChangeStatus(ctx, models.KindCompany, e.ID, "under_review", "test")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))

	stored, err := entities.Find(ctx, models.KindCompany, e.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, stored.Status, "no partial commit allowed")
	assert.Equal(t, int64(1), stored.Version)
}

func TestSubmitForReview_Idempotent(t *testing.T) {
	entities := memory.NewEntityStore()
	history := memory.NewHistoryStore()
	svc := New(entities, history)

	ctx := actorContext(t)
	e := seedEntity(t, entities, models.StatusDraft)

	first, err := svc.SubmitForReview(ctx, models.KindCompany, e.ID, "")
	require.NoError(t, err)
	assert.False(t, first.Unchanged)

	second, err := svc.SubmitForReview(ctx, models.KindCompany, e.ID, "")
	require.NoError(t, err)
	assert.True(t, second.Unchanged)

	changes, err := history.ListByEntity(ctx, models.KindCompany, e.ID)
	require.NoError(t, err)
	assert.Len(t, changes, 1, "idempotent submit must not duplicate history")
}

func TestHistoryChainIsContiguous(t *testing.T) {
	entities := memory.NewEntityStore()
	history := memory.NewHistoryStore()
	svc := New(entities, history)

	ctx := actorContext(t)
	e := seedEntity(t, entities, models.StatusDraft)

	steps := []string{"under_review", "active", "inactive", "active", "inactive"}
	for _, step := range steps {
		_, err := svc.ChangeStatus(ctx, models.KindCompany, e.ID, step, "")
		require.NoError(t, err, "transition to %s", step)
	}

	changes, err := svc.GetHistory(ctx, models.KindCompany, e.ID)
	require.NoError(t, err)
	require.Len(t, changes, len(steps))

	assert.Equal(t, models.StatusDraft, changes[0].PreviousStatus)
	for k := 0; k < len(changes)-1; k++ {
		assert.Equal(t, changes[k].NewStatus, changes[k+1].PreviousStatus,
			"record %d's new_status must equal record %d's previous_status", k, k+1)
	}

	stored, err := entities.Find(ctx, models.KindCompany, e.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1+len(steps)), stored.Version)
}

type conflictingEntityStore struct {
	*memory.EntityStore
}

func (s conflictingEntityStore) UpdateStatus(context.Context, models.Kind, uuid.UUID, models.Status, int64, time.Time) error {
	return sentinel.ErrConflict
}

func TestChangeStatus_VersionConflictSurfacesAsConflict(t *testing.T) {
	entities := memory.NewEntityStore()
	history := memory.NewHistoryStore()
	svc := New(conflictingEntityStore{entities}, history)

	ctx := actorContext(t)
	e := seedEntity(t, entities, models.StatusDraft)

	_, err := svc.ChangeStatus(ctx, models.KindCompany, e.ID, "under_review", "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	// The lost transition must leave no trace: without a surrounding
	// transaction the already-appended record has to be discarded again.
	stored, err := entities.Find(ctx, models.KindCompany, e.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, stored.Status)

	changes, err := history.ListByEntity(ctx, models.KindCompany, e.ID)
	require.NoError(t, err)
	assert.Empty(t, changes, "no history record may exist for a failed transition")
}

func TestChangeStatus_UnknownKind(t *testing.T) {
	svc := New(memory.NewEntityStore(), memory.NewHistoryStore())
	_, err := svc.ChangeStatus(actorContext(t), models.Kind("warehouse"), uuid.New(), "active", "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestGetHistory_UnknownEntity(t *testing.T) {
	svc := New(memory.NewEntityStore(), memory.NewHistoryStore())
	_, err := svc.GetHistory(actorContext(t), models.KindAccount, uuid.New())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
