package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PuntoEntrega/PDE-sub002/internal/review/models"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/sentinel"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/tx"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestFind(t *testing.T) {
	store, mock := newMock(t)
	entityID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "display_name", "status", "contact_email", "contact_phone", "version", "created_at", "updated_at",
	}).AddRow(entityID, "PdE Roma Norte", "draft", "roma@pde.mx", nil, int64(3), now, now)

	mock.ExpectQuery(`SELECT id, display_name, status, contact_email, contact_phone, version, created_at, updated_at\s+FROM delivery_points WHERE id = \$1`).
		WithArgs(entityID).
		WillReturnRows(rows)

	e, err := store.Find(context.Background(), models.KindDeliveryPoint, entityID)
	require.NoError(t, err)
	assert.Equal(t, models.KindDeliveryPoint, e.Kind)
	assert.Equal(t, "PdE Roma Norte", e.DisplayName)
	assert.Equal(t, models.StatusDraft, e.Status)
	assert.Equal(t, "roma@pde.mx", e.Contact.Email)
	assert.Empty(t, e.Contact.Phone)
	assert.Equal(t, int64(3), e.Version)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFind_NotFound(t *testing.T) {
	store, mock := newMock(t)
	entityID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM companies WHERE id = \$1`).
		WithArgs(entityID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.Find(context.Background(), models.KindCompany, entityID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel.ErrNotFound))
}

func TestFind_UnknownKind(t *testing.T) {
	store, _ := newMock(t)
	_, err := store.Find(context.Background(), models.Kind("warehouse"), uuid.New())
	require.Error(t, err)
}

func TestUpdateStatus_VersionConflict(t *testing.T) {
	store, mock := newMock(t)
	entityID := uuid.New()
	now := time.Now()

	mock.ExpectExec(`UPDATE companies SET status = \$1, version = version \+ 1, updated_at = \$2\s+WHERE id = \$3 AND version = \$4`).
		WithArgs("active", now, entityID, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM companies WHERE id = \$1\)`).
		WithArgs(entityID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := store.UpdateStatus(context.Background(), models.KindCompany, entityID, models.StatusActive, 2, now)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel.ErrConflict))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_MissingRow(t *testing.T) {
	store, mock := newMock(t)
	entityID := uuid.New()
	now := time.Now()

	mock.ExpectExec(`UPDATE accounts SET status`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(entityID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err := store.UpdateStatus(context.Background(), models.KindAccount, entityID, models.StatusActive, 1, now)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel.ErrNotFound))
}

// TestTransactionalTransition drives the same sequence the workflow runs:
// BEGIN, lock the row, insert history, update status, COMMIT, plus the
// rollback variant when the history insert fails.
func TestTransactionalTransition(t *testing.T) {
	entityID := uuid.New()
	actorID := uuid.New()
	now := time.Now()

	runTransition := func(store *Store, runner *tx.SQLRunner) error {
		return runner.RunInTx(context.Background(), func(txCtx context.Context) error {
			if err := store.Append(txCtx, models.StatusChange{
				EntityKind:     models.KindCompany,
				EntityID:       entityID,
				PreviousStatus: models.StatusDraft,
				NewStatus:      models.StatusUnderReview,
				Reason:         "test",
				ActorID:        id.AccountID(actorID),
				ChangedAt:      now,
			}); err != nil {
				return err
			}
			return store.UpdateStatus(txCtx, models.KindCompany, entityID, models.StatusUnderReview, 1, now)
		})
	}

	t.Run("both apply on success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO status_history`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`UPDATE companies SET status`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, runTransition(New(db), tx.NewSQLRunner(db)))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("history failure rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO status_history`).
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err = runTransition(New(db), tx.NewSQLRunner(db))
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet(), "status update must not run after history failure")
	})
}

func TestListByEntity(t *testing.T) {
	store, mock := newMock(t)
	entityID := uuid.New()
	actorID := uuid.New()
	t0 := time.Now().Add(-time.Hour)
	t1 := time.Now()

	rows := sqlmock.NewRows([]string{
		"entity_kind", "entity_id", "previous_status", "new_status", "reason", "actor_id", "actor_device", "changed_at",
	}).
		AddRow("company", entityID, "draft", "under_review", "", actorID, "Chrome 126 (Linux)", t0).
		AddRow("company", entityID, "under_review", "active", "approved", actorID, "", t1)

	mock.ExpectQuery(`SELECT entity_kind, entity_id, previous_status, new_status, reason, actor_id, actor_device, changed_at\s+FROM status_history`).
		WithArgs(models.KindCompany, entityID).
		WillReturnRows(rows)

	changes, err := store.ListByEntity(context.Background(), models.KindCompany, entityID)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, models.StatusUnderReview, changes[0].NewStatus)
	assert.Equal(t, changes[0].NewStatus, changes[1].PreviousStatus)
}
