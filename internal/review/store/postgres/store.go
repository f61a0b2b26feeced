// Package postgres persists reviewable entity status and history in
// PostgreSQL. The three entity families live in their own tables but share
// the status/version column shape, so one store serves all kinds.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PuntoEntrega/PDE-sub002/internal/review/models"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/sentinel"
	txcontext "github.com/PuntoEntrega/PDE-sub002/pkg/platform/tx"
)

var kindTables = map[models.Kind]string{
	models.KindAccount:       "accounts",
	models.KindCompany:       "companies",
	models.KindDeliveryPoint: "delivery_points",
}

// Store implements the review EntityStore and HistoryStore over *sql.DB.
// When a transaction is present in the context (pkg/platform/tx) all
// statements run on it, which is how the workflow gets its all-or-nothing
// guarantee for status update + history append.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL-backed review store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func tableFor(kind models.Kind) (string, error) {
	table, ok := kindTables[kind]
	if !ok {
		return "", fmt.Errorf("no table for kind %q: %w", kind, sentinel.ErrInvalidState)
	}
	return table, nil
}

// Find loads the review projection of an entity. Inside a transaction the
// row is locked (FOR UPDATE) so concurrent transitions serialize.
func (s *Store) Find(ctx context.Context, kind models.Kind, entityID uuid.UUID) (*models.Entity, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, display_name, status, contact_email, contact_phone, version, created_at, updated_at
		FROM %s WHERE id = $1`, table)
	if _, inTx := txcontext.From(ctx); inTx {
		query += " FOR UPDATE"
	}

	var (
		e     models.Entity
		email sql.NullString
		phone sql.NullString
	)
	e.Kind = kind
	err = s.execer(ctx).QueryRowContext(ctx, query, entityID).Scan(
		&e.ID, &e.DisplayName, &e.Status, &email, &phone, &e.Version, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s %s: %w", kind, entityID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find %s: %w", kind, err)
	}
	e.Contact = models.Contact{Email: email.String, Phone: phone.String}
	return &e, nil
}

// UpdateStatus applies the transition with an optimistic version check.
// Zero rows affected means either the entity vanished or another
// transition won the race; both surface as sentinel errors.
func (s *Store) UpdateStatus(ctx context.Context, kind models.Kind, entityID uuid.UUID, to models.Status, expectedVersion int64, now time.Time) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s SET status = $1, version = version + 1, updated_at = $2
		WHERE id = $3 AND version = $4`, table)
	res, err := s.execer(ctx).ExecContext(ctx, query, to, now, entityID, expectedVersion)
	if err != nil {
		return fmt.Errorf("update %s status: %w", kind, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s status: %w", kind, err)
	}
	if affected == 0 {
		var exists bool
		checkQuery := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, table)
		if err := s.execer(ctx).QueryRowContext(ctx, checkQuery, entityID).Scan(&exists); err != nil {
			return fmt.Errorf("update %s status: %w", kind, err)
		}
		if !exists {
			return fmt.Errorf("%s %s: %w", kind, entityID, sentinel.ErrNotFound)
		}
		return fmt.Errorf("version mismatch on %s %s: %w", kind, entityID, sentinel.ErrConflict)
	}
	return nil
}

// Append inserts one immutable history record.
func (s *Store) Append(ctx context.Context, change models.StatusChange) error {
	query := `
		INSERT INTO status_history
			(id, entity_kind, entity_id, previous_status, new_status, reason, actor_id, actor_device, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.New(), change.EntityKind, change.EntityID,
		change.PreviousStatus, change.NewStatus, change.Reason,
		uuid.UUID(change.ActorID), change.ActorDevice, change.ChangedAt,
	)
	if err != nil {
		return fmt.Errorf("append status history: %w", err)
	}
	return nil
}

// Discard deletes a history record whose transition failed to commit.
// Inside a transaction the rollback already covers it; the statement still
// runs so the contract matches the in-memory store.
func (s *Store) Discard(ctx context.Context, change models.StatusChange) error {
	query := `
		DELETE FROM status_history
		WHERE entity_kind = $1 AND entity_id = $2 AND changed_at = $3 AND new_status = $4`
	if _, err := s.execer(ctx).ExecContext(ctx, query,
		change.EntityKind, change.EntityID, change.ChangedAt, change.NewStatus,
	); err != nil {
		return fmt.Errorf("discard status history: %w", err)
	}
	return nil
}

// ListByEntity returns the history chain for one entity, oldest first.
func (s *Store) ListByEntity(ctx context.Context, kind models.Kind, entityID uuid.UUID) ([]models.StatusChange, error) {
	query := `
		SELECT entity_kind, entity_id, previous_status, new_status, reason, actor_id, actor_device, changed_at
		FROM status_history
		WHERE entity_kind = $1 AND entity_id = $2
		ORDER BY changed_at ASC`
	rows, err := s.execer(ctx).QueryContext(ctx, query, kind, entityID)
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	defer rows.Close()

	var changes []models.StatusChange
	for rows.Next() {
		var (
			c       models.StatusChange
			actorID uuid.UUID
		)
		if err := rows.Scan(
			&c.EntityKind, &c.EntityID, &c.PreviousStatus, &c.NewStatus,
			&c.Reason, &actorID, &c.ActorDevice, &c.ChangedAt,
		); err != nil {
			return nil, fmt.Errorf("scan status history: %w", err)
		}
		c.ActorID = id.AccountID(actorID)
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	return changes, nil
}
