package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/PuntoEntrega/PDE-sub002/internal/invite/models"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/sentinel"
	txcontext "github.com/PuntoEntrega/PDE-sub002/pkg/platform/tx"
)

// PostgresStore persists invitations in the invitations table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const invitationColumns = `id, company_id, email, role, token_hash, state, invited_by, created_at, expires_at`

func (s *PostgresStore) Create(ctx context.Context, invitation *models.Invitation) error {
	query := `
		INSERT INTO invitations (` + invitationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		invitation.ID.UUID(), invitation.CompanyID.UUID(), invitation.Email,
		invitation.Role, invitation.TokenHash, invitation.State,
		invitation.InvitedBy.UUID(), invitation.CreatedAt, invitation.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("create invitation: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, invitationID id.InvitationID) (*models.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1`
	inv, err := scanInvitation(s.execer(ctx).QueryRowContext(ctx, query, invitationID.UUID()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("invitation %s: %w", invitationID, sentinel.ErrNotFound)
		}
		return nil, err
	}
	return inv, nil
}

func (s *PostgresStore) ListPendingByEmail(ctx context.Context, email string) ([]*models.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE lower(email) = lower($1) AND state = $2
		ORDER BY created_at DESC`
	rows, err := s.execer(ctx).QueryContext(ctx, query, email, models.StatePending)
	if err != nil {
		return nil, fmt.Errorf("list pending invitations: %w", err)
	}
	defer rows.Close()

	var pending []*models.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		pending = append(pending, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pending invitations: %w", err)
	}
	return pending, nil
}

func (s *PostgresStore) MarkAccepted(ctx context.Context, invitationID id.InvitationID) error {
	res, err := s.execer(ctx).ExecContext(ctx,
		`UPDATE invitations SET state = $1 WHERE id = $2`,
		models.StateAccepted, invitationID.UUID(),
	)
	if err != nil {
		return fmt.Errorf("mark invitation accepted: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark invitation accepted: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("invitation %s: %w", invitationID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) CountByCompany(ctx context.Context, companyID id.CompanyID) (int, error) {
	var n int
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invitations WHERE company_id = $1`,
		companyID.UUID(),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count invitations: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvitation(row rowScanner) (*models.Invitation, error) {
	var (
		inv              models.Invitation
		invID, cid, byID uuid.UUID
	)
	err := row.Scan(
		&invID, &cid, &inv.Email, &inv.Role, &inv.TokenHash, &inv.State,
		&byID, &inv.CreatedAt, &inv.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan invitation: %w", err)
	}
	inv.ID = id.InvitationID(invID)
	inv.CompanyID = id.CompanyID(cid)
	inv.InvitedBy = id.AccountID(byID)
	return &inv, nil
}
