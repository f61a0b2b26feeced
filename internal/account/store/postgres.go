package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/PuntoEntrega/PDE-sub002/internal/account/models"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/sentinel"
	txcontext "github.com/PuntoEntrega/PDE-sub002/pkg/platform/tx"
)

// PostgresStore persists accounts in the accounts table. The table shares
// the status/version column shape with the other reviewable entities so
// the status workflow can update it through the review store.
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

const accountColumns = `id, email, phone, first_name, last_name, role, status, password_hash, version, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `, display_name, contact_email, contact_phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		account.ID.UUID(), account.Email, nullable(account.Phone),
		account.FirstName, account.LastName, account.Role,
		account.Status, account.PasswordHash, account.Version,
		account.CreatedAt, account.UpdatedAt,
		account.FullName(), account.Email, nullable(account.Phone),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("email %s: %w", account.Email, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, accountID id.AccountID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return s.scanOne(s.execer(ctx).QueryRowContext(ctx, query, accountID.UUID()), accountID.String())
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE lower(email) = lower($1)`
	return s.scanOne(s.execer(ctx).QueryRowContext(ctx, query, email), email)
}

// ListAdminsByMinLevel returns active accounts whose role sits at or above
// minLevel. Feeds notification recipient resolution.
func (s *PostgresStore) ListAdminsByMinLevel(ctx context.Context, minLevel int) ([]*models.Account, error) {
	roles := rolesAtOrAbove(minLevel)
	if len(roles) == 0 {
		return nil, nil
	}
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE role = ANY($1) AND status = $2
		ORDER BY created_at ASC`
	rows, err := s.execer(ctx).QueryContext(ctx, query, pq.Array(roles), "active")
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	var admins []*models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		admins = append(admins, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return admins, nil
}

func rolesAtOrAbove(minLevel int) []string {
	all := []models.Role{
		models.RoleCollaborator, models.RoleOperator, models.RoleManager,
		models.RoleCompanyAdmin, models.RoleReviewer, models.RolePlatformAdmin,
		models.RoleSuperAdmin,
	}
	var names []string
	for _, r := range all {
		if r.Level() >= minLevel {
			names = append(names, string(r))
		}
	}
	return names
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) scanOne(row *sql.Row, what string) (*models.Account, error) {
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", what, sentinel.ErrNotFound)
		}
		return nil, err
	}
	return a, nil
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var (
		a         models.Account
		accountID uuid.UUID
		phone     sql.NullString
	)
	err := row.Scan(
		&accountID, &a.Email, &phone, &a.FirstName, &a.LastName,
		&a.Role, &a.Status, &a.PasswordHash, &a.Version,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	a.ID = id.AccountID(accountID)
	a.Phone = phone.String
	return &a, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
