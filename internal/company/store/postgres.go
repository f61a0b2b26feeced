package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/PuntoEntrega/PDE-sub002/internal/company/models"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/sentinel"
	txcontext "github.com/PuntoEntrega/PDE-sub002/pkg/platform/tx"
)

// PostgresStore persists companies in the companies table, which shares the
// status/version column shape with the other reviewable entities.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const companyColumns = `id, legal_name, trade_name, tax_id, contact_email, contact_phone, owner_id, status, version, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, company *models.Company) error {
	query := `
		INSERT INTO companies (` + companyColumns + `, display_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		company.ID.UUID(), company.LegalName, nullable(company.TradeName),
		company.TaxID, nullable(company.ContactEmail), nullable(company.ContactPhone),
		company.OwnerID.UUID(), company.Status, company.Version,
		company.CreatedAt, company.UpdatedAt, company.DisplayName(),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("tax id %s: %w", company.TaxID, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create company: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, companyID id.CompanyID) (*models.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	var (
		c            models.Company
		cid, ownerID uuid.UUID
		trade        sql.NullString
		email, phone sql.NullString
	)
	err := s.execer(ctx).QueryRowContext(ctx, query, companyID.UUID()).Scan(
		&cid, &c.LegalName, &trade, &c.TaxID, &email, &phone,
		&ownerID, &c.Status, &c.Version, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("company %s: %w", companyID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find company: %w", err)
	}
	c.ID = id.CompanyID(cid)
	c.OwnerID = id.AccountID(ownerID)
	c.TradeName = trade.String
	c.ContactEmail = email.String
	c.ContactPhone = phone.String
	return &c, nil
}

// CountDocuments counts rows in company_documents for progress reporting.
func (s *PostgresStore) CountDocuments(ctx context.Context, companyID id.CompanyID) (int, error) {
	var n int
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM company_documents WHERE company_id = $1`,
		companyID.UUID(),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count company documents: %w", err)
	}
	return n, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
