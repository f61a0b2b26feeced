package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/PuntoEntrega/PDE-sub002/internal/deliverypoint/models"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/sentinel"
	txcontext "github.com/PuntoEntrega/PDE-sub002/pkg/platform/tx"
)

// PostgresStore persists delivery points in the delivery_points table,
// which shares the status/version column shape with the other reviewable
// entities.
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

const pointColumns = `id, company_id, name, address, contact_email, contact_phone, schedule_note, status, version, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, point *models.DeliveryPoint) error {
	query := `
		INSERT INTO delivery_points (` + pointColumns + `, display_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		point.ID.UUID(), point.CompanyID.UUID(), point.Name, point.Address,
		nullable(point.ContactEmail), nullable(point.ContactPhone),
		nullable(point.ScheduleNote), point.Status, point.Version,
		point.CreatedAt, point.UpdatedAt, point.Name,
	)
	if err != nil {
		return fmt.Errorf("create delivery point: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, pointID id.DeliveryPointID) (*models.DeliveryPoint, error) {
	query := `SELECT ` + pointColumns + ` FROM delivery_points WHERE id = $1`
	p, err := scanPoint(s.execer(ctx).QueryRowContext(ctx, query, pointID.UUID()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("delivery point %s: %w", pointID, sentinel.ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (s *PostgresStore) ListByCompany(ctx context.Context, companyID id.CompanyID) ([]*models.DeliveryPoint, error) {
	query := `SELECT ` + pointColumns + ` FROM delivery_points WHERE company_id = $1 ORDER BY created_at ASC`
	rows, err := s.execer(ctx).QueryContext(ctx, query, companyID.UUID())
	if err != nil {
		return nil, fmt.Errorf("list delivery points: %w", err)
	}
	defer rows.Close()

	var points []*models.DeliveryPoint
	for rows.Next() {
		p, err := scanPoint(rows)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list delivery points: %w", err)
	}
	return points, nil
}

func (s *PostgresStore) CountByCompany(ctx context.Context, companyID id.CompanyID) (int, error) {
	var n int
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM delivery_points WHERE company_id = $1`,
		companyID.UUID(),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count delivery points: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPoint(row rowScanner) (*models.DeliveryPoint, error) {
	var (
		p            models.DeliveryPoint
		pointID, cid uuid.UUID
		email, phone sql.NullString
		schedule     sql.NullString
	)
	err := row.Scan(
		&pointID, &cid, &p.Name, &p.Address, &email, &phone, &schedule,
		&p.Status, &p.Version, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan delivery point: %w", err)
	}
	p.ID = id.DeliveryPointID(pointID)
	p.CompanyID = id.CompanyID(cid)
	p.ContactEmail = email.String
	p.ContactPhone = phone.String
	p.ScheduleNote = schedule.String
	return &p, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
