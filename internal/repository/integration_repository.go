package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crmdesk/ticketd/internal/domain"
)

// IntegrationRepository encapsulates integration persistence. The
// typed config variant is stored as a JSONB envelope and decoded back
// through the type tag on read.
type IntegrationRepository interface {
	Create(ctx context.Context, integration *domain.Integration) error
	Update(ctx context.Context, integration *domain.Integration) error
	GetByID(ctx context.Context, id string) (*domain.Integration, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Integration, error)
}

type integrationRepository struct {
	pool *pgxpool.Pool
}

// NewIntegrationRepository instantiates repository.
func NewIntegrationRepository(pool *pgxpool.Pool) IntegrationRepository {
	return &integrationRepository{pool: pool}
}

func (r *integrationRepository) Create(ctx context.Context, integration *domain.Integration) error {
	raw, err := json.Marshal(integration.Config)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO integrations (name, type, config, is_active, department_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		integration.Name,
		integration.Type,
		raw,
		integration.IsActive,
		integration.DepartmentID,
	).Scan(&integration.ID, &integration.CreatedAt, &integration.UpdatedAt)
}

func (r *integrationRepository) Update(ctx context.Context, integration *domain.Integration) error {
	raw, err := json.Marshal(integration.Config)
	if err != nil {
		return err
	}
	const query = `
        UPDATE integrations SET name=$1, type=$2, config=$3, is_active=$4,
            department_id=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		integration.Name,
		integration.Type,
		raw,
		integration.IsActive,
		integration.DepartmentID,
		integration.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *integrationRepository) GetByID(ctx context.Context, id string) (*domain.Integration, error) {
	const query = `
        SELECT id, name, type, config, is_active, department_id, created_at, updated_at
        FROM integrations WHERE id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanIntegration(row)
}

func (r *integrationRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM integrations WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *integrationRepository) List(ctx context.Context) ([]domain.Integration, error) {
	const query = `
        SELECT id, name, type, config, is_active, department_id, created_at, updated_at
        FROM integrations ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Integration
	for rows.Next() {
		integration, err := scanIntegration(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *integration)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIntegration(row rowScanner) (*domain.Integration, error) {
	var integration domain.Integration
	var raw []byte
	if err := row.Scan(
		&integration.ID,
		&integration.Name,
		&integration.Type,
		&raw,
		&integration.IsActive,
		&integration.DepartmentID,
		&integration.CreatedAt,
		&integration.UpdatedAt,
	); err != nil {
		return nil, err
	}
	cfg, err := domain.DecodeIntegrationConfig(integration.Type, raw)
	if err != nil {
		return nil, err
	}
	integration.Config = cfg
	return &integration, nil
}
