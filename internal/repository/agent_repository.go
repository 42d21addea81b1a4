package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crmdesk/ticketd/internal/domain"
)

// AgentRepository encapsulates agent persistence.
type AgentRepository interface {
	Create(ctx context.Context, agent *domain.Agent) error
	GetByID(ctx context.Context, id string) (*domain.Agent, error)
	GetByEmail(ctx context.Context, email string) (*domain.Agent, error)
}

type agentRepository struct {
	pool *pgxpool.Pool
}

// NewAgentRepository instantiates repository.
func NewAgentRepository(pool *pgxpool.Pool) AgentRepository {
	return &agentRepository{pool: pool}
}

func (r *agentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	const query = `
        INSERT INTO agents (email, name, password_hash, role)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		agent.Email,
		agent.Name,
		agent.PasswordHash,
		agent.Role,
	).Scan(&agent.ID, &agent.CreatedAt)
}

func (r *agentRepository) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	const query = `
        SELECT id, email, name, password_hash, role, created_at
        FROM agents WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *agentRepository) GetByEmail(ctx context.Context, email string) (*domain.Agent, error) {
	const query = `
        SELECT id, email, name, password_hash, role, created_at
        FROM agents WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *agentRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Agent, error) {
	var agent domain.Agent
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&agent.ID,
		&agent.Email,
		&agent.Name,
		&agent.PasswordHash,
		&agent.Role,
		&agent.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &agent, nil
}
