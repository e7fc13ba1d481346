package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdesk/helpdesk-service/internal/domain"
)

// AgentRepository handles persistence for support agents. Workload counter
// changes are single-statement updates so concurrent assignments and
// resolutions for the same agent serialize at the row.
type AgentRepository interface {
	Create(ctx context.Context, agent *domain.SupportAgent) error
	GetByID(ctx context.Context, id string) (*domain.SupportAgent, error)
	GetByEmail(ctx context.Context, email string) (*domain.SupportAgent, error)
	Update(ctx context.Context, agent *domain.SupportAgent) error
	ListByTeam(ctx context.Context, teamID string) ([]domain.SupportAgent, error)
	IncrementWorkload(ctx context.Context, id string) error
	// DecrementWorkload floors the counter at zero.
	DecrementWorkload(ctx context.Context, id string) error
}

type agentRepository struct {
	pool *pgxpool.Pool
}

// NewAgentRepository instantiates the repository.
func NewAgentRepository(pool *pgxpool.Pool) AgentRepository {
	return &agentRepository{pool: pool}
}

const agentColumns = `id, team_id, name, email, password_hash, current_ticket_count,
        max_concurrent_tickets, is_available, created_at, updated_at`

func (r *agentRepository) Create(ctx context.Context, agent *domain.SupportAgent) error {
	const query = `
        INSERT INTO support_agents (team_id, name, email, password_hash, current_ticket_count,
            max_concurrent_tickets, is_available)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		agent.TeamID,
		agent.Name,
		agent.Email,
		agent.PasswordHash,
		agent.CurrentTicketCount,
		agent.MaxConcurrentTickets,
		agent.IsAvailable,
	).Scan(&agent.ID, &agent.CreatedAt, &agent.UpdatedAt)
}

func (r *agentRepository) GetByID(ctx context.Context, id string) (*domain.SupportAgent, error) {
	query := `SELECT ` + agentColumns + ` FROM support_agents WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *agentRepository) GetByEmail(ctx context.Context, email string) (*domain.SupportAgent, error) {
	query := `SELECT ` + agentColumns + ` FROM support_agents WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *agentRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.SupportAgent, error) {
	var agent domain.SupportAgent
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&agent.ID,
		&agent.TeamID,
		&agent.Name,
		&agent.Email,
		&agent.PasswordHash,
		&agent.CurrentTicketCount,
		&agent.MaxConcurrentTickets,
		&agent.IsAvailable,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *agentRepository) Update(ctx context.Context, agent *domain.SupportAgent) error {
	const query = `
        UPDATE support_agents
        SET team_id=$1, name=$2, email=$3, password_hash=$4, max_concurrent_tickets=$5,
            is_available=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		agent.TeamID,
		agent.Name,
		agent.Email,
		agent.PasswordHash,
		agent.MaxConcurrentTickets,
		agent.IsAvailable,
		agent.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *agentRepository) ListByTeam(ctx context.Context, teamID string) ([]domain.SupportAgent, error) {
	query := `SELECT ` + agentColumns + ` FROM support_agents WHERE team_id=$1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SupportAgent
	for rows.Next() {
		var agent domain.SupportAgent
		if err := rows.Scan(
			&agent.ID,
			&agent.TeamID,
			&agent.Name,
			&agent.Email,
			&agent.PasswordHash,
			&agent.CurrentTicketCount,
			&agent.MaxConcurrentTickets,
			&agent.IsAvailable,
			&agent.CreatedAt,
			&agent.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, agent)
	}
	return result, rows.Err()
}

func (r *agentRepository) IncrementWorkload(ctx context.Context, id string) error {
	const query = `
        UPDATE support_agents SET current_ticket_count = current_ticket_count + 1, updated_at=NOW()
        WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *agentRepository) DecrementWorkload(ctx context.Context, id string) error {
	const query = `
        UPDATE support_agents SET current_ticket_count = GREATEST(current_ticket_count - 1, 0), updated_at=NOW()
        WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
