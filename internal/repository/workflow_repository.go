package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdesk/helpdesk-service/internal/domain"
)

// TicketStateRepository handles persistence for workflow states.
type TicketStateRepository interface {
	GetByID(ctx context.Context, id string) (*domain.TicketState, error)
	// GetDefault returns the single state flagged as default for new tickets.
	// Returns pgx.ErrNoRows when the system is misconfigured without one.
	GetDefault(ctx context.Context) (*domain.TicketState, error)
	// GetFirstFinal returns the lowest-ordered state flagged final, used by
	// ticket resolution.
	GetFirstFinal(ctx context.Context) (*domain.TicketState, error)
	List(ctx context.Context) ([]domain.TicketState, error)
}

// TicketCategoryRepository handles persistence for ticket categories.
type TicketCategoryRepository interface {
	Create(ctx context.Context, category *domain.TicketCategory) error
	GetByID(ctx context.Context, id string) (*domain.TicketCategory, error)
	List(ctx context.Context) ([]domain.TicketCategory, error)
}

type ticketStateRepository struct {
	pool *pgxpool.Pool
}

// NewTicketStateRepository instantiates the repository.
func NewTicketStateRepository(pool *pgxpool.Pool) TicketStateRepository {
	return &ticketStateRepository{pool: pool}
}

const stateColumns = `id, name, color, display_order, is_default, is_final, created_at, updated_at`

func (r *ticketStateRepository) GetByID(ctx context.Context, id string) (*domain.TicketState, error) {
	query := `SELECT ` + stateColumns + ` FROM ticket_states WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketStateRepository) GetDefault(ctx context.Context) (*domain.TicketState, error) {
	query := `SELECT ` + stateColumns + ` FROM ticket_states WHERE is_default ORDER BY display_order LIMIT 1`
	return r.fetchSingle(ctx, query)
}

func (r *ticketStateRepository) GetFirstFinal(ctx context.Context) (*domain.TicketState, error) {
	query := `SELECT ` + stateColumns + ` FROM ticket_states WHERE is_final ORDER BY display_order LIMIT 1`
	return r.fetchSingle(ctx, query)
}

func (r *ticketStateRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.TicketState, error) {
	var state domain.TicketState
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&state.ID,
		&state.Name,
		&state.Color,
		&state.DisplayOrder,
		&state.IsDefault,
		&state.IsFinal,
		&state.CreatedAt,
		&state.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *ticketStateRepository) List(ctx context.Context) ([]domain.TicketState, error) {
	query := `SELECT ` + stateColumns + ` FROM ticket_states ORDER BY display_order`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketState
	for rows.Next() {
		var state domain.TicketState
		if err := rows.Scan(
			&state.ID,
			&state.Name,
			&state.Color,
			&state.DisplayOrder,
			&state.IsDefault,
			&state.IsFinal,
			&state.CreatedAt,
			&state.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, state)
	}
	return result, rows.Err()
}

type ticketCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewTicketCategoryRepository instantiates the repository.
func NewTicketCategoryRepository(pool *pgxpool.Pool) TicketCategoryRepository {
	return &ticketCategoryRepository{pool: pool}
}

func (r *ticketCategoryRepository) Create(ctx context.Context, category *domain.TicketCategory) error {
	const query = `
        INSERT INTO ticket_categories (name, description, is_active)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		category.Name,
		category.Description,
		category.IsActive,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
}

func (r *ticketCategoryRepository) GetByID(ctx context.Context, id string) (*domain.TicketCategory, error) {
	const query = `
        SELECT id, name, description, is_active, created_at, updated_at
        FROM ticket_categories WHERE id=$1`
	var category domain.TicketCategory
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.IsActive,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *ticketCategoryRepository) List(ctx context.Context) ([]domain.TicketCategory, error) {
	const query = `
        SELECT id, name, description, is_active, created_at, updated_at
        FROM ticket_categories ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketCategory
	for rows.Next() {
		var category domain.TicketCategory
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Description,
			&category.IsActive,
			&category.CreatedAt,
			&category.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}
