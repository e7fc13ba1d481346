package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdesk/helpdesk-service/internal/domain"
)

// PlanRepository handles persistence for the plan catalog.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) error
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	GetByType(ctx context.Context, planType domain.PlanType) (*domain.Plan, error)
	ListActive(ctx context.Context) ([]domain.Plan, error)
	Deactivate(ctx context.Context, id string) error
}

type planRepository struct {
	pool *pgxpool.Pool
}

// NewPlanRepository instantiates the repository.
func NewPlanRepository(pool *pgxpool.Pool) PlanRepository {
	return &planRepository{pool: pool}
}

const planColumns = `id, plan_type, name, price, currency, billing_cycle_days, monthly_ticket_limit,
        has_api_access, has_priority_support, has_custom_branding, display_order, is_active,
        created_at, updated_at`

func (r *planRepository) Create(ctx context.Context, plan *domain.Plan) error {
	const query = `
        INSERT INTO plans (plan_type, name, price, currency, billing_cycle_days, monthly_ticket_limit,
            has_api_access, has_priority_support, has_custom_branding, display_order, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		plan.Type,
		plan.Name,
		plan.Price,
		plan.Currency,
		plan.BillingCycleDays,
		plan.MonthlyTicketLimit,
		plan.HasAPIAccess,
		plan.HasPrioritySupport,
		plan.HasCustomBranding,
		plan.DisplayOrder,
		plan.IsActive,
	).Scan(&plan.ID, &plan.CreatedAt, &plan.UpdatedAt)
}

func (r *planRepository) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *planRepository) GetByType(ctx context.Context, planType domain.PlanType) (*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE plan_type=$1 AND is_active ORDER BY created_at LIMIT 1`
	return r.fetchSingle(ctx, query, planType)
}

func (r *planRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Plan, error) {
	var plan domain.Plan
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&plan.ID,
		&plan.Type,
		&plan.Name,
		&plan.Price,
		&plan.Currency,
		&plan.BillingCycleDays,
		&plan.MonthlyTicketLimit,
		&plan.HasAPIAccess,
		&plan.HasPrioritySupport,
		&plan.HasCustomBranding,
		&plan.DisplayOrder,
		&plan.IsActive,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) ListActive(ctx context.Context) ([]domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE is_active ORDER BY display_order, created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Plan
	for rows.Next() {
		var plan domain.Plan
		if err := rows.Scan(
			&plan.ID,
			&plan.Type,
			&plan.Name,
			&plan.Price,
			&plan.Currency,
			&plan.BillingCycleDays,
			&plan.MonthlyTicketLimit,
			&plan.HasAPIAccess,
			&plan.HasPrioritySupport,
			&plan.HasCustomBranding,
			&plan.DisplayOrder,
			&plan.IsActive,
			&plan.CreatedAt,
			&plan.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, plan)
	}
	return result, rows.Err()
}

func (r *planRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE plans SET is_active=false, updated_at=NOW() WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
