package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdesk/helpdesk-service/internal/domain"
)

// SubscriptionRepository handles persistence for subscriptions and their
// billing counters.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.Subscription) error
	GetByID(ctx context.Context, id string) (*domain.Subscription, error)
	// GetActiveByOrganization returns the governing subscription for quota
	// checks: the active subscription with the latest start date, breaking
	// ties by latest creation time. Returns pgx.ErrNoRows when none exists.
	GetActiveByOrganization(ctx context.Context, organizationID string) (*domain.Subscription, error)
	Update(ctx context.Context, sub *domain.Subscription) error
	// ConsumeTicketSlot atomically rolls the period to the given anchor when
	// stale and increments the counter, but only when the effective limit is
	// unlimited or the period counter is below it. Reports whether a slot was
	// consumed. The check and increment are one statement so concurrent
	// creations cannot overshoot the quota.
	ConsumeTicketSlot(ctx context.Context, subscriptionID string, periodAnchor time.Time) (bool, error)
	// ReleaseTicketSlot undoes a consumed slot when ticket persistence fails
	// afterward. Floors at zero.
	ReleaseTicketSlot(ctx context.Context, subscriptionID string) error
}

type subscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository instantiates the repository.
func NewSubscriptionRepository(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepository{pool: pool}
}

const subscriptionColumns = `
    s.id, s.organization_id, s.plan_id, s.status, s.start_date, s.end_date,
    s.current_period_ticket_count, s.current_period_start,
    s.custom_monthly_ticket_limit, s.custom_price, s.created_at, s.updated_at,
    p.id, p.plan_type, p.name, p.price, p.currency, p.billing_cycle_days,
    p.monthly_ticket_limit, p.has_api_access, p.has_priority_support,
    p.has_custom_branding, p.display_order, p.is_active, p.created_at, p.updated_at`

func (r *subscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	const query = `
        INSERT INTO subscriptions (organization_id, plan_id, status, start_date, end_date,
            current_period_ticket_count, current_period_start, custom_monthly_ticket_limit, custom_price)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		sub.OrganizationID,
		sub.PlanID,
		sub.Status,
		sub.StartDate,
		sub.EndDate,
		sub.CurrentPeriodTicketCount,
		sub.CurrentPeriodStart,
		sub.CustomMonthlyTicketLimit,
		sub.CustomPrice,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
}

func (r *subscriptionRepository) GetByID(ctx context.Context, id string) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + `
        FROM subscriptions s JOIN plans p ON p.id = s.plan_id
        WHERE s.id = $1`
	return r.fetchSingle(ctx, query, id)
}

func (r *subscriptionRepository) GetActiveByOrganization(ctx context.Context, organizationID string) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + `
        FROM subscriptions s JOIN plans p ON p.id = s.plan_id
        WHERE s.organization_id = $1 AND s.status = $2
        ORDER BY s.start_date DESC, s.created_at DESC
        LIMIT 1`
	return r.fetchSingle(ctx, query, organizationID, domain.SubscriptionStatusActive)
}

func (r *subscriptionRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Subscription, error) {
	var sub domain.Subscription
	var plan domain.Plan
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&sub.ID,
		&sub.OrganizationID,
		&sub.PlanID,
		&sub.Status,
		&sub.StartDate,
		&sub.EndDate,
		&sub.CurrentPeriodTicketCount,
		&sub.CurrentPeriodStart,
		&sub.CustomMonthlyTicketLimit,
		&sub.CustomPrice,
		&sub.CreatedAt,
		&sub.UpdatedAt,
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
	sub.Plan = &plan
	return &sub, nil
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *domain.Subscription) error {
	const query = `
        UPDATE subscriptions
        SET status=$1, start_date=$2, end_date=$3, current_period_ticket_count=$4,
            current_period_start=$5, custom_monthly_ticket_limit=$6, custom_price=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		sub.Status,
		sub.StartDate,
		sub.EndDate,
		sub.CurrentPeriodTicketCount,
		sub.CurrentPeriodStart,
		sub.CustomMonthlyTicketLimit,
		sub.CustomPrice,
		sub.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *subscriptionRepository) ConsumeTicketSlot(ctx context.Context, subscriptionID string, periodAnchor time.Time) (bool, error) {
	// The stale-period branch treats the effective counter as zero, so a
	// rollover and the first increment of the new month apply together.
	const query = `
        UPDATE subscriptions s
        SET current_period_ticket_count = CASE
                WHEN s.current_period_start <> $2::date THEN 1
                ELSE s.current_period_ticket_count + 1
            END,
            current_period_start = $2::date,
            updated_at = NOW()
        FROM plans p
        WHERE s.id = $1 AND p.id = s.plan_id
          AND (
            COALESCE(s.custom_monthly_ticket_limit, p.monthly_ticket_limit, 50) = -1
            OR (CASE WHEN s.current_period_start <> $2::date THEN 0 ELSE s.current_period_ticket_count END)
               < COALESCE(s.custom_monthly_ticket_limit, p.monthly_ticket_limit, 50)
          )`
	cmd, err := r.pool.Exec(ctx, query, subscriptionID, periodAnchor)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *subscriptionRepository) ReleaseTicketSlot(ctx context.Context, subscriptionID string) error {
	const query = `
        UPDATE subscriptions
        SET current_period_ticket_count = GREATEST(current_period_ticket_count - 1, 0), updated_at = NOW()
        WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, subscriptionID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
