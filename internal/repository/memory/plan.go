package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/opsdesk/helpdesk-service/internal/domain"
)

// PlanRepo is an in-memory PlanRepository.
type PlanRepo struct {
	mu    sync.Mutex
	plans map[string]*domain.Plan
}

// NewPlanRepo constructs an empty repository.
func NewPlanRepo() *PlanRepo {
	return &PlanRepo{plans: make(map[string]*domain.Plan)}
}

func (r *PlanRepo) Create(ctx context.Context, plan *domain.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = plan.CreatedAt
	clone := *plan
	r.plans[plan.ID] = &clone
	return nil
}

func (r *PlanRepo) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan, ok := r.plans[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *plan
	return &clone, nil
}

func (r *PlanRepo) GetByType(ctx context.Context, planType domain.PlanType) (*domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *domain.Plan
	for _, plan := range r.plans {
		if plan.Type != planType || !plan.IsActive {
			continue
		}
		if best == nil || plan.CreatedAt.Before(best.CreatedAt) {
			best = plan
		}
	}
	if best == nil {
		return nil, pgx.ErrNoRows
	}
	clone := *best
	return &clone, nil
}

func (r *PlanRepo) ListActive(ctx context.Context) ([]domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Plan
	for _, plan := range r.plans {
		if plan.IsActive {
			out = append(out, *plan)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (r *PlanRepo) Deactivate(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan, ok := r.plans[id]
	if !ok {
		return pgx.ErrNoRows
	}
	plan.IsActive = false
	plan.UpdatedAt = time.Now()
	return nil
}
