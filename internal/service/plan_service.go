package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/opsdesk/helpdesk-service/internal/domain"
	"github.com/opsdesk/helpdesk-service/internal/repository"
	apperrors "github.com/opsdesk/helpdesk-service/pkg/util"
)

const (
	planCacheKey = "plans:active"
	planCacheTTL = 5 * time.Minute
)

// PlanService serves the read-mostly plan catalog. Active plans are cached in
// Redis; cache failures degrade to the database.
type PlanService struct {
	plans  repository.PlanRepository
	cache  *redis.Client
	logger *zap.Logger
}

// NewPlanService constructs the service. cache may be nil.
func NewPlanService(plans repository.PlanRepository, cache *redis.Client, logger *zap.Logger) *PlanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanService{plans: plans, cache: cache, logger: logger}
}

// PlanCreateInput describes the admin plan-creation payload.
type PlanCreateInput struct {
	Type               domain.PlanType
	Name               string
	Price              float64
	Currency           string
	BillingCycleDays   int
	MonthlyTicketLimit int
	HasAPIAccess       bool
	HasPrioritySupport bool
	HasCustomBranding  bool
	DisplayOrder       int
}

// ListActive returns the active catalog, cache-first.
func (s *PlanService) ListActive(ctx context.Context) ([]domain.Plan, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, planCacheKey).Bytes(); err == nil {
			var cached []domain.Plan
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	plans, err := s.plans.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(plans); err == nil {
			if err := s.cache.Set(ctx, planCacheKey, raw, planCacheTTL).Err(); err != nil {
				s.logger.Debug("plan cache write failed", zap.Error(err))
			}
		}
	}
	return plans, nil
}

// GetByID fetches a single plan.
func (s *PlanService) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "plan", id)
	}
	return plan, nil
}

// Create adds a catalog plan. Freemium plans must be free of charge and carry
// no premium feature flags.
func (s *PlanService) Create(ctx context.Context, input PlanCreateInput) (*domain.Plan, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("plan name is required", nil)
	}
	if input.MonthlyTicketLimit < domain.UnlimitedTickets {
		return nil, apperrors.NewValidationError("monthly ticket limit must be -1 or a non-negative count", nil)
	}
	plan := &domain.Plan{
		Type:               input.Type,
		Name:               strings.TrimSpace(input.Name),
		Price:              input.Price,
		Currency:           input.Currency,
		BillingCycleDays:   input.BillingCycleDays,
		MonthlyTicketLimit: input.MonthlyTicketLimit,
		HasAPIAccess:       input.HasAPIAccess,
		HasPrioritySupport: input.HasPrioritySupport,
		HasCustomBranding:  input.HasCustomBranding,
		DisplayOrder:       input.DisplayOrder,
		IsActive:           true,
	}
	if plan.Type == domain.PlanTypeFreemium && (plan.Price != 0 || plan.HasPremiumFeatures()) {
		return nil, apperrors.NewValidationError("freemium plans must be free and carry no premium features", nil)
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidateCache(ctx)
	return plan, nil
}

// Deactivate retires a plan from the catalog without deleting it.
func (s *PlanService) Deactivate(ctx context.Context, id string) error {
	if err := s.plans.Deactivate(ctx, id); err != nil {
		return notFoundOr(err, "plan", id)
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *PlanService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, planCacheKey).Err(); err != nil {
		s.logger.Debug("plan cache invalidation failed", zap.Error(err))
	}
}
