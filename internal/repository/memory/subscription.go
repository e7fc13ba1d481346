// Package memory provides mutex-guarded in-memory repository implementations
// used by unit tests. They mirror the Postgres semantics, including the
// atomic quota consume path and pgx.ErrNoRows signaling.
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

// SubscriptionRepo is an in-memory SubscriptionRepository.
type SubscriptionRepo struct {
	mu   sync.Mutex
	subs map[string]*domain.Subscription
}

// NewSubscriptionRepo constructs an empty repository.
func NewSubscriptionRepo() *SubscriptionRepo {
	return &SubscriptionRepo{subs: make(map[string]*domain.Subscription)}
}

func (r *SubscriptionRepo) Create(ctx context.Context, sub *domain.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	sub.CreatedAt = time.Now()
	sub.UpdatedAt = sub.CreatedAt
	clone := *sub
	r.subs[sub.ID] = &clone
	return nil
}

func (r *SubscriptionRepo) GetByID(ctx context.Context, id string) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *sub
	return &clone, nil
}

func (r *SubscriptionRepo) GetActiveByOrganization(ctx context.Context, organizationID string) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var candidates []*domain.Subscription
	for _, sub := range r.subs {
		if sub.OrganizationID == organizationID && sub.Status == domain.SubscriptionStatusActive {
			candidates = append(candidates, sub)
		}
	}
	if len(candidates) == 0 {
		return nil, pgx.ErrNoRows
	}
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].StartDate.Equal(candidates[j].StartDate) {
			return candidates[i].StartDate.After(candidates[j].StartDate)
		}
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})
	clone := *candidates[0]
	return &clone, nil
}

func (r *SubscriptionRepo) Update(ctx context.Context, sub *domain.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[sub.ID]; !ok {
		return pgx.ErrNoRows
	}
	sub.UpdatedAt = time.Now()
	clone := *sub
	r.subs[sub.ID] = &clone
	return nil
}

func (r *SubscriptionRepo) ConsumeTicketSlot(ctx context.Context, subscriptionID string, periodAnchor time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[subscriptionID]
	if !ok {
		return false, pgx.ErrNoRows
	}

	limit := sub.MonthlyTicketLimit()
	count := sub.CurrentPeriodTicketCount
	if !sub.CurrentPeriodStart.Equal(periodAnchor) {
		count = 0
	}
	if limit != domain.UnlimitedTickets && count >= limit {
		return false, nil
	}
	sub.CurrentPeriodStart = periodAnchor
	sub.CurrentPeriodTicketCount = count + 1
	sub.UpdatedAt = time.Now()
	return true, nil
}

func (r *SubscriptionRepo) ReleaseTicketSlot(ctx context.Context, subscriptionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[subscriptionID]
	if !ok {
		return pgx.ErrNoRows
	}
	if sub.CurrentPeriodTicketCount > 0 {
		sub.CurrentPeriodTicketCount--
	}
	sub.UpdatedAt = time.Now()
	return nil
}
