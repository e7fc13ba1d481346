package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/opsdesk/helpdesk-service/internal/domain"
	"github.com/opsdesk/helpdesk-service/internal/repository"
	apperrors "github.com/opsdesk/helpdesk-service/pkg/util"
)

// SubscriptionLimitInfo summarizes an organization's quota standing. Message
// is pre-formatted for end-user display and is surfaced verbatim when ticket
// creation is denied.
type SubscriptionLimitInfo struct {
	MonthlyLimit int
	Used         int
	Remaining    int
	Message      string
}

// SubscriptionLimitService answers whether an organization may create another
// ticket this period and performs the counter mutation. Absence of a
// subscription record is deliberately treated as unlimited: availability wins
// over strict billing enforcement.
type SubscriptionLimitService struct {
	subscriptions repository.SubscriptionRepository
	now           func() time.Time
}

// SubscriptionLimitDependencies bundles dependencies.
type SubscriptionLimitDependencies struct {
	SubscriptionRepo repository.SubscriptionRepository
	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// NewSubscriptionLimitService constructs the service.
func NewSubscriptionLimitService(deps SubscriptionLimitDependencies) *SubscriptionLimitService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &SubscriptionLimitService{
		subscriptions: deps.SubscriptionRepo,
		now:           now,
	}
}

// CanCreateTicket reports whether the organization may create one more ticket
// this period. Fail-open when no active subscription exists.
func (s *SubscriptionLimitService) CanCreateTicket(ctx context.Context, organizationID string) (bool, error) {
	sub, err := s.subscriptions.GetActiveByOrganization(ctx, organizationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return true, nil
		}
		return false, apperrors.MapError(err)
	}
	return !sub.HasReachedTicketLimit(s.now()), nil
}

// LimitInfo returns the organization's current quota standing.
func (s *SubscriptionLimitService) LimitInfo(ctx context.Context, organizationID string) (SubscriptionLimitInfo, error) {
	sub, err := s.subscriptions.GetActiveByOrganization(ctx, organizationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SubscriptionLimitInfo{
				MonthlyLimit: domain.UnlimitedTickets,
				Remaining:    domain.UnlimitedTickets,
				Message:      "No subscription on file; ticket creation is not limited.",
			}, nil
		}
		return SubscriptionLimitInfo{}, apperrors.MapError(err)
	}

	now := s.now()
	sub.ResetPeriodIfNeeded(now)
	limit := sub.MonthlyTicketLimit()
	used := sub.CurrentPeriodTicketCount

	if limit == domain.UnlimitedTickets {
		return SubscriptionLimitInfo{
			MonthlyLimit: limit,
			Used:         used,
			Remaining:    domain.UnlimitedTickets,
			Message:      "Your plan includes unlimited tickets.",
		}, nil
	}

	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	info := SubscriptionLimitInfo{
		MonthlyLimit: limit,
		Used:         used,
		Remaining:    remaining,
	}
	if remaining == 0 {
		info.Message = fmt.Sprintf(
			"Monthly ticket limit of %d reached. The limit resets on the first day of next month, or you can upgrade your plan.",
			limit)
	} else {
		info.Message = fmt.Sprintf(
			"Your plan allows %d tickets per month. You have used %d and have %d remaining.",
			limit, used, remaining)
	}
	return info, nil
}

// ConsumeTicketSlot atomically claims one quota slot for the organization.
// The period rollover, limit check and increment happen in a single
// conditional update, so concurrent creations cannot exceed the limit.
// Returns the governing subscription so the caller can release the slot on a
// later failure; both are nil/true when no subscription exists (fail-open).
func (s *SubscriptionLimitService) ConsumeTicketSlot(ctx context.Context, organizationID string) (bool, *domain.Subscription, error) {
	sub, err := s.subscriptions.GetActiveByOrganization(ctx, organizationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return true, nil, nil
		}
		return false, nil, apperrors.MapError(err)
	}

	consumed, err := s.subscriptions.ConsumeTicketSlot(ctx, sub.ID, domain.PeriodAnchor(s.now()))
	if err != nil {
		return false, sub, apperrors.MapError(err)
	}
	return consumed, sub, nil
}

// ReleaseTicketSlot returns a previously consumed slot, flooring at zero.
func (s *SubscriptionLimitService) ReleaseTicketSlot(ctx context.Context, subscriptionID string) error {
	if err := s.subscriptions.ReleaseTicketSlot(ctx, subscriptionID); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.MapError(err)
	}
	return nil
}
