package domain

import (
	"math"
	"time"
)

// SubscriptionStatus enumerates subscription lifecycle states.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "ACTIVE"
	SubscriptionStatusInactive  SubscriptionStatus = "INACTIVE"
	SubscriptionStatusCancelled SubscriptionStatus = "CANCELLED"
	SubscriptionStatusExpired   SubscriptionStatus = "EXPIRED"
	SubscriptionStatusSuspended SubscriptionStatus = "SUSPENDED"
)

// DefaultMonthlyTicketLimit applies when neither the subscription override nor
// the plan specifies a quota.
const DefaultMonthlyTicketLimit = 50

// Subscription binds an organization to a plan and tracks the rolling monthly
// ticket counter. Counters are billing state and must survive restarts; the
// authoritative consume path is the conditional UPDATE in the repository, the
// methods here express the same period semantics for in-process reads.
type Subscription struct {
	ID                       string
	OrganizationID           string
	PlanID                   string
	Plan                     *Plan
	Status                   SubscriptionStatus
	StartDate                time.Time
	EndDate                  *time.Time
	CurrentPeriodTicketCount int
	CurrentPeriodStart       time.Time
	CustomMonthlyTicketLimit *int
	CustomPrice              *float64
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// PeriodAnchor returns the first calendar day of now's UTC month, the anchor
// every subscription period aligns to.
func PeriodAnchor(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// PeriodCurrent reports whether periodStart still belongs to now's month.
func PeriodCurrent(now, periodStart time.Time) bool {
	anchor := PeriodAnchor(now)
	start := periodStart.UTC()
	return start.Year() == anchor.Year() && start.Month() == anchor.Month()
}

// MonthlyTicketLimit returns the effective quota: the custom override when
// set, else the plan limit, else DefaultMonthlyTicketLimit. UnlimitedTickets
// passes through from either source.
func (s *Subscription) MonthlyTicketLimit() int {
	if s.CustomMonthlyTicketLimit != nil {
		return *s.CustomMonthlyTicketLimit
	}
	if s.Plan != nil {
		return s.Plan.MonthlyTicketLimit
	}
	return DefaultMonthlyTicketLimit
}

// EffectivePrice returns the custom price when set, else the plan price.
func (s *Subscription) EffectivePrice() float64 {
	if s.CustomPrice != nil {
		return *s.CustomPrice
	}
	if s.Plan != nil {
		return s.Plan.Price
	}
	return 0
}

// ResetPeriodIfNeeded rolls the counter forward when the stored period no
// longer matches now's month. It must run before every read or mutation of
// the counter.
func (s *Subscription) ResetPeriodIfNeeded(now time.Time) {
	if PeriodCurrent(now, s.CurrentPeriodStart) {
		return
	}
	s.CurrentPeriodStart = PeriodAnchor(now)
	s.CurrentPeriodTicketCount = 0
}

// IncrementTicketCount rolls the period if needed and bumps the counter.
func (s *Subscription) IncrementTicketCount(now time.Time) {
	s.ResetPeriodIfNeeded(now)
	s.CurrentPeriodTicketCount++
}

// RemainingTickets returns how many tickets may still be created this period.
func (s *Subscription) RemainingTickets(now time.Time) int {
	s.ResetPeriodIfNeeded(now)
	limit := s.MonthlyTicketLimit()
	if limit == UnlimitedTickets {
		return math.MaxInt
	}
	if remaining := limit - s.CurrentPeriodTicketCount; remaining > 0 {
		return remaining
	}
	return 0
}

// HasReachedTicketLimit reports whether the current period is exhausted.
func (s *Subscription) HasReachedTicketLimit(now time.Time) bool {
	s.ResetPeriodIfNeeded(now)
	limit := s.MonthlyTicketLimit()
	return limit != UnlimitedTickets && s.CurrentPeriodTicketCount >= limit
}
