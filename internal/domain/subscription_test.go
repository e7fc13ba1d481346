package domain

import (
	"math"
	"testing"
	"time"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestPeriodAnchor(t *testing.T) {
	got := PeriodAnchor(time.Date(2025, time.March, 17, 14, 30, 0, 0, time.UTC))
	want := date(2025, time.March, 1)
	if !got.Equal(want) {
		t.Fatalf("PeriodAnchor = %v, want %v", got, want)
	}

	// A timestamp late in the month under a non-UTC zone still anchors to
	// the UTC month.
	loc := time.FixedZone("UTC+13", 13*3600)
	got = PeriodAnchor(time.Date(2025, time.April, 1, 3, 0, 0, 0, loc))
	want = date(2025, time.March, 1)
	if !got.Equal(want) {
		t.Fatalf("PeriodAnchor across zones = %v, want %v", got, want)
	}
}

func TestPeriodCurrent(t *testing.T) {
	now := date(2025, time.March, 20)
	if !PeriodCurrent(now, date(2025, time.March, 1)) {
		t.Error("same month should be current")
	}
	if PeriodCurrent(now, date(2025, time.February, 1)) {
		t.Error("previous month should be stale")
	}
	if PeriodCurrent(now, date(2024, time.March, 1)) {
		t.Error("same month of a previous year should be stale")
	}
}

func TestMonthlyTicketLimitPrecedence(t *testing.T) {
	plan := &Plan{MonthlyTicketLimit: 200}

	sub := &Subscription{Plan: plan}
	if got := sub.MonthlyTicketLimit(); got != 200 {
		t.Errorf("plan limit = %d, want 200", got)
	}

	custom := 75
	sub.CustomMonthlyTicketLimit = &custom
	if got := sub.MonthlyTicketLimit(); got != 75 {
		t.Errorf("custom limit = %d, want 75", got)
	}

	bare := &Subscription{}
	if got := bare.MonthlyTicketLimit(); got != DefaultMonthlyTicketLimit {
		t.Errorf("default limit = %d, want %d", got, DefaultMonthlyTicketLimit)
	}
}

func TestResetPeriodIfNeeded(t *testing.T) {
	sub := &Subscription{
		CurrentPeriodStart:       date(2025, time.February, 1),
		CurrentPeriodTicketCount: 42,
	}

	sub.ResetPeriodIfNeeded(date(2025, time.February, 27))
	if sub.CurrentPeriodTicketCount != 42 {
		t.Fatalf("counter reset within the same month: %d", sub.CurrentPeriodTicketCount)
	}

	sub.ResetPeriodIfNeeded(date(2025, time.March, 2))
	if sub.CurrentPeriodTicketCount != 0 {
		t.Errorf("counter = %d after rollover, want 0", sub.CurrentPeriodTicketCount)
	}
	if !sub.CurrentPeriodStart.Equal(date(2025, time.March, 1)) {
		t.Errorf("period start = %v, want March 1", sub.CurrentPeriodStart)
	}
}

func TestIncrementTicketCountRollsPeriod(t *testing.T) {
	sub := &Subscription{
		CurrentPeriodStart:       date(2025, time.January, 1),
		CurrentPeriodTicketCount: 50,
	}
	sub.IncrementTicketCount(date(2025, time.February, 3))
	if sub.CurrentPeriodTicketCount != 1 {
		t.Errorf("counter = %d after new-period increment, want 1", sub.CurrentPeriodTicketCount)
	}
}

func TestRemainingTickets(t *testing.T) {
	limit := 3
	now := date(2025, time.June, 10)
	sub := &Subscription{
		CustomMonthlyTicketLimit: &limit,
		CurrentPeriodStart:       date(2025, time.June, 1),
		CurrentPeriodTicketCount: 2,
	}
	if got := sub.RemainingTickets(now); got != 1 {
		t.Errorf("remaining = %d, want 1", got)
	}

	sub.CurrentPeriodTicketCount = 5
	if got := sub.RemainingTickets(now); got != 0 {
		t.Errorf("remaining floored = %d, want 0", got)
	}

	unlimited := UnlimitedTickets
	sub.CustomMonthlyTicketLimit = &unlimited
	if got := sub.RemainingTickets(now); got != math.MaxInt {
		t.Errorf("unlimited remaining = %d, want MaxInt", got)
	}
}

func TestHasReachedTicketLimit(t *testing.T) {
	now := date(2025, time.June, 10)
	sub := &Subscription{
		Plan:                     &Plan{MonthlyTicketLimit: 2},
		CurrentPeriodStart:       date(2025, time.June, 1),
		CurrentPeriodTicketCount: 2,
	}
	if !sub.HasReachedTicketLimit(now) {
		t.Error("limit of 2 with 2 used should be reached")
	}

	// Stale period counters do not count against the new month.
	sub.CurrentPeriodStart = date(2025, time.May, 1)
	if sub.HasReachedTicketLimit(now) {
		t.Error("stale period should not block the new month")
	}

	sub.Plan.MonthlyTicketLimit = UnlimitedTickets
	sub.CurrentPeriodTicketCount = 100000
	if sub.HasReachedTicketLimit(now) {
		t.Error("unlimited plan can never reach the limit")
	}
}
