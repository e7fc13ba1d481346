package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/opsdesk/helpdesk-service/internal/domain"
	"github.com/opsdesk/helpdesk-service/internal/repository/memory"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func seedSubscription(t *testing.T, repo *memory.SubscriptionRepo, orgID string, limit int, now time.Time) *domain.Subscription {
	t.Helper()
	sub := &domain.Subscription{
		OrganizationID:     orgID,
		PlanID:             "plan-1",
		Plan:               &domain.Plan{ID: "plan-1", Type: domain.PlanTypeBasic, MonthlyTicketLimit: limit, IsActive: true},
		Status:             domain.SubscriptionStatusActive,
		StartDate:          now,
		CurrentPeriodStart: domain.PeriodAnchor(now),
	}
	if err := repo.Create(context.Background(), sub); err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	return sub
}

func TestCanCreateTicketFailsOpenWithoutSubscription(t *testing.T) {
	svc := NewSubscriptionLimitService(SubscriptionLimitDependencies{
		SubscriptionRepo: memory.NewSubscriptionRepo(),
	})
	ok, err := svc.CanCreateTicket(context.Background(), "org-without-subscription")
	if err != nil {
		t.Fatalf("CanCreateTicket: %v", err)
	}
	if !ok {
		t.Error("missing subscription must not block ticket creation")
	}
}

func TestConsumeTicketSlotEnforcesLimit(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.May, 10, 12, 0, 0, 0, time.UTC)
	repo := memory.NewSubscriptionRepo()
	seedSubscription(t, repo, "org-1", 2, now)

	svc := NewSubscriptionLimitService(SubscriptionLimitDependencies{
		SubscriptionRepo: repo,
		Now:              fixedClock(now),
	})

	for i := 0; i < 2; i++ {
		ok, sub, err := svc.ConsumeTicketSlot(ctx, "org-1")
		if err != nil {
			t.Fatalf("consume %d: %v", i, err)
		}
		if !ok || sub == nil {
			t.Fatalf("consume %d should succeed", i)
		}
	}

	ok, _, err := svc.ConsumeTicketSlot(ctx, "org-1")
	if err != nil {
		t.Fatalf("consume over limit: %v", err)
	}
	if ok {
		t.Error("third consume against a limit of 2 must be denied")
	}
}

func TestConsumeTicketSlotRollsOverNewPeriod(t *testing.T) {
	ctx := context.Background()
	may := time.Date(2025, time.May, 30, 8, 0, 0, 0, time.UTC)
	repo := memory.NewSubscriptionRepo()
	sub := seedSubscription(t, repo, "org-1", 1, may)

	maySvc := NewSubscriptionLimitService(SubscriptionLimitDependencies{SubscriptionRepo: repo, Now: fixedClock(may)})
	if ok, _, _ := maySvc.ConsumeTicketSlot(ctx, "org-1"); !ok {
		t.Fatal("first consume in May should succeed")
	}
	if ok, _, _ := maySvc.ConsumeTicketSlot(ctx, "org-1"); ok {
		t.Fatal("second consume in May must be denied")
	}

	june := time.Date(2025, time.June, 1, 0, 5, 0, 0, time.UTC)
	juneSvc := NewSubscriptionLimitService(SubscriptionLimitDependencies{SubscriptionRepo: repo, Now: fixedClock(june)})
	ok, _, err := juneSvc.ConsumeTicketSlot(ctx, "org-1")
	if err != nil {
		t.Fatalf("consume in June: %v", err)
	}
	if !ok {
		t.Fatal("new period must reopen the quota")
	}

	stored, err := repo.GetByID(ctx, sub.ID)
	if err != nil {
		t.Fatalf("reload subscription: %v", err)
	}
	if stored.CurrentPeriodTicketCount != 1 {
		t.Errorf("counter after rollover = %d, want 1", stored.CurrentPeriodTicketCount)
	}
	if !stored.CurrentPeriodStart.Equal(domain.PeriodAnchor(june)) {
		t.Errorf("period start = %v, want June anchor", stored.CurrentPeriodStart)
	}
}

func TestConsumeTicketSlotUnlimited(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC)
	repo := memory.NewSubscriptionRepo()
	seedSubscription(t, repo, "org-1", domain.UnlimitedTickets, now)

	svc := NewSubscriptionLimitService(SubscriptionLimitDependencies{SubscriptionRepo: repo, Now: fixedClock(now)})
	for i := 0; i < 500; i++ {
		ok, _, err := svc.ConsumeTicketSlot(ctx, "org-1")
		if err != nil || !ok {
			t.Fatalf("unlimited consume %d failed: ok=%v err=%v", i, ok, err)
		}
	}
}

func TestReleaseTicketSlotFloorsAtZero(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC)
	repo := memory.NewSubscriptionRepo()
	sub := seedSubscription(t, repo, "org-1", 5, now)

	svc := NewSubscriptionLimitService(SubscriptionLimitDependencies{SubscriptionRepo: repo, Now: fixedClock(now)})
	if err := svc.ReleaseTicketSlot(ctx, sub.ID); err != nil {
		t.Fatalf("release at zero: %v", err)
	}
	stored, _ := repo.GetByID(ctx, sub.ID)
	if stored.CurrentPeriodTicketCount != 0 {
		t.Errorf("counter = %d after release at zero, want 0", stored.CurrentPeriodTicketCount)
	}

	if ok, _, _ := svc.ConsumeTicketSlot(ctx, "org-1"); !ok {
		t.Fatal("consume should succeed")
	}
	if err := svc.ReleaseTicketSlot(ctx, sub.ID); err != nil {
		t.Fatalf("release: %v", err)
	}
	stored, _ = repo.GetByID(ctx, sub.ID)
	if stored.CurrentPeriodTicketCount != 0 {
		t.Errorf("counter = %d after consume+release, want 0", stored.CurrentPeriodTicketCount)
	}
}

func TestReleaseTicketSlotMissingSubscription(t *testing.T) {
	svc := NewSubscriptionLimitService(SubscriptionLimitDependencies{
		SubscriptionRepo: memory.NewSubscriptionRepo(),
	})
	if err := svc.ReleaseTicketSlot(context.Background(), "missing"); err != nil {
		t.Errorf("releasing an unknown subscription should be a no-op, got %v", err)
	}
}

func TestLimitInfoMessages(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC)

	t.Run("no subscription", func(t *testing.T) {
		svc := NewSubscriptionLimitService(SubscriptionLimitDependencies{
			SubscriptionRepo: memory.NewSubscriptionRepo(),
			Now:              fixedClock(now),
		})
		info, err := svc.LimitInfo(ctx, "org-x")
		if err != nil {
			t.Fatalf("LimitInfo: %v", err)
		}
		if info.MonthlyLimit != domain.UnlimitedTickets {
			t.Errorf("limit = %d, want unlimited sentinel", info.MonthlyLimit)
		}
		if !strings.Contains(info.Message, "not limited") {
			t.Errorf("unexpected message %q", info.Message)
		}
	})

	t.Run("remaining", func(t *testing.T) {
		repo := memory.NewSubscriptionRepo()
		seedSubscription(t, repo, "org-1", 50, now)
		svc := NewSubscriptionLimitService(SubscriptionLimitDependencies{SubscriptionRepo: repo, Now: fixedClock(now)})

		ok, _, _ := svc.ConsumeTicketSlot(ctx, "org-1")
		if !ok {
			t.Fatal("consume should succeed")
		}
		info, err := svc.LimitInfo(ctx, "org-1")
		if err != nil {
			t.Fatalf("LimitInfo: %v", err)
		}
		if info.MonthlyLimit != 50 || info.Used != 1 || info.Remaining != 49 {
			t.Errorf("info = %+v, want 50/1/49", info)
		}
		if !strings.Contains(info.Message, "49 remaining") {
			t.Errorf("unexpected message %q", info.Message)
		}
	})

	t.Run("exhausted", func(t *testing.T) {
		repo := memory.NewSubscriptionRepo()
		seedSubscription(t, repo, "org-1", 1, now)
		svc := NewSubscriptionLimitService(SubscriptionLimitDependencies{SubscriptionRepo: repo, Now: fixedClock(now)})

		if ok, _, _ := svc.ConsumeTicketSlot(ctx, "org-1"); !ok {
			t.Fatal("consume should succeed")
		}
		info, err := svc.LimitInfo(ctx, "org-1")
		if err != nil {
			t.Fatalf("LimitInfo: %v", err)
		}
		if info.Remaining != 0 {
			t.Errorf("remaining = %d, want 0", info.Remaining)
		}
		if !strings.Contains(info.Message, "Monthly ticket limit of 1 reached") ||
			!strings.Contains(info.Message, "upgrade your plan") {
			t.Errorf("unexpected denial message %q", info.Message)
		}
	})

	t.Run("unlimited", func(t *testing.T) {
		repo := memory.NewSubscriptionRepo()
		seedSubscription(t, repo, "org-1", domain.UnlimitedTickets, now)
		svc := NewSubscriptionLimitService(SubscriptionLimitDependencies{SubscriptionRepo: repo, Now: fixedClock(now)})

		info, err := svc.LimitInfo(ctx, "org-1")
		if err != nil {
			t.Fatalf("LimitInfo: %v", err)
		}
		if !strings.Contains(info.Message, "unlimited tickets") {
			t.Errorf("unexpected message %q", info.Message)
		}
	})
}

func TestConsumeTicketSlotConcurrent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC)
	const limit = 25
	const workers = 100

	repo := memory.NewSubscriptionRepo()
	sub := seedSubscription(t, repo, "org-1", limit, now)
	svc := NewSubscriptionLimitService(SubscriptionLimitDependencies{SubscriptionRepo: repo, Now: fixedClock(now)})

	var wg sync.WaitGroup
	var mu sync.Mutex
	consumed := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _, err := svc.ConsumeTicketSlot(ctx, "org-1")
			if err != nil {
				t.Errorf("concurrent consume: %v", err)
				return
			}
			if ok {
				mu.Lock()
				consumed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if consumed != limit {
		t.Errorf("consumed %d slots, want exactly %d", consumed, limit)
	}
	stored, _ := repo.GetByID(ctx, sub.ID)
	if stored.CurrentPeriodTicketCount != limit {
		t.Errorf("stored counter = %d, want %d", stored.CurrentPeriodTicketCount, limit)
	}
}
