package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/opsdesk/helpdesk-service/internal/domain"
	"github.com/opsdesk/helpdesk-service/internal/events"
	"github.com/opsdesk/helpdesk-service/internal/repository"
	"github.com/opsdesk/helpdesk-service/internal/repository/memory"
	apperrors "github.com/opsdesk/helpdesk-service/pkg/util"
)

type ticketFixture struct {
	tickets       *memory.TicketRepo
	customers     *memory.CustomerRepo
	teams         *memory.TeamRepo
	branches      *memory.BranchRepo
	categories    *memory.CategoryRepo
	states        *memory.StateRepo
	agents        *memory.AgentRepo
	notes         *memory.NoteRepo
	subscriptions *memory.SubscriptionRepo
	limits        *SubscriptionLimitService
	svc           *TicketService
	recorded      *eventRecorder

	orgID      string
	customerID string
	teamID     string
	categoryID string
	stateNewID string
	agentID    string
	subID      string
}

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) record(ctx context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) ofType(eventType events.EventType) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// newTicketFixture seeds a tenant with one branch, team, customer, agent and
// an active subscription carrying the given monthly limit.
func newTicketFixture(t *testing.T, limit int, now time.Time) *ticketFixture {
	t.Helper()
	ctx := context.Background()

	f := &ticketFixture{
		tickets:       memory.NewTicketRepo(),
		customers:     memory.NewCustomerRepo(),
		teams:         memory.NewTeamRepo(),
		branches:      memory.NewBranchRepo(),
		categories:    memory.NewCategoryRepo(),
		states:        memory.NewStateRepo(),
		agents:        memory.NewAgentRepo(),
		notes:         memory.NewNoteRepo(),
		subscriptions: memory.NewSubscriptionRepo(),
		recorded:      &eventRecorder{},
	}

	org := &domain.Organization{Name: "Acme", IsActive: true}
	if err := memory.NewOrganizationRepo().Create(ctx, org); err != nil {
		t.Fatalf("seed org: %v", err)
	}
	f.orgID = org.ID

	branch := &domain.Branch{OrganizationID: f.orgID, Name: "Main", IsActive: true}
	if err := f.branches.Create(ctx, branch); err != nil {
		t.Fatalf("seed branch: %v", err)
	}
	team := &domain.Team{BranchID: branch.ID, Name: "Support", IsActive: true}
	if err := f.teams.Create(ctx, team); err != nil {
		t.Fatalf("seed team: %v", err)
	}
	f.teamID = team.ID

	customer := &domain.Customer{OrganizationID: &f.orgID, Name: "Carol", Email: "carol@acme.test", IsActive: true}
	if err := f.customers.Create(ctx, customer); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	f.customerID = customer.ID

	category := &domain.TicketCategory{Name: "General", IsActive: true}
	if err := f.categories.Create(ctx, category); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	f.categoryID = category.ID

	newState := f.states.Add(domain.TicketState{Name: "New", DisplayOrder: 1, IsDefault: true})
	f.stateNewID = newState.ID
	f.states.Add(domain.TicketState{Name: "In Progress", DisplayOrder: 2})
	f.states.Add(domain.TicketState{Name: "Resolved", DisplayOrder: 3, IsFinal: true})

	agent := &domain.SupportAgent{TeamID: f.teamID, Name: "Alex", Email: "alex@acme.test", IsAvailable: true, MaxConcurrentTickets: 10}
	if err := f.agents.Create(ctx, agent); err != nil {
		t.Fatalf("seed agent: %v", err)
	}
	f.agentID = agent.ID

	sub := seedSubscription(t, f.subscriptions, f.orgID, limit, now)
	f.subID = sub.ID

	dispatcher := events.NewInMemoryDispatcher()
	for _, et := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketAssigned,
		events.EventTicketResolved,
		events.EventTicketStateChanged,
		events.EventTicketPriorityChanged,
		events.EventQuotaDenied,
	} {
		dispatcher.Subscribe(et, f.recorded.record)
	}

	f.limits = NewSubscriptionLimitService(SubscriptionLimitDependencies{
		SubscriptionRepo: f.subscriptions,
		Now:              fixedClock(now),
	})
	f.svc = NewTicketService(TicketDependencies{
		TicketRepo:   f.tickets,
		CustomerRepo: f.customers,
		TeamRepo:     f.teams,
		BranchRepo:   f.branches,
		CategoryRepo: f.categories,
		StateRepo:    f.states,
		AgentRepo:    f.agents,
		NoteRepo:     f.notes,
		Limits:       f.limits,
		Dispatcher:   dispatcher,
		Now:          fixedClock(now),
	})
	return f
}

func (f *ticketFixture) createInput() TicketCreateInput {
	return TicketCreateInput{
		CustomerID:  f.customerID,
		TeamID:      f.teamID,
		CategoryID:  f.categoryID,
		Title:       "Printer on fire",
		Description: "The printer in the lobby is on fire.",
	}
}

var testClock = time.Date(2025, time.May, 10, 9, 0, 0, 0, time.UTC)

func TestCreateTicketHappyPath(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture(t, 50, testClock)

	ticket, err := f.svc.Create(ctx, SystemActor(), f.createInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if ticket.TicketStateID != f.stateNewID {
		t.Errorf("state = %s, want default state", ticket.TicketStateID)
	}
	if ticket.OrganizationID != f.orgID {
		t.Errorf("organization = %s, want customer's organization", ticket.OrganizationID)
	}
	if ticket.Priority != domain.TicketPriorityNormal {
		t.Errorf("priority = %s, want default NORMAL", ticket.Priority)
	}
	if !strings.HasPrefix(ticket.ReferenceKey, "TCK-") || len(ticket.ReferenceKey) != 12 {
		t.Errorf("unexpected reference key %q", ticket.ReferenceKey)
	}

	notes, err := f.notes.ListByTicket(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("got %d notes after creation, want 1", len(notes))
	}
	if !notes[0].IsSystemNote {
		t.Error("creation note must be a system note")
	}
	if !strings.Contains(notes[0].Description, "created with priority NORMAL") {
		t.Errorf("unexpected note %q", notes[0].Description)
	}

	sub, _ := f.subscriptions.GetByID(ctx, f.subID)
	if sub.CurrentPeriodTicketCount != 1 {
		t.Errorf("quota counter = %d, want 1", sub.CurrentPeriodTicketCount)
	}
	if got := f.recorded.ofType(events.EventTicketCreated); len(got) != 1 {
		t.Errorf("TicketCreated events = %d, want 1", len(got))
	}
}

func TestCreateTicketQuotaDenied(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture(t, 2, testClock)

	for i := 0; i < 2; i++ {
		if _, err := f.svc.Create(ctx, SystemActor(), f.createInput()); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	_, err := f.svc.Create(ctx, SystemActor(), f.createInput())
	if err == nil {
		t.Fatal("third ticket against a limit of 2 must be denied")
	}
	if !apperrors.IsCode(err, apperrors.CodeBusinessRuleViolation) {
		t.Errorf("error code = %v, want business rule violation", err)
	}
	if !strings.Contains(err.Error(), "Monthly ticket limit of 2 reached") {
		t.Errorf("denial message not surfaced: %v", err)
	}

	if f.tickets.Count() != 2 {
		t.Errorf("ticket count = %d after denial, want 2", f.tickets.Count())
	}
	sub, _ := f.subscriptions.GetByID(ctx, f.subID)
	if sub.CurrentPeriodTicketCount != 2 {
		t.Errorf("quota counter = %d after denial, want unchanged 2", sub.CurrentPeriodTicketCount)
	}
	if got := f.recorded.ofType(events.EventQuotaDenied); len(got) != 1 {
		t.Errorf("QuotaDenied events = %d, want 1", len(got))
	}
}

func TestCreateTicketUnlimitedPlan(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture(t, domain.UnlimitedTickets, testClock)

	for i := 0; i < 120; i++ {
		if _, err := f.svc.Create(ctx, SystemActor(), f.createInput()); err != nil {
			t.Fatalf("create %d on unlimited plan: %v", i, err)
		}
	}
}

func TestCreateTicketPeriodRollover(t *testing.T) {
	ctx := context.Background()
	may := time.Date(2025, time.May, 31, 23, 0, 0, 0, time.UTC)
	f := newTicketFixture(t, 1, may)

	if _, err := f.svc.Create(ctx, SystemActor(), f.createInput()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := f.svc.Create(ctx, SystemActor(), f.createInput()); !apperrors.IsCode(err, apperrors.CodeBusinessRuleViolation) {
		t.Fatalf("second create should be denied, got %v", err)
	}

	// Same wiring, next month.
	june := time.Date(2025, time.June, 1, 0, 10, 0, 0, time.UTC)
	f.limits = NewSubscriptionLimitService(SubscriptionLimitDependencies{
		SubscriptionRepo: f.subscriptions,
		Now:              fixedClock(june),
	})
	f.svc = NewTicketService(TicketDependencies{
		TicketRepo:   f.tickets,
		CustomerRepo: f.customers,
		TeamRepo:     f.teams,
		BranchRepo:   f.branches,
		CategoryRepo: f.categories,
		StateRepo:    f.states,
		AgentRepo:    f.agents,
		NoteRepo:     f.notes,
		Limits:       f.limits,
		Now:          fixedClock(june),
	})

	if _, err := f.svc.Create(ctx, SystemActor(), f.createInput()); err != nil {
		t.Fatalf("create after rollover: %v", err)
	}
	sub, _ := f.subscriptions.GetByID(ctx, f.subID)
	if sub.CurrentPeriodTicketCount != 1 {
		t.Errorf("counter after rollover = %d, want 1", sub.CurrentPeriodTicketCount)
	}
}

func TestCreateTicketOrganizationFallsBackToBranch(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture(t, 50, testClock)

	walkIn := &domain.Customer{Name: "Walk-in", Email: "walkin@example.test", IsActive: true}
	if err := f.customers.Create(ctx, walkIn); err != nil {
		t.Fatalf("seed walk-in customer: %v", err)
	}

	input := f.createInput()
	input.CustomerID = walkIn.ID
	ticket, err := f.svc.Create(ctx, SystemActor(), input)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ticket.OrganizationID != f.orgID {
		t.Errorf("organization = %s, want team's branch organization", ticket.OrganizationID)
	}
}

func TestCreateTicketUnresolvableOrganization(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture(t, 50, testClock)

	walkIn := &domain.Customer{Name: "Walk-in", Email: "walkin@example.test", IsActive: true}
	if err := f.customers.Create(ctx, walkIn); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	orphanTeam := &domain.Team{BranchID: "missing-branch", Name: "Orphans", IsActive: true}
	if err := f.teams.Create(ctx, orphanTeam); err != nil {
		t.Fatalf("seed team: %v", err)
	}

	input := f.createInput()
	input.CustomerID = walkIn.ID
	input.TeamID = orphanTeam.ID
	_, err := f.svc.Create(ctx, SystemActor(), input)
	if !apperrors.IsCode(err, apperrors.CodeInvariantViolation) {
		t.Errorf("error = %v, want invariant violation", err)
	}
}

func TestCreateTicketNoDefaultState(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture(t, 50, testClock)
	f.svc = NewTicketService(TicketDependencies{
		TicketRepo:   f.tickets,
		CustomerRepo: f.customers,
		TeamRepo:     f.teams,
		BranchRepo:   f.branches,
		CategoryRepo: f.categories,
		StateRepo:    memory.NewStateRepo(),
		AgentRepo:    f.agents,
		NoteRepo:     f.notes,
		Limits:       f.limits,
		Now:          fixedClock(testClock),
	})

	_, err := f.svc.Create(ctx, SystemActor(), f.createInput())
	if !apperrors.IsCode(err, apperrors.CodeInvariantViolation) {
		t.Errorf("error = %v, want invariant violation", err)
	}
}

func TestCreateTicketValidation(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture(t, 50, testClock)

	input := f.createInput()
	input.Title = "   "
	if _, err := f.svc.Create(ctx, SystemActor(), input); !apperrors.IsCode(err, apperrors.CodeValidationFailed) {
		t.Errorf("blank title error = %v, want validation failure", err)
	}

	input = f.createInput()
	input.Priority = "SOMEDAY"
	if _, err := f.svc.Create(ctx, SystemActor(), input); !apperrors.IsCode(err, apperrors.CodeValidationFailed) {
		t.Errorf("bad priority error = %v, want validation failure", err)
	}

	input = f.createInput()
	input.CustomerID = "nope"
	if _, err := f.svc.Create(ctx, SystemActor(), input); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("unknown customer error = %v, want not found", err)
	}
}

func TestCreateTicketReleasesSlotOnPersistFailure(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture(t, 5, testClock)

	f.tickets.FailCreate = errors.New("connection reset")
	if _, err := f.svc.Create(ctx, SystemActor(), f.createInput()); err == nil {
		t.Fatal("create should fail when persistence fails")
	}

	sub, _ := f.subscriptions.GetByID(ctx, f.subID)
	if sub.CurrentPeriodTicketCount != 0 {
		t.Errorf("quota counter = %d after failed persist, want released 0", sub.CurrentPeriodTicketCount)
	}
}

func TestCreateTicketRollsBackOnNoteFailure(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture(t, 5, testClock)

	f.notes.FailCreate = errors.New("connection reset")
	if _, err := f.svc.Create(ctx, SystemActor(), f.createInput()); err == nil {
		t.Fatal("create should fail when the creation note fails")
	}

	if f.tickets.Count() != 0 {
		t.Errorf("live tickets = %d after note failure, want rolled back 0", f.tickets.Count())
	}
	sub, _ := f.subscriptions.GetByID(ctx, f.subID)
	if sub.CurrentPeriodTicketCount != 0 {
		t.Errorf("quota counter = %d after note failure, want released 0", sub.CurrentPeriodTicketCount)
	}
}

func TestAssignTicket(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture(t, 50, testClock)

	ticket, err := f.svc.Create(ctx, SystemActor(), f.createInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := f.svc.Assign(ctx, AgentActor(f.agentID), ticket.ID, f.agentID)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if updated.SupportAgentID == nil || *updated.SupportAgentID != f.agentID {
		t.Error("ticket not assigned to agent")
	}

	agent, _ := f.agents.GetByID(ctx, f.agentID)
	if agent.CurrentTicketCount != 1 {
		t.Errorf("agent workload = %d, want 1", agent.CurrentTicketCount)
	}

	notes, _ := f.notes.ListByTicket(ctx, ticket.ID)
	if len(notes) != 2 {
		t.Fatalf("notes = %d after create+assign, want 2", len(notes))
	}
	assignNote := notes[1]
	if !strings.Contains(assignNote.Description, "assigned to Alex") {
		t.Errorf("unexpected assignment note %q", assignNote.Description)
	}
	if assignNote.SupportAgentID == nil || *assignNote.SupportAgentID != f.agentID {
		t.Error("assignment note should record the acting agent")
	}
	if got := f.recorded.ofType(events.EventTicketAssigned); len(got) != 1 {
		t.Errorf("TicketAssigned events = %d, want 1", len(got))
	}
}

func TestAssignTicketUnavailableAgent(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture(t, 50, testClock)

	ticket, err := f.svc.Create(ctx, SystemActor(), f.createInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	busy := &domain.SupportAgent{TeamID: f.teamID, Name: "Bea", Email: "bea@acme.test", IsAvailable: false}
	if err := f.agents.Create(ctx, busy); err != nil {
		t.Fatalf("seed agent: %v", err)
	}

	_, err = f.svc.Assign(ctx, SystemActor(), ticket.ID, busy.ID)
	if !apperrors.IsCode(err, apperrors.CodeInvalidOperation) {
		t.Errorf("error = %v, want invalid operation", err)
	}

	notes, _ := f.notes.ListByTicket(ctx, ticket.ID)
	if len(notes) != 1 {
		t.Errorf("notes = %d after refused assignment, want creation note only", len(notes))
	}
	agent, _ := f.agents.GetByID(ctx, busy.ID)
	if agent.CurrentTicketCount != 0 {
		t.Errorf("workload = %d after refused assignment, want 0", agent.CurrentTicketCount)
	}
}

func TestResolveTicket(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture(t, 50, testClock)

	ticket, err := f.svc.Create(ctx, SystemActor(), f.createInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.svc.Assign(ctx, AgentActor(f.agentID), ticket.ID, f.agentID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	resolved, err := f.svc.Resolve(ctx, AgentActor(f.agentID), ticket.ID, "Extinguished.", 1.5)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.ResolvedDate == nil || !resolved.ResolvedDate.Equal(testClock) {
		t.Error("resolved date should come from the injected clock")
	}
	if resolved.Resolution != "Extinguished." || resolved.ActualHours != 1.5 {
		t.Errorf("resolution fields = %q/%v", resolved.Resolution, resolved.ActualHours)
	}

	state, _ := f.states.GetByID(ctx, resolved.TicketStateID)
	if !state.IsFinal {
		t.Error("resolved ticket must sit in a final state")
	}

	agent, _ := f.agents.GetByID(ctx, f.agentID)
	if agent.CurrentTicketCount != 0 {
		t.Errorf("agent workload = %d after resolve, want 0", agent.CurrentTicketCount)
	}

	notes, _ := f.notes.ListByTicket(ctx, ticket.ID)
	if len(notes) != 3 {
		t.Errorf("notes = %d after create+assign+resolve, want 3", len(notes))
	}

	// Second resolve is rejected.
	if _, err := f.svc.Resolve(ctx, SystemActor(), ticket.ID, "Again.", 0); !apperrors.IsCode(err, apperrors.CodeInvalidOperation) {
		t.Errorf("double resolve error = %v, want invalid operation", err)
	}
}

func TestResolveTicketNoFinalState(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture(t, 50, testClock)

	states := memory.NewStateRepo()
	states.Add(domain.TicketState{Name: "New", DisplayOrder: 1, IsDefault: true})
	f.svc = NewTicketService(TicketDependencies{
		TicketRepo:   f.tickets,
		CustomerRepo: f.customers,
		TeamRepo:     f.teams,
		BranchRepo:   f.branches,
		CategoryRepo: f.categories,
		StateRepo:    states,
		AgentRepo:    f.agents,
		NoteRepo:     f.notes,
		Limits:       f.limits,
		Now:          fixedClock(testClock),
	})

	ticket, err := f.svc.Create(ctx, SystemActor(), f.createInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = f.svc.Resolve(ctx, SystemActor(), ticket.ID, "Done.", 0)
	if !apperrors.IsCode(err, apperrors.CodeInvariantViolation) {
		t.Errorf("error = %v, want invariant violation", err)
	}
}

func TestChangeStateAndPriority(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture(t, 50, testClock)

	ticket, err := f.svc.Create(ctx, SystemActor(), f.createInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	states, _ := f.states.List(ctx)
	var inProgress domain.TicketState
	for _, st := range states {
		if st.Name == "In Progress" {
			inProgress = st
		}
	}

	moved, err := f.svc.ChangeState(ctx, AgentActor(f.agentID), ticket.ID, inProgress.ID)
	if err != nil {
		t.Fatalf("ChangeState: %v", err)
	}
	if moved.TicketStateID != inProgress.ID {
		t.Error("state not updated")
	}

	bumped, err := f.svc.ChangePriority(ctx, AgentActor(f.agentID), ticket.ID, domain.TicketPriorityCritical)
	if err != nil {
		t.Fatalf("ChangePriority: %v", err)
	}
	if bumped.Priority != domain.TicketPriorityCritical {
		t.Error("priority not updated")
	}
	if _, err := f.svc.ChangePriority(ctx, SystemActor(), ticket.ID, "WHENEVER"); !apperrors.IsCode(err, apperrors.CodeValidationFailed) {
		t.Errorf("bad priority error = %v, want validation failure", err)
	}

	notes, _ := f.notes.ListByTicket(ctx, ticket.ID)
	if len(notes) != 3 {
		t.Fatalf("notes = %d after create+state+priority, want 3", len(notes))
	}
	if !strings.Contains(notes[1].Description, "State changed to In Progress") {
		t.Errorf("unexpected state note %q", notes[1].Description)
	}
	if !strings.Contains(notes[2].Description, "from NORMAL to CRITICAL") {
		t.Errorf("unexpected priority note %q", notes[2].Description)
	}
	if got := f.recorded.ofType(events.EventTicketStateChanged); len(got) != 1 {
		t.Errorf("StateChanged events = %d, want 1", len(got))
	}
	if got := f.recorded.ofType(events.EventTicketPriorityChanged); len(got) != 1 {
		t.Errorf("PriorityChanged events = %d, want 1", len(got))
	}
}

func TestSoftDeleteHidesTicket(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture(t, 50, testClock)

	ticket, err := f.svc.Create(ctx, SystemActor(), f.createInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.svc.SoftDelete(ctx, ticket.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if _, err := f.svc.Get(ctx, ticket.ID); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("deleted ticket lookup = %v, want not found", err)
	}
	if err := f.svc.SoftDelete(ctx, ticket.ID); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("double delete = %v, want not found", err)
	}
}

func TestListTicketsFilter(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture(t, 50, testClock)

	first, err := f.svc.Create(ctx, SystemActor(), f.createInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	input := f.createInput()
	input.Title = "Login broken"
	input.Priority = domain.TicketPriorityHigh
	if _, err := f.svc.Create(ctx, SystemActor(), input); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.svc.Assign(ctx, SystemActor(), first.ID, f.agentID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	byAgent, err := f.svc.List(ctx, repository.TicketFilter{AgentID: &f.agentID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(byAgent) != 1 || byAgent[0].ID != first.ID {
		t.Errorf("agent filter returned %d tickets", len(byAgent))
	}

	search := "login"
	bySearch, err := f.svc.List(ctx, repository.TicketFilter{SearchTerm: &search})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(bySearch) != 1 {
		t.Errorf("search filter returned %d tickets, want 1", len(bySearch))
	}
}
