package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/opsdesk/helpdesk-service/internal/domain"
	"github.com/opsdesk/helpdesk-service/internal/events"
	"github.com/opsdesk/helpdesk-service/internal/repository"
	apperrors "github.com/opsdesk/helpdesk-service/pkg/util"
)

// Actor identifies the caller of a core operation. It is always passed
// explicitly; services never read ambient request state.
type Actor struct {
	AgentID *string
}

// SystemActor is used for operations not triggered by a person.
func SystemActor() Actor {
	return Actor{}
}

// AgentActor builds an actor for the given agent.
func AgentActor(agentID string) Actor {
	return Actor{AgentID: &agentID}
}

// TicketService coordinates ticket workflows: creation under subscription
// quota, assignment, resolution and state transitions. Every lifecycle
// transition appends exactly one system note.
type TicketService struct {
	tickets    repository.TicketRepository
	customers  repository.CustomerRepository
	teams      repository.TeamRepository
	branches   repository.BranchRepository
	categories repository.TicketCategoryRepository
	states     repository.TicketStateRepository
	agents     repository.AgentRepository
	notes      repository.NoteRepository
	limits     *SubscriptionLimitService
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// TicketDependencies bundles dependencies for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	CustomerRepo repository.CustomerRepository
	TeamRepo     repository.TeamRepository
	BranchRepo   repository.BranchRepository
	CategoryRepo repository.TicketCategoryRepository
	StateRepo    repository.TicketStateRepository
	AgentRepo    repository.AgentRepository
	NoteRepo     repository.NoteRepository
	Limits       *SubscriptionLimitService
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// TicketCreateInput describes the ticket creation payload.
type TicketCreateInput struct {
	CustomerID     string
	TeamID         string
	CategoryID     string
	Title          string
	Description    string
	Priority       domain.TicketPriority
	DueDate        *time.Time
	EstimatedHours float64
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		customers:  deps.CustomerRepo,
		teams:      deps.TeamRepo,
		branches:   deps.BranchRepo,
		categories: deps.CategoryRepo,
		states:     deps.StateRepo,
		agents:     deps.AgentRepo,
		notes:      deps.NoteRepo,
		limits:     deps.Limits,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        now,
	}
}

// Create validates the referenced entities, resolves the owning organization,
// claims a subscription quota slot, persists the ticket in the default
// workflow state and records the creation note. The quota claim is atomic and
// happens before the ticket row exists; a claimed slot is released when any
// later step fails.
func (s *TicketService) Create(ctx context.Context, actor Actor, input TicketCreateInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("title and description are required", nil)
	}
	if input.Priority == "" {
		input.Priority = domain.TicketPriorityNormal
	}
	if !domain.ValidPriority(input.Priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}

	customer, err := s.customers.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, notFoundOr(err, "customer", input.CustomerID)
	}
	team, err := s.teams.GetByID(ctx, input.TeamID)
	if err != nil {
		return nil, notFoundOr(err, "team", input.TeamID)
	}
	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		return nil, notFoundOr(err, "ticket category", input.CategoryID)
	}

	organizationID, err := s.resolveOrganization(ctx, customer, team)
	if err != nil {
		return nil, err
	}

	defaultState, err := s.states.GetDefault(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error("no default ticket state configured")
			return nil, apperrors.NewInvariantViolation("no default ticket state configured")
		}
		return nil, apperrors.MapError(err)
	}

	consumed, sub, err := s.limits.ConsumeTicketSlot(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if !consumed {
		info, infoErr := s.limits.LimitInfo(ctx, organizationID)
		if infoErr != nil {
			return nil, infoErr
		}
		s.publish(ctx, events.Event{
			Type:           events.EventQuotaDenied,
			OrganizationID: organizationID,
			Actor:          actorMeta(actor),
			Payload: events.QuotaDeniedPayload{
				MonthlyLimit: info.MonthlyLimit,
				Used:         info.Used,
				Message:      info.Message,
			},
		})
		return nil, apperrors.NewBusinessRuleViolation(info.Message, map[string]any{
			"monthly_limit": info.MonthlyLimit,
			"used":          info.Used,
		})
	}

	ticket := &domain.Ticket{
		ReferenceKey:     generateReferenceKey(),
		OrganizationID:   organizationID,
		CustomerID:       customer.ID,
		TeamID:           team.ID,
		TicketCategoryID: input.CategoryID,
		TicketStateID:    defaultState.ID,
		Title:            strings.TrimSpace(input.Title),
		Description:      strings.TrimSpace(input.Description),
		Priority:         input.Priority,
		DueDate:          input.DueDate,
		EstimatedHours:   input.EstimatedHours,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		s.releaseSlot(ctx, sub)
		return nil, apperrors.MapError(err)
	}

	noteText := fmt.Sprintf("Ticket created with priority %s.", ticket.Priority)
	if err := s.appendSystemNote(ctx, actor, ticket.ID, noteText); err != nil {
		if delErr := s.tickets.SoftDelete(ctx, ticket.ID); delErr != nil {
			s.logger.Error("failed to roll back ticket after note failure",
				zap.String("ticket_id", ticket.ID), zap.Error(delErr))
		}
		s.releaseSlot(ctx, sub)
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:           events.EventTicketCreated,
		TicketID:       ticket.ID,
		OrganizationID: organizationID,
		Actor:          actorMeta(actor),
		Payload: events.TicketCreatedPayload{
			ReferenceKey: ticket.ReferenceKey,
			TeamID:       ticket.TeamID,
			Priority:     ticket.Priority,
			Title:        ticket.Title,
		},
	})
	return ticket, nil
}

// Assign hands the ticket to the given agent and bumps the agent's workload
// counter. Only availability gates assignment; MaxConcurrentTickets is
// advisory.
func (s *TicketService) Assign(ctx context.Context, actor Actor, ticketID, agentID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket", ticketID)
	}
	agent, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		return nil, notFoundOr(err, "support agent", agentID)
	}
	if !agent.IsAvailable {
		return nil, apperrors.NewInvalidOperation("agent unavailable", map[string]any{"agent_id": agentID})
	}

	previous := ticket.SupportAgentID
	ticket.SupportAgentID = &agent.ID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.agents.IncrementWorkload(ctx, agent.ID); err != nil {
		return nil, apperrors.MapError(err)
	}
	noteText := fmt.Sprintf("Ticket assigned to %s.", agent.Name)
	if err := s.appendSystemNote(ctx, actor, ticket.ID, noteText); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:           events.EventTicketAssigned,
		TicketID:       ticket.ID,
		OrganizationID: ticket.OrganizationID,
		Actor:          actorMeta(actor),
		Payload: events.TicketAssignedPayload{
			AgentID:         agent.ID,
			PreviousAgentID: previous,
		},
	})
	return ticket, nil
}

// Resolve moves the ticket into the first final workflow state, records the
// resolution and returns the previous agent's workload slot.
func (s *TicketService) Resolve(ctx context.Context, actor Actor, ticketID, resolution string, actualHours float64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket", ticketID)
	}
	if ticket.Resolved() {
		return nil, apperrors.NewInvalidOperation("ticket already resolved", map[string]any{"ticket_id": ticketID})
	}

	finalState, err := s.states.GetFirstFinal(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error("no final ticket state configured")
			return nil, apperrors.NewInvariantViolation("no final state configured")
		}
		return nil, apperrors.MapError(err)
	}

	previousAgent := ticket.SupportAgentID
	resolvedAt := s.now()
	ticket.TicketStateID = finalState.ID
	ticket.ResolvedDate = &resolvedAt
	ticket.Resolution = resolution
	ticket.ActualHours = actualHours
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if previousAgent != nil {
		if err := s.agents.DecrementWorkload(ctx, *previousAgent); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
	}
	noteText := fmt.Sprintf("Ticket resolved: %s", resolution)
	if err := s.appendSystemNote(ctx, actor, ticket.ID, noteText); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:           events.EventTicketResolved,
		TicketID:       ticket.ID,
		OrganizationID: ticket.OrganizationID,
		Actor:          actorMeta(actor),
		Payload: events.TicketResolvedPayload{
			Resolution:  resolution,
			ActualHours: actualHours,
		},
	})
	return ticket, nil
}

// ChangeState moves the ticket to the given workflow state.
func (s *TicketService) ChangeState(ctx context.Context, actor Actor, ticketID, stateID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket", ticketID)
	}
	state, err := s.states.GetByID(ctx, stateID)
	if err != nil {
		return nil, notFoundOr(err, "ticket state", stateID)
	}

	oldStateID := ticket.TicketStateID
	ticket.TicketStateID = state.ID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	noteText := fmt.Sprintf("State changed to %s.", state.Name)
	if err := s.appendSystemNote(ctx, actor, ticket.ID, noteText); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:           events.EventTicketStateChanged,
		TicketID:       ticket.ID,
		OrganizationID: ticket.OrganizationID,
		Actor:          actorMeta(actor),
		Payload: events.TicketStateChangedPayload{
			OldStateID: oldStateID,
			NewStateID: state.ID,
			NewState:   state.Name,
		},
	})
	return ticket, nil
}

// ChangePriority updates the ticket priority.
func (s *TicketService) ChangePriority(ctx context.Context, actor Actor, ticketID string, priority domain.TicketPriority) (*domain.Ticket, error) {
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket", ticketID)
	}

	oldPriority := ticket.Priority
	ticket.Priority = priority
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	noteText := fmt.Sprintf("Priority changed from %s to %s.", oldPriority, priority)
	if err := s.appendSystemNote(ctx, actor, ticket.ID, noteText); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:           events.EventTicketPriorityChanged,
		TicketID:       ticket.ID,
		OrganizationID: ticket.OrganizationID,
		Actor:          actorMeta(actor),
		Payload: events.TicketPriorityChangedPayload{
			OldPriority: oldPriority,
			NewPriority: priority,
		},
	})
	return ticket, nil
}

// SetDueDate updates the ticket due date.
func (s *TicketService) SetDueDate(ctx context.Context, actor Actor, ticketID string, dueDate time.Time) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket", ticketID)
	}

	ticket.DueDate = &dueDate
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	noteText := fmt.Sprintf("Due date set to %s.", dueDate.UTC().Format("2006-01-02"))
	if err := s.appendSystemNote(ctx, actor, ticket.ID, noteText); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// Get fetches a single ticket.
func (s *TicketService) Get(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket", ticketID)
	}
	return ticket, nil
}

// List returns tickets matching the filter.
func (s *TicketService) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// SoftDelete marks the ticket deleted without removing the row.
func (s *TicketService) SoftDelete(ctx context.Context, ticketID string) error {
	if err := s.tickets.SoftDelete(ctx, ticketID); err != nil {
		return notFoundOr(err, "ticket", ticketID)
	}
	return nil
}

// Notes returns the ticket's notes, including the system audit trail.
func (s *TicketService) Notes(ctx context.Context, ticketID string) ([]domain.Note, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, notFoundOr(err, "ticket", ticketID)
	}
	notes, err := s.notes.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return notes, nil
}

// resolveOrganization prefers the customer's organization and falls back to
// the team's branch. A ticket must always be attributable to exactly one
// organization for billing.
func (s *TicketService) resolveOrganization(ctx context.Context, customer *domain.Customer, team *domain.Team) (string, error) {
	if customer.OrganizationID != nil && *customer.OrganizationID != "" {
		return *customer.OrganizationID, nil
	}
	branch, err := s.branches.GetByID(ctx, team.BranchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error("ticket organization unresolvable: team branch missing",
				zap.String("team_id", team.ID), zap.String("branch_id", team.BranchID))
			return "", apperrors.NewInvariantViolation("ticket cannot be attributed to an organization")
		}
		return "", apperrors.MapError(err)
	}
	if branch.OrganizationID == "" {
		s.logger.Error("ticket organization unresolvable",
			zap.String("customer_id", customer.ID), zap.String("team_id", team.ID))
		return "", apperrors.NewInvariantViolation("ticket cannot be attributed to an organization")
	}
	return branch.OrganizationID, nil
}

func (s *TicketService) appendSystemNote(ctx context.Context, actor Actor, ticketID, description string) error {
	return s.notes.Create(ctx, &domain.Note{
		TicketID:       ticketID,
		SupportAgentID: actor.AgentID,
		Description:    description,
		IsSystemNote:   true,
	})
}

func (s *TicketService) releaseSlot(ctx context.Context, sub *domain.Subscription) {
	if sub == nil {
		return
	}
	if err := s.limits.ReleaseTicketSlot(ctx, sub.ID); err != nil {
		s.logger.Error("failed to release quota slot",
			zap.String("subscription_id", sub.ID), zap.Error(err))
	}
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func actorMeta(actor Actor) events.Actor {
	if actor.AgentID != nil {
		return events.Actor{Type: events.ActorTypeAgent, AgentID: actor.AgentID}
	}
	return events.Actor{Type: events.ActorTypeCustomer}
}

func generateReferenceKey() string {
	return "TCK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func notFoundOr(err error, resource, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, id)
	}
	return apperrors.MapError(err)
}
