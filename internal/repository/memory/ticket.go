package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/opsdesk/helpdesk-service/internal/domain"
	"github.com/opsdesk/helpdesk-service/internal/repository"
)

// TicketRepo is an in-memory TicketRepository with soft-delete semantics.
type TicketRepo struct {
	mu      sync.Mutex
	tickets map[string]*domain.Ticket
	// FailCreate forces the next Create to fail, for rollback tests.
	FailCreate error
}

// NewTicketRepo constructs an empty repository.
func NewTicketRepo() *TicketRepo {
	return &TicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (r *TicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailCreate != nil {
		err := r.FailCreate
		r.FailCreate = nil
		return err
	}
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *TicketRepo) Update(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.tickets[ticket.ID]
	if !ok || existing.DeletedAt != nil {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *TicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok || ticket.DeletedAt != nil {
		return nil, pgx.ErrNoRows
	}
	clone := *ticket
	return &clone, nil
}

func (r *TicketRepo) GetByReferenceKey(ctx context.Context, key string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ticket := range r.tickets {
		if ticket.ReferenceKey == key && ticket.DeletedAt == nil {
			clone := *ticket
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *TicketRepo) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Ticket
	for _, ticket := range r.tickets {
		if ticket.DeletedAt != nil {
			continue
		}
		if !matchesFilter(ticket, filter) {
			continue
		}
		out = append(out, *ticket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *TicketRepo) SoftDelete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok || ticket.DeletedAt != nil {
		return pgx.ErrNoRows
	}
	now := time.Now()
	ticket.DeletedAt = &now
	ticket.UpdatedAt = now
	return nil
}

// Count returns the number of live tickets, for assertions.
func (r *TicketRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ticket := range r.tickets {
		if ticket.DeletedAt == nil {
			n++
		}
	}
	return n
}

func matchesFilter(ticket *domain.Ticket, filter repository.TicketFilter) bool {
	if filter.OrganizationID != nil && ticket.OrganizationID != *filter.OrganizationID {
		return false
	}
	if filter.CustomerID != nil && ticket.CustomerID != *filter.CustomerID {
		return false
	}
	if filter.TeamID != nil && ticket.TeamID != *filter.TeamID {
		return false
	}
	if filter.AgentID != nil {
		if ticket.SupportAgentID == nil || *ticket.SupportAgentID != *filter.AgentID {
			return false
		}
	}
	if filter.StateID != nil && ticket.TicketStateID != *filter.StateID {
		return false
	}
	if filter.CategoryID != nil && ticket.TicketCategoryID != *filter.CategoryID {
		return false
	}
	if len(filter.Priorities) > 0 {
		found := false
		for _, p := range filter.Priorities {
			if ticket.Priority == p {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.SearchTerm != nil {
		term := strings.ToLower(*filter.SearchTerm)
		if !strings.Contains(strings.ToLower(ticket.Title), term) &&
			!strings.Contains(strings.ToLower(ticket.Description), term) {
			return false
		}
	}
	if filter.CreatedFrom != nil && ticket.CreatedAt.Before(*filter.CreatedFrom) {
		return false
	}
	if filter.CreatedTo != nil && ticket.CreatedAt.After(*filter.CreatedTo) {
		return false
	}
	return true
}
