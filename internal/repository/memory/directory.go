package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/opsdesk/helpdesk-service/internal/domain"
)

// OrganizationRepo is an in-memory OrganizationRepository.
type OrganizationRepo struct {
	mu   sync.Mutex
	orgs map[string]*domain.Organization
}

// NewOrganizationRepo constructs an empty repository.
func NewOrganizationRepo() *OrganizationRepo {
	return &OrganizationRepo{orgs: make(map[string]*domain.Organization)}
}

func (r *OrganizationRepo) Create(ctx context.Context, org *domain.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if org.ID == "" {
		org.ID = uuid.NewString()
	}
	org.CreatedAt = time.Now()
	org.UpdatedAt = org.CreatedAt
	clone := *org
	r.orgs[org.ID] = &clone
	return nil
}

func (r *OrganizationRepo) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	org, ok := r.orgs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *org
	return &clone, nil
}

func (r *OrganizationRepo) Update(ctx context.Context, org *domain.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orgs[org.ID]; !ok {
		return pgx.ErrNoRows
	}
	org.UpdatedAt = time.Now()
	clone := *org
	r.orgs[org.ID] = &clone
	return nil
}

// BranchRepo is an in-memory BranchRepository.
type BranchRepo struct {
	mu       sync.Mutex
	branches map[string]*domain.Branch
}

// NewBranchRepo constructs an empty repository.
func NewBranchRepo() *BranchRepo {
	return &BranchRepo{branches: make(map[string]*domain.Branch)}
}

func (r *BranchRepo) Create(ctx context.Context, branch *domain.Branch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if branch.ID == "" {
		branch.ID = uuid.NewString()
	}
	branch.CreatedAt = time.Now()
	branch.UpdatedAt = branch.CreatedAt
	clone := *branch
	r.branches[branch.ID] = &clone
	return nil
}

func (r *BranchRepo) GetByID(ctx context.Context, id string) (*domain.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	branch, ok := r.branches[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *branch
	return &clone, nil
}

func (r *BranchRepo) ListByOrganization(ctx context.Context, organizationID string) ([]domain.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Branch
	for _, branch := range r.branches {
		if branch.OrganizationID == organizationID {
			out = append(out, *branch)
		}
	}
	return out, nil
}

// TeamRepo is an in-memory TeamRepository.
type TeamRepo struct {
	mu    sync.Mutex
	teams map[string]*domain.Team
}

// NewTeamRepo constructs an empty repository.
func NewTeamRepo() *TeamRepo {
	return &TeamRepo{teams: make(map[string]*domain.Team)}
}

func (r *TeamRepo) Create(ctx context.Context, team *domain.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	team.CreatedAt = time.Now()
	team.UpdatedAt = team.CreatedAt
	clone := *team
	r.teams[team.ID] = &clone
	return nil
}

func (r *TeamRepo) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	team, ok := r.teams[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *team
	return &clone, nil
}

func (r *TeamRepo) ListByBranch(ctx context.Context, branchID string) ([]domain.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Team
	for _, team := range r.teams {
		if team.BranchID == branchID {
			out = append(out, *team)
		}
	}
	return out, nil
}

// CustomerRepo is an in-memory CustomerRepository.
type CustomerRepo struct {
	mu        sync.Mutex
	customers map[string]*domain.Customer
}

// NewCustomerRepo constructs an empty repository.
func NewCustomerRepo() *CustomerRepo {
	return &CustomerRepo{customers: make(map[string]*domain.Customer)}
}

func (r *CustomerRepo) Create(ctx context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = customer.CreatedAt
	clone := *customer
	r.customers[customer.ID] = &clone
	return nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *customer
	return &clone, nil
}

func (r *CustomerRepo) ListByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Customer
	for _, customer := range r.customers {
		if customer.OrganizationID != nil && *customer.OrganizationID == organizationID {
			out = append(out, *customer)
		}
	}
	return out, nil
}

// AgentRepo is an in-memory AgentRepository.
type AgentRepo struct {
	mu     sync.Mutex
	agents map[string]*domain.SupportAgent
}

// NewAgentRepo constructs an empty repository.
func NewAgentRepo() *AgentRepo {
	return &AgentRepo{agents: make(map[string]*domain.SupportAgent)}
}

func (r *AgentRepo) Create(ctx context.Context, agent *domain.SupportAgent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if agent.ID == "" {
		agent.ID = uuid.NewString()
	}
	agent.CreatedAt = time.Now()
	agent.UpdatedAt = agent.CreatedAt
	clone := *agent
	r.agents[agent.ID] = &clone
	return nil
}

func (r *AgentRepo) GetByID(ctx context.Context, id string) (*domain.SupportAgent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	agent, ok := r.agents[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *agent
	return &clone, nil
}

func (r *AgentRepo) GetByEmail(ctx context.Context, email string) (*domain.SupportAgent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, agent := range r.agents {
		if agent.Email == email {
			clone := *agent
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *AgentRepo) Update(ctx context.Context, agent *domain.SupportAgent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.agents[agent.ID]; !ok {
		return pgx.ErrNoRows
	}
	agent.UpdatedAt = time.Now()
	clone := *agent
	r.agents[agent.ID] = &clone
	return nil
}

func (r *AgentRepo) ListByTeam(ctx context.Context, teamID string) ([]domain.SupportAgent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.SupportAgent
	for _, agent := range r.agents {
		if agent.TeamID == teamID {
			out = append(out, *agent)
		}
	}
	return out, nil
}

func (r *AgentRepo) IncrementWorkload(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	agent, ok := r.agents[id]
	if !ok {
		return pgx.ErrNoRows
	}
	agent.CurrentTicketCount++
	agent.UpdatedAt = time.Now()
	return nil
}

func (r *AgentRepo) DecrementWorkload(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	agent, ok := r.agents[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if agent.CurrentTicketCount > 0 {
		agent.CurrentTicketCount--
	}
	agent.UpdatedAt = time.Now()
	return nil
}
