package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/opsdesk/helpdesk-service/internal/domain"
	"github.com/opsdesk/helpdesk-service/internal/repository"
	apperrors "github.com/opsdesk/helpdesk-service/pkg/util"
)

// OrganizationService handles tenant signup and org-structure management.
// Signup provisions the organization with a main branch and a Freemium
// subscription anchored at the first of the current month.
type OrganizationService struct {
	organizations repository.OrganizationRepository
	branches      repository.BranchRepository
	teams         repository.TeamRepository
	customers     repository.CustomerRepository
	plans         repository.PlanRepository
	subscriptions repository.SubscriptionRepository
	now           func() time.Time
}

// OrganizationDependencies bundles repositories.
type OrganizationDependencies struct {
	OrganizationRepo repository.OrganizationRepository
	BranchRepo       repository.BranchRepository
	TeamRepo         repository.TeamRepository
	CustomerRepo     repository.CustomerRepository
	PlanRepo         repository.PlanRepository
	SubscriptionRepo repository.SubscriptionRepository
	Now              func() time.Time
}

// RegisterOrganizationInput describes the signup payload.
type RegisterOrganizationInput struct {
	Name   string
	Domain string
}

// RegisterOrganizationResult carries the provisioned entities.
type RegisterOrganizationResult struct {
	Organization *domain.Organization
	MainBranch   *domain.Branch
	Subscription *domain.Subscription
}

// NewOrganizationService constructs the service.
func NewOrganizationService(deps OrganizationDependencies) *OrganizationService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &OrganizationService{
		organizations: deps.OrganizationRepo,
		branches:      deps.BranchRepo,
		teams:         deps.TeamRepo,
		customers:     deps.CustomerRepo,
		plans:         deps.PlanRepo,
		subscriptions: deps.SubscriptionRepo,
		now:           now,
	}
}

// Register provisions a new tenant.
func (s *OrganizationService) Register(ctx context.Context, input RegisterOrganizationInput) (*RegisterOrganizationResult, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("organization name is required", nil)
	}

	freemium, err := s.plans.GetByType(ctx, domain.PlanTypeFreemium)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvariantViolation("freemium plan is not configured")
		}
		return nil, apperrors.MapError(err)
	}

	org := &domain.Organization{
		Name:     strings.TrimSpace(input.Name),
		Domain:   strings.TrimSpace(input.Domain),
		IsActive: true,
	}
	if err := s.organizations.Create(ctx, org); err != nil {
		return nil, apperrors.MapError(err)
	}

	branch := &domain.Branch{
		OrganizationID: org.ID,
		Name:           "Main",
		IsActive:       true,
	}
	if err := s.branches.Create(ctx, branch); err != nil {
		return nil, apperrors.MapError(err)
	}

	now := s.now()
	sub := &domain.Subscription{
		OrganizationID:     org.ID,
		PlanID:             freemium.ID,
		Plan:               freemium,
		Status:             domain.SubscriptionStatusActive,
		StartDate:          now,
		CurrentPeriodStart: domain.PeriodAnchor(now),
	}
	if err := s.subscriptions.Create(ctx, sub); err != nil {
		return nil, apperrors.MapError(err)
	}

	return &RegisterOrganizationResult{
		Organization: org,
		MainBranch:   branch,
		Subscription: sub,
	}, nil
}

// CreateBranch adds a branch under an existing organization.
func (s *OrganizationService) CreateBranch(ctx context.Context, organizationID, name, address string) (*domain.Branch, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("branch name is required", nil)
	}
	if _, err := s.organizations.GetByID(ctx, organizationID); err != nil {
		return nil, notFoundOr(err, "organization", organizationID)
	}
	branch := &domain.Branch{
		OrganizationID: organizationID,
		Name:           strings.TrimSpace(name),
		Address:        strings.TrimSpace(address),
		IsActive:       true,
	}
	if err := s.branches.Create(ctx, branch); err != nil {
		return nil, apperrors.MapError(err)
	}
	return branch, nil
}

// CreateTeam adds a team under an existing branch.
func (s *OrganizationService) CreateTeam(ctx context.Context, branchID, name, description string) (*domain.Team, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("team name is required", nil)
	}
	if _, err := s.branches.GetByID(ctx, branchID); err != nil {
		return nil, notFoundOr(err, "branch", branchID)
	}
	team := &domain.Team{
		BranchID:    branchID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		IsActive:    true,
	}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, apperrors.MapError(err)
	}
	return team, nil
}

// CreateCustomer registers a customer, optionally linked to an organization.
func (s *OrganizationService) CreateCustomer(ctx context.Context, organizationID *string, name, email, phone string) (*domain.Customer, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return nil, apperrors.NewValidationError("customer name and email are required", nil)
	}
	if organizationID != nil {
		if _, err := s.organizations.GetByID(ctx, *organizationID); err != nil {
			return nil, notFoundOr(err, "organization", *organizationID)
		}
	}
	customer := &domain.Customer{
		OrganizationID: organizationID,
		Name:           strings.TrimSpace(name),
		Email:          strings.TrimSpace(email),
		Phone:          strings.TrimSpace(phone),
		IsActive:       true,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}
