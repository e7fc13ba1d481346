package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/opsdesk/helpdesk-service/internal/auth"
	"github.com/opsdesk/helpdesk-service/internal/config"
	"github.com/opsdesk/helpdesk-service/internal/domain"
	"github.com/opsdesk/helpdesk-service/internal/repository"
	apperrors "github.com/opsdesk/helpdesk-service/pkg/util"
)

// AuthService handles agent credentials and token issuance.
type AuthService struct {
	agents     repository.AgentRepository
	teams      repository.TeamRepository
	tokens     *auth.TokenManager
	bcryptCost int
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.Config, agents repository.AgentRepository, teams repository.TeamRepository) *AuthService {
	return &AuthService{
		agents:     agents,
		teams:      teams,
		tokens:     auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// AgentLoginResult carries the issued credential.
type AgentLoginResult struct {
	Token     string
	ExpiresAt time.Time
	Agent     *domain.SupportAgent
}

// LoginAgent verifies credentials and issues a bearer token.
func (s *AuthService) LoginAgent(ctx context.Context, email, password string) (*AgentLoginResult, error) {
	agent, err := s.agents.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(agent.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(agent.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AgentLoginResult{Token: token, ExpiresAt: expiresAt, Agent: agent}, nil
}

// RegisterAgentInput describes the agent provisioning payload.
type RegisterAgentInput struct {
	TeamID               string
	Name                 string
	Email                string
	Password             string
	MaxConcurrentTickets int
}

// RegisterAgent provisions a support agent with a hashed password.
func (s *AuthService) RegisterAgent(ctx context.Context, input RegisterAgentInput) (*domain.SupportAgent, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("name, email and password are required", nil)
	}
	if _, err := s.teams.GetByID(ctx, input.TeamID); err != nil {
		return nil, notFoundOr(err, "team", input.TeamID)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	agent := &domain.SupportAgent{
		TeamID:               input.TeamID,
		Name:                 strings.TrimSpace(input.Name),
		Email:                strings.TrimSpace(input.Email),
		PasswordHash:         hash,
		MaxConcurrentTickets: input.MaxConcurrentTickets,
		IsAvailable:          true,
	}
	if err := s.agents.Create(ctx, agent); err != nil {
		return nil, apperrors.MapError(err)
	}
	return agent, nil
}

// SetAgentAvailability toggles whether the agent can receive assignments.
func (s *AuthService) SetAgentAvailability(ctx context.Context, agentID string, available bool) (*domain.SupportAgent, error) {
	agent, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		return nil, notFoundOr(err, "support agent", agentID)
	}
	agent.IsAvailable = available
	if err := s.agents.Update(ctx, agent); err != nil {
		return nil, apperrors.MapError(err)
	}
	return agent, nil
}
