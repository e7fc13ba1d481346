package service

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/opsdesk/helpdesk-service/internal/config"
	"github.com/opsdesk/helpdesk-service/internal/domain"
	"github.com/opsdesk/helpdesk-service/internal/repository/memory"
	apperrors "github.com/opsdesk/helpdesk-service/pkg/util"
)

func newAuthFixture(t *testing.T) (*AuthService, *memory.AgentRepo, string) {
	t.Helper()
	ctx := context.Background()

	agents := memory.NewAgentRepo()
	teams := memory.NewTeamRepo()
	team := &domain.Team{BranchID: "branch-1", Name: "Support", IsActive: true}
	if err := teams.Create(ctx, team); err != nil {
		t.Fatalf("seed team: %v", err)
	}

	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 30,
		BcryptCost:            bcrypt.MinCost,
	}}
	return NewAuthService(cfg, agents, teams), agents, team.ID
}

func TestRegisterAndLoginAgent(t *testing.T) {
	ctx := context.Background()
	svc, _, teamID := newAuthFixture(t)

	agent, err := svc.RegisterAgent(ctx, RegisterAgentInput{
		TeamID:   teamID,
		Name:     "Alex",
		Email:    "alex@acme.test",
		Password: "hunter2",
	})
	if err != nil {
		t.Fatalf("RegisterAgent: %v", err)
	}
	if agent.PasswordHash == "hunter2" || agent.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
	if !agent.IsAvailable {
		t.Error("new agents start available")
	}

	result, err := svc.LoginAgent(ctx, "alex@acme.test", "hunter2")
	if err != nil {
		t.Fatalf("LoginAgent: %v", err)
	}
	if result.Token == "" || result.Agent.ID != agent.ID {
		t.Error("login should return a token for the agent")
	}

	claims, err := svc.TokenManager().ParseToken(result.Token)
	if err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims.AgentID != agent.ID {
		t.Errorf("token agent = %s, want %s", claims.AgentID, agent.ID)
	}
}

func TestLoginAgentBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _, teamID := newAuthFixture(t)

	if _, err := svc.RegisterAgent(ctx, RegisterAgentInput{
		TeamID: teamID, Name: "Alex", Email: "alex@acme.test", Password: "hunter2",
	}); err != nil {
		t.Fatalf("RegisterAgent: %v", err)
	}

	if _, err := svc.LoginAgent(ctx, "alex@acme.test", "wrong"); !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
		t.Errorf("wrong password = %v, want unauthorized", err)
	}
	if _, err := svc.LoginAgent(ctx, "nobody@acme.test", "hunter2"); !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
		t.Errorf("unknown email = %v, want unauthorized", err)
	}
}

func TestRegisterAgentValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, teamID := newAuthFixture(t)

	if _, err := svc.RegisterAgent(ctx, RegisterAgentInput{TeamID: teamID, Name: "", Email: "a@b.c", Password: "x"}); !apperrors.IsCode(err, apperrors.CodeValidationFailed) {
		t.Errorf("blank name = %v, want validation failure", err)
	}
	if _, err := svc.RegisterAgent(ctx, RegisterAgentInput{TeamID: "missing", Name: "Alex", Email: "a@b.c", Password: "x"}); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("unknown team = %v, want not found", err)
	}
}

func TestSetAgentAvailability(t *testing.T) {
	ctx := context.Background()
	svc, agents, teamID := newAuthFixture(t)

	agent, err := svc.RegisterAgent(ctx, RegisterAgentInput{
		TeamID: teamID, Name: "Alex", Email: "alex@acme.test", Password: "hunter2",
	})
	if err != nil {
		t.Fatalf("RegisterAgent: %v", err)
	}

	if _, err := svc.SetAgentAvailability(ctx, agent.ID, false); err != nil {
		t.Fatalf("SetAgentAvailability: %v", err)
	}
	stored, _ := agents.GetByID(ctx, agent.ID)
	if stored.IsAvailable {
		t.Error("agent should be unavailable")
	}
}
