package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/helpdesk-service/internal/api/dto"
	"github.com/opsdesk/helpdesk-service/internal/auth"
	"github.com/opsdesk/helpdesk-service/internal/service"
	apperrors "github.com/opsdesk/helpdesk-service/pkg/util"
)

// AgentsHandler covers agent authentication and availability.
type AgentsHandler struct {
	service *service.AuthService
}

// NewAgentsHandler constructs handler.
func NewAgentsHandler(authService *service.AuthService) *AgentsHandler {
	return &AgentsHandler{service: authService}
}

// Login POST /auth/agents/login.
func (h *AgentsHandler) Login(c *fiber.Ctx) error {
	var req dto.AgentLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password are required", nil)
	}
	result, err := h.service.LoginAgent(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AgentLoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		AgentID:   result.Agent.ID,
		AgentName: result.Agent.Name,
	}})
}

// Register POST /auth/agents/register.
func (h *AgentsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterAgentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TeamID == "" {
		return apperrors.NewValidationError("team_id is required", nil)
	}
	agent, err := h.service.RegisterAgent(c.UserContext(), service.RegisterAgentInput{
		TeamID:               req.TeamID,
		Name:                 req.Name,
		Email:                req.Email,
		Password:             req.Password,
		MaxConcurrentTickets: req.MaxConcurrentTickets,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": agent})
}

type availabilityRequest struct {
	Available bool `json:"available"`
}

// SetAvailability POST /agents/me/availability.
func (h *AgentsHandler) SetAvailability(c *fiber.Ctx) error {
	principal, ok := auth.AgentFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("agent required")
	}
	var req availabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	agent, err := h.service.SetAgentAvailability(c.UserContext(), principal.ID, req.Available)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": agent})
}
