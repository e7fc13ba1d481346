package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/helpdesk-service/internal/domain"
	"github.com/opsdesk/helpdesk-service/internal/service"
	apperrors "github.com/opsdesk/helpdesk-service/pkg/util"
)

// PlansHandler exposes the subscription plan catalog.
type PlansHandler struct {
	service *service.PlanService
}

// NewPlansHandler constructs handler.
func NewPlansHandler(planService *service.PlanService) *PlansHandler {
	return &PlansHandler{service: planService}
}

// ListPlans GET /plans.
func (h *PlansHandler) ListPlans(c *fiber.Ctx) error {
	plans, err := h.service.ListActive(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": plans})
}

type createPlanRequest struct {
	Type               domain.PlanType `json:"type"`
	Name               string          `json:"name"`
	Price              float64         `json:"price"`
	Currency           string          `json:"currency"`
	BillingCycleDays   int             `json:"billing_cycle_days"`
	MonthlyTicketLimit int             `json:"monthly_ticket_limit"`
	HasAPIAccess       bool            `json:"has_api_access"`
	HasPrioritySupport bool            `json:"has_priority_support"`
	HasCustomBranding  bool            `json:"has_custom_branding"`
	DisplayOrder       int             `json:"display_order"`
}

// CreatePlan POST /plans.
func (h *PlansHandler) CreatePlan(c *fiber.Ctx) error {
	var req createPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Type == "" {
		return apperrors.NewValidationError("type and name are required", nil)
	}
	plan, err := h.service.Create(c.UserContext(), service.PlanCreateInput{
		Type:               req.Type,
		Name:               req.Name,
		Price:              req.Price,
		Currency:           req.Currency,
		BillingCycleDays:   req.BillingCycleDays,
		MonthlyTicketLimit: req.MonthlyTicketLimit,
		HasAPIAccess:       req.HasAPIAccess,
		HasPrioritySupport: req.HasPrioritySupport,
		HasCustomBranding:  req.HasCustomBranding,
		DisplayOrder:       req.DisplayOrder,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": plan})
}

// DeactivatePlan DELETE /plans/:id.
func (h *PlansHandler) DeactivatePlan(c *fiber.Ctx) error {
	if err := h.service.Deactivate(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
