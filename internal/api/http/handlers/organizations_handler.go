package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/helpdesk-service/internal/api/dto"
	"github.com/opsdesk/helpdesk-service/internal/service"
	apperrors "github.com/opsdesk/helpdesk-service/pkg/util"
)

// OrganizationsHandler manages tenant provisioning endpoints.
type OrganizationsHandler struct {
	organizations *service.OrganizationService
	limits        *service.SubscriptionLimitService
}

// NewOrganizationsHandler constructs handler.
func NewOrganizationsHandler(organizations *service.OrganizationService, limits *service.SubscriptionLimitService) *OrganizationsHandler {
	return &OrganizationsHandler{organizations: organizations, limits: limits}
}

// Register POST /organizations.
func (h *OrganizationsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterOrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" {
		return apperrors.NewValidationError("name is required", nil)
	}
	result, err := h.organizations.Register(c.UserContext(), service.RegisterOrganizationInput{
		Name:   req.Name,
		Domain: req.Domain,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"organization": result.Organization,
		"main_branch":  result.MainBranch,
		"subscription": result.Subscription,
	}})
}

// CreateBranch POST /organizations/:id/branches.
func (h *OrganizationsHandler) CreateBranch(c *fiber.Ctx) error {
	var req dto.CreateBranchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" {
		return apperrors.NewValidationError("name is required", nil)
	}
	branch, err := h.organizations.CreateBranch(c.UserContext(), c.Params("id"), req.Name, req.Address)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": branch})
}

// CreateTeam POST /organizations/:id/teams.
func (h *OrganizationsHandler) CreateTeam(c *fiber.Ctx) error {
	var req dto.CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.BranchID == "" || req.Name == "" {
		return apperrors.NewValidationError("branch_id and name are required", nil)
	}
	team, err := h.organizations.CreateTeam(c.UserContext(), req.BranchID, req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": team})
}

// CreateCustomer POST /customers.
func (h *OrganizationsHandler) CreateCustomer(c *fiber.Ctx) error {
	var req dto.CreateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" {
		return apperrors.NewValidationError("name and email are required", nil)
	}
	customer, err := h.organizations.CreateCustomer(c.UserContext(), req.OrganizationID, req.Name, req.Email, req.Phone)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": customer})
}

// LimitInfo GET /organizations/:id/limit.
func (h *OrganizationsHandler) LimitInfo(c *fiber.Ctx) error {
	info, err := h.limits.LimitInfo(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SubscriptionLimitResponse{
		MonthlyLimit: info.MonthlyLimit,
		Used:         info.Used,
		Remaining:    info.Remaining,
		Message:      info.Message,
	}})
}
