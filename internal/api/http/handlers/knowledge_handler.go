package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/helpdesk-service/internal/api/dto"
	"github.com/opsdesk/helpdesk-service/internal/service"
	apperrors "github.com/opsdesk/helpdesk-service/pkg/util"
)

// KnowledgeHandler serves the knowledge base and canned responses.
type KnowledgeHandler struct {
	service *service.KnowledgeService
}

// NewKnowledgeHandler constructs handler.
func NewKnowledgeHandler(knowledgeService *service.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{service: knowledgeService}
}

// CreateArticle POST /kb/articles.
func (h *KnowledgeHandler) CreateArticle(c *fiber.Ctx) error {
	var req dto.CreateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.OrganizationID == "" {
		return apperrors.NewValidationError("organization_id is required", nil)
	}
	article, err := h.service.CreateArticle(c.UserContext(), service.ArticleInput{
		OrganizationID: req.OrganizationID,
		Title:          req.Title,
		Body:           req.Body,
		IsPublished:    req.IsPublished,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": article})
}

// GetArticle GET /kb/articles/:slug.
func (h *KnowledgeHandler) GetArticle(c *fiber.Ctx) error {
	article, err := h.service.PublishedArticle(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": article})
}

// ListArticles GET /organizations/:id/kb/articles.
func (h *KnowledgeHandler) ListArticles(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	articles, err := h.service.ListArticles(c.UserContext(), c.Params("id"), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articles})
}

// CreateCannedResponse POST /kb/canned-responses.
func (h *KnowledgeHandler) CreateCannedResponse(c *fiber.Ctx) error {
	var req dto.CreateCannedResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.OrganizationID == "" {
		return apperrors.NewValidationError("organization_id is required", nil)
	}
	resp, err := h.service.CreateCannedResponse(c.UserContext(), req.OrganizationID, req.Title, req.Body)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": resp})
}

// ListCannedResponses GET /organizations/:id/kb/canned-responses.
func (h *KnowledgeHandler) ListCannedResponses(c *fiber.Ctx) error {
	responses, err := h.service.ListCannedResponses(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": responses})
}
