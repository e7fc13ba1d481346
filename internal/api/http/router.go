package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/opsdesk/helpdesk-service/internal/api/http/handlers"
	"github.com/opsdesk/helpdesk-service/internal/auth"
	"github.com/opsdesk/helpdesk-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Organizations  *handlers.OrganizationsHandler
	Plans          *handlers.PlansHandler
	Knowledge      *handlers.KnowledgeHandler
	Agents         *handlers.AgentsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/agents/login", cfg.Agents.Login)
	authGroup.Post("/agents/register", cfg.Agents.Register)

	app.Post("/organizations", cfg.Organizations.Register)
	app.Get("/organizations/:id/limit", cfg.Organizations.LimitInfo)
	app.Get("/organizations/:id/kb/articles", cfg.Knowledge.ListArticles)
	app.Get("/organizations/:id/kb/canned-responses", cfg.Knowledge.ListCannedResponses)
	app.Post("/customers", cfg.Organizations.CreateCustomer)

	app.Get("/plans", cfg.Plans.ListPlans)
	app.Get("/kb/articles/:slug", cfg.Knowledge.GetArticle)

	app.Post("/tickets", cfg.Tickets.CreateTicket)
	app.Get("/tickets", cfg.Tickets.ListTickets)
	app.Get("/tickets/:id", cfg.Tickets.GetTicket)
	app.Get("/tickets/:id/notes", cfg.Tickets.ListNotes)

	protected := app.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/organizations/:id/branches", cfg.Organizations.CreateBranch)
	protected.Post("/organizations/:id/teams", cfg.Organizations.CreateTeam)
	protected.Post("/plans", cfg.Plans.CreatePlan)
	protected.Delete("/plans/:id", cfg.Plans.DeactivatePlan)
	protected.Post("/kb/articles", cfg.Knowledge.CreateArticle)
	protected.Post("/kb/canned-responses", cfg.Knowledge.CreateCannedResponse)
	protected.Post("/agents/me/availability", cfg.Agents.SetAvailability)
	protected.Post("/tickets/:id/assign", cfg.Tickets.AssignTicket)
	protected.Post("/tickets/:id/resolve", cfg.Tickets.ResolveTicket)
	protected.Post("/tickets/:id/state", cfg.Tickets.ChangeState)
	protected.Post("/tickets/:id/priority", cfg.Tickets.ChangePriority)
	protected.Post("/tickets/:id/due-date", cfg.Tickets.SetDueDate)
	protected.Delete("/tickets/:id", cfg.Tickets.DeleteTicket)
}
