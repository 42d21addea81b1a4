package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/crmdesk/ticketd/internal/api/http/handlers"
	"github.com/crmdesk/ticketd/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Directory      *handlers.DirectoryHandler
	Integrations   *handlers.IntegrationsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Root)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/agents/register", cfg.Auth.Register)
	authGroup.Post("/agents/login", cfg.Auth.Login)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	tickets := api.Group("/tickets")
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/search", cfg.Tickets.SearchTickets)
	tickets.Get("/stats", cfg.Tickets.Stats)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)
	tickets.Post("/:id/status", cfg.Tickets.ChangeStatus)
	tickets.Post("/:id/assign", cfg.Tickets.AssignTicket)
	tickets.Get("/:id/comments", cfg.Tickets.ListComments)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)

	clients := api.Group("/clients")
	clients.Get("/", cfg.Directory.ListClients)
	clients.Post("/", cfg.Directory.CreateClient)
	clients.Get("/:id", cfg.Directory.GetClient)
	clients.Put("/:id", cfg.Directory.UpdateClient)
	clients.Delete("/:id", cfg.Directory.DeleteClient)

	companies := api.Group("/companies")
	companies.Get("/", cfg.Directory.ListCompanies)
	companies.Post("/", cfg.Directory.CreateCompany)
	companies.Get("/:id", cfg.Directory.GetCompany)
	companies.Put("/:id", cfg.Directory.UpdateCompany)
	companies.Delete("/:id", cfg.Directory.DeleteCompany)

	departments := api.Group("/departments")
	departments.Get("/", cfg.Directory.ListDepartments)
	departments.Post("/", cfg.Directory.CreateDepartment)
	departments.Put("/:id", cfg.Directory.UpdateDepartment)
	departments.Delete("/:id", cfg.Directory.DeleteDepartment)

	integrations := api.Group("/integrations")
	integrations.Get("/", cfg.Integrations.ListIntegrations)
	integrations.Post("/", cfg.Integrations.CreateIntegration)
	integrations.Get("/:id", cfg.Integrations.GetIntegration)
	integrations.Put("/:id", cfg.Integrations.UpdateIntegration)
	integrations.Delete("/:id", cfg.Integrations.DeleteIntegration)
}
