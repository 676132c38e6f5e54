package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tech-help/helpdesk-service/internal/api/http/handlers"
	"github.com/tech-help/helpdesk-service/internal/auth"
	"github.com/tech-help/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Accounts       *handlers.AccountsHandler
	Tickets        *handlers.TicketsHandler
	Clients        *handlers.ClientsHandler
	Technicians    *handlers.TechniciansHandler
	Categories     *handlers.CategoriesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Route guards enforce the coarse role
// matrix; per-record ownership checks live in the service layer policies.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Accounts.Register)
	authGroup.Post("/login", cfg.Accounts.Login)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("", auth.RequireRole(domain.RoleAdmin, domain.RoleClient), cfg.Tickets.Create)
	tickets.Get("", auth.RequireRole(), cfg.Tickets.List)
	tickets.Get("/client/:clientId", auth.RequireRole(), cfg.Tickets.ListByClient)
	tickets.Get("/technician/:technicianId", auth.RequireRole(), cfg.Tickets.ListByTechnician)
	tickets.Get("/:id", auth.RequireRole(), cfg.Tickets.Get)
	tickets.Patch("/:id", auth.RequireRole(domain.RoleAdmin, domain.RoleTechnician), cfg.Tickets.Update)
	tickets.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Tickets.Delete)

	accounts := app.Group("/accounts", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	accounts.Post("", cfg.Accounts.Create)
	accounts.Get("", cfg.Accounts.List)
	accounts.Get("/:id", cfg.Accounts.Get)
	accounts.Patch("/:id", cfg.Accounts.Update)
	accounts.Delete("/:id", cfg.Accounts.Delete)

	clients := app.Group("/clients", cfg.AuthMiddleware.Handle)
	clients.Post("", auth.RequireRole(domain.RoleAdmin), cfg.Clients.Create)
	clients.Get("", auth.RequireRole(domain.RoleAdmin), cfg.Clients.List)
	clients.Get("/:id", auth.RequireRole(), cfg.Clients.Get)
	clients.Patch("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Clients.Update)
	clients.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Clients.Delete)

	technicians := app.Group("/technicians", cfg.AuthMiddleware.Handle)
	technicians.Post("", auth.RequireRole(domain.RoleAdmin), cfg.Technicians.Create)
	technicians.Get("", auth.RequireRole(), cfg.Technicians.List)
	technicians.Get("/:id", auth.RequireRole(), cfg.Technicians.Get)
	technicians.Patch("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Technicians.Update)
	technicians.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Technicians.Delete)

	categories := app.Group("/categories", cfg.AuthMiddleware.Handle)
	categories.Post("", auth.RequireRole(domain.RoleAdmin), cfg.Categories.Create)
	categories.Get("", auth.RequireRole(), cfg.Categories.List)
	categories.Get("/:id", auth.RequireRole(), cfg.Categories.Get)
	categories.Patch("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Categories.Update)
	categories.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Categories.Delete)
}
