package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-desk/internal/api/http/handlers"
	"github.com/spec-kit/complaint-desk/internal/auth"
	"github.com/spec-kit/complaint-desk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Dashboard      *handlers.DashboardHandler
	Complaints     *handlers.ComplaintsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Post("/complaints", cfg.Complaints.Create)

	authGroup := app.Group("/auth")
	authGroup.Post("/admin/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.AdminRoleAdmin, domain.AdminRoleSupervisor))
	admin.Get("/me", cfg.Auth.Me)
	admin.Get("/dashboard", cfg.Dashboard.Dashboard)
	admin.Get("/stats", cfg.Dashboard.Stats)
	admin.Get("/complaints", cfg.Dashboard.ListComplaints)
	admin.Patch("/complaints/:id/status", cfg.Dashboard.UpdateStatus)
	admin.Post("/complaints/:id/mark-in-progress", cfg.Dashboard.MarkInProgress)
	admin.Post("/complaints/:id/mark-resolved", cfg.Dashboard.MarkResolved)
	admin.Get("/complaints/:id/history", cfg.Dashboard.History)
}
