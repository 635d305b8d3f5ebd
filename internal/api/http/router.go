package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/site-safety-service/internal/api/http/handlers"
	"github.com/spec-kit/site-safety-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Records        *handlers.RecordsHandler
	Templates      *handlers.TemplatesHandler
	SmartText      *handlers.SmartTextHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/password/reset/request", cfg.Users.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Users.ConfirmPasswordReset)

	protectedAuth := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireUser())
	protectedAuth.Post("/password/change", cfg.Users.ChangePassword)

	records := app.Group("/records/:type", cfg.AuthMiddleware.Handle, auth.RequireUser())
	records.Post("", cfg.Records.CreateRecord)
	records.Get("", cfg.Records.ListRecords)
	records.Get("/:id", cfg.Records.GetRecord)
	records.Patch("/:id", cfg.Records.UpdateRecord)
	records.Post("/:id/status", cfg.Records.ChangeStatus)
	records.Get("/:id/audit", cfg.Records.GetAuditTrail)

	templates := app.Group("/templates", cfg.AuthMiddleware.Handle, auth.RequireUser())
	templates.Post("", cfg.Templates.SaveTemplate)
	templates.Get("", cfg.Templates.ListTemplates)
	templates.Get("/:id", cfg.Templates.GetTemplate)
	templates.Put("/:id", cfg.Templates.UpdateTemplate)
	templates.Delete("/:id", cfg.Templates.DeleteTemplate)

	smartText := app.Group("/smart-text", cfg.AuthMiddleware.Handle, auth.RequireUser())
	smartText.Post("/process", cfg.SmartText.ProcessText)
	smartText.Post("/suggestions", cfg.SmartText.CheckSuggestions)
	smartText.Post("/suggestions/apply", cfg.SmartText.ApplySuggestion)
	smartText.Post("/suggestions/dismiss", cfg.SmartText.DismissSuggestion)

	app.Get("/notifications", cfg.AuthMiddleware.Handle, auth.RequireUser(), cfg.Users.Notifications)
}
