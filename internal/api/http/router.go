package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/dineware-service/internal/api/http/handlers"
	"github.com/spec-kit/dineware-service/internal/auth"
	"github.com/spec-kit/dineware-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Foods          *handlers.FoodsHandler
	Orders         *handlers.OrdersHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
	// IssueLimiter throttles /jwt when set.
	IssueLimiter fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Root)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	issue := []fiber.Handler{cfg.Auth.IssueToken}
	if cfg.IssueLimiter != nil {
		issue = append([]fiber.Handler{cfg.IssueLimiter}, issue...)
	}
	app.Post("/jwt", issue...)
	app.Post("/logout", cfg.Auth.Logout)

	guard := cfg.AuthMiddleware.Handle

	// top-selling must be registered before the :email pattern.
	app.Get("/foods", cfg.Foods.List)
	app.Get("/foods/top-selling", cfg.Foods.TopSelling)
	app.Get("/foods/:email", guard, auth.RequireOwner("email"), cfg.Foods.ListByOwner)
	app.Get("/food/:id", cfg.Foods.Get)
	app.Post("/add-food", guard, cfg.Foods.Create)
	app.Put("/food/update/:id", guard, cfg.Foods.Update)

	app.Post("/orders", guard, cfg.Orders.Place)
	app.Get("/orders/:email", guard, auth.RequireOwner("email"), cfg.Orders.ListByBuyer)
	app.Delete("/orders/delete/:id", guard, cfg.Orders.Delete)
}
