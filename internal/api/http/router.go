package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/petsafe/pettag-service/internal/api/http/handlers"
	"github.com/petsafe/pettag-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Pets           *handlers.PetsHandler
	Public         *handlers.PublicHandler
	AuthMiddleware *auth.Middleware
	UploadsDir     string
}

// RegisterRoutes wires HTTP routes. The principal resolver runs on every
// request; only the /api/pets group additionally requires authentication.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.AuthMiddleware.ResolvePrincipal)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	if cfg.UploadsDir != "" {
		app.Static("/uploads/pets", cfg.UploadsDir)
	}

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	// Anonymous scan-to-view endpoint; no auth requirement on purpose.
	api.Get("/public/pets/:id", cfg.Public.GetPet)

	pets := api.Group("/pets", auth.RequireAuth())
	pets.Post("/", cfg.Pets.Create)
	pets.Get("/", cfg.Pets.List)
	pets.Get("/:id", cfg.Pets.Get)
	pets.Put("/:id", cfg.Pets.Update)
	pets.Delete("/:id", cfg.Pets.Delete)
	pets.Patch("/:id/missing", cfg.Pets.ToggleMissing)
	pets.Post("/:id/photo", cfg.Pets.UploadPhoto)
}
