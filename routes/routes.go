package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/permit-desk/controllers"
)

// Guards are the middlewares shared by the route groups.
type Guards struct {
	// Protected authenticates the caller.
	Protected fiber.Handler
	// LoginLimit throttles credential checks per client IP.
	LoginLimit fiber.Handler
}

// Setup mounts the whole API on app.
func Setup(app *fiber.App, h *controllers.Handler, g Guards) {
	app.Get("/health", h.Health)

	api := app.Group("/api")
	SetupAuthRoutes(api, h, g)
	SetupUserRoutes(api, h, g)
	SetupTeamRoutes(api, h, g)
	SetupClientRoutes(api, h, g)
	SetupAppointmentRoutes(api, h, g)
}
