package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/permit-desk/controllers"
	"github.com/meinhoongagan/permit-desk/middleware"
	"github.com/meinhoongagan/permit-desk/policy"
)

// SetupUserRoutes configures the admin-only account management routes
func SetupUserRoutes(api fiber.Router, h *controllers.Handler, g Guards) {
	users := api.Group("/users", g.Protected)
	users.Post("/", middleware.RequirePermission(policy.UserCreate), h.CreateUser)
	users.Get("/", middleware.RequirePermission(policy.UserList), h.GetUsers)
	users.Get("/:id", middleware.RequirePermission(policy.UserGet), h.GetUser)
	users.Patch("/:id/password", middleware.RequirePermission(policy.UserPassword), h.SetUserPassword)
	users.Patch("/:id/team", middleware.RequirePermission(policy.UserTeam), h.SetUserTeam)
}
