package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/permit-desk/controllers"
	"github.com/meinhoongagan/permit-desk/middleware"
	"github.com/meinhoongagan/permit-desk/policy"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(api fiber.Router, h *controllers.Handler, g Guards) {
	auth := api.Group("/auth")

	// Public routes
	auth.Post("/login", g.LoginLimit, h.Login)

	// Protected routes
	auth.Post("/logout", g.Protected, h.Logout)
	auth.Get("/me", g.Protected, middleware.RequirePermission(policy.SelfGet), h.Me)
	auth.Patch("/me/password", g.Protected, middleware.RequirePermission(policy.SelfPassword), h.ChangeOwnPassword)
}
