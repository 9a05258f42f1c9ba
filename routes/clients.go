package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/permit-desk/controllers"
	"github.com/meinhoongagan/permit-desk/middleware"
	"github.com/meinhoongagan/permit-desk/policy"
)

func SetupClientRoutes(api fiber.Router, h *controllers.Handler, g Guards) {
	clients := api.Group("/clients", g.Protected)
	clients.Post("/", middleware.RequirePermission(policy.ClientCreate), h.CreateClient)
	clients.Get("/", middleware.RequirePermission(policy.ClientList), h.GetClients)
	clients.Get("/:id", middleware.RequirePermission(policy.ClientGet), h.GetClient)
}
