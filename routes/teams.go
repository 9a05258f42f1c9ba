package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/permit-desk/controllers"
	"github.com/meinhoongagan/permit-desk/middleware"
	"github.com/meinhoongagan/permit-desk/policy"
)

func SetupTeamRoutes(api fiber.Router, h *controllers.Handler, g Guards) {
	teams := api.Group("/teams", g.Protected)
	teams.Post("/", middleware.RequirePermission(policy.TeamCreate), h.CreateTeam)
	teams.Get("/", middleware.RequirePermission(policy.TeamList), h.GetTeams)
	teams.Get("/:id", middleware.RequirePermission(policy.TeamGet), h.GetTeam)
	teams.Get("/:id/members", middleware.RequirePermission(policy.TeamMembers), h.GetTeamMembers)
	teams.Post("/:id/members", middleware.RequirePermission(policy.TeamAddMember), h.AddTeamMember)
	teams.Delete("/:id/members/:userId", middleware.RequirePermission(policy.TeamRemove), h.RemoveTeamMember)
}
