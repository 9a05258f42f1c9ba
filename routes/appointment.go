package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/permit-desk/controllers"
	"github.com/meinhoongagan/permit-desk/middleware"
	"github.com/meinhoongagan/permit-desk/policy"
)

// SetupAppointmentRoutes configures all appointment related routes
func SetupAppointmentRoutes(api fiber.Router, h *controllers.Handler, g Guards) {
	appointment := api.Group("/appointments", g.Protected)
	appointment.Post("/", middleware.RequirePermission(policy.ApptCreate), h.CreateAppointment)
	appointment.Get("/", middleware.RequirePermission(policy.ApptList), h.GetAppointments)
	appointment.Get("/:id", middleware.RequirePermission(policy.ApptGet), h.GetAppointment)
	appointment.Patch("/:id/approve", middleware.RequirePermission(policy.ApptApprove), h.ApproveAppointment)
	appointment.Post("/:id/pdf", middleware.RequirePermission(policy.ApptPdfPut), h.UploadPdf)
	appointment.Get("/:id/pdf", middleware.RequirePermission(policy.ApptPdfGet), h.DownloadPdf)
}
