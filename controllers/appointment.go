package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/permit-desk/apperr"
	"github.com/meinhoongagan/permit-desk/middleware"
	"github.com/meinhoongagan/permit-desk/models"
	"github.com/meinhoongagan/permit-desk/store"
)

type createAppointmentInput struct {
	ClientID       int64                 `json:"clientId"`
	TeamID         int64                 `json:"teamId"`
	BookingDetails models.BookingDetails `json:"bookingDetails"`
}

// CreateAppointment godoc
// @Summary Open a pending appointment for a client
// @Description The caller becomes the collector and the appointment is filed
// @Description under the caller's team; teamId in the body is only used when
// @Description the caller has no team.
// @Tags appointments
// @Accept json
// @Produce json
// @Success 201 {object} models.Appointment
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/appointments [post]
func (h *Handler) CreateAppointment(c *fiber.Ctx) error {
	var in createAppointmentInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	caller := middleware.Caller(c)
	teamID := in.TeamID
	if caller.TeamID != nil {
		teamID = *caller.TeamID
	}

	appt, err := h.store.CreateAppointment(c.UserContext(), store.NewAppointment{
		ClientID:       in.ClientID,
		TeamID:         teamID,
		CollectedBy:    caller.ID,
		BookingDetails: in.BookingDetails,
	})
	if err != nil {
		return err
	}
	h.log.Info().Int64("appointment_id", appt.ID).Int64("team_id", appt.TeamID).Int64("by", caller.ID).Msg("appointment created")
	return c.Status(fiber.StatusCreated).JSON(appt)
}

// GetAppointments godoc
// @Summary List the appointments visible to the caller
// @Tags appointments
// @Produce json
// @Param status query string false "pending or approved"
// @Success 200 {array} models.Appointment
// @Router /api/appointments [get]
func (h *Handler) GetAppointments(c *fiber.Ctx) error {
	var filter store.AppointmentFilter
	if status := models.AppointmentStatus(c.Query("status")); status != "" {
		if !status.Valid() {
			return apperr.InvalidInput("status must be pending or approved")
		}
		filter.Status = status
	}

	caller := middleware.Caller(c)
	switch {
	case caller.IsAdmin():
	case caller.TeamID != nil:
		filter.TeamID = *caller.TeamID
	default:
		filter.Participant = caller.ID
	}

	appointments, err := h.store.GetAppointments(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(appointments)
}

func (h *Handler) GetAppointment(c *fiber.Ctx) error {
	appt, err := h.loadAppointment(c)
	if err != nil {
		return err
	}
	return c.JSON(appt)
}

// ApproveAppointment stamps the caller as approver. An appointment is
// approved at most once.
func (h *Handler) ApproveAppointment(c *fiber.Ctx) error {
	appt, err := h.loadAppointment(c)
	if err != nil {
		return err
	}
	if appt.IsApproved() {
		return apperr.Conflict("appointment is already approved")
	}

	caller := middleware.Caller(c)
	approved := models.StatusApproved
	updated, err := h.store.UpdateAppointment(c.UserContext(), appt.ID, store.AppointmentPatch{
		Status:     &approved,
		ApprovedBy: &caller.ID,
	})
	if err != nil {
		return err
	}
	h.log.Info().Int64("appointment_id", appt.ID).Int64("by", caller.ID).Msg("appointment approved")
	return c.JSON(updated)
}

// loadAppointment resolves :id and hides appointments outside the caller's
// visibility behind NotFound.
func (h *Handler) loadAppointment(c *fiber.Ctx) (*models.Appointment, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return nil, err
	}
	appt, err := h.store.GetAppointment(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if appt == nil || !canSee(middleware.Caller(c), appt) {
		return nil, apperr.NotFound("appointment not found")
	}
	return appt, nil
}

// canSee mirrors the list filter in GetAppointments.
func canSee(caller *models.User, appt *models.Appointment) bool {
	switch {
	case caller.IsAdmin():
		return true
	case caller.TeamID != nil:
		return appt.TeamID == *caller.TeamID
	default:
		return appt.CollectedBy == caller.ID || (appt.ApprovedBy != nil && *appt.ApprovedBy == caller.ID)
	}
}
