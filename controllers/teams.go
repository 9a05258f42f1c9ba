package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/permit-desk/apperr"
	"github.com/meinhoongagan/permit-desk/middleware"
	"github.com/meinhoongagan/permit-desk/models"
	"github.com/meinhoongagan/permit-desk/store"
	"github.com/meinhoongagan/permit-desk/utils"
)

type addMemberInput struct {
	UserID int64 `json:"userId" validate:"required,gt=0"`
}

func (h *Handler) CreateTeam(c *fiber.Ctx) error {
	var in store.NewTeam
	if err := parseBody(c, &in); err != nil {
		return err
	}
	in.CreatedBy = middleware.Caller(c).ID

	team, err := h.store.CreateTeam(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(team)
}

func (h *Handler) GetTeams(c *fiber.Ctx) error {
	teams, err := h.store.GetTeams(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(teams)
}

func (h *Handler) GetTeam(c *fiber.Ctx) error {
	team, err := h.loadTeam(c)
	if err != nil {
		return err
	}
	return c.JSON(team)
}

// GetTeamMembers returns the team's membership history, including users who
// have since left.
func (h *Handler) GetTeamMembers(c *fiber.Ctx) error {
	team, err := h.loadTeam(c)
	if err != nil {
		return err
	}
	members, err := h.store.GetTeamMembers(c.UserContext(), team.ID)
	if err != nil {
		return err
	}
	return c.JSON(members)
}

func (h *Handler) AddTeamMember(c *fiber.Ctx) error {
	teamID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in addMemberInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if err := utils.Validate(in); err != nil {
		return err
	}
	user, err := h.store.AddTeamMember(c.UserContext(), teamID, in.UserID, middleware.Caller(c).ID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *Handler) RemoveTeamMember(c *fiber.Ctx) error {
	teamID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	if _, err := h.store.RemoveTeamMember(c.UserContext(), teamID, userID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) loadTeam(c *fiber.Ctx) (*models.Team, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return nil, err
	}
	team, err := h.store.GetTeam(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, apperr.NotFound("team not found")
	}
	return team, nil
}
