package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/permit-desk/apperr"
	"github.com/meinhoongagan/permit-desk/middleware"
	"github.com/meinhoongagan/permit-desk/store"
	"github.com/meinhoongagan/permit-desk/utils"
)

type setPasswordInput struct {
	Password string `json:"password" validate:"required,max=128"`
}

type setTeamInput struct {
	TeamID *int64 `json:"teamId" validate:"omitempty,gt=0"`
}

// CreateUser godoc
// @Summary Create a user account
// @Tags users
// @Accept json
// @Produce json
// @Param user body store.NewUser true "User"
// @Success 201 {object} models.User
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/users [post]
func (h *Handler) CreateUser(c *fiber.Ctx) error {
	var in store.NewUser
	if err := parseBody(c, &in); err != nil {
		return err
	}
	caller := middleware.Caller(c)
	in.CreatedBy = &caller.ID

	user, err := h.store.CreateUser(c.UserContext(), in)
	if err != nil {
		return err
	}
	h.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Int64("by", caller.ID).Msg("user created")
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *Handler) GetUsers(c *fiber.Ctx) error {
	users, err := h.store.GetUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

func (h *Handler) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.store.GetUser(c.UserContext(), id)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("user not found")
	}
	return c.JSON(user)
}

// SetUserPassword lets an admin reset another account's password.
func (h *Handler) SetUserPassword(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in setPasswordInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if err := utils.Validate(in); err != nil {
		return err
	}
	ctx := c.UserContext()
	if _, err := h.store.UpdateUserPassword(ctx, id, in.Password); err != nil {
		return err
	}
	if err := h.sessions.RevokeUser(ctx, id); err != nil {
		return apperr.Internal(err, "revoking sessions")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetUserTeam moves a user into a team, or out of any team when teamId is
// null.
func (h *Handler) SetUserTeam(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in setTeamInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if err := utils.Validate(in); err != nil {
		return err
	}
	user, err := h.store.UpdateUserTeam(c.UserContext(), id, in.TeamID, middleware.Caller(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(user)
}
