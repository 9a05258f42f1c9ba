package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/permit-desk/apperr"
	"github.com/meinhoongagan/permit-desk/auth"
	"github.com/meinhoongagan/permit-desk/middleware"
	"github.com/meinhoongagan/permit-desk/models"
	"github.com/meinhoongagan/permit-desk/utils"
)

type loginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

type changePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=1,max=128"`
}

// Login godoc
// @Summary Exchange credentials for an access token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} loginResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/auth/login [post]
func (h *Handler) Login(c *fiber.Ctx) error {
	var in loginInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if err := utils.Validate(in); err != nil {
		return err
	}

	ctx := c.UserContext()
	user, err := h.gate.VerifyCredentials(ctx, in.Username, in.Password)
	if err != nil {
		h.log.Info().Str("username", in.Username).Str("ip", c.IP()).Msg("login failed")
		return err
	}

	sid := auth.NewSessionID()
	token, exp, err := h.tokens.Issue(user, sid)
	if err != nil {
		return apperr.Internal(err, "issuing token")
	}
	if err := h.sessions.Create(ctx, sid, user.ID, h.tokens.TTL()); err != nil {
		return apperr.Internal(err, "creating session")
	}

	h.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("login")
	return c.JSON(loginResponse{Token: token, ExpiresAt: exp, User: user})
}

// Logout revokes the session behind the presented token.
func (h *Handler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Revoke(c.UserContext(), middleware.SessionID(c)); err != nil {
		return apperr.Internal(err, "revoking session")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) Me(c *fiber.Ctx) error {
	return c.JSON(middleware.Caller(c))
}

// ChangeOwnPassword requires the current password even though the caller
// already holds a valid token.
func (h *Handler) ChangeOwnPassword(c *fiber.Ctx) error {
	var in changePasswordInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if err := utils.Validate(in); err != nil {
		return err
	}

	caller := middleware.Caller(c)
	ok, err := auth.CheckPassword(caller.Password, in.CurrentPassword)
	if err != nil {
		return apperr.Internal(err, "checking password")
	}
	if !ok {
		return apperr.InvalidInput("current password is incorrect")
	}

	if _, err := h.store.UpdateUserPassword(c.UserContext(), caller.ID, in.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
