package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/permit-desk/apperr"
	"github.com/meinhoongagan/permit-desk/middleware"
	"github.com/meinhoongagan/permit-desk/store"
)

// CreateClient godoc
// @Summary Register a client
// @Tags clients
// @Accept json
// @Produce json
// @Param client body store.NewClient true "Client"
// @Success 201 {object} models.Client
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/clients [post]
func (h *Handler) CreateClient(c *fiber.Ctx) error {
	var in store.NewClient
	if err := parseBody(c, &in); err != nil {
		return err
	}
	in.CreatedBy = middleware.Caller(c).ID

	client, err := h.store.CreateClient(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

func (h *Handler) GetClients(c *fiber.Ctx) error {
	clients, err := h.store.GetClients(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(clients)
}

func (h *Handler) GetClient(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	client, err := h.store.GetClient(c.UserContext(), id)
	if err != nil {
		return err
	}
	if client == nil {
		return apperr.NotFound("client not found")
	}
	return c.JSON(client)
}
