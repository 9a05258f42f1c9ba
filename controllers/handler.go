package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/meinhoongagan/permit-desk/apperr"
	"github.com/meinhoongagan/permit-desk/auth"
	"github.com/meinhoongagan/permit-desk/blob"
	"github.com/meinhoongagan/permit-desk/store"
	"github.com/meinhoongagan/permit-desk/utils"
)

// Deps is everything the handlers need. All fields are required.
type Deps struct {
	Store       *store.Storage
	Blobs       blob.Store
	Gate        *auth.Gate
	Tokens      *auth.Tokens
	Sessions    auth.SessionStore
	Log         zerolog.Logger
	MaxPdfBytes int64
}

// Handler serves the HTTP API on top of the entity and blob stores.
type Handler struct {
	store       *store.Storage
	blobs       blob.Store
	gate        *auth.Gate
	tokens      *auth.Tokens
	sessions    auth.SessionStore
	log         zerolog.Logger
	maxPdfBytes int64
}

func New(d Deps) *Handler {
	return &Handler{
		store:       d.Store,
		blobs:       d.Blobs,
		gate:        d.Gate,
		tokens:      d.Tokens,
		sessions:    d.Sessions,
		log:         d.Log,
		maxPdfBytes: d.MaxPdfBytes,
	}
}

// parseBody decodes the JSON body into v.
func parseBody(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return apperr.Wrap(apperr.CodeInvalidInput, err, "cannot parse JSON")
	}
	return nil
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	return utils.ParseID(c.Params(name), name)
}
