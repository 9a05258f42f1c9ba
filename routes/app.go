package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/meinhoongagan/permit-desk/controllers"
	"github.com/meinhoongagan/permit-desk/middleware"
	"github.com/meinhoongagan/permit-desk/utils"
)

// AppOptions configures the fiber app around the API routes.
type AppOptions struct {
	Log         zerolog.Logger
	CORSOrigins string
	// BodyLimit caps request bodies; it must leave room for the largest PDF.
	BodyLimit int
}

// NewApp builds the fiber app with the shared middleware stack and all
// routes mounted.
func NewApp(h *controllers.Handler, g Guards, opts AppOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "permit-desk",
		BodyLimit:             opts.BodyLimit,
		ErrorHandler:          utils.ErrorHandler(opts.Log),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(opts.Log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.CORSOrigins,
	}))

	Setup(app, h, g)
	return app
}
