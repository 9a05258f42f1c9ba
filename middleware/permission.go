package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/permit-desk/policy"
)

// RequirePermission rejects callers whose role may not run op. It must run
// after Protected.
func RequirePermission(op policy.Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := policy.Authorize(Caller(c), op); err != nil {
			return err
		}
		return c.Next()
	}
}
