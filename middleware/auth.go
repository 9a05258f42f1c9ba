package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"

	"github.com/meinhoongagan/permit-desk/apperr"
	"github.com/meinhoongagan/permit-desk/auth"
	"github.com/meinhoongagan/permit-desk/models"
)

const (
	tokenKey     = "token"
	callerKey    = "caller"
	sessionIDKey = "sessionID"
)

// UserLoader resolves the stored user a token points at.
type UserLoader interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// Protected verifies the bearer token, checks that its session is still
// live and stores the current user record in Locals. Any failure is
// Unauthenticated; role checks happen later in RequirePermission.
func Protected(tokens *auth.Tokens, sessions auth.SessionStore, users UserLoader) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    tokens.Secret(),
		SigningMethod: "HS256",
		ContextKey:    tokenKey,
		ErrorHandler:  jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals(tokenKey).(*jwt.Token)
			if !ok {
				return apperr.Unauthenticated("invalid token")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return apperr.Unauthenticated("invalid token claims")
			}
			identity, err := auth.IdentityFromClaims(claims)
			if err != nil {
				return apperr.Unauthenticated("invalid token claims")
			}

			ctx := c.UserContext()
			userID, live, err := sessions.Lookup(ctx, identity.SessionID)
			if err != nil {
				return apperr.Internal(err, "checking session")
			}
			if !live || userID != identity.UserID {
				return apperr.Unauthenticated("session expired or revoked")
			}

			user, err := users.GetUser(ctx, identity.UserID)
			if err != nil {
				return err
			}
			if user == nil {
				return apperr.Unauthenticated("user no longer exists")
			}

			c.Locals(callerKey, user)
			c.Locals(sessionIDKey, identity.SessionID)
			return c.Next()
		},
	})
}

func jwtError(_ *fiber.Ctx, _ error) error {
	return apperr.Unauthenticated("missing, invalid or expired token")
}

// Caller returns the authenticated user, or nil on unprotected routes.
func Caller(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(callerKey).(*models.User)
	return user
}

func SessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals(sessionIDKey).(string)
	return sid
}
