package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// TokenVerifier validates a session token and returns the user id it carries.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// UserContextMiddleware extracts the authenticated user id from the Bearer
// token and attaches it for handlers. Everything behind it trusts the id;
// there is no further authorization logic downstream.
func UserContextMiddleware(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing bearer token",
			})
		}

		userID, err := verifier.VerifyToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}
