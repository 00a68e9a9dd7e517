// middleware/auth.go
package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware extracts the user identity set by the Gateway.
// Applied to routes under /s/; for safety the prefix is re-checked here.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		email := c.Get("X-User-Email")
		emailVerifiedStr := c.Get("X-Email-Verified")

		path := c.Path()
		isSecured := strings.HasPrefix(path, "/s/")
		if isSecured && userID == "" {
			log.Printf("❌ [USER_CTX] X-User-ID required but missing on secured route: %s", path)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through gateway with auth context",
			})
		}

		emailVerified := strings.ToLower(emailVerifiedStr) == "true"

		// Attach to ctx for handlers
		c.Locals("user_id", userID)
		c.Locals("user_email", email)
		c.Locals("email_verified", emailVerified)

		return c.Next()
	}
}
