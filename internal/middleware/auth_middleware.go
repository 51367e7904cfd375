package middleware

import (
	"strings"

	"carmodel-inventory/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// RequireServiceToken validates the bearer service token on the request and
// stores the calling service name in c.Locals("service"). With an empty
// secret every request passes.
func RequireServiceToken(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if len(secret) == 0 {
			return c.Next()
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(secret, parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals("service", claims.Service)
		return c.Next()
	}
}
