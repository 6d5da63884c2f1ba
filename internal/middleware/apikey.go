package middleware

import (
	"crypto/subtle"
	"log"

	"github.com/gofiber/fiber/v2"
)

// RequireAPIKey validates the shared-secret header before any handler side
// effect runs. An unauthorized request performs no persistence writes and no
// provider call.
func RequireAPIKey(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		provided := c.Get("x-api-key")
		if provided == "" ||
			subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			log.Printf("⛔ Access denied: invalid or missing API key from %s", c.IP())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized: Invalid or missing 'x-api-key' header.",
			})
		}
		return c.Next()
	}
}
