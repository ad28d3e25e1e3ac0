package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// APIKeyMiddleware validates requests against a single bcrypt-hashed
// API key. The key is read from Authorization (Bearer or plain) or the
// x-api-key header.
func APIKeyMiddleware(keyHash string, logger zerolog.Logger) fiber.Handler {
	authLogger := logger.With().Str("component", "auth").Logger()

	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing API key",
			})
		}

		if bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(token)) != nil {
			authLogger.Warn().
				Str("ip", c.IP()).
				Str("path", c.Path()).
				Msg("Rejected request with invalid API key")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid API key",
			})
		}

		return c.Next()
	}
}

// extractToken checks in order: Authorization Bearer, Authorization plain, x-api-key.
func extractToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		if strings.HasPrefix(authHeader, "Bearer ") {
			return strings.TrimPrefix(authHeader, "Bearer ")
		}
		return authHeader
	}
	return c.Get("x-api-key")
}
