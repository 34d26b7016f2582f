package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"geotab-reformatter/internal/config"
	"geotab-reformatter/internal/utils"
)

// AuthMiddleware checks the bearer token the add-in host forwards. With no JWT_SECRET
// configured every request passes.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.JWTSecret == "" {
			return c.Next()
		}

		// Get Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Authorization header is required", nil)
		}

		// Check Bearer prefix
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid authorization header format", nil)
		}

		token := parts[1]

		// Development mode: accept dev tokens
		if cfg.IsDevelopment() && strings.HasPrefix(token, "dev-token-") {
			c.Locals("username", "developer")
			c.Locals("database", "")
			return c.Next()
		}

		claims, err := utils.ValidateToken(token, cfg.JWTSecret)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid or expired token", err)
		}

		c.Locals("username", claims.UserName)
		c.Locals("database", claims.Database)

		return c.Next()
	}
}

// ExposeErrors lets ErrorResponse include the underlying error text outside production
func ExposeErrors(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.IsDevelopment() {
			c.Locals("expose_errors", true)
		}
		return c.Next()
	}
}
