package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"geotab-reformatter/internal/config"
)

const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "reformatter_session"
)

// Session resolves the operator session from the X-Session-ID header or the session
// cookie, minting a new id when neither is present. The id is echoed back on both.
func Session(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(SessionHeader)
		if id == "" {
			id = c.Cookies(SessionCookie)
		}
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Locals("session_id", id)
		c.Set(SessionHeader, id)
		c.Cookie(&fiber.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			Expires:  time.Now().Add(cfg.SessionTTL),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})

		return c.Next()
	}
}

// SessionID returns the id stored by Session
func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals("session_id").(string)
	return id
}
