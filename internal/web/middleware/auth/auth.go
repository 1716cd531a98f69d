package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fitcircle/fitcircle/internal/auth"
	"github.com/fitcircle/fitcircle/internal/config"
	"github.com/fitcircle/fitcircle/internal/web/session"
)

const bearerPrefix = "Bearer "

// SessionID returns the session id of the request, cookie first.
func SessionID(c *fiber.Ctx, cookieName string) string {
	if id := c.Cookies(cookieName); id != "" {
		return id
	}

	if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(h, bearerPrefix))
	}

	return ""
}

// New returns a middleware rejecting requests without a valid session.
func New(cfg *config.Config) fiber.Handler {
	cookieName := cfg.Webserver.Session.CookieName

	return func(c *fiber.Ctx) error {
		sessData := new(session.Data)
		if err := sessData.Read(SessionID(c, cookieName)); err != nil || sessData.UserID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
		}

		c.Locals(auth.LocalsUserID, sessData.UserID)
		c.Locals(auth.LocalsUsername, sessData.Username)

		return c.Next()
	}
}
