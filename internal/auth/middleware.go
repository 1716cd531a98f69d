package auth

import (
	"github.com/gofiber/fiber/v2"
)

// Locals keys set by the session and group middlewares.
const (
	LocalsUserID   = "userID"
	LocalsUsername = "username"
	LocalsAccess   = "groupAccess"
)

// UserID returns the signed in user of the request.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalsUserID).(string)
	return id
}

// GroupAccessFrom returns the access stored by RequireGroupReader.
func GroupAccessFrom(c *fiber.Ctx) Access {
	a, _ := c.Locals(LocalsAccess).(Access)
	return a
}

// RequireGroupReader loads the group named by the groupID route param and rejects
// users who may not read it. onError renders the error response.
func RequireGroupReader(s *Service, onError func(*fiber.Ctx, error) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		access, err := s.WithContext(c.UserContext()).GroupAccess(c.Params("groupID"), UserID(c))
		if err != nil {
			return onError(c, err)
		}

		c.Locals(LocalsAccess, access)

		return c.Next()
	}
}
