// Package announcement provides the announcement endpoints of a group.
package announcement

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fitcircle/fitcircle/internal/auth"
	"github.com/fitcircle/fitcircle/internal/db/controller/announcement"
	"github.com/fitcircle/fitcircle/internal/realtime"
	"github.com/fitcircle/fitcircle/internal/web/handler"
)

// Path of the announcement collection.
const Path = handler.GroupPath + "/announcements"

// Service provides the announcement routes.
type Service struct {
	env *handler.Env
}

// Handler is the exported instance.
var Handler = Service{} //nolint:gochecknoglobals

// Init registers routes.
func (s *Service) Init(env *handler.Env) error {
	s.env = env

	env.Router.Get(Path, env.RequireUser, env.GroupReader, s.List)
	env.Router.Post(Path, env.RequireUser, s.Create)
	env.Router.Delete(Path+"/:id", env.RequireUser, s.Delete)

	return nil
}

// List returns announcements, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	items, err := announcement.List(s.env.Conn(c), c.Params("groupID"))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(items)
}

// Create publishes an announcement, admins only.
func (s *Service) Create(c *fiber.Ctx) error {
	var in announcement.Input
	if err := handler.Parse(c, &in); err != nil {
		return handler.Error(c, err)
	}

	a, err := announcement.Create(s.env.Conn(c), c.Params("groupID"), auth.UserID(c), in)
	if err != nil {
		return handler.Error(c, err)
	}

	s.env.Publish(realtime.GroupEvent(realtime.EventAnnouncement, a.GroupID, a.ID))

	return c.Status(fiber.StatusCreated).JSON(a)
}

// Delete removes an announcement, admins only.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := announcement.Delete(s.env.Conn(c), c.Params("groupID"), c.Params("id"), auth.UserID(c)); err != nil {
		return handler.Error(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
