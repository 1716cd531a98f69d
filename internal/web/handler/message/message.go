// Package message provides the chat endpoints of a group and its websocket stream.
package message

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/fitcircle/fitcircle/internal/auth"
	"github.com/fitcircle/fitcircle/internal/db/controller/message"
	"github.com/fitcircle/fitcircle/internal/realtime"
	"github.com/fitcircle/fitcircle/internal/web/handler"
)

const (
	// Path of the message collection.
	Path = handler.GroupPath + "/messages"
	// StreamPath upgrades to the websocket stream of the group.
	StreamPath = handler.GroupPath + "/stream"

	messagePath = Path + "/:messageID"
)

// Service provides the message routes.
type Service struct {
	env *handler.Env
}

// Handler is the exported instance.
var Handler = Service{} //nolint:gochecknoglobals

// Init registers routes.
func (s *Service) Init(env *handler.Env) error {
	s.env = env
	r := env.Router

	r.Get(Path, env.RequireUser, env.GroupReader, s.List)
	r.Get(Path+"/pinned", env.RequireUser, env.GroupReader, s.Pinned)
	r.Post(Path, env.RequireUser, s.Send)
	r.Patch(messagePath, env.RequireUser, s.Edit)
	r.Delete(messagePath, env.RequireUser, s.Delete)
	r.Post(messagePath+"/pin", env.RequireUser, s.Pin)

	r.Get(StreamPath, env.RequireUser, env.GroupReader, requireUpgrade, websocket.New(s.Stream))

	return nil
}

func requireUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return handler.Error(c, fiber.ErrUpgradeRequired)
	}

	return c.Next()
}

// List returns a window of messages in ascending order. Query parameters since and
// before are exclusive message ids, limit caps the window.
func (s *Service) List(c *fiber.Ctx) error {
	since, err := message.ParseID(c.Query("since"))
	if err != nil {
		return handler.Error(c, err)
	}

	before, err := message.ParseID(c.Query("before"))
	if err != nil {
		return handler.Error(c, err)
	}

	messages, err := message.List(s.env.Conn(c), c.Params("groupID"), message.Cursor{
		Since:  since,
		Before: before,
		Limit:  c.QueryInt("limit", message.DefaultLimit),
	})
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(messages)
}

// Pinned returns the pinned messages.
func (s *Service) Pinned(c *fiber.Ctx) error {
	messages, err := message.Pinned(s.env.Conn(c), c.Params("groupID"))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(messages)
}

// Send posts a message and publishes it to the stream.
func (s *Service) Send(c *fiber.Ctx) error {
	var in message.Input
	if err := handler.Parse(c, &in); err != nil {
		return handler.Error(c, err)
	}

	m, err := message.Send(s.env.Conn(c), c.Params("groupID"), auth.UserID(c), in)
	if err != nil {
		return handler.Error(c, err)
	}

	s.env.Publish(realtime.MessageEvent(realtime.EventMessageCreated, m))

	return c.Status(fiber.StatusCreated).JSON(m)
}

// Edit changes a message of the signed in user.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := message.ParseID(c.Params("messageID"))
	if err != nil {
		return handler.Error(c, err)
	}

	var in message.Input
	if err = handler.Parse(c, &in); err != nil {
		return handler.Error(c, err)
	}

	m, err := message.Edit(s.env.Conn(c), c.Params("groupID"), id, auth.UserID(c), in)
	if err != nil {
		return handler.Error(c, err)
	}

	s.env.Publish(realtime.MessageEvent(realtime.EventMessageUpdated, m))

	return c.JSON(m)
}

// Delete soft deletes a message, by its author or an admin.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := message.ParseID(c.Params("messageID"))
	if err != nil {
		return handler.Error(c, err)
	}

	m, err := message.Delete(s.env.Conn(c), c.Params("groupID"), id, auth.UserID(c))
	if err != nil {
		return handler.Error(c, err)
	}

	s.env.Publish(realtime.MessageEvent(realtime.EventMessageDeleted, m))

	return c.SendStatus(fiber.StatusNoContent)
}

// Pin toggles the pin of a message, admins only.
func (s *Service) Pin(c *fiber.Ctx) error {
	id, err := message.ParseID(c.Params("messageID"))
	if err != nil {
		return handler.Error(c, err)
	}

	m, err := message.Pin(s.env.Conn(c), c.Params("groupID"), id, auth.UserID(c))
	if err != nil {
		return handler.Error(c, err)
	}

	s.env.Publish(realtime.MessageEvent(realtime.EventMessagePinned, m))

	return c.JSON(m)
}
