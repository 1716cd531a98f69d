package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/fitcircle/fitcircle/internal/auth"
	"github.com/fitcircle/fitcircle/internal/config"
	"github.com/fitcircle/fitcircle/internal/realtime"
	authmiddleware "github.com/fitcircle/fitcircle/internal/web/middleware/auth"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(env *Env) error
}

// Env is what handlers need to register routes and serve them.
type Env struct {
	Router fiber.Router
	Cfg    *config.Config
	DB     *gorm.DB
	Auth   *auth.Service
	Hub    *realtime.Hub

	// RequireUser rejects requests without a session.
	RequireUser fiber.Handler
	// GroupReader rejects users who may not read the group of the route.
	GroupReader fiber.Handler
}

// NewEnv wires the shared middlewares.
func NewEnv(router fiber.Router, cfg *config.Config, db *gorm.DB, authService *auth.Service, hub *realtime.Hub) *Env {
	return &Env{
		Router:      router,
		Cfg:         cfg,
		DB:          db,
		Auth:        authService,
		Hub:         hub,
		RequireUser: authmiddleware.New(cfg),
		GroupReader: auth.RequireGroupReader(authService, Error),
	}
}

// Conn returns a database session bound to the request context.
func (e *Env) Conn(c *fiber.Ctx) *gorm.DB {
	return e.DB.WithContext(c.UserContext())
}

// Publish sends an event to the group's subscribers. A failed publish never fails the request.
func (e *Env) Publish(ev realtime.Event) {
	if e.Hub == nil {
		return
	}

	if err := e.Hub.Publish(ev); err != nil {
		log.Warn().Err(err).Str("group_id", ev.GroupID).Str("type", string(ev.Type)).Msg("failed to publish event")
	}
}
