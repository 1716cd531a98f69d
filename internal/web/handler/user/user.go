// Package user provides the account endpoints: registration and the current user.
package user

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fitcircle/fitcircle/internal/auth"
	"github.com/fitcircle/fitcircle/internal/web/handler"
)

const (
	// Path is the base path for registration.
	Path = handler.RootPath + "users"
	// MePath returns the signed in user.
	MePath = handler.RootPath + "me"
)

// Service provides the account routes.
type Service struct {
	env *handler.Env
}

// Handler is the exported instance.
var Handler = Service{} //nolint:gochecknoglobals

// Init registers routes.
func (s *Service) Init(env *handler.Env) error {
	s.env = env

	env.Router.Post(Path, s.Create)
	env.Router.Get(MePath, env.RequireUser, s.Me)

	return nil
}

// Create registers a new local account.
func (s *Service) Create(c *fiber.Ctx) error {
	var in auth.Registration
	if err := handler.Parse(c, &in); err != nil {
		return handler.Error(c, err)
	}

	user, err := s.env.Auth.WithContext(c.UserContext()).Register(in)
	if err != nil {
		return handler.Error(c, err)
	}

	log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Me returns the signed in user.
func (s *Service) Me(c *fiber.Ctx) error {
	user, err := s.env.Auth.WithContext(c.UserContext()).User(auth.UserID(c))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(user)
}
