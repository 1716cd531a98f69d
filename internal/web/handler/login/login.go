package login

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fitcircle/fitcircle/internal/auth"
	"github.com/fitcircle/fitcircle/internal/db/models"
	"github.com/fitcircle/fitcircle/internal/web/handler"
	authmiddleware "github.com/fitcircle/fitcircle/internal/web/middleware/auth"
	"github.com/fitcircle/fitcircle/internal/web/session"
)

const (
	// Path is the path of the session resource.
	Path = handler.RootPath + "session"
)

// Service is the login handler service.
type Service struct {
	env *handler.Env
}

// Handler is the login handler.
var Handler = Service{} //nolint:gochecknoglobals

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Response is returned after a successful login. Token is the session id,
// usable as bearer token by clients without cookies.
type Response struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// Init registers the session routes.
func (s *Service) Init(env *handler.Env) error {
	s.env = env

	env.Router.Post(Path, s.Post)
	env.Router.Delete(Path, s.Delete)

	return nil
}

// Post authenticates the user and opens a session.
func (s *Service) Post(c *fiber.Ctx) error {
	var in Credentials
	if err := c.BodyParser(&in); err != nil {
		return handler.Error(c, handler.ErrInvalidBody)
	}

	if in.Username == "" || in.Password == "" {
		return handler.Error(c, ErrMissingCredentials)
	}

	user, err := s.env.Auth.WithContext(c.UserContext()).Authenticate(in.Username, in.Password)
	if err != nil {
		log.Info().Str("username", in.Username).Err(err).Msg("login failed")

		if errors.Is(err, auth.ErrInvalidCredentials) {
			return handler.Error(c, fiber.NewError(fiber.StatusUnauthorized, err.Error()))
		}

		return handler.Error(c, err)
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		return handler.Error(c, err)
	}

	expiry := s.env.Cfg.Webserver.Session.ExpiryTime

	userSession := &session.Data{UserID: user.ID, Username: user.Username}
	if err = userSession.Write(sessionID, expiry); err != nil {
		return handler.Error(c, err)
	}

	c.Cookie(s.cookie(sessionID, int(expiry.Seconds())))

	log.Info().Str("user_id", user.ID).Msg("user logged in")

	return c.Status(fiber.StatusCreated).JSON(Response{
		Token:     sessionID,
		ExpiresAt: time.Now().UTC().Add(expiry),
		User:      user,
	})
}

// Delete closes the session of the request, if any.
func (s *Service) Delete(c *fiber.Ctx) error {
	if sessionID := authmiddleware.SessionID(c, s.env.Cfg.Webserver.Session.CookieName); sessionID != "" {
		if err := session.Delete(sessionID); err != nil {
			log.Error().Err(err).Msg("failed to delete session")
		}
	}

	c.Cookie(s.cookie("", -1))

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Service) cookie(value string, maxAge int) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     s.env.Cfg.Webserver.Session.CookieName,
		Value:    value,
		MaxAge:   maxAge,
		Secure:   s.env.Cfg.Webserver.Session.Secure && !s.env.Cfg.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
