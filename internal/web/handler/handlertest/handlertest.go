// Package handlertest runs API handlers against an in-memory database for tests.
package handlertest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fitcircle/fitcircle/internal/auth"
	"github.com/fitcircle/fitcircle/internal/config"
	"github.com/fitcircle/fitcircle/internal/db/dbtest"
	"github.com/fitcircle/fitcircle/internal/db/models"
	"github.com/fitcircle/fitcircle/internal/idgen"
	"github.com/fitcircle/fitcircle/internal/realtime"
	"github.com/fitcircle/fitcircle/internal/web/handler"
	"github.com/fitcircle/fitcircle/internal/web/session"
)

// Harness is a fiber app with the given handlers mounted under the API prefix.
type Harness struct {
	App *fiber.App
	Env *handler.Env
	DB  *gorm.DB
	Hub *realtime.Hub
}

// Config returns the settings used by the harness.
func Config() *config.Config {
	return &config.Config{
		DevMode: true,
		Webserver: config.Webserver{
			Port: 8080,
			URL:  "http://localhost:8080",
			Session: config.Session{
				ExpiryTime: time.Hour,
				CookieName: "session",
			},
		},
		Realtime: config.Realtime{Transport: "memory", SubscriberBuffer: 16, ReplayLimit: 50},
		Feed:     config.Feed{DefaultPageSize: 20, MaxPageSize: 100},
	}
}

// New mounts services on a fresh app and database.
func New(t *testing.T, services ...handler.Service) *Harness {
	t.Helper()

	require.NoError(t, idgen.Configure(1))
	session.Init(nil)

	db := dbtest.New(t)
	cfg := Config()

	hub := realtime.NewHub(realtime.NewMemoryTransport(), cfg.Realtime.SubscriberBuffer)
	require.NoError(t, hub.Start())
	t.Cleanup(func() { _ = hub.Close() })

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler})
	env := handler.NewEnv(app.Group(handler.APIPrefix), cfg, db, auth.NewService(db), hub)

	for _, s := range services {
		require.NoError(t, s.Init(env))
	}

	return &Harness{App: app, Env: env, DB: db, Hub: hub}
}

// Login opens a session for user and returns its token.
func (h *Harness) Login(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := session.GenerateSessionID()
	require.NoError(t, err)
	require.NoError(t, (&session.Data{UserID: user.ID, Username: user.Username}).Write(token, time.Hour))

	return token
}

// Do sends a request to path below the API prefix. body is encoded as JSON when not nil.
func (h *Harness) Do(t *testing.T, method, path string, body any, token string) (int, []byte) {
	t.Helper()

	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)

		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, handler.APIPrefix+path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := h.App.Test(req, -1)
	require.NoError(t, err)

	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, out
}

// Decode unmarshals a response body.
func Decode[T any](t *testing.T, body []byte) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(body, &out), string(body))

	return out
}

// ErrorMessage returns the error field of an error response.
func ErrorMessage(t *testing.T, body []byte) string {
	t.Helper()

	return Decode[handler.ErrorBody](t, body).Error
}
