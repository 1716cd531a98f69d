package fiber_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/fitcircle/fitcircle/internal/logger/adapter/fiber"

	"github.com/fitcircle/fitcircle/internal/logger"
)

type accessLine struct {
	IP     string `json:"IP"`
	Status int    `json:"status"`
	URI    string `json:"URI"`
	Method string `json:"method"`
	Host   string `json:"host"`
	UserID string `json:"user_id"`
	Error  string `json:"error"`
}

func newTestApp(cfg adapter.Config) *fiber.App {
	app := fiber.New(fiber.Config{CaseSensitive: true, Immutable: true})
	app.Use(adapter.New(cfg))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("hello test")
	})
	app.Get("/checkalive", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/me", func(c *fiber.Ctx) error {
		c.Locals("userID", "u-1")
		return c.SendString("me")
	})
	app.Get("/fail", func(_ *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	return app
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		targetPath string
		cfg        logger.Log
		want       *accessLine
	}{
		{
			name:       "get / logs json",
			targetPath: "/",
			want:       &accessLine{IP: "0.0.0.0", Status: 200, URI: "/", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:       "unknown path keeps raw uri with query",
			targetPath: "/unknown?x=1",
			want: &accessLine{
				IP: "0.0.0.0", Status: 404, URI: "/unknown?x=1", Method: fiber.MethodGet, Host: "example.com",
				Error: "Cannot GET",
			},
		},
		{
			name:       "handler error is logged with its status",
			targetPath: "/fail",
			want: &accessLine{
				IP: "0.0.0.0", Status: fiber.StatusTeapot, URI: "/fail", Method: fiber.MethodGet,
				Host: "example.com", Error: "short and stout",
			},
		},
		{
			name:       "session user is logged",
			targetPath: "/me",
			want: &accessLine{
				IP: "0.0.0.0", Status: 200, URI: "/me", Method: fiber.MethodGet, Host: "example.com", UserID: "u-1",
			},
		},
		{
			name:       "checkalive skipped",
			targetPath: "/checkalive",
			cfg:        logger.Log{DisableCheckAlive: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			app := newTestApp(adapter.Config{Config: tt.cfg, CheckAliveURI: "/checkalive", Output: &out})

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tt.targetPath, nil), -1)
			require.NoError(t, err)
			assert.NotEmpty(t, resp.Header.Get(adapter.HeaderPerformance))

			if tt.want == nil {
				assert.Empty(t, out.String())
				return
			}

			var got accessLine
			require.NoError(t, json.Unmarshal(out.Bytes(), &got))
			assert.Contains(t, got.Error, tt.want.Error)

			got.Error = tt.want.Error
			assert.Equal(t, *tt.want, got)
		})
	}
}
