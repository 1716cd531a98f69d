package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcircle/fitcircle/internal/db/dbtest"
	"github.com/fitcircle/fitcircle/internal/realtime"
	"github.com/fitcircle/fitcircle/internal/web/handler/handlertest"
	"github.com/fitcircle/fitcircle/internal/web/session"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	session.Init(nil)

	cfg := handlertest.Config()
	cfg.Webserver.CheckAliveURI = "/checkalive"

	hub := realtime.NewHub(realtime.NewMemoryTransport(), 4)
	require.NoError(t, hub.Start())
	t.Cleanup(func() { _ = hub.Close() })

	return New(cfg, dbtest.New(t), hub)
}

func get(t *testing.T, s *Service, target string) (int, string) {
	t.Helper()

	resp, err := s.App.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body)
}

func TestCheckAlive(t *testing.T) {
	s := newTestService(t)

	status, body := get(t, s, "/checkalive")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", body)

	s.alive.Store(false)

	status, _ = get(t, s, "/checkalive")
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestRoutes(t *testing.T) {
	s := newTestService(t)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		contains   string
	}{
		{name: "metrics", target: "/metrics", wantStatus: http.StatusOK, contains: "go_goroutines"},
		{name: "api needs a session", target: "/api/v1/groups", wantStatus: http.StatusUnauthorized, contains: "error"},
		{name: "unknown route", target: "/nope", wantStatus: http.StatusNotFound, contains: `"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, s, tt.target)
			assert.Equal(t, tt.wantStatus, status)
			assert.Contains(t, body, tt.contains)
		})
	}
}
