// Package web serves the JSON API.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/fitcircle/fitcircle/internal/auth"
	"github.com/fitcircle/fitcircle/internal/config"
	fiberlogger "github.com/fitcircle/fitcircle/internal/logger/adapter/fiber"
	"github.com/fitcircle/fitcircle/internal/realtime"
	"github.com/fitcircle/fitcircle/internal/web/handler"
	"github.com/fitcircle/fitcircle/internal/web/handler/announcement"
	"github.com/fitcircle/fitcircle/internal/web/handler/group"
	"github.com/fitcircle/fitcircle/internal/web/handler/login"
	"github.com/fitcircle/fitcircle/internal/web/handler/message"
	"github.com/fitcircle/fitcircle/internal/web/handler/moderation"
	"github.com/fitcircle/fitcircle/internal/web/handler/policy"
	"github.com/fitcircle/fitcircle/internal/web/handler/post"
	"github.com/fitcircle/fitcircle/internal/web/handler/user"
)

// MetricsPath serves the prometheus metrics.
const MetricsPath = "/metrics"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	hub          *realtime.Hub
	authService  *auth.Service
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	s.alive.Store(true)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for a signal and shuts the service down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown

	if err := s.hub.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close realtime hub")
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if err = sqlDB.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// CheckAlive answers load balancer health checks.
func (s *Service) CheckAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
	}

	return c.SendString("OK")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, hub *realtime.Hub) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	if hub == nil {
		panic("hub cannot be nil")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			ErrorHandler:   handler.ErrorHandler,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	if cfg.Webserver.CleanPath {
		app.Use(func(c *fiber.Ctx) error {
			if p := c.Path(); p != "/" {
				c.Path(path.Clean(p))
			}

			return c.Next()
		})
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: cfg.Webserver.CheckAliveURI,
	}))

	if cfg.Webserver.AllowOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Webserver.AllowOrigins,
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
			AllowCredentials: cfg.Webserver.AllowOrigins != "*",
		}))
	}

	authService := auth.NewService(db)

	service := &Service{
		cfg:          cfg,
		App:          app,
		db:           db,
		hub:          hub,
		authService:  authService,
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	app.Get(cfg.Webserver.CheckAliveURI, service.CheckAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	// init handlers (they register their own routes with permission checks)
	env := handler.NewEnv(app.Group(handler.APIPrefix), cfg, db, authService, hub)

	for _, h := range []handler.Service{
		&login.Handler,
		&user.Handler,
		&group.Handler,
		&moderation.Handler,
		&policy.Handler,
		&announcement.Handler,
		&post.Handler,
		&message.Handler,
	} {
		if err := h.Init(env); err != nil {
			log.Fatal().Err(err).Msg(handler.ErrNilACDFatalLogMsg)
		}
	}

	app.Use(func(c *fiber.Ctx) error {
		return handler.Error(c, fiber.ErrNotFound)
	})

	return service
}
