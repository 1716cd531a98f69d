// Package daemon wires storage, sessions, the realtime hub and the web service.
package daemon

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/fitcircle/fitcircle/internal/config"
	"github.com/fitcircle/fitcircle/internal/db"
	"github.com/fitcircle/fitcircle/internal/db/dsn"
	"github.com/fitcircle/fitcircle/internal/idgen"
	"github.com/fitcircle/fitcircle/internal/realtime"
	"github.com/fitcircle/fitcircle/internal/web"
	"github.com/fitcircle/fitcircle/internal/web/session"
)

const sessionTable = "sessions"

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start serves until SIGINT or SIGTERM and shuts down gracefully.
func (d *Daemon) Start() error {
	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)

	go func() {
		log.Info().Str("addr", addr).Msg("starting web service")

		if err := d.webService.Start(addr); err != nil {
			log.Error().Err(err).Msg("web service stopped")
		}
	}()

	d.webService.WaitShutdown()

	return nil
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	if err := idgen.Configure(cfg.Realtime.MachineID); err != nil {
		return nil, errors.Wrap(err, "failed to configure message ids")
	}

	gormDB, err := db.OpenAndMigrate(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.DevMode {
		if err = seed(gormDB); err != nil {
			return nil, errors.Wrap(err, "failed to seed database")
		}
	}

	session.Init(sessionStorage(cfg))

	transport, err := realtime.NewTransport(cfg.Realtime)
	if err != nil {
		return nil, err
	}

	hub := realtime.NewHub(transport, cfg.Realtime.SubscriberBuffer)
	if err = hub.Start(); err != nil {
		return nil, errors.Wrap(err, "failed to start realtime hub")
	}

	log.Info().Str("transport", cfg.Realtime.Transport).Msg("realtime hub started")

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, gormDB, hub),
	}, nil
}

// Migrate creates or updates all tables and exits.
func Migrate(cfg *config.Config) error {
	gormDB, err := db.OpenAndMigrate(cfg)
	if err != nil {
		return err
	}

	return closeDB(gormDB)
}

// sessionStorage keeps sessions next to the data so every instance sees them.
// sqlite falls back to fiber's in-memory storage.
func sessionStorage(cfg *config.Config) fiber.Storage {
	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.PostgresURI(cfg),
			Table:         sessionTable,
		})
	case config.EngineMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.MySQL(cfg),
			Table:         sessionTable,
		})
	default:
		log.Warn().Msg("sessions are kept in memory, they are lost on restart and not shared between instances")
		return nil
	}
}

func closeDB(gormDB *gorm.DB) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get database handle")
	}

	return errors.Wrap(sqlDB.Close(), "failed to close database")
}
