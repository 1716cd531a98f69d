// Package logger configures the global zerolog logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logDirPerm = 0o750

// LevelWriter routes events by level: debug and info go to Out,
// everything else (trace, warn, error and up) goes to Err.
type LevelWriter struct {
	Out io.Writer
	Err io.Writer
}

// Write implements io.Writer for events without level information.
func (lw *LevelWriter) Write(p []byte) (int, error) {
	return lw.Out.Write(p) //nolint:wrapcheck
}

// WriteLevel implements zerolog.LevelWriter.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	switch l {
	case zerolog.Disabled:
		return 0, nil
	case zerolog.DebugLevel, zerolog.InfoLevel, zerolog.NoLevel:
		return lw.Out.Write(p) //nolint:wrapcheck
	default:
		return lw.Err.Write(p) //nolint:wrapcheck
	}
}

// Init the zerolog logger.
// Without Console or File enabled nothing is written at all.
func Init(cfg Log) error {
	var (
		logLevel, err = zerolog.ParseLevel(cfg.LogLevel)
		writers       []io.Writer
	)

	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("loglevel %s is not supported", cfg.LogLevel))
	}

	if cfg.ServiceName == "" {
		return ErrServiceNameIsEmpty
	}

	if cfg.AppName == "" {
		return ErrAppNameIsEmpty
	}

	zerolog.ErrorHandler = ErrorHandler //nolint:reassign
	zerolog.SetGlobalLevel(logLevel)

	stack := logLevel == zerolog.TraceLevel
	if stack {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
	}

	if cfg.Console.Enabled {
		writers = append(writers, NewConsoleWriter(cfg))
	}

	if cfg.File.Enabled {
		fw, errFile := newRollingInfoErrorFile(cfg)
		if errFile != nil {
			return errFile
		}

		writers = append(writers, fw)
	}

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Hook(NewPrometheusHook(cfg.ServiceName)).
		With().
		Timestamp().
		Str("app", cfg.AppName)

	if stack {
		ctx = ctx.Stack()
	}

	if cfg.ReportCaller {
		ctx = ctx.Caller()
	}

	log.Logger = ctx.Logger()

	return nil
}

// newRollingInfoErrorFile writes info and error streams to separate lumberjack files.
func newRollingInfoErrorFile(cfg Log) (io.Writer, error) {
	if err := os.MkdirAll(cfg.File.Path, logDirPerm); err != nil {
		return nil, errors.Wrap(err, "can't create log directory "+cfg.File.Path)
	}

	return &LevelWriter{
		Out: &lumberjack.Logger{
			Filename:   path.Join(cfg.File.Path, cfg.File.InfoLog),
			MaxSize:    cfg.File.InfoMaxSize,
			MaxAge:     cfg.File.InfoMaxAge,
			MaxBackups: cfg.File.InfoMaxBackups,
		},
		Err: &lumberjack.Logger{
			Filename:   path.Join(cfg.File.Path, cfg.File.ErrorLog),
			MaxSize:    cfg.File.ErrorMaxSize,
			MaxAge:     cfg.File.ErrorMaxAge,
			MaxBackups: cfg.File.ErrorMaxBackups,
		},
	}, nil
}

// NewConsoleWriter splits stdout and stderr, optionally in zerolog's human readable format.
func NewConsoleWriter(cfg Log) io.Writer {
	lw := &LevelWriter{Out: os.Stdout, Err: os.Stderr}

	if cfg.Console.UseConsoleWriter {
		lw.Out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: zerolog.TimeFieldFormat}
		lw.Err = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: zerolog.TimeFieldFormat}
	}

	return lw
}
