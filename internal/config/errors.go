package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrUnknownGormEngine error if config db.gormengine names an unsupported engine.
	ErrUnknownGormEngine = errors.New("config db.gormengine must be one of postgres, mysql, sqlite")

	// ErrUnknownTransport error if config realtime.transport names an unsupported transport.
	ErrUnknownTransport = errors.New("config realtime.transport must be memory or redis")

	// ErrEmptyRedisAddr error if the redis transport is selected without an address.
	ErrEmptyRedisAddr = errors.New("config realtime.redis.addr can not be empty for the redis transport")
)
