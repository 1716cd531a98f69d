// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvConfigJSON names the environment variable holding a JSON config override.
	EnvConfigJSON = "FITCIRCLE_CONFIG_JSON"

	// MainConfigFile is the file name read from the config directory.
	MainConfigFile = "main.toml"

	defaultShutDownTime     = 5
	defaultSessionExpiry    = 7 * 24 * time.Hour
	defaultSessionCookie    = "session"
	defaultCheckAliveURI    = "/checkalive"
	defaultSubscriberBuffer = 64
	defaultReplayLimit      = 200
	defaultPageSize         = 20
	defaultMaxPageSize      = 100
)

// ReadConfig from config directory.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(path, MainConfigFile))
	v.SetConfigType("toml")

	if err = v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err = v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode "+EnvConfigJSON)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate rejects unusable settings and fills defaults for the optional ones.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case "":
		c.DB.GormEngine = EngineSQLite
	case EnginePostgres, EngineMySQL, EngineSQLite:
	default:
		return errors.Wrap(ErrUnknownGormEngine, invalidErrMessage)
	}

	switch c.Realtime.Transport {
	case "":
		c.Realtime.Transport = "memory"
	case "memory":
	case "redis":
		if c.Realtime.Redis.Addr == "" {
			return errors.Wrap(ErrEmptyRedisAddr, invalidErrMessage)
		}
	default:
		return errors.Wrap(ErrUnknownTransport, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.CheckAliveURI == "" {
		c.Webserver.CheckAliveURI = defaultCheckAliveURI
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = defaultSessionExpiry
	}

	if c.Webserver.Session.CookieName == "" {
		c.Webserver.Session.CookieName = defaultSessionCookie
	}

	if c.Realtime.SubscriberBuffer <= 0 {
		c.Realtime.SubscriberBuffer = defaultSubscriberBuffer
	}

	if c.Realtime.ReplayLimit <= 0 {
		c.Realtime.ReplayLimit = defaultReplayLimit
	}

	if c.Realtime.MachineID == 0 {
		c.Realtime.MachineID = 1
	}

	if c.Feed.MaxPageSize <= 0 {
		c.Feed.MaxPageSize = defaultMaxPageSize
	}

	if c.Feed.DefaultPageSize <= 0 || c.Feed.DefaultPageSize > c.Feed.MaxPageSize {
		c.Feed.DefaultPageSize = min(defaultPageSize, c.Feed.MaxPageSize)
	}

	return nil
}
