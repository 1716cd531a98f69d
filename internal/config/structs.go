package config

import (
	"time"

	"github.com/fitcircle/fitcircle/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration // lifetime of a login session
	CookieName string        // name of the session cookie, the token is also accepted as bearer
	Secure     bool          // mark the session cookie secure
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Realtime  Realtime
	Feed      Feed
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath      bool    // use clean path middleware to allow multi slash requests
	DisableRecover bool    // disable recover middleware
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	AllowOrigins   string  // comma separated list of CORS origins
	CheckAliveURI  string  // path answering load balancer health checks
	Session        Session // session settings
}

// Realtime holds the settings of the group message stream.
type Realtime struct {
	Transport        string // memory or redis
	SubscriberBuffer int    // events buffered per subscriber before it is dropped
	ReplayLimit      int    // max stored messages replayed to a reconnecting subscriber
	MachineID        uint16 // sonyflake machine id, must be unique per running instance
	Redis            Redis
}

// Redis holds the connection settings of the redis transport.
type Redis struct {
	Addr          string
	Password      string
	DB            int
	ChannelPrefix string
}

// Feed holds pagination limits of the group feed and listings.
type Feed struct {
	DefaultPageSize int
	MaxPageSize     int
}
