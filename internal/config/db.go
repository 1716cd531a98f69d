package config

// Supported gorm engines.
const (
	EnginePostgres = "postgres"
	EngineMySQL    = "mysql"
	EngineSQLite   = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Extras       string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string // database name, file path for sqlite
	GormEngine   string // postgres, mysql or sqlite
	MaxOpenConns int
	MaxIdleConns int
}
