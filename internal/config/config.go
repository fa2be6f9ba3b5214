// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file
// when one exists), loads them into structured Go types, and validates
// that required values are present so they can be reused across the
// application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults so the service runs with no environment at all.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it gets loaded into
	// the process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the prefix GUESTS_.
	Keys are lowercased with the prefix removed, and a double underscore
	marks one nesting level:

	  GUESTS_SERVER__PORT                   -> server.port
	  GUESTS_DATABASE__MAX_OPEN_CONNS       -> database.max_open_conns
	  GUESTS_OBSERVABILITY__LOGGING__LEVEL  -> observability.logging.level
*/

// EnvPrefix is the prefix every configuration variable carries.
const EnvPrefix = "GUESTS_"

// ServiceName tags logs, traces and APM data.
const ServiceName = "guests-api"

// Supported database drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config is the root configuration object for the application.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the number of requests per second allowed per client IP.
	// Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
}

// DatabaseConfig selects the datastore and tunes its connection pool.
//
// The embedded SQLite file is the default. Host/User/Password/Name only
// matter for the postgres driver.
type DatabaseConfig struct {
	Driver string `koanf:"driver" validate:"required,oneof=sqlite3 postgres"`

	// Path is the SQLite database file.
	Path string `koanf:"path" validate:"required_if=Driver sqlite3"`
	// BusyTimeout is how long (ms) a SQLite writer waits on the file lock.
	BusyTimeout int `koanf:"busy_timeout" validate:"min=0"`

	Host     string `koanf:"host" validate:"required_if=Driver postgres"`
	Port     int    `koanf:"port" validate:"required_if=Driver postgres"`
	User     string `koanf:"user" validate:"required_if=Driver postgres"`
	Password string `koanf:"password"`
	Name     string `koanf:"name" validate:"required_if=Driver postgres"`
	SSLMode  string `koanf:"ssl_mode"`

	MaxOpenConns    int `koanf:"max_open_conns" validate:"min=0"`
	MaxIdleConns    int `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int `koanf:"conn_max_lifetime" validate:"min=0"`
	ConnMaxIdleTime int `koanf:"conn_max_idle_time" validate:"min=0"`
}

// Default returns the configuration used when no environment is set:
// a local SQLite file and port 3000.
func Default() *Config {
	return &Config{
		Primary: Primary{Env: "local"},
		Server: ServerConfig{
			Port:               "3000",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Driver:          DriverSQLite,
			Path:            "guests.db",
			BusyTimeout:     5000,
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			ConnMaxIdleTime: 60,
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// envKey maps GUESTS_DATABASE__MAX_OPEN_CONNS to database.max_open_conns.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// LoadConfig loads configuration from environment variables on top of
// Default(), validates it and fills in observability defaults.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	// Keys missing from the environment keep the values set by Default().
	mainConfig := Default()
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
