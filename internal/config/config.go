// Package config manages environment variables.
//
// It reads variables from the `.env` file,
// loads them into structured Go types (struct), and
// validates that required values are present so they
// can be reused across the application runtime.
//
// Responsibilities:
//   - Load defaults, then environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (e.g. observability).
package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

/*
	Key idea in this file:
	- Defaults are loaded first from an in-code map (confmap provider).
	- Env vars are read using a prefix: DATASTORES_
	- Keys are normalized (lowercased, prefix removed)
	- Nested struct fields are mapped via "dot notation" using the "." delimiter
	  e.g. DATASTORES_DATABASE.HOST -> database.host -> Config.Database.Host
*/

// EnvPrefix is the prefix every recognized environment variable carries.
const EnvPrefix = "DATASTORES_"

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Mongo         MongoConfig          `koanf:"mongo" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are stored in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
	RateLimit          float64  `koanf:"rate_limit" validate:"min=0"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
//
// MaintenanceName is the database used to check for / create Name
// (usually "postgres").
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	MaintenanceName string `koanf:"maintenance_name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details.
// Address is "host:port".
type RedisConfig struct {
	Address  string `koanf:"address" validate:"required"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db" validate:"min=0"`
}

// MongoConfig points at the document store used by the document exercises.
type MongoConfig struct {
	URI        string `koanf:"uri" validate:"required"`
	Database   string `koanf:"database" validate:"required"`
	Collection string `koanf:"collection" validate:"required"`
}

// defaults mirrors the connection settings of a local docker setup.
var defaults = map[string]any{
	"primary.env": "local",

	"server.port":                 "8080",
	"server.read_timeout":         30,
	"server.write_timeout":        30,
	"server.idle_timeout":         60,
	"server.cors_allowed_origins": []string{"*"},
	"server.rate_limit":           20.0,

	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "pwd",
	"database.name":               "test",
	"database.maintenance_name":   "postgres",
	"database.ssl_mode":           "disable",
	"database.max_open_conns":     10,
	"database.max_idle_conns":     2,
	"database.conn_max_lifetime":  300,
	"database.conn_max_idle_time": 60,

	"redis.address": "localhost:6379",
	"redis.db":      0,

	"mongo.uri":        "mongodb://localhost:27017",
	"mongo.database":   "simple_db",
	"mongo.collection": "users",
}

// LoadConfig loads configuration from defaults and environment variables,
// unmarshals it into Config, validates it and applies observability defaults.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, errors.Wrap(err, "could not load config defaults")
	}

	// DATASTORES_DATABASE.HOST -> "database.host"
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not load env variables")
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal main config")
	}

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name is fixed; environment always follows primary.env.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid observability config")
	}

	return mainConfig, nil
}
