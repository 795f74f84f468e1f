// Package config loads process configuration from the environment. Every
// variable carries the PLANGATE_ prefix; main fails fast on malformed
// values instead of limping along with defaults it cannot honor.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full process configuration.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	JWT      JWTConfig
}

// ServerConfig captures HTTP server level configuration.
type ServerConfig struct {
	Addr            string        `envconfig:"ADDR" default:":8080"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"json"`
}

// PostgresConfig configures the relational store. An empty DSN selects the
// in-memory adapters.
type PostgresConfig struct {
	DSN             string        `envconfig:"DSN"`
	MaxOpenConns    int           `envconfig:"MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFETIME" default:"30m"`
}

// RedisConfig configures the usage meter backend. An empty URL selects the
// in-memory meter.
type RedisConfig struct {
	URL          string        `envconfig:"URL"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

// JWTConfig configures access token verification.
type JWTConfig struct {
	SigningKey string        `envconfig:"SIGNING_KEY" default:"dev-secret-key-change-in-production"`
	Issuer     string        `envconfig:"ISSUER" default:"plangate"`
	Audience   string        `envconfig:"AUDIENCE" default:"plangate"`
	AccessTTL  time.Duration `envconfig:"ACCESS_TTL" default:"15m"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	sections := map[string]any{
		"PLANGATE_SERVER":   &cfg.Server,
		"PLANGATE_LOG":      &cfg.Log,
		"PLANGATE_POSTGRES": &cfg.Postgres,
		"PLANGATE_REDIS":    &cfg.Redis,
		"PLANGATE_JWT":      &cfg.JWT,
	}
	for prefix, section := range sections {
		if err := envconfig.Process(prefix, section); err != nil {
			return nil, fmt.Errorf("load %s config: %w", prefix, err)
		}
	}
	return &cfg, nil
}
