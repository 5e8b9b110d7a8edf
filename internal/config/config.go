// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string `envconfig:"PORT" default:"8080"`

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`

	// MaxBodyBytes caps the size of incoming request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64 `envconfig:"MAX_BODY_BYTES" default:"1048576"`
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error naming any required variable that is not set.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	return cfg, nil
}
