// Package config loads and validates the TOML configuration file
// SPEC_FULL.md §4.11's eventlined binary reads at startup, covering the
// HTTP server, the driver's per-run defaults, the ephemeris fetch
// policy, and logging.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
)

// Config is the root of eventlined.toml.
type Config struct {
	Server  ServerConfig  `toml:"server" validate:"required"`
	Driver  DriverConfig  `toml:"driver" validate:"required"`
	Fetch   FetchConfig   `toml:"fetch" validate:"required"`
	Logging LoggingConfig `toml:"logging" validate:"required"`
}

// ServerConfig binds the HTTP/WebSocket listener.
type ServerConfig struct {
	Host string `toml:"host" validate:"required"`
	Port int    `toml:"port" validate:"required,min=1,max=65535"`
}

// DriverConfig carries the defaults the CLI run command applies when its
// flags don't override them. REST run requests do not read these.
type DriverConfig struct {
	SubWindowMinutes int      `toml:"sub_window_minutes" validate:"gte=0"`
	DefaultBodies    []string `toml:"default_bodies" validate:"required,min=1,dive,required"`
}

// FetchConfig mirrors adapter/ephemeris.FetchPolicy in config form.
type FetchConfig struct {
	BaseURL           string        `toml:"base_url" validate:"required,url"`
	MaxRetries        int           `toml:"max_retries" validate:"gte=0"`
	InitialBackoff    time.Duration `toml:"initial_backoff" validate:"required"`
	MaxBackoff        time.Duration `toml:"max_backoff" validate:"required"`
	BackoffMultiplier float64       `toml:"backoff_multiplier" validate:"gt=1"`
}

// LoggingConfig controls the log/slog handler.
type LoggingConfig struct {
	Level  string `toml:"level" validate:"required,oneof=debug info warn error"`
	Format string `toml:"format" validate:"required,oneof=text json"`
}

// Default returns the configuration the teacher's development
// deployment would ship with absent an override file.
func Default() Config {
	return Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Driver: DriverConfig{
			SubWindowMinutes: 0,
			DefaultBodies:    []string{"Sun", "Moon", "Mercury", "Venus", "Mars", "Jupiter", "Saturn"},
		},
		Fetch: FetchConfig{
			BaseURL:           "http://localhost:9090",
			MaxRetries:        3,
			InitialBackoff:    500 * time.Millisecond,
			MaxBackoff:        10 * time.Second,
			BackoffMultiplier: 2.0,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

var validate = validator.New()

// Load reads and validates a TOML configuration file at path.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}
