// internal/config/config.go
//
// Runtime configuration for the Mastermind client.
// Responsibilities:
//   - Load a .env file when present (development convenience).
//   - Parse environment variables into Config with defaults.
//   - Validate the result before anything dials the engine.
//
// Command-line flags are applied on top by cmd/mastermind.

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config is everything the client reads from its environment.
type Config struct {
	EngineURL string        `env:"MASTERMIND_ENGINE_URL" envDefault:"http://localhost:1000/api"`
	LogLevel  string        `env:"LOG_LEVEL" envDefault:"warn"`
	LogFormat string        `env:"LOG_FORMAT" envDefault:"console"`
	Player    string        `env:"MASTERMIND_PLAYER" envDefault:"player"`
	JWTSecret string        `env:"MASTERMIND_JWT_SECRET"`
	JWTTTL    time.Duration `env:"MASTERMIND_JWT_TTL" envDefault:"24h"`
	NoColor   bool          `env:"NO_COLOR"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads files (missing files are ignored), then the environment.
// Variables already set in the environment win over file values.
func Load(files ...string) (Config, error) {
	_ = godotenv.Load(files...)
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the fields that can be wrong.
func (c Config) Validate() error {
	u, err := url.Parse(strings.TrimSpace(c.EngineURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("engine url %q: must be an absolute http(s) url", c.EngineURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("engine url %q: unsupported scheme %s", c.EngineURL, u.Scheme)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log format %q: want console or json", c.LogFormat)
	}
	if c.JWTSecret != "" && c.JWTTTL <= 0 {
		return errors.New("jwt ttl must be positive")
	}
	return nil
}

// Level returns the parsed log level; Validate guarantees it parses.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.WarnLevel
	}
	return lvl
}
