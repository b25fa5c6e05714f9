package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EngineURL != "http://localhost:1000/api" || cfg.LogLevel != "warn" || cfg.Player != "player" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.JWTTTL != 24*time.Hour || cfg.JWTSecret != "" {
		t.Fatalf("unexpected jwt defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MASTERMIND_ENGINE_URL", "https://engine.example.com/api")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MASTERMIND_JWT_TTL", "90m")
	t.Setenv("NO_COLOR", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EngineURL != "https://engine.example.com/api" || cfg.Level() != zerolog.DebugLevel {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.JWTTTL != 90*time.Minute || !cfg.NoColor {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("MASTERMIND_PLAYER=dotenv_player\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	// godotenv.Load does not override, so make sure the key starts unset.
	t.Setenv("MASTERMIND_PLAYER", "")
	os.Unsetenv("MASTERMIND_PLAYER")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("MASTERMIND_PLAYER") })
	if cfg.Player != "dotenv_player" {
		t.Fatalf("Player = %q", cfg.Player)
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("MASTERMIND_JWT_TTL", "soon")
	var cfg Config
	err := ParseEnv(&cfg)
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := Config{EngineURL: "http://localhost:1000/api", LogLevel: "info", LogFormat: "console", JWTTTL: time.Hour}
	cases := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"valid", func(c *Config) {}, true},
		{"json logs", func(c *Config) { c.LogFormat = "json" }, true},
		{"relative url", func(c *Config) { c.EngineURL = "/api" }, false},
		{"ftp url", func(c *Config) { c.EngineURL = "ftp://host/api" }, false},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, false},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, false},
		{"zero ttl with secret", func(c *Config) { c.JWTSecret = "k"; c.JWTTTL = 0 }, false},
		{"zero ttl without secret", func(c *Config) { c.JWTTTL = 0 }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := base
			tc.mutate(&c)
			if err := c.Validate(); (err == nil) != tc.ok {
				t.Fatalf("Validate() = %v, want ok=%v", err, tc.ok)
			}
		})
	}
}
