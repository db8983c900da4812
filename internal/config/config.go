// Package config loads all runtime configuration from the environment.
// .env files are loaded first (silently skipped when absent), then the
// struct is processed with its defaults.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds everything the auth layer consumes as opaque input.
type Config struct {
	// APIBaseURL is the backend the gateway talks to.
	APIBaseURL string `env:"API_BASE_URL, default=http://localhost:3000"`
	// APITimeoutMS bounds every gateway request.
	APITimeoutMS int `env:"API_TIMEOUT_MS, default=5000"`
	// TokenExpiryHours is the credential slot lifetime.
	TokenExpiryHours int `env:"TOKEN_EXPIRY_HOURS, default=1"`
	// PollInterval is the provider's periodic validity check.
	PollInterval time.Duration `env:"AUTH_POLL_INTERVAL, default=60s"`
	// CredentialFile overrides the credential slot location; empty
	// means the per-user default.
	CredentialFile string `env:"CREDENTIAL_FILE"`
	// ListenAddr is where the web shell serves.
	ListenAddr string `env:"LISTEN_ADDR, default=:8080"`

	Logging LoggingConfig
}

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL, default=info"`
	Format string `env:"LOG_FORMAT, default=console"` // json, console
}

// Load reads configuration from .env files and the environment.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}
	return &cfg, nil
}

// APITimeout returns the gateway timeout as a duration.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.APITimeoutMS) * time.Millisecond
}

// TokenTTL returns the credential slot lifetime as a duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenExpiryHours) * time.Hour
}
