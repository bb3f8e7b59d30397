package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

var (
	ErrMissingToken    = errors.New("DISCORD_TOKEN is not set")
	ErrMissingClientID = errors.New("CLIENT_ID is not set")
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Token    string `env:"DISCORD_TOKEN"`
	ClientID string `env:"CLIENT_ID"`
	GuildID  string `env:"GUILD_ID"`
	Port     string `env:"PORT" envDefault:"3000"`

	LogDebug bool   `env:"LOG_DEBUG"`
	LogFile  string `env:"LOG_FILE"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	DatabaseURL string `env:"DATABASE_URL"`
	NotifyURL   string `env:"NOTIFY_URL"`
}

// Load parses the environment into a Config. It does not validate required fields;
// call Validate before connecting anywhere.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate reports the first missing credential.
func (c Config) Validate() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	if c.ClientID == "" {
		return ErrMissingClientID
	}
	return nil
}

// Remediation returns operator guidance for a Validate error.
func Remediation(err error) string {
	switch {
	case errors.Is(err, ErrMissingToken):
		return "Make sure a .env file exists and contains DISCORD_TOKEN=<your bot token>"
	case errors.Is(err, ErrMissingClientID):
		return "Make sure the .env file contains CLIENT_ID=<your application id>"
	default:
		return ""
	}
}

// BlacklistEnabled reports whether a Redis backend is configured.
func (c Config) BlacklistEnabled() bool { return c.RedisAddr != "" }

// JournalEnabled reports whether a PostgreSQL backend is configured.
func (c Config) JournalEnabled() bool { return c.DatabaseURL != "" }
