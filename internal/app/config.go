package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/chronotext/chronotext/internal/timespec"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"120"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// ShutdownGrace takes the period grammar, so "1m30s" or "90 seconds"
	// both work in the environment.
	ShutdownGrace timespec.Period `envconfig:"SHUTDOWN_GRACE" default:"15s"`

	SortBatchLimit int `envconfig:"SORT_BATCH_LIMIT" default:"1000"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.SortBatchLimit <= 0 {
		return nil, errors.New("sort batch limit must be positive")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// ShutdownTimeout returns the shutdown grace as a bounded time.Duration.
func (c *Config) ShutdownTimeout() time.Duration {
	if c == nil {
		return 15 * time.Second
	}
	return c.ShutdownGrace.Timeout().Duration()
}
