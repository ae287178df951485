// Package config aggregates the configuration of the websession server.
package config

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/websession/pkg/config"
	"github.com/dmitrymomot/websession/pkg/environment"
	"github.com/dmitrymomot/websession/pkg/httpserver"
	"github.com/dmitrymomot/websession/pkg/pg"
	"github.com/dmitrymomot/websession/pkg/redis"
	"github.com/dmitrymomot/websession/pkg/session"
)

// StoreKind selects where session records live.
type StoreKind string

const (
	// StoreCookie keeps no server-side state; logout only clears the cookie.
	StoreCookie   StoreKind = "cookie"
	StoreMemory   StoreKind = "memory"
	StoreRedis    StoreKind = "redis"
	StorePostgres StoreKind = "postgres"
)

var ErrUnknownStore = errors.New("config.unknown_store")

// Config is the full server configuration.
type Config struct {
	AppName  string    `env:"APP_NAME" envDefault:"websession"`
	LogLevel string    `env:"LOG_LEVEL" envDefault:"info"`
	Store    StoreKind `env:"SESSION_STORE" envDefault:"memory"`

	// MetricsEnabled exposes /metrics.
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`

	Session session.Config
	HTTP    httpserver.Config
	Redis   redis.Config
	PG      pg.Config
}

// Env returns the deployment environment.
func (c Config) Env() environment.Environment {
	return c.Session.Env()
}

// Validate checks the aggregated configuration.
func (c Config) Validate() error {
	var errs []error

	switch c.Store {
	case StoreCookie, StoreMemory, StoreRedis:
	case StorePostgres:
		if c.PG.ConnectionString == "" {
			errs = append(errs, fmt.Errorf("SESSION_STORE=postgres: %w", pg.ErrEmptyConnectionString))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownStore, c.Store))
	}

	if err := c.Session.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Load reads the configuration from the environment and an optional .env file.
func Load(opts ...config.Option) (Config, error) {
	return config.Load[Config](opts...)
}
