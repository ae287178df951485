package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrymomot/websession/pkg/cookie"
	"github.com/dmitrymomot/websession/pkg/environment"
)

// CookieName is the session cookie name. Issuing, reading, clearing and
// test injection all use this one value.
const CookieName = "sid"

const (
	DefaultTTL      = 8 * time.Hour
	RememberTTL     = 30 * 24 * time.Hour
	CleanupInterval = 5 * time.Minute
)

// Config holds session configuration
type Config struct {
	// Secrets is a comma separated list. The first one signs, all of them verify.
	Secrets []string `env:"SESSION_SECRETS,required" envSeparator:","`

	DefaultTTL  time.Duration `env:"SESSION_DEFAULT_TTL" envDefault:"8h"`
	RememberTTL time.Duration `env:"SESSION_REMEMBER_TTL" envDefault:"720h"`

	// Environment controls the Secure cookie attribute and the transport check.
	Environment string `env:"APP_ENV" envDefault:"production"`

	// TrustForwardedProto accepts X-Forwarded-Proto from a TLS-terminating proxy.
	TrustForwardedProto bool `env:"SESSION_TRUST_FORWARDED_PROTO" envDefault:"true"`

	// CleanupInterval for expired sessions in the memory store (0 to disable)
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`

	Cookie cookie.Config `envPrefix:"SESSION_"`
}

// DefaultConfig returns default session configuration without secrets.
func DefaultConfig() Config {
	return Config{
		DefaultTTL:          DefaultTTL,
		RememberTTL:         RememberTTL,
		Environment:         string(environment.Production),
		TrustForwardedProto: true,
		CleanupInterval:     CleanupInterval,
		Cookie:              cookie.DefaultConfig(),
	}
}

// TTL returns the session lifetime for policy.
func (c Config) TTL(p Policy) time.Duration {
	if p == PolicyRemember {
		return c.RememberTTL
	}
	return c.DefaultTTL
}

// Env returns the parsed deployment environment.
func (c Config) Env() environment.Environment {
	return environment.Parse(c.Environment)
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error

	secrets := c.secrets()
	if len(secrets) == 0 {
		errs = append(errs, ErrNoSecret)
	}
	for i, s := range secrets {
		if len(s) < MinSecretLength {
			errs = append(errs, fmt.Errorf("%w: secret #%d has %d characters, need %d", ErrSecretTooShort, i+1, len(s), MinSecretLength))
		}
	}

	if c.DefaultTTL < time.Second {
		errs = append(errs, fmt.Errorf("%w: default ttl must be at least 1s", ErrInvalidConfig))
	}
	if c.RememberTTL < c.DefaultTTL {
		errs = append(errs, fmt.Errorf("%w: remember ttl %s is shorter than default ttl %s", ErrInvalidConfig, c.RememberTTL, c.DefaultTTL))
	}
	if c.CleanupInterval < 0 {
		errs = append(errs, fmt.Errorf("%w: negative cleanup interval", ErrInvalidConfig))
	}
	if _, err := cookie.ParseSameSite(c.Cookie.SameSite); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}

	return errors.Join(errs...)
}

func (c Config) secrets() []string {
	out := make([]string, 0, len(c.Secrets))
	for _, s := range c.Secrets {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
