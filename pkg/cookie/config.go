package cookie

import (
	"fmt"
	"net/http"
	"strings"
)

// Config holds transport configuration. Secure is not configurable here:
// callers derive it from the deployment environment.
type Config struct {
	Domain   string `env:"COOKIE_DOMAIN" envDefault:""`
	SameSite string `env:"COOKIE_SAME_SITE" envDefault:"lax"` // lax or strict
}

// DefaultConfig returns default transport configuration
func DefaultConfig() Config {
	return Config{
		Domain:   "",
		SameSite: "lax",
	}
}

// ParseSameSite converts a configuration value into an http.SameSite mode.
// Only lax and strict are accepted; none is refused with ErrInsecureSameSite.
func ParseSameSite(value string) (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return 0, ErrInsecureSameSite
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSameSite, value)
	}
}

// NewFromConfig creates a new Transport from the provided Config.
// Only non-zero values from the config are applied.
func NewFromConfig(cfg Config, opts ...Option) (*Transport, error) {
	sameSite, err := ParseSameSite(cfg.SameSite)
	if err != nil {
		return nil, err
	}

	configOpts := make([]Option, 0, 2+len(opts))
	if cfg.Domain != "" {
		configOpts = append(configOpts, WithDomain(cfg.Domain))
	}
	configOpts = append(configOpts, WithSameSite(sameSite))

	configOpts = append(configOpts, opts...)

	return New(configOpts...)
}
