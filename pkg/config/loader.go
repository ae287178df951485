package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is read when present. A missing file is not an error.
const DefaultEnvFile = ".env"

// Validator is implemented by configs that check their own invariants.
type Validator interface {
	Validate() error
}

// Option configures Load.
type Option func(*options)

type options struct {
	files       []string
	environment map[string]string
}

// WithEnvFiles loads the given files instead of DefaultEnvFile. They must exist.
// Variables already set in the process environment win.
func WithEnvFiles(files ...string) Option {
	return func(o *options) { o.files = files }
}

// WithEnvironment parses from vars instead of the process environment.
// Env files are not read.
func WithEnvironment(vars map[string]string) Option {
	return func(o *options) { o.environment = vars }
}

// Load parses T from the environment, after loading .env files, and runs
// its Validate method when it has one.
//
//	type Config struct {
//	    Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	cfg, err := config.Load[Config]()
func Load[T any](opts ...Option) (T, error) {
	var zero T

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	envOpts := env.Options{}
	if o.environment != nil {
		envOpts.Environment = o.environment
	} else if err := loadEnvFiles(o.files); err != nil {
		return zero, err
	}

	cfg, err := env.ParseAsWithOptions[T](envOpts)
	if err != nil {
		return zero, errors.Join(ErrParsingConfig, err)
	}

	if v, ok := any(cfg).(Validator); ok {
		if err := v.Validate(); err != nil {
			return zero, errors.Join(ErrInvalidConfig, err)
		}
	}
	return cfg, nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](opts ...Option) T {
	cfg, err := Load[T](opts...)
	if err != nil {
		panic("config: " + err.Error())
	}
	return cfg
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return errors.Join(ErrLoadingEnvFile, err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}
