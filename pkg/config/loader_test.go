package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/websession/pkg/config"
)

type sample struct {
	Name    string        `env:"SAMPLE_NAME" envDefault:"default"`
	Timeout time.Duration `env:"SAMPLE_TIMEOUT" envDefault:"5s"`
	Secret  string        `env:"SAMPLE_SECRET,required"`
}

type validated struct {
	Min int `env:"VALIDATED_MIN" envDefault:"1"`
	Max int `env:"VALIDATED_MAX" envDefault:"10"`
}

func (v validated) Validate() error {
	if v.Min > v.Max {
		return errors.New("min greater than max")
	}
	return nil
}

func TestLoad_Environment(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load[sample](config.WithEnvironment(map[string]string{
		"SAMPLE_NAME":   "custom",
		"SAMPLE_SECRET": "s3cr3t",
	}))
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.Name)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "s3cr3t", cfg.Secret)
}

func TestLoad_Required(t *testing.T) {
	t.Parallel()

	_, err := config.Load[sample](config.WithEnvironment(map[string]string{}))
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoad_Validate(t *testing.T) {
	t.Parallel()

	_, err := config.Load[validated](config.WithEnvironment(map[string]string{"VALIDATED_MIN": "20"}))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	cfg, err := config.Load[validated](config.WithEnvironment(map[string]string{}))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Max)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SAMPLE_SECRET=from-file\nSAMPLE_NAME=from-file\n"), 0o600))

	t.Setenv("SAMPLE_NAME", "from-process")
	t.Cleanup(func() { _ = os.Unsetenv("SAMPLE_SECRET") })

	cfg, err := config.Load[sample](config.WithEnvFiles(path))
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Secret)
	assert.Equal(t, "from-process", cfg.Name, "process environment wins over the file")
}

func TestLoad_MissingEnvFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load[validated](config.WithEnvFiles(filepath.Join(t.TempDir(), "missing.env")))
	assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
}

func TestMustLoad(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		config.MustLoad[sample](config.WithEnvironment(map[string]string{}))
	})
	assert.NotPanics(t, func() {
		config.MustLoad[validated](config.WithEnvironment(map[string]string{}))
	})
}
