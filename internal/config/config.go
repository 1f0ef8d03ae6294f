// Package config holds the immutable process configuration of the file server.
package config

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Fixed configuration values.
const (
	DefaultPort            = 8000
	DefaultWebDirectory    = "./"
	DefaultDefaultDocument = "index.html"
)

// Config is built once at startup and never changed afterwards.
type Config struct {
	// Host to listen on, empty means all interfaces.
	Host string `validate:"omitempty,hostname|ip"`

	Port int `validate:"min=1,max=65535"`

	// Directory with files for serving.
	WebDirectory string `validate:"required,dir"`

	// DefaultDocument is declared for completeness only: directory requests are resolved by the file server's own
	// index page rules.
	DefaultDocument string `validate:"required"`
}

// Default returns the fixed server configuration.
func Default() *Config {
	return &Config{
		Host:            "",
		Port:            DefaultPort,
		WebDirectory:    DefaultWebDirectory,
		DefaultDocument: DefaultDefaultDocument,
	}
}

// Load returns validated default configuration. There are no flags, environment variables or files to read.
func Load() (*Config, error) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration values and the web directory readability.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			e := validationErrors[0]

			return fmt.Errorf("field %s: failed on the '%s' rule (value %v)", e.Field(), e.Tag(), e.Value())
		}

		return err
	}

	dir, err := os.Open(c.WebDirectory)
	if err != nil {
		return fmt.Errorf("web directory is not readable: %w", err)
	}

	defer dir.Close()

	if _, err = dir.ReadDir(1); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("web directory is not readable: %w", err)
	}

	return nil
}

// Address returns the listen address.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
