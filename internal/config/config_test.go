package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "", cfg.Host)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "./", cfg.WebDirectory)
	assert.Equal(t, "index.html", cfg.DefaultDocument)
	assert.Equal(t, ":8000", cfg.Address())
}

func TestLoad(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestConfig_Validate(t *testing.T) {
	tmpDir := t.TempDir()

	file := filepath.Join(tmpDir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))

	var cases = []struct {
		name      string
		giveFn    func(c *Config)
		wantError string
	}{
		{
			name:   "valid",
			giveFn: func(c *Config) {},
		},
		{
			name:   "ip host",
			giveFn: func(c *Config) { c.Host = "127.0.0.1" },
		},
		{
			name:   "hostname host",
			giveFn: func(c *Config) { c.Host = "localhost" },
		},
		{
			name:      "zero port",
			giveFn:    func(c *Config) { c.Port = 0 },
			wantError: "field Port: failed on the 'min' rule (value 0)",
		},
		{
			name:      "too big port",
			giveFn:    func(c *Config) { c.Port = 99999 },
			wantError: "field Port: failed on the 'max' rule (value 99999)",
		},
		{
			name:      "missing directory",
			giveFn:    func(c *Config) { c.WebDirectory = filepath.Join(tmpDir, "nope") },
			wantError: "field WebDirectory: failed on the 'dir' rule",
		},
		{
			name:      "file instead of directory",
			giveFn:    func(c *Config) { c.WebDirectory = file },
			wantError: "field WebDirectory: failed on the 'dir' rule",
		},
		{
			name:      "empty default document",
			giveFn:    func(c *Config) { c.DefaultDocument = "" },
			wantError: "field DefaultDocument: failed on the 'required' rule",
		},
	}

	for _, tt := range cases {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.WebDirectory = tmpDir
			tt.giveFn(cfg)

			err := cfg.Validate()

			if tt.wantError == "" {
				assert.NoError(t, err)

				return
			}

			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantError)
			}
		})
	}
}

func TestConfig_Address(t *testing.T) {
	cfg := &Config{Host: "192.168.1.100", Port: 9090}

	assert.Equal(t, "192.168.1.100:9090", cfg.Address())
}
