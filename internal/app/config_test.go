package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, LogFormatText, cfg.LogFormat)
	assert.Equal(t, LogExporterStderr, cfg.LogExporter)
	assert.Equal(t, "http://localhost:7474", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, TokenStorageTypeFile, cfg.Auth.Storage)
	assert.NotEmpty(t, cfg.Auth.File, "file storage resolves a default token path")
	assert.Contains(t, cfg.Auth.File, ".qilbeedb")

	assert.NoError(t, cfg.Validate())
}

func TestApplyDefaultsPreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		LogFormat:   LogFormatJSON,
		LogExporter: LogExporterStdout,
		API: APIConfig{
			BaseURL: "https://db.example.com",
			Timeout: 5 * time.Second,
		},
		Auth: AuthConfig{
			Storage: TokenStorageTypeFile,
			File:    "/tmp/custom-tokens",
		},
	}
	require.NoError(t, cfg.ApplyDefaults())

	assert.Equal(t, LogFormatJSON, cfg.LogFormat)
	assert.Equal(t, LogExporterStdout, cfg.LogExporter)
	assert.Equal(t, "https://db.example.com", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "/tmp/custom-tokens", cfg.Auth.File)
}

func TestApplyDefaultsKeyringUser(t *testing.T) {
	cfg := &Config{Auth: AuthConfig{Storage: TokenStorageTypeKeyring}}
	require.NoError(t, cfg.ApplyDefaults())
	assert.NotEmpty(t, cfg.Auth.KeyringUser, "keyring storage resolves the current OS user")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"bad base URL", func(c *Config) { c.API.BaseURL = "not-a-url" }, true},
		{"empty base URL", func(c *Config) { c.API.BaseURL = "" }, true},
		{"bad log format", func(c *Config) { c.LogFormat = "yaml" }, true},
		{"bad log exporter", func(c *Config) { c.LogExporter = "syslog" }, true},
		{"bad storage type", func(c *Config) { c.Auth.Storage = "redis" }, true},
		{"file storage without path", func(c *Config) {
			c.Auth.Storage = TokenStorageTypeFile
			c.Auth.File = ""
		}, true},
		{"keyring storage without user", func(c *Config) {
			c.Auth.Storage = TokenStorageTypeKeyring
			c.Auth.KeyringUser = ""
		}, true},
		{"storage none needs nothing", func(c *Config) {
			c.Auth.Storage = TokenStorageTypeNone
			c.Auth.File = ""
			c.Auth.KeyringUser = ""
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Default()
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewBackend(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		cfg := AuthConfig{
			Storage: TokenStorageTypeFile,
			File:    filepath.Join(t.TempDir(), "tokens"),
		}
		backend, err := cfg.NewBackend()
		require.NoError(t, err)
		assert.NotNil(t, backend)
	})

	t.Run("none", func(t *testing.T) {
		cfg := AuthConfig{Storage: TokenStorageTypeNone}
		backend, err := cfg.NewBackend()
		require.NoError(t, err)
		assert.Nil(t, backend)
	})

	t.Run("unsupported", func(t *testing.T) {
		cfg := AuthConfig{Storage: "redis"}
		_, err := cfg.NewBackend()
		assert.Error(t, err)
	})
}
