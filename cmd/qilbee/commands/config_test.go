package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/qilbeedb/qilbee-go/internal/app"
)

func noEnv() []string {
	return nil
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("", nil, noEnv)
	require.NoError(t, err)

	assert.Equal(t, app.DefaultConfigBaseURL, cfg.API.BaseURL)
	assert.Equal(t, app.DefaultConfigLogFormat, cfg.LogFormat)
	assert.Equal(t, app.DefaultConfigAuthStorage, cfg.Auth.Storage)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
log_format = "json"

[api]
base_url = "https://db.example.com"
timeout = "5s"

[auth]
storage = "none"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := loadConfig(path, nil, noEnv)
	require.NoError(t, err)

	assert.Equal(t, app.LogFormatJSON, cfg.LogFormat)
	assert.Equal(t, "https://db.example.com", cfg.API.BaseURL)
	assert.Equal(t, "5s", cfg.API.Timeout.String())
	assert.Equal(t, app.TokenStorageTypeNone, cfg.Auth.Storage)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
log_format = "text"

[api]
base_url = "https://file.example.com"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	environ := func() []string {
		return []string{
			"QILBEE_LOG_FORMAT=json",
			"QILBEE_API__BASE_URL=https://env.example.com",
			"UNRELATED=ignored",
		}
	}

	cfg, err := loadConfig(path, nil, environ)
	require.NoError(t, err)

	assert.Equal(t, app.LogFormatJSON, cfg.LogFormat)
	assert.Equal(t, "https://env.example.com", cfg.API.BaseURL)
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	environ := func() []string {
		return []string{
			"QILBEE_API__BASE_URL=https://env.example.com",
			"QILBEE_LOG_FORMAT=json",
		}
	}

	var cfg *app.Config
	cmd := &cli.Command{
		Name: "qilbee",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "base-url"},
			&cli.StringFlag{Name: "log-format"},
			&cli.StringFlag{Name: "storage"},
		},
		Action: func(_ context.Context, c *cli.Command) error {
			var err error
			cfg, err = loadConfig("", c, environ)
			return err
		},
	}

	err := cmd.Run(context.Background(), []string{"qilbee", "--base-url", "https://flag.example.com"})
	require.NoError(t, err)

	assert.Equal(t, "https://flag.example.com", cfg.API.BaseURL, "an explicit flag beats the environment")
	assert.Equal(t, app.LogFormatJSON, cfg.LogFormat, "unset flags leave env values in place")
	assert.Equal(t, app.DefaultConfigAuthStorage, cfg.Auth.Storage)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"), nil, noEnv)
	assert.Error(t, err)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	environ := func() []string {
		return []string{"QILBEE_API__BASE_URL=not-a-url"}
	}

	_, err := loadConfig("", nil, environ)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}
