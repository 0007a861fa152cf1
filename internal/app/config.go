package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/qilbeedb/qilbee-go/tokenstore"
)

// LogFormat represents the logging output format.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// LogExporter selects where structured logs go.
type LogExporter string

const (
	LogExporterStderr   LogExporter = "stderr"
	LogExporterStdout   LogExporter = "stdout"
	LogExporterOTLPHTTP LogExporter = "otlp-http"
	LogExporterOTLPGRPC LogExporter = "otlp-grpc"
)

// TokenStorageType represents the supported token persistence locations.
type TokenStorageType string

const (
	TokenStorageTypeFile    TokenStorageType = "file"
	TokenStorageTypeKeyring TokenStorageType = "keyring"
	TokenStorageTypeNone    TokenStorageType = "none"
)

// Default configuration values
const (
	DefaultConfigLogFormat   = LogFormatText
	DefaultConfigLogExporter = LogExporterStderr
	DefaultConfigBaseURL     = "http://localhost:7474"
	DefaultConfigTimeout     = 30 * time.Second
	DefaultConfigAuthStorage = TokenStorageTypeFile
)

// keyringService identifies CLI token entries in the OS keyring.
const keyringService = "qilbee-cli"

// APIConfig holds connection settings for the QilbeeDB server.
type APIConfig struct {
	BaseURL string        `json:"base_url" validate:"required,url"`
	Timeout time.Duration `json:"timeout"`
	// InsecureTLS skips certificate verification (development servers only).
	InsecureTLS bool `json:"insecure_tls"`
}

// AuthConfig describes how the CLI stores JWT token pairs between runs and
// whether a static API key replaces JWT login entirely.
type AuthConfig struct {
	// Storage configuration - where persisted token pairs live
	Storage TokenStorageType `json:"storage" validate:"required,oneof=file keyring none"`

	// Storage-specific settings (mutually exclusive based on Storage type)
	File        string `json:"file,omitempty"`         // For file storage: path to token file
	KeyringUser string `json:"keyring_user,omitempty"` // For keyring storage: user identifier

	// APIKey switches the CLI to static API-key authentication.
	APIKey string `json:"api_key,omitempty"`
}

// NewBackend creates a token persistence backend from the authentication
// configuration. Storage "none" yields nil: tokens stay in memory for the
// lifetime of the process.
func (a *AuthConfig) NewBackend() (tokenstore.Backend, error) {
	switch a.Storage {
	case TokenStorageTypeFile:
		return tokenstore.NewFileBackend(a.File)
	case TokenStorageTypeKeyring:
		return tokenstore.NewKeyringBackend(keyringService, a.KeyringUser)
	case TokenStorageTypeNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", a.Storage)
	}
}

// Config holds the CLI's configuration.
type Config struct {
	// LogLevel for logging output (defaults to Info if unset).
	LogLevel    slog.Level  `json:"log_level"`
	LogFormat   LogFormat   `json:"log_format" validate:"oneof=text json"`
	LogExporter LogExporter `json:"log_exporter" validate:"oneof=stderr stdout otlp-http otlp-grpc"`
	API         APIConfig   `json:"api"`
	Auth        AuthConfig  `json:"auth"`
}

// Default creates a new Config with default values applied.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills unset config fields with sensible defaults.
func (c *Config) ApplyDefaults() error {
	if c.LogFormat == "" {
		c.LogFormat = DefaultConfigLogFormat
	}
	if c.LogExporter == "" {
		c.LogExporter = DefaultConfigLogExporter
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultConfigBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultConfigTimeout
	}
	if c.Auth.Storage == "" {
		c.Auth.Storage = DefaultConfigAuthStorage
	}

	// Dynamic defaults based on storage type
	switch c.Auth.Storage {
	case TokenStorageTypeFile:
		if c.Auth.File == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("auth.file required (auto-detect failed: %w)", err)
			}
			c.Auth.File = filepath.Join(home, ".qilbeedb", "tokens")
		}
	case TokenStorageTypeKeyring:
		if c.Auth.KeyringUser == "" {
			currentUser, err := user.Current()
			if err != nil {
				return fmt.Errorf("auth.keyring_user required (auto-detect failed: %w)", err)
			}
			c.Auth.KeyringUser = currentUser.Username
		}
	case TokenStorageTypeNone:
		// nothing to resolve
	}

	return nil
}

// Validate validates the configuration using struct tags and enum values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	switch c.Auth.Storage {
	case TokenStorageTypeFile:
		if c.Auth.File == "" {
			return errors.New("file path required for file storage")
		}
	case TokenStorageTypeKeyring:
		if c.Auth.KeyringUser == "" {
			return errors.New("keyring_user required for keyring storage")
		}
	case TokenStorageTypeNone:
	}

	return nil
}
