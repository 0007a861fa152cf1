// Package app assembles a configured QilbeeDB client for the CLI: it owns
// the configuration schema, its defaults and validation, and the translation
// from configuration to client options.
package app

import (
	"fmt"

	"github.com/qilbeedb/qilbee-go/qilbee"
)

// NewClient builds a QilbeeDB client from the CLI configuration.
func NewClient(cfg *Config) (*qilbee.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	opts := []qilbee.Option{
		qilbee.WithTimeout(cfg.API.Timeout),
	}

	if cfg.API.InsecureTLS {
		opts = append(opts, qilbee.WithInsecureTLS())
	}

	backend, err := cfg.Auth.NewBackend()
	if err != nil {
		return nil, fmt.Errorf("failed to create token backend: %w", err)
	}
	if backend != nil {
		opts = append(opts, qilbee.WithTokenBackend(backend))
	}

	if cfg.Auth.APIKey != "" {
		opts = append(opts, qilbee.WithAPIKey(cfg.Auth.APIKey))
	}

	client, err := qilbee.New(cfg.API.BaseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}
