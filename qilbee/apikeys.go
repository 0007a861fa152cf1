package qilbee

import (
	"context"
	"time"
)

// APIKey describes a server-issued API key. The Key field holds the full
// secret and is only populated in the response to CreateAPIKey; listings
// carry metadata only.
type APIKey struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Key       string    `json:"key,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

type createAPIKeyRequest struct {
	Name string `json:"name"`
}

type listAPIKeysResponse struct {
	Keys []APIKey `json:"keys"`
}

// CreateAPIKey mints a new API key under the authenticated account. Capture
// the returned Key immediately; the server never shows it again.
func (c *Client) CreateAPIKey(ctx context.Context, name string) (*APIKey, error) {
	var key APIKey
	if err := c.postJSON(ctx, "create api key", "/api/v1/api-keys", createAPIKeyRequest{Name: name}, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

// ListAPIKeys returns metadata for the account's keys.
func (c *Client) ListAPIKeys(ctx context.Context) ([]APIKey, error) {
	var resp listAPIKeysResponse
	if err := c.getJSON(ctx, "list api keys", "/api/v1/api-keys", &resp); err != nil {
		return nil, err
	}
	return resp.Keys, nil
}

// RevokeAPIKey permanently revokes a key by ID.
func (c *Client) RevokeAPIKey(ctx context.Context, id string) error {
	return c.deleteJSON(ctx, "revoke api key", "/api/v1/api-keys/"+id)
}
