package qilbee

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/qilbeedb/qilbee-go/auth"
	"github.com/qilbeedb/qilbee-go/session"
	"github.com/qilbeedb/qilbee-go/tokenstore"
)

// keyringService identifies this SDK's entries in the OS keyring.
const keyringService = "qilbeedb"

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	sessionOpts []session.Option
	backend     tokenstore.Backend
	backendErr  error
	apiKey      string
	hasAPIKey   bool
}

// WithTimeout overrides the request timeout (default 30s).
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.sessionOpts = append(c.sessionOpts, session.WithTimeout(timeout))
	}
}

// WithInsecureTLS disables TLS certificate verification.
func WithInsecureTLS() Option {
	return func(c *clientConfig) {
		c.sessionOpts = append(c.sessionOpts, session.WithInsecureTLS())
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.sessionOpts = append(c.sessionOpts, session.WithHTTPClient(client))
	}
}

// WithAPIKey authenticates immediately with a static API key instead of JWT
// login.
func WithAPIKey(key string) Option {
	return func(c *clientConfig) {
		c.apiKey = key
		c.hasAPIKey = true
	}
}

// WithTokenFile persists JWT token pairs to the given file (mode 0600), so
// sessions survive process restarts.
func WithTokenFile(path string) Option {
	return func(c *clientConfig) {
		backend, err := tokenstore.NewFileBackend(path)
		if err != nil {
			// Deferred: surfaced from New via the config check below
			c.backend = nil
			c.backendErr = err
			return
		}
		c.backend = backend
	}
}

// WithKeyringTokens persists JWT token pairs in the OS keyring under the
// given user identifier.
func WithKeyringTokens(user string) Option {
	return func(c *clientConfig) {
		backend, err := tokenstore.NewKeyringBackend(keyringService, user)
		if err != nil {
			c.backend = nil
			c.backendErr = err
			return
		}
		c.backend = backend
	}
}

// WithTokenBackend persists JWT token pairs through a caller-supplied
// backend.
func WithTokenBackend(backend tokenstore.Backend) Option {
	return func(c *clientConfig) {
		c.backend = backend
	}
}

// Client is the QilbeeDB API client: one HTTP session, one authenticator,
// and thin wrappers over the server's REST resources.
type Client struct {
	session *session.Session
	auth    *auth.Authenticator
}

// New creates a client for the given base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.backendErr != nil {
		return nil, fmt.Errorf("configuring token persistence: %w", cfg.backendErr)
	}

	sess, err := session.New(baseURL, cfg.sessionOpts...)
	if err != nil {
		return nil, err
	}

	var authOpts []auth.AuthenticatorOption
	if cfg.backend != nil {
		backend := cfg.backend
		authOpts = append(authOpts, auth.WithStoreFactory(func() *tokenstore.Store {
			return tokenstore.NewStore(tokenstore.WithBackend(backend))
		}))
	}

	c := &Client{
		session: sess,
		auth:    auth.NewAuthenticator(sess, authOpts...),
	}

	if cfg.hasAPIKey {
		c.auth.SetAPIKey(context.Background(), cfg.apiKey)
	}

	return c, nil
}

// Session exposes the underlying HTTP session, mainly for callers composing
// their own requests.
func (c *Client) Session() *session.Session {
	return c.session
}

// Authenticator exposes the credential façade.
func (c *Client) Authenticator() *auth.Authenticator {
	return c.auth
}

// Login authenticates with username/password, switching to JWT bearer
// authentication if another strategy was active.
func (c *Client) Login(ctx context.Context, username, password string) (*auth.LoginResponse, error) {
	return c.auth.Login(ctx, username, password)
}

// Logout clears the active credentials. Always succeeds locally.
func (c *Client) Logout(ctx context.Context) {
	c.auth.Logout(ctx)
}

// SetAPIKey switches to static API-key authentication.
func (c *Client) SetAPIKey(ctx context.Context, key string) {
	c.auth.SetAPIKey(ctx, key)
}

// ResumeSession restores a previously persisted JWT session, when token
// persistence is configured and the stored pair is still usable.
func (c *Client) ResumeSession(ctx context.Context) bool {
	return c.auth.ResumeBearer(ctx)
}

// RefreshToken forces an access-token refresh (JWT only).
func (c *Client) RefreshToken(ctx context.Context) (string, error) {
	return c.auth.RefreshToken(ctx)
}

// IsAuthenticated reports whether the client currently holds usable
// credentials.
func (c *Client) IsAuthenticated() bool {
	return c.auth.IsAuthenticated()
}

// ensureReady guarantees the session carries valid credentials before a
// resource call.
func (c *Client) ensureReady(ctx context.Context) error {
	_, err := c.auth.EnsureValidToken(ctx)
	return err
}

// getJSON performs an authenticated GET and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	if err := c.ensureReady(ctx); err != nil {
		return err
	}
	reply, err := c.session.GetJSON(ctx, path)
	if err != nil {
		return &auth.ConnectivityError{Op: op, Err: err}
	}
	return decodeReply(op, reply, out)
}

// postJSON performs an authenticated POST and decodes the response into out
// (out may be nil).
func (c *Client) postJSON(ctx context.Context, op, path string, body, out any) error {
	if err := c.ensureReady(ctx); err != nil {
		return err
	}
	reply, err := c.session.PostJSON(ctx, path, body)
	if err != nil {
		return &auth.ConnectivityError{Op: op, Err: err}
	}
	return decodeReply(op, reply, out)
}

// deleteJSON performs an authenticated DELETE.
func (c *Client) deleteJSON(ctx context.Context, op, path string) error {
	if err := c.ensureReady(ctx); err != nil {
		return err
	}
	reply, err := c.session.Delete(ctx, path)
	if err != nil {
		return &auth.ConnectivityError{Op: op, Err: err}
	}
	return decodeReply(op, reply, nil)
}

// decodeReply maps response statuses to the error taxonomy and decodes
// successful bodies.
func decodeReply(op string, reply *session.Reply, out any) error {
	switch {
	case reply.StatusCode == http.StatusUnauthorized:
		return &auth.AuthenticationError{Reason: op + " rejected: session expired or credentials invalid"}
	case !reply.OK():
		return fmt.Errorf("%s failed with status %d: %s", op, reply.StatusCode, reply.Body)
	}
	if out == nil {
		return nil
	}
	return reply.Decode(out)
}
