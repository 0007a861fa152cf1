// Package session provides the shared outbound HTTP session used by the
// QilbeeDB client. A Session owns the connection pool, a mutable default
// header map, and the transport-native basic-auth slot; the credential
// strategies mutate that state and every request made through the session
// carries it.
//
// A Session is an explicitly passed, exclusively owned handle rather than a
// process-wide singleton, so independent sessions can be constructed per
// caller (and per test case).
package session

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds every request made through a Session unless
// overridden.
const DefaultTimeout = 30 * time.Second

// Option configures a Session.
type Option func(*Session)

// WithTimeout overrides the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Session) {
		s.client.Timeout = timeout
	}
}

// WithInsecureTLS disables TLS certificate verification. Intended for
// development servers with self-signed certificates.
func WithInsecureTLS() Option {
	return func(s *Session) {
		s.client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client entirely.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Session) {
		s.client = client
	}
}

// Session is a stateful HTTP session bound to one API base URL.
//
// Session is not safe for concurrent mutation: the header map and basic-auth
// slot are owned by a single authenticator at a time.
type Session struct {
	baseURL string
	client  *http.Client
	headers http.Header

	basicUser string
	basicPass string
	basicSet  bool
}

// New creates a Session for the given base URL.
func New(baseURL string, opts ...Option) (*Session, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	s := &Session{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultTimeout},
		headers: make(http.Header),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// BaseURL returns the API base URL without a trailing slash.
func (s *Session) BaseURL() string {
	return s.baseURL
}

// SetHeader sets a default header sent with every request.
func (s *Session) SetHeader(key, value string) {
	s.headers.Set(key, value)
}

// DelHeader removes a default header entirely.
func (s *Session) DelHeader(key string) {
	s.headers.Del(key)
}

// Header returns the current value of a default header, or "" if unset.
func (s *Session) Header(key string) string {
	return s.headers.Get(key)
}

// HasHeader reports whether a default header is present at all, which is
// distinct from it being set to an empty value.
func (s *Session) HasHeader(key string) bool {
	_, ok := s.headers[http.CanonicalHeaderKey(key)]
	return ok
}

// SetBasicAuth fills the transport-native basic-auth slot.
func (s *Session) SetBasicAuth(username, password string) {
	s.basicUser = username
	s.basicPass = password
	s.basicSet = true
}

// ClearBasicAuth empties the basic-auth slot.
func (s *Session) ClearBasicAuth() {
	s.basicUser = ""
	s.basicPass = ""
	s.basicSet = false
}

// HasBasicAuth reports whether the basic-auth slot is filled.
func (s *Session) HasBasicAuth() bool {
	return s.basicSet
}

// Reply is the outcome of a request that reached the server: the HTTP status
// and the raw response body.
type Reply struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status code is in the 2xx range.
func (r *Reply) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the response body into out.
func (r *Reply) Decode(out any) error {
	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}

// PostJSON sends a POST with a JSON-encoded body. A nil body sends an empty
// request body.
func (s *Session) PostJSON(ctx context.Context, path string, body any) (*Reply, error) {
	return s.doJSON(ctx, http.MethodPost, path, body)
}

// GetJSON sends a GET request.
func (s *Session) GetJSON(ctx context.Context, path string) (*Reply, error) {
	return s.doJSON(ctx, http.MethodGet, path, nil)
}

// Delete sends a DELETE request.
func (s *Session) Delete(ctx context.Context, path string) (*Reply, error) {
	return s.doJSON(ctx, http.MethodDelete, path, nil)
}

// doJSON builds and executes one request carrying the session's default
// headers and basic-auth slot. Transport failures are returned as-is for the
// caller to classify; any response from the server, success or not, becomes
// a Reply.
func (s *Session) doJSON(ctx context.Context, method, path string, body any) (*Reply, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for key, values := range s.headers {
		req.Header[key] = append([]string(nil), values...)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if s.basicSet {
		req.SetBasicAuth(s.basicUser, s.basicPass)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &Reply{
		StatusCode: resp.StatusCode,
		Body:       respBody,
	}, nil
}
