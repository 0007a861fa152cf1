package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/qilbeedb/qilbee-go/session"
	"github.com/qilbeedb/qilbee-go/tokenstore"
)

// Endpoint paths for the token lifecycle.
const (
	loginPath   = "/api/v1/auth/login"
	refreshPath = "/api/v1/auth/refresh"
	logoutPath  = "/api/v1/auth/logout"
)

// authorizationHeader carries the bearer access token on every request.
const authorizationHeader = "Authorization"

// LoginResponse is the body returned by a successful login.
type LoginResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int64  `json:"expires_in"`
	RefreshExpiresIn int64  `json:"refresh_expires_in"`
	Username         string `json:"username"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// refreshResponse carries the new access token; the server may also rotate
// the refresh token.
type refreshResponse struct {
	AccessToken      string `json:"access_token"`
	ExpiresIn        int64  `json:"expires_in"`
	RefreshToken     string `json:"refresh_token"`
	RefreshExpiresIn int64  `json:"refresh_expires_in"`
}

// BearerOption configures a BearerStrategy.
type BearerOption func(*BearerStrategy)

// WithStore supplies the token store the strategy owns, typically one with a
// persistence backend. Defaults to a memory-only store.
func WithStore(store *tokenstore.Store) BearerOption {
	return func(b *BearerStrategy) {
		b.store = store
	}
}

// WithClock overrides the clock used to compute absolute expiries from the
// server's relative expires_in values.
func WithClock(clock tokenstore.Clock) BearerOption {
	return func(b *BearerStrategy) {
		b.clock = clock
	}
}

// BearerStrategy authenticates with short-lived JWT access tokens and
// refreshes them automatically while the refresh token stays valid.
//
// The strategy moves through four logical states: unauthenticated, access
// valid, access stale but refresh valid (transparently recoverable through
// RefreshAccessToken), and fully expired (explicit re-login required).
type BearerStrategy struct {
	session  *session.Session
	store    *tokenstore.Store
	clock    tokenstore.Clock
	username string
}

// Compile-time check to ensure BearerStrategy implements Strategy
var _ Strategy = (*BearerStrategy)(nil)

// NewBearerStrategy creates a bearer strategy bound to the given session.
func NewBearerStrategy(sess *session.Session, opts ...BearerOption) *BearerStrategy {
	b := &BearerStrategy{
		session: sess,
		clock:   tokenstore.SystemClock{},
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.store == nil {
		b.store = tokenstore.NewStore(tokenstore.WithClock(b.clock))
	}
	return b
}

// Login exchanges credentials for a token pair. On success the pair is
// stored, the session's Authorization header is set, and the parsed response
// is returned. A 401 means bad credentials; a 200 missing either token is a
// malformed server response, reported distinctly so callers can tell client
// bugs from user error.
func (b *BearerStrategy) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	reply, err := b.session.PostJSON(ctx, loginPath, loginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, &ConnectivityError{Op: "login", Err: err}
	}

	if reply.StatusCode == http.StatusUnauthorized {
		return nil, &AuthenticationError{Reason: "invalid username or password"}
	}
	if !reply.OK() {
		return nil, &AuthenticationError{Reason: "login rejected by server"}
	}

	var resp LoginResponse
	if err := reply.Decode(&resp); err != nil || resp.AccessToken == "" || resp.RefreshToken == "" {
		return nil, &AuthenticationError{Reason: "malformed login response: missing access or refresh token"}
	}

	now := b.clock.Now()
	b.store.SaveTokens(
		resp.AccessToken,
		resp.RefreshToken,
		now.Add(time.Duration(resp.ExpiresIn)*time.Second),
		now.Add(time.Duration(resp.RefreshExpiresIn)*time.Second),
	)
	b.session.SetHeader(authorizationHeader, "Bearer "+resp.AccessToken)

	b.username = resp.Username
	if b.username == "" {
		b.username = username
	}

	return &resp, nil
}

// RefreshAccessToken trades the refresh token for a new access token. The
// refresh token is replaced only when the server explicitly returns a new
// one. A 401 clears the store entirely: the client must not retain a refresh
// token the server is known to have rejected. Any other failing status is a
// server-side problem and leaves the stored pair untouched, so a later
// attempt can still succeed.
func (b *BearerStrategy) RefreshAccessToken(ctx context.Context) (string, error) {
	refreshToken := b.store.RefreshToken()
	if refreshToken == "" {
		return "", &AuthenticationError{Reason: "no valid refresh token, please login again"}
	}

	reply, err := b.session.PostJSON(ctx, refreshPath, refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return "", &ConnectivityError{Op: "refresh", Err: err}
	}

	if reply.StatusCode == http.StatusUnauthorized {
		b.store.ClearTokens()
		b.session.DelHeader(authorizationHeader)
		return "", &AuthenticationError{Reason: "refresh token invalid or expired, please login again"}
	}
	if !reply.OK() {
		return "", &ConnectivityError{Op: "refresh", Err: fmt.Errorf("server returned status %d", reply.StatusCode)}
	}

	var resp refreshResponse
	if err := reply.Decode(&resp); err != nil || resp.AccessToken == "" {
		return "", &AuthenticationError{Reason: "malformed refresh response: missing access token"}
	}

	now := b.clock.Now()
	accessExpiry := now.Add(time.Duration(resp.ExpiresIn) * time.Second)

	if resp.RefreshToken != "" {
		b.store.SaveTokens(resp.AccessToken, resp.RefreshToken, accessExpiry,
			now.Add(time.Duration(resp.RefreshExpiresIn)*time.Second))
	} else {
		b.store.SaveTokens(resp.AccessToken, refreshToken, accessExpiry, b.store.RefreshExpiry())
	}
	b.session.SetHeader(authorizationHeader, "Bearer "+resp.AccessToken)

	return resp.AccessToken, nil
}

// EnsureValidToken is the single entry point used before authenticated
// calls. Valid access token: returned with no network call. Stale access but
// valid refresh: exactly one synchronous refresh. Neither valid: fails
// without touching the network.
func (b *BearerStrategy) EnsureValidToken(ctx context.Context) (string, error) {
	if b.store.AccessTokenValid() {
		return b.store.AccessToken(), nil
	}
	if b.store.RefreshTokenValid() {
		return b.RefreshAccessToken(ctx)
	}
	return "", &AuthenticationError{Reason: "not authenticated, please login"}
}

// Logout notifies the server on a best-effort basis, then clears the token
// store, the Authorization header and the remembered username. It always
// succeeds locally.
func (b *BearerStrategy) Logout(ctx context.Context) {
	// In-memory state decides: the backend may lag behind the live session
	if b.store.HasTokens() {
		// Failures ignored: the server finding out is a courtesy
		_, _ = b.session.PostJSON(ctx, logoutPath, nil)
	}

	b.store.ClearTokens()
	b.session.DelHeader(authorizationHeader)
	b.username = ""
}

// IsAuthenticated reports whether the store currently holds a valid access
// token. It never refreshes as a side effect.
func (b *BearerStrategy) IsAuthenticated() bool {
	return b.store.AccessTokenValid()
}

// Username returns the username recorded at login, or "" when logged out.
func (b *BearerStrategy) Username() string {
	return b.username
}

// Resume loads a persisted token pair into memory and, when the access token
// is still valid, restores the Authorization header. It reports whether the
// restored pair is usable, directly or via refresh.
func (b *BearerStrategy) Resume() bool {
	if access, _ := b.store.LoadTokens(); access == "" {
		return false
	}
	if b.store.AccessTokenValid() {
		b.session.SetHeader(authorizationHeader, "Bearer "+b.store.AccessToken())
		return true
	}
	return b.store.RefreshTokenValid()
}
