package auth

import (
	"context"

	"github.com/qilbeedb/qilbee-go/session"
	"github.com/qilbeedb/qilbee-go/tokenstore"
)

// StoreFactory builds the token store for each fresh bearer strategy, so the
// authenticator controls where token pairs persist.
type StoreFactory func() *tokenstore.Store

// AuthenticatorOption configures an Authenticator.
type AuthenticatorOption func(*Authenticator)

// WithStoreFactory sets the factory used when Login installs a fresh bearer
// strategy. Defaults to memory-only stores.
func WithStoreFactory(factory StoreFactory) AuthenticatorOption {
	return func(a *Authenticator) {
		a.newStore = factory
	}
}

// WithAuthenticatorClock sets the clock handed to bearer strategies.
func WithAuthenticatorClock(clock tokenstore.Clock) AuthenticatorOption {
	return func(a *Authenticator) {
		a.clock = clock
	}
}

// Authenticator is the façade held by the client. It owns the single active
// strategy and guarantees strategies never coexist: installing a new one
// always logs out whatever was active first.
type Authenticator struct {
	session  *session.Session
	strategy Strategy
	newStore StoreFactory
	clock    tokenstore.Clock
}

// NewAuthenticator creates an authenticator with no active strategy.
func NewAuthenticator(sess *session.Session, opts ...AuthenticatorOption) *Authenticator {
	a := &Authenticator{
		session: sess,
		clock:   tokenstore.SystemClock{},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.newStore == nil {
		clock := a.clock
		a.newStore = func() *tokenstore.Store {
			return tokenstore.NewStore(tokenstore.WithClock(clock))
		}
	}
	return a
}

// Login authenticates with username/password. Unless a bearer strategy is
// already active it installs a fresh one, discarding the previous strategy's
// headers and credentials.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	bearer, ok := a.strategy.(*BearerStrategy)
	if !ok {
		if a.strategy != nil {
			a.strategy.Logout(ctx)
		}
		bearer = NewBearerStrategy(a.session, WithStore(a.newStore()), WithClock(a.clock))
		a.strategy = bearer
	}
	return bearer.Login(ctx, username, password)
}

// SetAPIKey switches to static API-key authentication, stripping the active
// strategy's headers first.
func (a *Authenticator) SetAPIKey(ctx context.Context, key string) {
	if a.strategy != nil {
		a.strategy.Logout(ctx)
	}
	a.strategy = NewAPIKeyStrategy(a.session, key)
}

// UseBasicAuth switches to basic authentication, stripping the active
// strategy's headers first.
//
// Deprecated: use Login or SetAPIKey instead.
func (a *Authenticator) UseBasicAuth(ctx context.Context, username, password string) {
	if a.strategy != nil {
		a.strategy.Logout(ctx)
	}
	a.strategy = NewBasicStrategy(a.session, username, password)
}

// ResumeBearer installs a bearer strategy (replacing whatever was active)
// and restores a persisted token pair through it. It reports whether the
// restored pair is usable, directly or via refresh.
func (a *Authenticator) ResumeBearer(ctx context.Context) bool {
	bearer, ok := a.strategy.(*BearerStrategy)
	if !ok {
		if a.strategy != nil {
			a.strategy.Logout(ctx)
		}
		bearer = NewBearerStrategy(a.session, WithStore(a.newStore()), WithClock(a.clock))
		a.strategy = bearer
	}
	return bearer.Resume()
}

// RefreshToken forces a refresh of the access token. Only meaningful with a
// bearer strategy.
func (a *Authenticator) RefreshToken(ctx context.Context) (string, error) {
	bearer, ok := a.strategy.(*BearerStrategy)
	if !ok {
		return "", &AuthenticationError{Reason: "refresh only available with JWT authentication"}
	}
	return bearer.RefreshAccessToken(ctx)
}

// EnsureValidToken prepares the session for an authenticated call. With a
// bearer strategy it returns a valid access token, refreshing if needed.
// Static strategies carry their credentials on every request already, so an
// authenticated one returns "" with no error. No usable strategy fails with
// the same error class as an expired session.
func (a *Authenticator) EnsureValidToken(ctx context.Context) (string, error) {
	switch s := a.strategy.(type) {
	case *BearerStrategy:
		return s.EnsureValidToken(ctx)
	case nil:
		return "", &AuthenticationError{Reason: "not authenticated, please login"}
	default:
		if s.IsAuthenticated() {
			return "", nil
		}
		return "", &AuthenticationError{Reason: "not authenticated, please login"}
	}
}

// IsAuthenticated delegates to the active strategy; no strategy means not
// authenticated.
func (a *Authenticator) IsAuthenticated() bool {
	return a.strategy != nil && a.strategy.IsAuthenticated()
}

// Logout delegates to the active strategy. Never fails, with or without a
// strategy.
func (a *Authenticator) Logout(ctx context.Context) {
	if a.strategy != nil {
		a.strategy.Logout(ctx)
	}
}

// Strategy exposes the active strategy, or nil. Mostly useful for inspecting
// state; mutating it bypasses the façade's single-strategy guarantee.
func (a *Authenticator) Strategy() Strategy {
	return a.strategy
}
