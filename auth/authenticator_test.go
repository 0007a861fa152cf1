package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qilbeedb/qilbee-go/session"
	"github.com/qilbeedb/qilbee-go/tokenstore"
)

func newTestAuthenticator(t *testing.T, server *authServer, clock *fakeClock) (*Authenticator, *session.Session) {
	t.Helper()

	sess, err := session.New(server.URL)
	require.NoError(t, err)

	auth := NewAuthenticator(sess, WithAuthenticatorClock(clock))
	return auth, sess
}

func TestAuthenticatorLoginInstallsBearer(t *testing.T) {
	server := newAuthServer(t)
	auth, sess := newTestAuthenticator(t, server, newFakeClock())

	resp, err := auth.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "access_1", resp.AccessToken)

	assert.True(t, auth.IsAuthenticated())
	assert.IsType(t, &BearerStrategy{}, auth.Strategy())
	assert.Equal(t, "Bearer access_1", sess.Header("Authorization"))
}

func TestAuthenticatorLoginReusesActiveBearer(t *testing.T) {
	server := newAuthServer(t)
	auth, _ := newTestAuthenticator(t, server, newFakeClock())

	_, err := auth.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	first := auth.Strategy()

	_, err = auth.Login(context.Background(), "bob", "secret")
	require.NoError(t, err)
	assert.Same(t, first, auth.Strategy())
}

func TestSetAPIKeyAfterBearerStripsAuthorization(t *testing.T) {
	server := newAuthServer(t)
	auth, sess := newTestAuthenticator(t, server, newFakeClock())

	_, err := auth.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	require.True(t, sess.HasHeader("Authorization"))

	auth.SetAPIKey(context.Background(), "qilbee_live_abc123")

	assert.False(t, sess.HasHeader("Authorization"), "strategies must never coexist on the session")
	assert.Equal(t, "qilbee_live_abc123", sess.Header(APIKeyHeader))
	assert.True(t, auth.IsAuthenticated())

	_, _, logouts := server.counts()
	assert.Equal(t, 1, logouts, "the bearer session was closed with the server")
}

func TestLoginAfterAPIKeyStripsKeyHeader(t *testing.T) {
	server := newAuthServer(t)
	auth, sess := newTestAuthenticator(t, server, newFakeClock())

	auth.SetAPIKey(context.Background(), "qilbee_live_abc123")

	_, err := auth.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)

	assert.False(t, sess.HasHeader(APIKeyHeader))
	assert.Equal(t, "Bearer access_1", sess.Header("Authorization"))
}

func TestUseBasicAuthReplacesBearer(t *testing.T) {
	server := newAuthServer(t)
	auth, sess := newTestAuthenticator(t, server, newFakeClock())

	_, err := auth.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)

	auth.UseBasicAuth(context.Background(), "alice", "secret")

	assert.False(t, sess.HasHeader("Authorization"))
	assert.True(t, sess.HasBasicAuth())
	assert.True(t, auth.IsAuthenticated())
}

func TestRefreshTokenRequiresBearer(t *testing.T) {
	server := newAuthServer(t)
	auth, _ := newTestAuthenticator(t, server, newFakeClock())

	auth.SetAPIKey(context.Background(), "qilbee_live_abc123")

	_, err := auth.RefreshToken(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthenticationError(err))
	assert.EqualError(t, err, "authentication failed: refresh only available with JWT authentication")
}

func TestEnsureValidTokenNoStrategy(t *testing.T) {
	server := newAuthServer(t)
	auth, _ := newTestAuthenticator(t, server, newFakeClock())

	_, err := auth.EnsureValidToken(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthenticationError(err))
}

func TestEnsureValidTokenStaticStrategy(t *testing.T) {
	server := newAuthServer(t)
	auth, _ := newTestAuthenticator(t, server, newFakeClock())

	auth.SetAPIKey(context.Background(), "qilbee_live_abc123")

	// Static credentials ride on every request already: nothing to return,
	// nothing to refresh
	token, err := auth.EnsureValidToken(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)

	auth.Logout(context.Background())
	_, err = auth.EnsureValidToken(context.Background())
	assert.Error(t, err)
}

func TestEnsureValidTokenDelegatesToBearer(t *testing.T) {
	server := newAuthServer(t)
	clock := newFakeClock()
	auth, _ := newTestAuthenticator(t, server, clock)

	_, err := auth.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)

	clock.Advance(time.Duration(server.expiresIn)*time.Second - 30*time.Second)

	token, err := auth.EnsureValidToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access_2", token)
}

func TestAuthenticatorLogoutWithoutStrategy(t *testing.T) {
	server := newAuthServer(t)
	auth, _ := newTestAuthenticator(t, server, newFakeClock())

	// Must not panic
	auth.Logout(context.Background())
	assert.False(t, auth.IsAuthenticated())
}

func TestResumeBearerThroughStoreFactory(t *testing.T) {
	server := newAuthServer(t)
	clock := newFakeClock()
	path := filepath.Join(t.TempDir(), "tokens")

	factory := func() *tokenstore.Store {
		backend, err := tokenstore.NewFileBackend(path)
		require.NoError(t, err)
		return tokenstore.NewStore(tokenstore.WithBackend(backend), tokenstore.WithClock(clock))
	}

	sess, err := session.New(server.URL)
	require.NoError(t, err)
	auth := NewAuthenticator(sess, WithStoreFactory(factory), WithAuthenticatorClock(clock))
	_, err = auth.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)

	// New process: a fresh authenticator over the same token file
	sess2, err := session.New(server.URL)
	require.NoError(t, err)
	auth2 := NewAuthenticator(sess2, WithStoreFactory(factory), WithAuthenticatorClock(clock))

	assert.True(t, auth2.ResumeBearer(context.Background()))
	assert.True(t, auth2.IsAuthenticated())
	assert.Equal(t, "Bearer access_1", sess2.Header("Authorization"))
}

func TestResumeBearerNothingToResume(t *testing.T) {
	server := newAuthServer(t)
	clock := newFakeClock()

	factory := func() *tokenstore.Store {
		backend, err := tokenstore.NewFileBackend(filepath.Join(t.TempDir(), "tokens"))
		require.NoError(t, err)
		return tokenstore.NewStore(tokenstore.WithBackend(backend), tokenstore.WithClock(clock))
	}

	sess, err := session.New(server.URL)
	require.NoError(t, err)
	auth := NewAuthenticator(sess, WithStoreFactory(factory), WithAuthenticatorClock(clock))

	assert.False(t, auth.ResumeBearer(context.Background()))
	assert.False(t, auth.IsAuthenticated())
}

func TestResumeBearerReplacesStaticStrategy(t *testing.T) {
	server := newAuthServer(t)
	auth, sess := newTestAuthenticator(t, server, newFakeClock())

	auth.SetAPIKey(context.Background(), "qilbee_live_abc123")

	assert.False(t, auth.ResumeBearer(context.Background()))
	assert.False(t, sess.HasHeader(APIKeyHeader), "switching to bearer strips the key header")
	assert.IsType(t, &BearerStrategy{}, auth.Strategy())
}
