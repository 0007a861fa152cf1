package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenSourceReturnsCurrentToken(t *testing.T) {
	server := newAuthServer(t)
	clock := newFakeClock()
	bearer, _ := newTestBearer(t, server, clock)

	_, err := bearer.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)

	ts := bearer.TokenSource(context.Background())
	token, err := ts.Token()
	require.NoError(t, err)

	assert.Equal(t, "access_1", token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.True(t, token.Expiry.Equal(clock.now.Add(time.Duration(server.expiresIn)*time.Second)))
}

func TestTokenSourceRefreshes(t *testing.T) {
	server := newAuthServer(t)
	clock := newFakeClock()
	bearer, _ := newTestBearer(t, server, clock)

	_, err := bearer.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)

	clock.Advance(time.Duration(server.expiresIn)*time.Second - 30*time.Second)

	token, err := bearer.TokenSource(context.Background()).Token()
	require.NoError(t, err)
	assert.Equal(t, "access_2", token.AccessToken)
}

func TestTokenSourceUnauthenticated(t *testing.T) {
	server := newAuthServer(t)
	bearer, _ := newTestBearer(t, server, newFakeClock())

	_, err := bearer.TokenSource(context.Background()).Token()
	require.Error(t, err)
	assert.True(t, IsAuthenticationError(err))
}
