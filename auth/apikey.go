package auth

import (
	"context"
	"log/slog"
	"strings"

	"github.com/qilbeedb/qilbee-go/session"
)

// APIKeyHeader carries the static API key on every request.
const APIKeyHeader = "X-API-Key"

// apiKeyPrefix is the convention for keys issued by the server. Keys without
// it are still sent; the server, not the client, rejects malformed keys.
const apiKeyPrefix = "qilbee_live_"

// APIKeyStrategy authenticates with a single static key. Construction sets
// the session header immediately: the strategy is authenticated from the
// moment it exists, not from first use.
type APIKeyStrategy struct {
	session *session.Session
	key     string
}

// Compile-time check to ensure APIKeyStrategy implements Strategy
var _ Strategy = (*APIKeyStrategy)(nil)

// NewAPIKeyStrategy installs the key on the session. A key that does not
// match the expected prefix only triggers a warning.
func NewAPIKeyStrategy(sess *session.Session, key string) *APIKeyStrategy {
	if !strings.HasPrefix(key, apiKeyPrefix) {
		slog.Warn("API key does not start with expected prefix", "prefix", apiKeyPrefix)
	}

	sess.SetHeader(APIKeyHeader, key)

	return &APIKeyStrategy{
		session: sess,
		key:     key,
	}
}

// IsAuthenticated reports whether the key is still held.
func (a *APIKeyStrategy) IsAuthenticated() bool {
	return a.key != ""
}

// Logout drops the key and removes the header entirely.
func (a *APIKeyStrategy) Logout(_ context.Context) {
	a.key = ""
	a.session.DelHeader(APIKeyHeader)
}
