package auth

import (
	"context"
	"log/slog"

	"github.com/qilbeedb/qilbee-go/session"
)

// BasicStrategy authenticates with username/password on the session's
// transport-native basic-auth slot.
//
// Deprecated: basic authentication is kept for existing callers only. Use
// JWT login or API keys instead.
type BasicStrategy struct {
	session  *session.Session
	username string
	password string
}

// Compile-time check to ensure BasicStrategy implements Strategy
var _ Strategy = (*BasicStrategy)(nil)

// NewBasicStrategy fills the session's basic-auth slot. It always logs a
// deprecation warning; existing callers keep working.
func NewBasicStrategy(sess *session.Session, username, password string) *BasicStrategy {
	slog.Warn("basic authentication is deprecated, use JWT login or API keys instead")

	sess.SetBasicAuth(username, password)

	return &BasicStrategy{
		session:  sess,
		username: username,
		password: password,
	}
}

// IsAuthenticated reports whether both credentials are still held.
func (b *BasicStrategy) IsAuthenticated() bool {
	return b.username != "" && b.password != ""
}

// Logout drops the credentials and empties the session's basic-auth slot.
func (b *BasicStrategy) Logout(_ context.Context) {
	b.username = ""
	b.password = ""
	b.session.ClearBasicAuth()
}
