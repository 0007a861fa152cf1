package tokenstore

import "time"

// TokenPair is a JWT access/refresh token pair together with the absolute
// expiry of each token. The two expiries are checked independently: a
// well-behaved server never issues a refresh token that expires before its
// access token, but nothing here relies on that.
type TokenPair struct {
	AccessToken   string    `json:"access_token"`
	RefreshToken  string    `json:"refresh_token"`
	AccessExpiry  time.Time `json:"access_expiry"`
	RefreshExpiry time.Time `json:"refresh_expiry"`
}

// Backend persists a token pair between processes.
//
// Load must treat a missing or unreadable record as a recoverable condition
// and return (nil, nil); an error is reserved for genuinely unexpected
// failures worth logging. Clear is idempotent: clearing an absent record
// succeeds.
type Backend interface {
	Load() (*TokenPair, error)
	Save(pair *TokenPair) error
	Clear() error
}

// Clock abstracts time lookups so expiry boundaries can be tested
// deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock is the Clock used by default, backed by time.Now.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Compile-time check to ensure SystemClock implements Clock
var _ Clock = SystemClock{}
