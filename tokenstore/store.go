package tokenstore

import (
	"log/slog"
	"time"
)

// DefaultExpiryBuffer is subtracted from the access token's remaining
// lifetime when checking validity. A token is treated as expired slightly
// before the server would reject it, so a request never leaves with a token
// that expires mid-flight.
const DefaultExpiryBuffer = 60 * time.Second

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithBackend enables persistence through the given backend. Without a
// backend the store is memory-only.
func WithBackend(backend Backend) StoreOption {
	return func(s *Store) {
		s.backend = backend
	}
}

// WithExpiryBuffer overrides the access-token expiry buffer.
func WithExpiryBuffer(buffer time.Duration) StoreOption {
	return func(s *Store) {
		s.buffer = buffer
	}
}

// WithClock overrides the clock used for expiry checks.
func WithClock(clock Clock) StoreOption {
	return func(s *Store) {
		s.clock = clock
	}
}

// Store owns a token pair for a single bearer strategy. The in-memory pair
// is authoritative; the backend, when configured, is a best-effort mirror
// that is only re-read through an explicit LoadTokens call.
//
// Store is not safe for concurrent use. It is owned by exactly one strategy,
// which is itself driven by a single logical caller at a time.
type Store struct {
	backend Backend
	buffer  time.Duration
	clock   Clock
	pair    *TokenPair
}

// NewStore creates a memory-only Store with the default 60-second expiry
// buffer; use options to attach a backend or adjust timing behavior.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		buffer: DefaultExpiryBuffer,
		clock:  SystemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveTokens unconditionally replaces the in-memory pair and, when a backend
// is configured, mirrors it to persistent storage. A persistence failure is
// logged and swallowed: durability is best-effort, the live session is not.
func (s *Store) SaveTokens(access, refresh string, accessExpiry, refreshExpiry time.Time) {
	s.pair = &TokenPair{
		AccessToken:   access,
		RefreshToken:  refresh,
		AccessExpiry:  accessExpiry,
		RefreshExpiry: refreshExpiry,
	}

	if s.backend == nil {
		return
	}
	if err := s.backend.Save(s.pair); err != nil {
		slog.Warn("failed to persist tokens, continuing with in-memory copy", "error", err)
	}
}

// LoadTokens returns the stored access and refresh tokens. With a backend
// configured it reads the persisted pair into memory first; a missing or
// corrupted record yields empty strings, which callers treat as "not logged
// in yet".
func (s *Store) LoadTokens() (access, refresh string) {
	if s.backend != nil {
		pair, err := s.backend.Load()
		if err != nil {
			slog.Warn("failed to load persisted tokens", "error", err)
			return "", ""
		}
		s.pair = pair
	}

	if s.pair == nil {
		return "", ""
	}
	return s.pair.AccessToken, s.pair.RefreshToken
}

// ClearTokens drops the in-memory pair and removes the persisted record if
// one exists. Clearing an already-empty store is a no-op.
func (s *Store) ClearTokens() {
	s.pair = nil

	if s.backend == nil {
		return
	}
	if err := s.backend.Clear(); err != nil {
		slog.Warn("failed to clear persisted tokens", "error", err)
	}
}

// HasTokens reports whether any token is held in memory, valid or not. It
// never consults the backend, so the answer reflects the live session even
// when an earlier persist failed.
func (s *Store) HasTokens() bool {
	return s.pair != nil && (s.pair.AccessToken != "" || s.pair.RefreshToken != "")
}

// AccessTokenValid reports whether an access token exists and outlives the
// expiry buffer from now.
func (s *Store) AccessTokenValid() bool {
	if s.pair == nil || s.pair.AccessToken == "" {
		return false
	}
	return s.clock.Now().Add(s.buffer).Before(s.pair.AccessExpiry)
}

// RefreshTokenValid reports whether a refresh token exists and has not
// expired. No buffer applies: refresh is itself the recovery path, so a
// tight timing conflict surfaces as a hard re-login requirement instead of
// being silently absorbed.
func (s *Store) RefreshTokenValid() bool {
	if s.pair == nil || s.pair.RefreshToken == "" {
		return false
	}
	return s.clock.Now().Before(s.pair.RefreshExpiry)
}

// AccessToken returns the access token only while AccessTokenValid holds,
// else the empty string. Callers never receive a token they could mistake
// for valid.
func (s *Store) AccessToken() string {
	if !s.AccessTokenValid() {
		return ""
	}
	return s.pair.AccessToken
}

// RefreshToken returns the refresh token only while RefreshTokenValid holds,
// else the empty string.
func (s *Store) RefreshToken() string {
	if !s.RefreshTokenValid() {
		return ""
	}
	return s.pair.RefreshToken
}

// AccessExpiry returns the access token expiry, zero when no pair is held.
func (s *Store) AccessExpiry() time.Time {
	if s.pair == nil {
		return time.Time{}
	}
	return s.pair.AccessExpiry
}

// RefreshExpiry returns the refresh token expiry, zero when no pair is held.
func (s *Store) RefreshExpiry() time.Time {
	if s.pair == nil {
		return time.Time{}
	}
	return s.pair.RefreshExpiry
}
