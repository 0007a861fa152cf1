// Package auth implements the pluggable credential subsystem of the QilbeeDB
// client: three interchangeable strategies behind one capability set, selected
// and swapped by an Authenticator façade.
//
//   - BearerStrategy: short-lived JWT access tokens with automatic refresh,
//     backed by a tokenstore.Store
//   - APIKeyStrategy: static key sent in the X-API-Key header
//   - BasicStrategy: legacy username/password on the session's basic-auth
//     slot (deprecated)
//
// Exactly one strategy is active per Authenticator at any time. Switching
// strategies always strips the outgoing effects (headers, credentials) of the
// previous one first, since mixed headers create ambiguous server-side
// precedence.
//
// # Errors
//
// Failed credentials, missing or expired tokens, malformed server responses
// and wrong-strategy operations all surface as *AuthenticationError; the
// message varies, the type does not. Network and transport problems surface
// as *ConnectivityError so callers can tell "your credentials are wrong" from
// "the server is unreachable". Logout never returns an error.
//
// # Concurrency
//
// An Authenticator and its strategies assume a single logical caller driving
// one session. There is no internal locking: concurrent refreshes against the
// same refresh token can race at the server and leave the local store holding
// a token the server has already rotated. Callers using one authenticator
// from multiple goroutines must serialize EnsureValidToken and
// RefreshAccessToken themselves.
package auth
