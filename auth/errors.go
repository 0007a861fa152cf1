package auth

import (
	"errors"
	"fmt"
)

// AuthenticationError reports a failure the caller can recover from by
// acting: logging in again, fixing credentials, or switching strategy. The
// reason distinguishes bad credentials from expired sessions and malformed
// server responses; the type deliberately does not.
type AuthenticationError struct {
	Reason string
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	return "authentication failed: " + e.Reason
}

// ConnectivityError reports that the server could not be reached or the
// transport failed mid-request. It is distinct from AuthenticationError so
// callers never mistake an outage for rejected credentials.
type ConnectivityError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("%s: failed to reach server: %v", e.Op, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// IsAuthenticationError reports whether err is (or wraps) an
// AuthenticationError.
func IsAuthenticationError(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsConnectivityError reports whether err is (or wraps) a ConnectivityError.
func IsConnectivityError(err error) bool {
	var connErr *ConnectivityError
	return errors.As(err, &connErr)
}
