package auth

import "context"

// Strategy is one interchangeable authentication mechanism. A strategy takes
// effect by mutating the shared session (headers or the basic-auth slot) and
// undoes those effects on Logout.
type Strategy interface {
	// IsAuthenticated is a cheap, non-mutating check. It never refreshes or
	// performs network calls as a side effect.
	IsAuthenticated() bool

	// Logout strips the strategy's credentials from the session. It is
	// guaranteed to succeed locally regardless of server reachability.
	Logout(ctx context.Context)
}
