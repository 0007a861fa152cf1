// Package qilbee is the Go client for the QilbeeDB HTTP API.
//
// A Client bundles one outbound HTTP session with one authenticator and
// exposes the three authentication modes the server understands:
//
//	db, err := qilbee.New("http://localhost:7474")
//	if err != nil { ... }
//	if _, err := db.Login(ctx, "admin", "secret"); err != nil { ... }
//	defer db.Logout(ctx)
//
// Static API keys skip the login round trip entirely:
//
//	db, err := qilbee.New("http://localhost:7474",
//		qilbee.WithAPIKey("qilbee_live_..."))
//
// Token pairs survive process restarts when persistence is enabled:
//
//	db, err := qilbee.New("http://localhost:7474",
//		qilbee.WithTokenFile(filepath.Join(home, ".qilbeedb", "tokens")))
//
// All resource methods refresh the access token transparently while the
// refresh token is valid; an *auth.AuthenticationError means the caller has
// to log in again, an *auth.ConnectivityError means the server was
// unreachable.
package qilbee
