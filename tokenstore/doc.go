// Package tokenstore manages the durable access/refresh token pair used by
// bearer authentication.
//
// A Store keeps the in-memory token pair, which is always authoritative for
// the running process, and optionally mirrors it to a persistence Backend:
//   - File: single JSON file with atomic writes and owner-only permissions
//   - Keyring: OS-native credential storage (macOS Keychain, Windows
//     Credential Manager, Linux Secret Service)
//
// Persistence is best-effort. A backend failure during save or clear is
// logged and never surfaced to callers; the live session keeps working from
// memory. Loading from a missing or corrupted backend is a recoverable
// condition (first run, damaged cache) and yields an empty pair rather than
// an error.
package tokenstore
