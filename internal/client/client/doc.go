// Package client is the CLI's HTTP client for the journal API.
//
// Protected calls read the bearer token from a Session at call time and
// report a 401 back to it, together with the session generation observed
// when the call started, so a stale response cannot end a newer session.
//
// Failures are exposed as sentinel errors for errors.Is: ErrUnavailable,
// ErrUnauthorized, ErrNotFound, ErrConflict and ErrInvalidInput. Non-2xx
// responses are returned as *APIError, which unwraps to the matching
// sentinel and carries the server's message and per-field details.
package client
