package core

import "errors"

// Error codes reported to clients. Missing rooms and messages never produce
// an error; they are silently ignored.
const (
	ErrCodeBadRequest         = "bad_request"
	ErrCodeInvalidMessage     = "invalid_message"
	ErrCodeUnsupportedVersion = "unsupported_version"
	ErrCodeInvalidSession     = "invalid_session"
)

// PermissionDeniedText is the notice sent to callers refused a delete or clear.
const PermissionDeniedText = "Error: Permission denied."

// ErrHubStopped is returned by hub queries once Run has returned.
var ErrHubStopped = errors.New("hub stopped")
