package shared

import "errors"

// ErrNotImplemented marks a feature unavailable on the current platform.
var ErrNotImplemented = errors.New("not implemented")

// Config and key material
var (
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrMissingCredentials = errors.New("missing credentials")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDecryptFailed      = errors.New("decryption failed")
)

// Caller identity and app installation
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSessionExpired   = errors.New("session expired")
	ErrAppNotInstalled  = errors.New("app not installed")
)

// SquadCast API
var (
	ErrAPIRequest         = errors.New("API request failed")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// Storage and input
var (
	ErrNotFound        = errors.New("record not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingArgument = errors.New("missing required argument")
)
