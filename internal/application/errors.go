package application

import "errors"

var (
	// ErrInvalidLevel is returned when a submission carries a satisfaction
	// level outside the fixed enum.
	ErrInvalidLevel = errors.New("application: invalid satisfaction level")
	// ErrUnsupportedFormat is returned when an export requests an unknown format.
	ErrUnsupportedFormat = errors.New("application: unsupported export format")
	// ErrInvalidCredentials is returned when login credentials do not match.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrUnauthorized is returned when no valid admin session backs a request.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrSessionExpired is returned when a session exists but has expired.
	ErrSessionExpired = errors.New("application: session expired")
	// ErrSessionRevoked is returned when a session was explicitly logged out.
	ErrSessionRevoked = errors.New("application: session revoked")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
)
