package domain

import "errors"

var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrForbidden            = errors.New("access denied: insufficient permissions")
	ErrAuditWriteFailed     = errors.New("audit write failed")
	ErrDirectoryUnavailable = errors.New("user directory unavailable")
	ErrTooManyAttempts      = errors.New("too many failed login attempts")

	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
	ErrInvalidInput = errors.New("invalid input")
)
