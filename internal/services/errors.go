package services

import "errors"

// Domain failures surfaced to handlers; each maps to one HTTP status there.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account locked")
	ErrNotVerified        = errors.New("email not verified")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidInvite      = errors.New("invalid or expired invitation code")
	ErrBadAdminSecret     = errors.New("admin secret mismatch")
	ErrRefreshMismatch    = errors.New("refresh token does not match active session")
	ErrNotManager         = errors.New("only managers can be promoted")
	ErrUserNotFound       = errors.New("user not found")
)
