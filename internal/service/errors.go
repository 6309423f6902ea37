package service

import "errors"

var (
	// ErrMalformedEmail indicates the submitted identity does not look like
	// an e-mail address. Rejected before any storage access and without
	// recording a failed attempt.
	ErrMalformedEmail = errors.New("malformed email")

	// ErrEmptySecret indicates an empty password was submitted. Like a
	// malformed email this is a validation failure, not a credential one,
	// and records nothing.
	ErrEmptySecret = errors.New("empty password")

	// ErrInvalidCredentials is the single outcome for unknown account,
	// deactivated account and wrong password. Callers must not be able to
	// tell those cases apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTooManyLoginAttempts indicates the submitted identity is inside a
	// lockout: too many failed attempts within the trailing window. Issued
	// before any credential check.
	ErrTooManyLoginAttempts = errors.New("too many login attempts")

	// ErrNotAuthenticated indicates the operation requires a live
	// authenticated session and none was presented (or its token failed
	// verification).
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrWeakPassword indicates the proposed new password fails the
	// minimum-strength policy.
	ErrWeakPassword = errors.New("password does not meet minimum requirements")

	// ErrInvalidResetToken indicates a password-reset token that is
	// expired, tampered with or otherwise unverifiable.
	ErrInvalidResetToken = errors.New("invalid reset token")
)
