package store

import "errors"

var (
	// ErrNoUserWasFound indicates that no account matches the given e-mail.
	// Callers must not surface it verbatim: the login flow maps it to the
	// same generic outcome as a wrong password.
	ErrNoUserWasFound = errors.New("no user was found")
)
