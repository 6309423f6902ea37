package session

import "errors"

var (
	// ErrSessionNotFound indicates that no live session exists under the
	// given id: it was never created, was destroyed, or idled out.
	ErrSessionNotFound = errors.New("session not found")

	// ErrEmptySessionID indicates a session with no id was passed to Save.
	ErrEmptySessionID = errors.New("empty session id")
)
