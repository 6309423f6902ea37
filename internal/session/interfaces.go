// Package session holds the server-side session state of authenticated
// operators behind a small Store interface, so the mechanism (in-memory,
// sqlite-backed) is swappable and testable without a real HTTP layer.
package session

//go:generate mockgen -source=interfaces.go -destination=../mock/session_mock.go -package=mock

import (
	"context"

	"github.com/studiogest/pratiko/models"
)

// Store persists at most one session per session id. Implementations must
// enforce the idle timeout on Load: a session whose last activity is older
// than the timeout is evicted and reported as not found.
//
// Session id rotation is the caller's job: a successful login destroys the
// prior id and saves the session under a freshly minted one.
type Store interface {
	// Load returns the session stored under sessionID.
	// Returns ErrSessionNotFound for unknown, destroyed or idle-expired ids.
	Load(ctx context.Context, sessionID string) (models.Session, error)

	// Save stores the session under its SessionID, replacing any previous
	// state held under the same id.
	Save(ctx context.Context, sess models.Session) error

	// Destroy removes all state held under sessionID.
	// Destroying an unknown id is a no-op, not an error.
	Destroy(ctx context.Context, sessionID string) error
}
