package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"
	"time"

	"github.com/studiogest/pratiko/models"
)

// UserRepository is the credential store. Read-only from the auth core's
// perspective except for password-hash updates.
type UserRepository interface {
	// FindByEmail looks an account up by its e-mail, case-insensitively.
	FindByEmail(ctx context.Context, email string) (models.User, error)

	// UpdatePasswordHash replaces the stored credential hash. Used by the
	// transparent upgrade-on-login and by explicit password changes.
	UpdatePasswordHash(ctx context.Context, userID int64, passwordHash string) error
}

// LoginAttemptRepository is the append-only ledger of failed login attempts,
// keyed by the submitted identity string.
type LoginAttemptRepository interface {
	// Record appends one failed attempt for the given identity.
	Record(ctx context.Context, email, sourceAddr string) error

	// CountRecent returns the number of attempts for the identity within
	// the trailing window.
	CountRecent(ctx context.Context, email string, window time.Duration) (int, error)

	// Clear deletes every attempt row for the identity.
	Clear(ctx context.Context, email string) error

	// DeleteExpired removes rows recorded before the given instant.
	// Called only by the out-of-band retention worker, never on the login
	// path. Returns the number of rows removed.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// AccessLogRepository is the append-only audit trail. The core only writes;
// entries are read back by external reporting.
type AccessLogRepository interface {
	Record(ctx context.Context, entry models.AccessLogEntry) error
}
