package store

import (
	"context"
	"fmt"
	"time"

	"github.com/studiogest/pratiko/internal/logger"
)

// loginAttemptRepository is the PostgreSQL-backed implementation of
// [LoginAttemptRepository]. The ledger is append-only: rows are inserted on
// failure, counted inside the lockout window, deleted wholesale on success
// and physically purged out-of-band. There is no update operation.
type loginAttemptRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewLoginAttemptRepository constructs a [LoginAttemptRepository] backed by
// the provided database connection and logger.
func NewLoginAttemptRepository(db *DB, logger *logger.Logger) LoginAttemptRepository {
	logger.Debug().Msg("creating login attempt repository")
	return &loginAttemptRepository{
		db:     db,
		logger: logger,
	}
}

// Record appends one failed attempt for the submitted identity. The insert
// is a single atomic row append; concurrent failures for the same identity
// serialize in the database, which is all the lockout count needs.
func (r *loginAttemptRepository) Record(ctx context.Context, email, sourceAddr string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildRecordAttemptQuery(email, sourceAddr)
	if err != nil {
		return fmt.Errorf("error building record attempt query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*loginAttemptRepository.Record").Msg("error: insert failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

// CountRecent returns the number of attempts for the identity within the
// trailing window. Rows outside the window stay in place but are excluded
// from the count.
func (r *loginAttemptRepository) CountRecent(ctx context.Context, email string, window time.Duration) (int, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildCountRecentAttemptsQuery(email, time.Now().Add(-window))
	if err != nil {
		return 0, fmt.Errorf("error building count attempts query: %w", err)
	}

	var count int
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&count); err != nil {
		log.Err(err).Str("func", "*loginAttemptRepository.CountRecent").Msg("error: scanning error")
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	return count, nil
}

// Clear deletes every attempt row for the identity. Called after a
// successful login so the next failure starts counting from zero.
func (r *loginAttemptRepository) Clear(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildClearAttemptsQuery(email)
	if err != nil {
		return fmt.Errorf("error building clear attempts query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*loginAttemptRepository.Clear").Msg("error: delete failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

// DeleteExpired removes rows recorded before the given instant and returns
// how many were removed. Runs only inside the retention worker.
func (r *loginAttemptRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteExpiredAttemptsQuery(before)
	if err != nil {
		return 0, fmt.Errorf("error building delete expired attempts query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*loginAttemptRepository.DeleteExpired").Msg("error: delete failed")
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	return affected, nil
}
