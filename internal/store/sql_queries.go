package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const (
	findUserByEmail = `SELECT user_id, email, password_hash, name, is_active, is_admin, created_at
    FROM users
    WHERE LOWER(email) = LOWER($1);`

	updateUserPasswordHash = `UPDATE users
    SET password_hash = $1
    WHERE user_id = $2;`

	insertAccessLogEntry = `INSERT INTO access_log (user_id, action, source_addr, user_agent, metadata)
    VALUES ($1, $2, $3, $4, $5);`
)

// psql is the shared squirrel builder configured for PostgreSQL placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// buildRecordAttemptQuery builds the INSERT for one failed login attempt.
func buildRecordAttemptQuery(email, sourceAddr string) (string, []any, error) {
	return psql.
		Insert("login_attempts").
		Columns("email", "source_addr").
		Values(email, sourceAddr).
		ToSql()
}

// buildCountRecentAttemptsQuery builds the windowed attempt count used to
// decide lockout. Rows older than since are excluded, not deleted; physical
// cleanup belongs to the retention worker.
func buildCountRecentAttemptsQuery(email string, since time.Time) (string, []any, error) {
	return psql.
		Select("COUNT(*)").
		From("login_attempts").
		Where(sq.Eq{"email": email}).
		Where(sq.GtOrEq{"attempted_at": since}).
		ToSql()
}

// buildClearAttemptsQuery builds the DELETE of every attempt row for an
// identity, executed after a successful login.
func buildClearAttemptsQuery(email string) (string, []any, error) {
	return psql.
		Delete("login_attempts").
		Where(sq.Eq{"email": email}).
		ToSql()
}

// buildDeleteExpiredAttemptsQuery builds the retention DELETE of rows that
// fell out of the lockout window.
func buildDeleteExpiredAttemptsQuery(before time.Time) (string, []any, error) {
	return psql.
		Delete("login_attempts").
		Where(sq.Lt{"attempted_at": before}).
		ToSql()
}
