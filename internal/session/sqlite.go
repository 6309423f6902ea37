package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/studiogest/pratiko/internal/config"
	"github.com/studiogest/pratiko/internal/logger"
	"github.com/studiogest/pratiko/models"
)

const createSessionsTable = `CREATE TABLE IF NOT EXISTS sessions (
    session_id   TEXT PRIMARY KEY,
    user_id      INTEGER NOT NULL,
    email        TEXT NOT NULL,
    name         TEXT NOT NULL,
    admin        INTEGER NOT NULL,
    auth_token   TEXT NOT NULL,
    csrf_secret  TEXT NOT NULL,
    login_at     DATETIME NOT NULL,
    last_seen_at DATETIME NOT NULL
);`

// sqliteStore is the durable Store implementation backed by a local SQLite
// file, so operator sessions survive a server restart.
type sqliteStore struct {
	db          *sql.DB
	idleTimeout time.Duration
	logger      *logger.Logger
}

// NewSQLiteStore opens (creating if necessary) the SQLite file referenced by
// cfg.DSN, ensures the sessions table exists and returns a Store enforcing
// the given idle timeout on Load.
func NewSQLiteStore(ctx context.Context, cfg config.Sessions, idleTimeout time.Duration, log *logger.Logger) (Store, error) {
	if err := createLocalDBFileIfNotExists(cfg.DSN); err != nil {
		log.Err(err).Str("func", "NewSQLiteStore").Msg("error creating session database file")
		return nil, fmt.Errorf("error creating session database file: %w", err)
	}

	conn, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewSQLiteStore").Msg("error connecting session database")
		return nil, fmt.Errorf("error opening connection to session DB: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewSQLiteStore").Msg("error connecting session database (ping)")
		return nil, err
	}

	if _, err := conn.ExecContext(ctx, createSessionsTable); err != nil {
		log.Err(err).Str("func", "NewSQLiteStore").Msg("error creating sessions table")
		return nil, fmt.Errorf("error creating sessions table: %w", err)
	}

	log.Debug().Str("func", "NewSQLiteStore").Msg("connected to session database successfully")

	return &sqliteStore{
		db:          conn,
		idleTimeout: idleTimeout,
		logger:      log,
	}, nil
}

func (s *sqliteStore) Load(ctx context.Context, sessionID string) (models.Session, error) {
	if sessionID == "" {
		return models.Session{}, ErrSessionNotFound
	}

	var sess models.Session
	row := s.db.QueryRowContext(ctx,
		`SELECT session_id, user_id, email, name, admin, auth_token, csrf_secret, login_at, last_seen_at
         FROM sessions WHERE session_id = ?;`, sessionID)

	err := row.Scan(&sess.SessionID, &sess.UserID, &sess.Email, &sess.Name, &sess.Admin,
		&sess.AuthToken, &sess.CSRFSecret, &sess.LoginAt, &sess.LastSeenAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, ErrSessionNotFound
		}
		return models.Session{}, fmt.Errorf("unexpected session DB error: %w", err)
	}

	if s.idleTimeout != 0 && time.Since(sess.LastSeenAt) > s.idleTimeout {
		_ = s.Destroy(ctx, sessionID)
		return models.Session{}, ErrSessionNotFound
	}

	return sess, nil
}

func (s *sqliteStore) Save(ctx context.Context, sess models.Session) error {
	if sess.SessionID == "" {
		return ErrEmptySessionID
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO sessions
         (session_id, user_id, email, name, admin, auth_token, csrf_secret, login_at, last_seen_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		sess.SessionID, sess.UserID, sess.Email, sess.Name, sess.Admin,
		sess.AuthToken, sess.CSRFSecret, sess.LoginAt, sess.LastSeenAt)
	if err != nil {
		return fmt.Errorf("unexpected session DB error: %w", err)
	}

	return nil
}

func (s *sqliteStore) Destroy(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?;`, sessionID); err != nil {
		return fmt.Errorf("unexpected session DB error: %w", err)
	}

	return nil
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		// if not found - create
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating session DB file: %w", err)
		}
		f.Close()
	}

	// file already exists
	return nil
}
