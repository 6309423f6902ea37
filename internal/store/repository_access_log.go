package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/studiogest/pratiko/internal/logger"
	"github.com/studiogest/pratiko/models"
)

// accessLogRepository is the PostgreSQL-backed implementation of
// [AccessLogRepository]. Rows are append-only; the auth core never reads
// them back.
type accessLogRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewAccessLogRepository constructs an [AccessLogRepository] backed by the
// provided database connection and logger.
func NewAccessLogRepository(db *DB, logger *logger.Logger) AccessLogRepository {
	logger.Debug().Msg("creating access log repository")
	return &accessLogRepository{
		db:     db,
		logger: logger,
	}
}

// Record appends one audit row. Metadata, when present, is stored as jsonb.
//
// Callers on the authentication path treat a returned error as best-effort:
// it is logged and swallowed, never surfaced as an authentication failure.
func (r *accessLogRepository) Record(ctx context.Context, entry models.AccessLogEntry) error {
	log := logger.FromContext(ctx)

	var metadata any
	if entry.Metadata != nil {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("error marshaling access log metadata: %w", err)
		}
		metadata = raw
	}

	if _, err := r.db.ExecContext(ctx, insertAccessLogEntry, entry.UserID, entry.Action, entry.SourceAddr, entry.UserAgent, metadata); err != nil {
		log.Err(err).Str("func", "*accessLogRepository.Record").Msg("error: insert failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}
