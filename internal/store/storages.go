package store

import (
	"context"

	"github.com/studiogest/pratiko/internal/config"
	"github.com/studiogest/pratiko/internal/logger"
	"github.com/studiogest/pratiko/migrations"
)

// Storages aggregates every repository of the auth core so that the service
// layer receives a single dependency.
type Storages struct {
	UserRepository         UserRepository
	LoginAttemptRepository LoginAttemptRepository
	AccessLogRepository    AccessLogRepository
}

// NewStorages connects to PostgreSQL, applies the embedded schema migrations
// and wires all repositories.
//
// An unreachable database is fatal by design: the process must refuse to
// serve authenticated traffic rather than degrade silently, so the error is
// propagated for the caller to abort on.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err := migrations.Migrate(db.DB); err != nil {
		return nil, err
	}

	return &Storages{
		UserRepository:         NewUserRepository(db, log),
		LoginAttemptRepository: NewLoginAttemptRepository(db, log),
		AccessLogRepository:    NewAccessLogRepository(db, log),
	}, nil
}
