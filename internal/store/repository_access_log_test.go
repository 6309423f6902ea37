package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/studiogest/pratiko/internal/logger"
	"github.com/studiogest/pratiko/models"
)

func newTestAccessLogRepo(t *testing.T) (*accessLogRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &accessLogRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func TestAccessLogRecord_Success(t *testing.T) {
	repo, mock, db := newTestAccessLogRepo(t)
	defer db.Close()

	ctx := context.Background()
	entry := models.AccessLogEntry{
		UserID:     1,
		Action:     models.ActionLogin,
		SourceAddr: "10.0.0.1",
		UserAgent:  "Mozilla/5.0",
	}

	mock.ExpectExec("INSERT INTO access_log").
		WithArgs(int64(1), models.ActionLogin, "10.0.0.1", "Mozilla/5.0", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Record(ctx, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAccessLogRecord_WithMetadata(t *testing.T) {
	repo, mock, db := newTestAccessLogRepo(t)
	defer db.Close()

	ctx := context.Background()
	entry := models.AccessLogEntry{
		UserID:     1,
		Action:     models.ActionFailedLogin,
		SourceAddr: "10.0.0.1",
		Metadata:   map[string]any{"email": "demo@studio.it"},
	}

	mock.ExpectExec("INSERT INTO access_log").
		WithArgs(int64(1), models.ActionFailedLogin, "10.0.0.1", "", []byte(`{"email":"demo@studio.it"}`)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Record(ctx, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAccessLogRecord_DBError(t *testing.T) {
	repo, mock, db := newTestAccessLogRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("INSERT INTO access_log").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("db network error"))

	err := repo.Record(ctx, models.AccessLogEntry{Action: models.ActionLogout})
	if err == nil || !strings.Contains(err.Error(), "unexpected DB error") {
		t.Fatalf("expected wrapped unexpected DB error, got %v", err)
	}
}
