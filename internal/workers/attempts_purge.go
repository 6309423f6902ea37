// SPDX-License-Identifier: Apache-2.0

package workers

import (
	"context"
	"time"

	"github.com/studiogest/pratiko/internal/logger"
	"github.com/studiogest/pratiko/internal/store"
)

// AttemptsPurgeWorker periodically deletes failed-login-attempt rows that
// fell out of the lockout window. Counting on the login path only looks at
// the trailing window, so the purge is pure housekeeping and never runs on
// the request path.
type AttemptsPurgeWorker struct {
	attempts  store.LoginAttemptRepository
	interval  time.Duration
	retention time.Duration
	logger    *logger.Logger
}

// NewAttemptsPurgeWorker constructs the retention worker. retention is the
// age past which attempt rows can no longer influence a lockout decision.
func NewAttemptsPurgeWorker(attempts store.LoginAttemptRepository, interval, retention time.Duration, log *logger.Logger) *AttemptsPurgeWorker {
	return &AttemptsPurgeWorker{
		attempts:  attempts,
		interval:  interval,
		retention: retention,
		logger:    log,
	}
}

// Run blocks, purging on every tick, until ctx is cancelled.
func (w *AttemptsPurgeWorker) Run(ctx context.Context) {
	w.logger.Info().
		Dur("interval", w.interval).
		Dur("retention", w.retention).
		Msg("starting login-attempts purge worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("stopping login-attempts purge worker")
			return
		case <-ticker.C:
			w.purge(ctx)
		}
	}
}

func (w *AttemptsPurgeWorker) purge(ctx context.Context) {
	deleted, err := w.attempts.DeleteExpired(ctx, time.Now().Add(-w.retention))
	if err != nil {
		w.logger.Err(err).Str("func", "purge").Msg("error purging expired login attempts")
		return
	}

	if deleted > 0 {
		w.logger.Debug().Int64("deleted", deleted).Msg("purged expired login attempts")
	}
}
