// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// running multiple workers in a unified way.
package workers

import (
	"context"

	"github.com/studiogest/pratiko/internal/config"
	"github.com/studiogest/pratiko/internal/logger"
	"github.com/studiogest/pratiko/internal/store"
)

// Worker is the interface that must be implemented by any background worker.
// It defines a single Run method that starts the worker's execution.
//
// Implementations are expected to block until ctx is cancelled.
type Worker interface {
	Run(ctx context.Context)
}

type Workers struct {
	workers []Worker
}

// NewWorkers wires every maintenance worker of the application.
func NewWorkers(storages *store.Storages, cfg config.Workers, appCfg config.App, log *logger.Logger) *Workers {
	return &Workers{
		workers: []Worker{
			NewAttemptsPurgeWorker(storages.LoginAttemptRepository, cfg.PurgeInterval, appCfg.LockoutWindow, log),
		},
	}
}

// Run launches every worker in its own goroutine and returns immediately.
// Workers stop when ctx is cancelled.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		go worker.Run(ctx)
	}
}
