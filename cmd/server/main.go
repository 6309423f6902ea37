package main

import (
	"context"
	"fmt"

	"github.com/studiogest/pratiko/internal/config"
	"github.com/studiogest/pratiko/internal/handler"
	"github.com/studiogest/pratiko/internal/logger"
	"github.com/studiogest/pratiko/internal/server"
	"github.com/studiogest/pratiko/internal/service"
	"github.com/studiogest/pratiko/internal/session"
	"github.com/studiogest/pratiko/internal/store"
	"github.com/studiogest/pratiko/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("pratiko-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Str("address", cfg.Server.HTTPAddress).Str("session_backend", cfg.Storage.Sessions.Backend).Msg("received configs")

	ctx := context.Background()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	sessions, err := newSessionStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating session store")
	}

	services := service.NewServices(storages, sessions, cfg.App, log)
	handlers := handler.NewHandlers(services, sessions, log)

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	workersCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	workers.NewWorkers(storages, cfg.Workers, cfg.App, log).Run(workersCtx)

	srv.RunServer()
}

func newSessionStore(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (session.Store, error) {
	switch cfg.Storage.Sessions.Backend {
	case config.SessionBackendSQLite:
		return session.NewSQLiteStore(ctx, cfg.Storage.Sessions, cfg.App.SessionIdleTimeout, log)
	default:
		return session.NewMemoryStore(cfg.App.SessionIdleTimeout, log), nil
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
