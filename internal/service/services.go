package service

import (
	"github.com/studiogest/pratiko/internal/config"
	"github.com/studiogest/pratiko/internal/logger"
	"github.com/studiogest/pratiko/internal/session"
	"github.com/studiogest/pratiko/internal/store"
)

// Services aggregates every service of the application so that the
// transport layer receives a single dependency.
type Services struct {
	AuthService AuthService
}

// NewServices wires all services against the repositories and the session
// store.
func NewServices(storages *store.Storages, sessions session.Store, cfg config.App, log *logger.Logger) *Services {
	hasher := NewPasswordHasher(cfg.BcryptCost, cfg.LegacyHashKey)

	return &Services{
		AuthService: NewAuthManager(storages, sessions, hasher, cfg, log),
	}
}
