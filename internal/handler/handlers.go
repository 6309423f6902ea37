package handler

import (
	"github.com/studiogest/pratiko/internal/handler/http"
	"github.com/studiogest/pratiko/internal/logger"
	"github.com/studiogest/pratiko/internal/service"
	"github.com/studiogest/pratiko/internal/session"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, sessions session.Store, logger *logger.Logger) *Handlers {
	logger.Info().Msg("creating new handlers...")

	return &Handlers{
		HTTP: http.NewHandler(services, sessions, logger),
	}
}
