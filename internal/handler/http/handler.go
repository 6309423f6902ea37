package http

import (
	"net"
	"net/http"

	"github.com/studiogest/pratiko/internal/logger"
	"github.com/studiogest/pratiko/internal/service"
	"github.com/studiogest/pratiko/internal/session"
	"github.com/studiogest/pratiko/models"
)

// sessionCookieName is the cookie carrying the opaque session id.
const sessionCookieName = "pratiko_session"

// csrfTokenHeader is the request header carrying the CSRF token on
// state-changing requests.
const csrfTokenHeader = "X-CSRF-Token"

type Handler struct {
	services *service.Services
	sessions session.Store

	logger *logger.Logger
}

func NewHandler(services *service.Services, sessions session.Store, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		sessions: sessions,
		logger:   logger,
	}
}

// setSessionCookie binds the freshly rotated session id to the browser.
// HttpOnly keeps it away from scripts; SameSite=Lax is the first CSRF line
// of defense, backed by the token check on every mutating request.
func setSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie tells the browser to drop the session cookie.
func clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// requestMeta captures the transport-level facts recorded in the audit
// trail: the client address (without the ephemeral port) and the user agent.
func requestMeta(r *http.Request) models.RequestMeta {
	addr := r.RemoteAddr
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}

	return models.RequestMeta{
		SourceAddr: addr,
		UserAgent:  r.UserAgent(),
	}
}
