// SPDX-License-Identifier: Apache-2.0

package http

import (
	"net/http"

	"github.com/studiogest/pratiko/internal/logger"
	"github.com/studiogest/pratiko/internal/utils"
)

// auth is the HTTP middleware that enforces cookie-based session
// authentication.
//
// It reads the session cookie, loads the session from the store, verifies
// the keyed auth token via [service.AuthService.IsAuthenticated] and — on
// success — refreshes the session's activity timestamp and stores the
// session in the request context under [utils.SessionCtxKey] before
// delegating to the next handler.
//
// The middleware rejects requests with HTTP 401 Unauthorized when the
// cookie is absent, when no live session exists under the presented id
// (unknown, destroyed or idle-expired) and when the auth token fails
// verification. A presented-but-dead session additionally gets its cookie
// cleared, so the browser stops replaying it.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		sess, err := h.sessions.Load(ctx, cookie.Value)
		if err != nil {
			log.Debug().Err(err).Msg("session cookie rejected")
			clearSessionCookie(w, r)
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		if !h.services.AuthService.IsAuthenticated(&sess) {
			log.Warn().Str("session_id", sess.SessionID).Msg("session auth token verification failed")
			clearSessionCookie(w, r)
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		if err := h.services.AuthService.Touch(ctx, &sess); err != nil {
			log.Err(err).Msg("error refreshing session activity")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithSession(ctx, &sess)))
	})
}
