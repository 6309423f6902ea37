package http

import (
	"net/http"

	"github.com/studiogest/pratiko/internal/logger"
	"github.com/studiogest/pratiko/internal/utils"
)

// csrf verifies the CSRF token on state-changing requests. It must run
// after the auth middleware, which guarantees a session in the context.
//
// A request without a token, with a wrong token, or against a session that
// never generated one is rejected with HTTP 403 Forbidden.
func (h *Handler) csrf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		sess, ok := utils.GetSessionFromContext(r.Context())
		if !ok {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}

		token := r.Header.Get(csrfTokenHeader)
		if !h.services.AuthService.VerifyCSRFToken(sess, token) {
			log.Warn().Str("session_id", sess.SessionID).Msg("csrf token verification failed")
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
