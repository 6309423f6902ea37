package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/reset", h.resetRequest)
		r.Post("/api/auth/reset/confirm", h.resetConfirm)
	})

	// routes requiring an authenticated session
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/session", h.currentSession)
		r.Get("/api/session/csrf", h.csrfToken)

		// state-changing routes additionally require a CSRF token
		r.Group(func(r chi.Router) {
			r.Use(h.csrf)

			r.Post("/api/auth/logout", h.logout)
			r.Post("/api/account/password", h.changePassword)
		})
	})

	// unsupported methods on known paths answer 404 so the route map is
	// not probeable
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	return router
}
