// SPDX-License-Identifier: Apache-2.0

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/studiogest/pratiko/internal/logger"
	"github.com/studiogest/pratiko/internal/service"
	"github.com/studiogest/pratiko/internal/utils"
	"github.com/studiogest/pratiko/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type resetRequestBody struct {
	Email string `json:"email"`
}

type resetConfirmBody struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	// a browser replaying an old cookie gets that session destroyed as
	// part of the id rotation
	var prior *models.Session
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if old, err := h.sessions.Load(ctx, cookie.Value); err == nil {
			prior = &old
		}
	}

	sess, err := h.services.AuthService.Login(ctx, prior, req.Email, req.Password, requestMeta(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMalformedEmail) || errors.Is(err, service.ErrEmptySecret):
			log.Debug().Err(err).Msg("login request rejected by validation")
			http.Error(w, "invalid login request", http.StatusBadRequest)
			return
		case errors.Is(err, service.ErrTooManyLoginAttempts):
			log.Warn().Msg("login refused: too many attempts")
			http.Error(w, "too many login attempts, try again later", http.StatusTooManyRequests)
			return
		case errors.Is(err, service.ErrInvalidCredentials):
			log.Debug().Msg("login refused: invalid credentials")
			http.Error(w, "invalid email or password", http.StatusUnauthorized)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during login")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	setSessionCookie(w, r, sess.SessionID)
	utils.WriteJSON(w, sess.User(), http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	sess, ok := utils.GetSessionFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := h.services.AuthService.Logout(ctx, sess, requestMeta(r)); err != nil {
		log.Err(err).Msg("unexpected error occurred during logout")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	clearSessionCookie(w, r)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) currentSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	sess, ok := utils.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	user, err := h.services.AuthService.CurrentUser(sess)
	if err != nil {
		log.Err(err).Msg("error resolving current user")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) csrfToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	sess, ok := utils.GetSessionFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	token, err := h.services.AuthService.GenerateCSRFToken(ctx, sess)
	if err != nil {
		log.Err(err).Msg("error generating csrf token")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]string{"csrf_token": token}, http.StatusOK)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	sess, ok := utils.GetSessionFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	err := h.services.AuthService.ChangePassword(ctx, sess, req.CurrentPassword, req.NewPassword, requestMeta(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWeakPassword):
			http.Error(w, service.ErrWeakPassword.Error(), http.StatusBadRequest)
			return
		case errors.Is(err, service.ErrInvalidCredentials):
			log.Debug().Msg("password change refused: wrong current password")
			http.Error(w, "wrong current password", http.StatusForbidden)
			return
		case errors.Is(err, service.ErrNotAuthenticated):
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during password change")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) resetRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req resetRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	token, err := h.services.AuthService.CreateResetToken(ctx, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrMalformedEmail) {
			http.Error(w, "invalid email", http.StatusBadRequest)
			return
		}
		// unknown and inactive accounts get the same acknowledgment as
		// known ones so this endpoint is not an account-existence oracle
		log.Debug().Err(err).Msg("reset token not issued")
		w.WriteHeader(http.StatusAccepted)
		return
	}

	// TODO: hand the token to the notification service once it exists;
	// until then operators retrieve it from the server log
	log.Info().Str("token", token).Msg("password reset token issued")
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) resetConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req resetConfirmBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	err := h.services.AuthService.ResetPassword(ctx, req.Token, req.NewPassword, requestMeta(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidResetToken):
			http.Error(w, "invalid or expired reset token", http.StatusBadRequest)
			return
		case errors.Is(err, service.ErrWeakPassword):
			http.Error(w, service.ErrWeakPassword.Error(), http.StatusBadRequest)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during password reset")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
