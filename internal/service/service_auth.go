// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/studiogest/pratiko/internal/config"
	"github.com/studiogest/pratiko/internal/logger"
	"github.com/studiogest/pratiko/internal/session"
	"github.com/studiogest/pratiko/internal/store"
	"github.com/studiogest/pratiko/internal/utils"
	"github.com/studiogest/pratiko/models"
)

// AuthManager is the production AuthService implementation.
type AuthManager struct {
	users     store.UserRepository
	attempts  store.LoginAttemptRepository
	accessLog store.AccessLogRepository
	sessions  session.Store
	hasher    PasswordHasher
	cfg       config.App
	logger    *logger.Logger
}

// NewAuthManager wires the auth core against its repositories, the session
// store and the password hashing strategy.
func NewAuthManager(storages *store.Storages, sessions session.Store, hasher PasswordHasher, cfg config.App, log *logger.Logger) *AuthManager {
	return &AuthManager{
		users:     storages.UserRepository,
		attempts:  storages.LoginAttemptRepository,
		accessLog: storages.AccessLogRepository,
		sessions:  sessions,
		hasher:    hasher,
		cfg:       cfg,
		logger:    log,
	}
}

// Login implements the full verification sequence: input validation,
// lockout check, account lookup, credential check, hash upgrade, session
// rotation. See AuthService for the caller-facing contract.
func (s *AuthManager) Login(ctx context.Context, prior *models.Session, email, password string, meta models.RequestMeta) (models.Session, error) {
	email = utils.NormalizeEmail(email)
	if !utils.IsEmailShaped(email) {
		return models.Session{}, ErrMalformedEmail
	}
	if password == "" {
		return models.Session{}, ErrEmptySecret
	}

	// lockout is decided before any account lookup so locked identities
	// get a uniform refusal whether or not the account exists
	count, err := s.attempts.CountRecent(ctx, email, s.cfg.LockoutWindow)
	if err != nil {
		s.logger.Err(err).Str("func", "Login").Msg("error counting recent login attempts")
		return models.Session{}, fmt.Errorf("error counting recent login attempts: %w", err)
	}
	if count >= s.cfg.LockoutThreshold {
		s.audit(ctx, 0, models.ActionFailedLogin, meta, map[string]any{"email": email, "reason": "locked_out"})
		return models.Session{}, ErrTooManyLoginAttempts
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.Session{}, s.failLogin(ctx, email, 0, meta, "unknown_email")
		}
		s.logger.Err(err).Str("func", "Login").Msg("error looking up account")
		return models.Session{}, fmt.Errorf("error looking up account: %w", err)
	}

	if !user.Active {
		return models.Session{}, s.failLogin(ctx, email, user.UserID, meta, "inactive_account")
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return models.Session{}, s.failLogin(ctx, email, user.UserID, meta, "wrong_password")
	}

	// a success that cannot reset the counter must not slip past the
	// lockout accounting, so a failed Clear fails the whole login
	if err := s.attempts.Clear(ctx, email); err != nil {
		s.logger.Err(err).Str("func", "Login").Msg("error clearing login attempts")
		return models.Session{}, fmt.Errorf("error clearing login attempts: %w", err)
	}

	s.upgradeHashIfNeeded(ctx, &user, password)

	if prior != nil && prior.SessionID != "" {
		if err := s.sessions.Destroy(ctx, prior.SessionID); err != nil {
			s.logger.Err(err).Str("func", "Login").Msg("error destroying prior session")
		}
	}

	now := time.Now()
	sessionID := uuid.NewString()
	sess := models.Session{
		SessionID:  sessionID,
		UserID:     user.UserID,
		Email:      user.Email,
		Name:       user.Name,
		Admin:      user.Admin,
		AuthToken:  utils.SessionAuthToken(user.UserID, sessionID, s.cfg.AuthTokenKey),
		LoginAt:    now,
		LastSeenAt: now,
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		s.logger.Err(err).Str("func", "Login").Msg("error saving session")
		return models.Session{}, fmt.Errorf("error saving session: %w", err)
	}

	s.audit(ctx, user.UserID, models.ActionLogin, meta, nil)
	s.logger.Debug().Str("func", "Login").Int64("user_id", user.UserID).Msg("operator logged in")

	return sess, nil
}

// failLogin records one failed attempt against the submitted identity plus
// the audit entry, then returns the uniform credential error.
func (s *AuthManager) failLogin(ctx context.Context, email string, userID int64, meta models.RequestMeta, reason string) error {
	if err := s.attempts.Record(ctx, email, meta.SourceAddr); err != nil {
		s.logger.Err(err).Str("func", "failLogin").Msg("error recording failed login attempt")
	}
	s.audit(ctx, userID, models.ActionFailedLogin, meta, map[string]any{"email": email, "reason": reason})
	return ErrInvalidCredentials
}

// upgradeHashIfNeeded transparently re-hashes the just-verified password
// under the current scheme. Failures are logged and swallowed: the operator
// proved their identity, a deferred upgrade must not block them.
func (s *AuthManager) upgradeHashIfNeeded(ctx context.Context, user *models.User, password string) {
	if !s.hasher.NeedsRehash(user.PasswordHash) {
		return
	}

	newHash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Err(err).Str("func", "upgradeHashIfNeeded").Msg("error rehashing password")
		return
	}

	if err := s.users.UpdatePasswordHash(ctx, user.UserID, newHash); err != nil {
		s.logger.Err(err).Str("func", "upgradeHashIfNeeded").Msg("error persisting upgraded password hash")
		return
	}

	user.PasswordHash = newHash
	s.logger.Debug().Str("func", "upgradeHashIfNeeded").Int64("user_id", user.UserID).Msg("password hash upgraded")
}

func (s *AuthManager) Logout(ctx context.Context, sess *models.Session, meta models.RequestMeta) error {
	if sess == nil || sess.SessionID == "" {
		return nil
	}

	if err := s.sessions.Destroy(ctx, sess.SessionID); err != nil {
		s.logger.Err(err).Str("func", "Logout").Msg("error destroying session")
		return fmt.Errorf("error destroying session: %w", err)
	}

	s.audit(ctx, sess.UserID, models.ActionLogout, meta, nil)
	return nil
}

func (s *AuthManager) IsAuthenticated(sess *models.Session) bool {
	if sess == nil || sess.SessionID == "" || sess.AuthToken == "" {
		return false
	}

	expected := utils.SessionAuthToken(sess.UserID, sess.SessionID, s.cfg.AuthTokenKey)
	return utils.SecureCompare(expected, sess.AuthToken)
}

func (s *AuthManager) CurrentUser(sess *models.Session) (models.PublicUser, error) {
	if !s.IsAuthenticated(sess) {
		return models.PublicUser{}, ErrNotAuthenticated
	}
	return sess.User(), nil
}

func (s *AuthManager) Touch(ctx context.Context, sess *models.Session) error {
	if !s.IsAuthenticated(sess) {
		return ErrNotAuthenticated
	}

	sess.LastSeenAt = time.Now()
	if err := s.sessions.Save(ctx, *sess); err != nil {
		s.logger.Err(err).Str("func", "Touch").Msg("error saving session")
		return fmt.Errorf("error saving session: %w", err)
	}

	return nil
}

func (s *AuthManager) GenerateCSRFToken(ctx context.Context, sess *models.Session) (string, error) {
	if !s.IsAuthenticated(sess) {
		return "", ErrNotAuthenticated
	}

	if sess.CSRFSecret != "" {
		return sess.CSRFSecret, nil
	}

	secret, err := utils.NewCSRFSecret()
	if err != nil {
		s.logger.Err(err).Str("func", "GenerateCSRFToken").Msg("error generating csrf secret")
		return "", err
	}

	sess.CSRFSecret = secret
	if err := s.sessions.Save(ctx, *sess); err != nil {
		s.logger.Err(err).Str("func", "GenerateCSRFToken").Msg("error saving session")
		return "", fmt.Errorf("error saving session: %w", err)
	}

	return secret, nil
}

func (s *AuthManager) VerifyCSRFToken(sess *models.Session, token string) bool {
	if sess == nil || sess.CSRFSecret == "" || token == "" {
		return false
	}
	return utils.SecureCompare(sess.CSRFSecret, token)
}

func (s *AuthManager) ChangePassword(ctx context.Context, sess *models.Session, currentPassword, newPassword string, meta models.RequestMeta) error {
	if !s.IsAuthenticated(sess) {
		return ErrNotAuthenticated
	}

	if err := checkPasswordStrength(newPassword); err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, sess.Email)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return ErrNotAuthenticated
		}
		s.logger.Err(err).Str("func", "ChangePassword").Msg("error looking up account")
		return fmt.Errorf("error looking up account: %w", err)
	}

	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.logger.Err(err).Str("func", "ChangePassword").Msg("error hashing new password")
		return fmt.Errorf("error hashing new password: %w", err)
	}

	if err := s.users.UpdatePasswordHash(ctx, user.UserID, newHash); err != nil {
		s.logger.Err(err).Str("func", "ChangePassword").Msg("error persisting new password hash")
		return fmt.Errorf("error persisting new password hash: %w", err)
	}

	s.audit(ctx, user.UserID, models.ActionPasswordChange, meta, nil)
	return nil
}

func (s *AuthManager) CreateResetToken(ctx context.Context, email string) (string, error) {
	email = utils.NormalizeEmail(email)
	if !utils.IsEmailShaped(email) {
		return "", ErrMalformedEmail
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		// propagated as-is; the transport layer answers identically for
		// known and unknown identities so the flow stays oracle-free
		return "", err
	}
	if !user.Active {
		return "", store.ErrNoUserWasFound
	}

	token, err := utils.GenerateResetToken(s.cfg.ResetTokenIssuer, user.UserID, s.cfg.ResetTokenDuration, s.cfg.ResetTokenSignKey)
	if err != nil {
		s.logger.Err(err).Str("func", "CreateResetToken").Msg("error generating reset token")
		return "", fmt.Errorf("error generating reset token: %w", err)
	}

	return token, nil
}

func (s *AuthManager) ResetPassword(ctx context.Context, token, newPassword string, meta models.RequestMeta) error {
	userID, err := utils.ParseResetToken(token, s.cfg.ResetTokenSignKey, s.cfg.ResetTokenIssuer)
	if err != nil {
		s.logger.Debug().Err(err).Str("func", "ResetPassword").Msg("reset token rejected")
		return ErrInvalidResetToken
	}

	if err := checkPasswordStrength(newPassword); err != nil {
		return err
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.logger.Err(err).Str("func", "ResetPassword").Msg("error hashing new password")
		return fmt.Errorf("error hashing new password: %w", err)
	}

	if err := s.users.UpdatePasswordHash(ctx, userID, newHash); err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return ErrInvalidResetToken
		}
		s.logger.Err(err).Str("func", "ResetPassword").Msg("error persisting new password hash")
		return fmt.Errorf("error persisting new password hash: %w", err)
	}

	s.audit(ctx, userID, models.ActionPasswordChange, meta, map[string]any{"via": "reset_token"})
	return nil
}

// audit appends an access-log entry best-effort: the trail must never make
// an otherwise-valid operation fail, so errors are logged and swallowed.
func (s *AuthManager) audit(ctx context.Context, userID int64, action string, meta models.RequestMeta, metadata map[string]any) {
	entry := models.AccessLogEntry{
		UserID:     userID,
		Action:     action,
		SourceAddr: meta.SourceAddr,
		UserAgent:  meta.UserAgent,
		Metadata:   metadata,
		CreatedAt:  time.Now(),
	}

	if err := s.accessLog.Record(ctx, entry); err != nil {
		s.logger.Err(err).Str("func", "audit").Str("action", action).Msg("error recording access log entry")
	}
}
