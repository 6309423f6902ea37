// Package service implements the authentication and session-security core:
// credential verification with brute-force lockout, session lifecycle with
// id rotation, CSRF token handling and transparent password-hash upgrades.
package service

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

import (
	"context"

	"github.com/studiogest/pratiko/models"
)

// AuthService is the single entry point of the auth core. The transport
// layer owns cookie handling and passes the loaded session in; the service
// owns every security decision.
type AuthService interface {
	// Login verifies the submitted credentials and, on success, destroys
	// the prior session (if any) and returns a freshly minted one. The
	// lockout check runs before any account lookup; unknown account,
	// deactivated account and wrong password are indistinguishable to the
	// caller (all ErrInvalidCredentials).
	Login(ctx context.Context, prior *models.Session, email, password string, meta models.RequestMeta) (models.Session, error)

	// Logout destroys the session and records the audit entry. Destroying
	// an already-dead session is not an error.
	Logout(ctx context.Context, sess *models.Session, meta models.RequestMeta) error

	// IsAuthenticated recomputes the session's keyed auth token and
	// compares it in constant time. It is evaluated on every check, never
	// cached.
	IsAuthenticated(sess *models.Session) bool

	// CurrentUser returns the identity carried by an authenticated
	// session without touching the database.
	CurrentUser(sess *models.Session) (models.PublicUser, error)

	// Touch refreshes the session's activity timestamp so that the idle
	// timeout measures real inactivity.
	Touch(ctx context.Context, sess *models.Session) error

	// GenerateCSRFToken returns the session's CSRF token, minting the
	// underlying secret on first demand. The token stays stable for the
	// session's lifetime and changes when the session is rotated.
	GenerateCSRFToken(ctx context.Context, sess *models.Session) (string, error)

	// VerifyCSRFToken compares the presented token against the session's
	// in constant time. A session that never generated a token verifies
	// nothing.
	VerifyCSRFToken(sess *models.Session, token string) bool

	// ChangePassword re-verifies the current password and replaces the
	// stored hash with a current-scheme digest of the new one.
	ChangePassword(ctx context.Context, sess *models.Session, currentPassword, newPassword string, meta models.RequestMeta) error

	// CreateResetToken issues a signed, time-limited password-reset token
	// for the account behind the given e-mail.
	CreateResetToken(ctx context.Context, email string) (string, error)

	// ResetPassword redeems a reset token and replaces the account's
	// stored hash with a current-scheme digest of the new password.
	ResetPassword(ctx context.Context, token, newPassword string, meta models.RequestMeta) error
}
