// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/studiogest/pratiko/internal/config"
	"github.com/studiogest/pratiko/internal/logger"
	"github.com/studiogest/pratiko/internal/mock"
	"github.com/studiogest/pratiko/internal/store"
	"github.com/studiogest/pratiko/internal/utils"
	"github.com/studiogest/pratiko/models"
)

const (
	testEmail    = "demo@studio.it"
	testPassword = "S3cret!23"
)

var testMeta = models.RequestMeta{SourceAddr: "203.0.113.7", UserAgent: "go-test"}

type authMocks struct {
	users    *mock.MockUserRepository
	attempts *mock.MockLoginAttemptRepository
	access   *mock.MockAccessLogRepository
	sessions *mock.MockStore
}

func testAppConfig() config.App {
	return config.App{
		AuthTokenKey:       "test-auth-token-key",
		LegacyHashKey:      testLegacyKey,
		BcryptCost:         bcrypt.MinCost,
		LockoutThreshold:   5,
		LockoutWindow:      15 * time.Minute,
		SessionIdleTimeout: 30 * time.Minute,
		ResetTokenSignKey:  "reset-sign-key",
		ResetTokenIssuer:   "pratiko",
		ResetTokenDuration: time.Hour,
	}
}

// newTestAuthManager wires an AuthManager against gomock repositories.
// Access-log writes are best-effort and asserted nowhere, so they are
// allowed unconditionally.
func newTestAuthManager(t *testing.T, cfg config.App) (*AuthManager, authMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := authMocks{
		users:    mock.NewMockUserRepository(ctrl),
		attempts: mock.NewMockLoginAttemptRepository(ctrl),
		access:   mock.NewMockAccessLogRepository(ctrl),
		sessions: mock.NewMockStore(ctrl),
	}
	m.access.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	storages := &store.Storages{
		UserRepository:         m.users,
		LoginAttemptRepository: m.attempts,
		AccessLogRepository:    m.access,
	}

	mgr := NewAuthManager(storages, m.sessions, NewPasswordHasher(cfg.BcryptCost, cfg.LegacyHashKey), cfg, logger.Nop())
	return mgr, m
}

func testUser(t *testing.T, password string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return models.User{
		UserID:       7,
		Email:        testEmail,
		Name:         "Demo Operator",
		PasswordHash: string(hash),
		Active:       true,
		Admin:        false,
		CreatedAt:    time.Now().Add(-24 * time.Hour),
	}
}

func TestAuthManager_Login_Success(t *testing.T) {
	cfg := testAppConfig()
	mgr, m := newTestAuthManager(t, cfg)
	ctx := context.Background()
	user := testUser(t, testPassword)

	m.attempts.EXPECT().CountRecent(ctx, testEmail, cfg.LockoutWindow).Return(0, nil)
	m.users.EXPECT().FindByEmail(ctx, testEmail).Return(user, nil)
	m.attempts.EXPECT().Clear(ctx, testEmail).Return(nil)
	m.sessions.EXPECT().Save(ctx, gomock.Any()).Return(nil)

	sess, err := mgr.Login(ctx, nil, testEmail, testPassword, testMeta)
	require.NoError(t, err)

	assert.NotEmpty(t, sess.SessionID)
	assert.Equal(t, user.UserID, sess.UserID)
	assert.Equal(t, user.Email, sess.Email)
	assert.Equal(t, utils.SessionAuthToken(user.UserID, sess.SessionID, cfg.AuthTokenKey), sess.AuthToken)
	assert.Empty(t, sess.CSRFSecret, "csrf secret is minted lazily, not at login")
	assert.True(t, mgr.IsAuthenticated(&sess))
}

func TestAuthManager_Login_NormalizesSubmittedEmail(t *testing.T) {
	cfg := testAppConfig()
	mgr, m := newTestAuthManager(t, cfg)
	ctx := context.Background()
	user := testUser(t, testPassword)

	m.attempts.EXPECT().CountRecent(ctx, testEmail, cfg.LockoutWindow).Return(0, nil)
	m.users.EXPECT().FindByEmail(ctx, testEmail).Return(user, nil)
	m.attempts.EXPECT().Clear(ctx, testEmail).Return(nil)
	m.sessions.EXPECT().Save(ctx, gomock.Any()).Return(nil)

	_, err := mgr.Login(ctx, nil, "  Demo@Studio.IT ", testPassword, testMeta)
	assert.NoError(t, err)
}

func TestAuthManager_Login_RotatesSessionID(t *testing.T) {
	cfg := testAppConfig()
	mgr, m := newTestAuthManager(t, cfg)
	ctx := context.Background()
	user := testUser(t, testPassword)
	prior := &models.Session{SessionID: "old-session-id", UserID: user.UserID}

	m.attempts.EXPECT().CountRecent(ctx, testEmail, cfg.LockoutWindow).Return(0, nil)
	m.users.EXPECT().FindByEmail(ctx, testEmail).Return(user, nil)
	m.attempts.EXPECT().Clear(ctx, testEmail).Return(nil)
	m.sessions.EXPECT().Destroy(ctx, "old-session-id").Return(nil)
	m.sessions.EXPECT().Save(ctx, gomock.Any()).Return(nil)

	sess, err := mgr.Login(ctx, prior, testEmail, testPassword, testMeta)
	require.NoError(t, err)
	assert.NotEqual(t, prior.SessionID, sess.SessionID)
}

func TestAuthManager_Login_ValidationRecordsNothing(t *testing.T) {
	// no repository expectations: any storage access fails the test
	mgr, _ := newTestAuthManager(t, testAppConfig())
	ctx := context.Background()

	_, err := mgr.Login(ctx, nil, "not-an-email", testPassword, testMeta)
	assert.ErrorIs(t, err, ErrMalformedEmail)

	_, err = mgr.Login(ctx, nil, testEmail, "", testMeta)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestAuthManager_Login_LockoutBeatsCorrectPassword(t *testing.T) {
	// at the threshold the refusal happens before any account lookup, so
	// even the correct password cannot get through or reset the counter
	cfg := testAppConfig()
	mgr, m := newTestAuthManager(t, cfg)
	ctx := context.Background()

	m.attempts.EXPECT().CountRecent(ctx, testEmail, cfg.LockoutWindow).Return(cfg.LockoutThreshold, nil)

	_, err := mgr.Login(ctx, nil, testEmail, testPassword, testMeta)
	assert.ErrorIs(t, err, ErrTooManyLoginAttempts)
}

func TestAuthManager_Login_BelowThresholdStillSucceeds(t *testing.T) {
	cfg := testAppConfig()
	mgr, m := newTestAuthManager(t, cfg)
	ctx := context.Background()
	user := testUser(t, testPassword)

	m.attempts.EXPECT().CountRecent(ctx, testEmail, cfg.LockoutWindow).Return(cfg.LockoutThreshold-1, nil)
	m.users.EXPECT().FindByEmail(ctx, testEmail).Return(user, nil)
	m.attempts.EXPECT().Clear(ctx, testEmail).Return(nil)
	m.sessions.EXPECT().Save(ctx, gomock.Any()).Return(nil)

	_, err := mgr.Login(ctx, nil, testEmail, testPassword, testMeta)
	assert.NoError(t, err)
}

func TestAuthManager_Login_UnknownEmailRecordsAttempt(t *testing.T) {
	cfg := testAppConfig()
	mgr, m := newTestAuthManager(t, cfg)
	ctx := context.Background()

	m.attempts.EXPECT().CountRecent(ctx, testEmail, cfg.LockoutWindow).Return(0, nil)
	m.users.EXPECT().FindByEmail(ctx, testEmail).Return(models.User{}, store.ErrNoUserWasFound)
	m.attempts.EXPECT().Record(ctx, testEmail, testMeta.SourceAddr).Return(nil)

	_, err := mgr.Login(ctx, nil, testEmail, testPassword, testMeta)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthManager_Login_WrongPasswordRecordsAttempt(t *testing.T) {
	cfg := testAppConfig()
	mgr, m := newTestAuthManager(t, cfg)
	ctx := context.Background()
	user := testUser(t, testPassword)

	m.attempts.EXPECT().CountRecent(ctx, testEmail, cfg.LockoutWindow).Return(0, nil)
	m.users.EXPECT().FindByEmail(ctx, testEmail).Return(user, nil)
	m.attempts.EXPECT().Record(ctx, testEmail, testMeta.SourceAddr).Return(nil)

	_, err := mgr.Login(ctx, nil, testEmail, "wrong-password", testMeta)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthManager_Login_InactiveAccountLooksLikeWrongPassword(t *testing.T) {
	cfg := testAppConfig()
	mgr, m := newTestAuthManager(t, cfg)
	ctx := context.Background()
	user := testUser(t, testPassword)
	user.Active = false

	m.attempts.EXPECT().CountRecent(ctx, testEmail, cfg.LockoutWindow).Return(0, nil)
	m.users.EXPECT().FindByEmail(ctx, testEmail).Return(user, nil)
	m.attempts.EXPECT().Record(ctx, testEmail, testMeta.SourceAddr).Return(nil)

	_, err := mgr.Login(ctx, nil, testEmail, testPassword, testMeta)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthManager_Login_ClearFailureFailsLogin(t *testing.T) {
	cfg := testAppConfig()
	mgr, m := newTestAuthManager(t, cfg)
	ctx := context.Background()
	user := testUser(t, testPassword)

	m.attempts.EXPECT().CountRecent(ctx, testEmail, cfg.LockoutWindow).Return(0, nil)
	m.users.EXPECT().FindByEmail(ctx, testEmail).Return(user, nil)
	m.attempts.EXPECT().Clear(ctx, testEmail).Return(errors.New("db gone"))

	_, err := mgr.Login(ctx, nil, testEmail, testPassword, testMeta)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthManager_Login_UpgradesLegacyHash(t *testing.T) {
	cfg := testAppConfig()
	mgr, m := newTestAuthManager(t, cfg)
	ctx := context.Background()
	user := testUser(t, testPassword)
	user.PasswordHash = utils.HashString(testPassword, cfg.LegacyHashKey)

	hasher := NewPasswordHasher(cfg.BcryptCost, cfg.LegacyHashKey)

	m.attempts.EXPECT().CountRecent(ctx, testEmail, cfg.LockoutWindow).Return(0, nil)
	m.users.EXPECT().FindByEmail(ctx, testEmail).Return(user, nil)
	m.attempts.EXPECT().Clear(ctx, testEmail).Return(nil)
	m.users.EXPECT().UpdatePasswordHash(ctx, user.UserID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, newHash string) error {
			assert.True(t, isBcryptHash(newHash), "upgraded hash must be a current-scheme digest")
			assert.True(t, hasher.Verify(testPassword, newHash))
			return nil
		})
	m.sessions.EXPECT().Save(ctx, gomock.Any()).Return(nil)

	_, err := mgr.Login(ctx, nil, testEmail, testPassword, testMeta)
	assert.NoError(t, err)
}

func TestAuthManager_Login_UpgradePersistFailureDoesNotFailLogin(t *testing.T) {
	cfg := testAppConfig()
	mgr, m := newTestAuthManager(t, cfg)
	ctx := context.Background()
	user := testUser(t, testPassword)
	user.PasswordHash = utils.HashString(testPassword, cfg.LegacyHashKey)

	m.attempts.EXPECT().CountRecent(ctx, testEmail, cfg.LockoutWindow).Return(0, nil)
	m.users.EXPECT().FindByEmail(ctx, testEmail).Return(user, nil)
	m.attempts.EXPECT().Clear(ctx, testEmail).Return(nil)
	m.users.EXPECT().UpdatePasswordHash(ctx, user.UserID, gomock.Any()).Return(errors.New("db gone"))
	m.sessions.EXPECT().Save(ctx, gomock.Any()).Return(nil)

	_, err := mgr.Login(ctx, nil, testEmail, testPassword, testMeta)
	assert.NoError(t, err)
}

func TestAuthManager_IsAuthenticated_DetectsTampering(t *testing.T) {
	cfg := testAppConfig()
	mgr, _ := newTestAuthManager(t, cfg)

	sess := models.Session{
		SessionID: "sid-1",
		UserID:    7,
		AuthToken: utils.SessionAuthToken(7, "sid-1", cfg.AuthTokenKey),
	}
	assert.True(t, mgr.IsAuthenticated(&sess))

	tampered := sess
	tampered.SessionID = "sid-2"
	assert.False(t, mgr.IsAuthenticated(&tampered))

	tampered = sess
	tampered.UserID = 8
	assert.False(t, mgr.IsAuthenticated(&tampered))

	assert.False(t, mgr.IsAuthenticated(nil))
	assert.False(t, mgr.IsAuthenticated(&models.Session{SessionID: "sid-1"}))
}

func TestAuthManager_CurrentUser(t *testing.T) {
	cfg := testAppConfig()
	mgr, _ := newTestAuthManager(t, cfg)

	sess := models.Session{
		SessionID: "sid-1",
		UserID:    7,
		Email:     testEmail,
		Name:      "Demo Operator",
		AuthToken: utils.SessionAuthToken(7, "sid-1", cfg.AuthTokenKey),
	}

	got, err := mgr.CurrentUser(&sess)
	require.NoError(t, err)
	assert.Equal(t, models.PublicUser{UserID: 7, Email: testEmail, Name: "Demo Operator"}, got)

	_, err = mgr.CurrentUser(nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestAuthManager_Touch_RefreshesLastSeen(t *testing.T) {
	cfg := testAppConfig()
	mgr, m := newTestAuthManager(t, cfg)
	ctx := context.Background()

	sess := models.Session{
		SessionID:  "sid-1",
		UserID:     7,
		AuthToken:  utils.SessionAuthToken(7, "sid-1", cfg.AuthTokenKey),
		LastSeenAt: time.Now().Add(-10 * time.Minute),
	}
	before := sess.LastSeenAt

	m.sessions.EXPECT().Save(ctx, gomock.Any()).Return(nil)

	require.NoError(t, mgr.Touch(ctx, &sess))
	assert.True(t, sess.LastSeenAt.After(before))
}

func TestAuthManager_GenerateCSRFToken_StableWithinSession(t *testing.T) {
	cfg := testAppConfig()
	mgr, m := newTestAuthManager(t, cfg)
	ctx := context.Background()

	sess := models.Session{
		SessionID: "sid-1",
		UserID:    7,
		AuthToken: utils.SessionAuthToken(7, "sid-1", cfg.AuthTokenKey),
	}

	// the secret is minted and persisted exactly once
	m.sessions.EXPECT().Save(ctx, gomock.Any()).Return(nil).Times(1)

	first, err := mgr.GenerateCSRFToken(ctx, &sess)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := mgr.GenerateCSRFToken(ctx, &sess)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.True(t, mgr.VerifyCSRFToken(&sess, first))
	assert.False(t, mgr.VerifyCSRFToken(&sess, first+"x"))
}

func TestAuthManager_GenerateCSRFToken_RotatesAcrossSessions(t *testing.T) {
	cfg := testAppConfig()
	mgr, m := newTestAuthManager(t, cfg)
	ctx := context.Background()

	m.sessions.EXPECT().Save(ctx, gomock.Any()).Return(nil).Times(2)

	first := models.Session{SessionID: "sid-1", UserID: 7, AuthToken: utils.SessionAuthToken(7, "sid-1", cfg.AuthTokenKey)}
	second := models.Session{SessionID: "sid-2", UserID: 7, AuthToken: utils.SessionAuthToken(7, "sid-2", cfg.AuthTokenKey)}

	tokenFirst, err := mgr.GenerateCSRFToken(ctx, &first)
	require.NoError(t, err)
	tokenSecond, err := mgr.GenerateCSRFToken(ctx, &second)
	require.NoError(t, err)

	assert.NotEqual(t, tokenFirst, tokenSecond)
	assert.False(t, mgr.VerifyCSRFToken(&second, tokenFirst), "a rotated session must reject the prior session's token")
}

func TestAuthManager_GenerateCSRFToken_RequiresAuthentication(t *testing.T) {
	mgr, _ := newTestAuthManager(t, testAppConfig())

	_, err := mgr.GenerateCSRFToken(context.Background(), &models.Session{SessionID: "sid-1"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestAuthManager_VerifyCSRFToken_FalseWithoutSecret(t *testing.T) {
	mgr, _ := newTestAuthManager(t, testAppConfig())

	assert.False(t, mgr.VerifyCSRFToken(&models.Session{SessionID: "sid-1"}, "anything"))
	assert.False(t, mgr.VerifyCSRFToken(&models.Session{SessionID: "sid-1", CSRFSecret: "secret"}, ""))
	assert.False(t, mgr.VerifyCSRFToken(nil, "anything"))
}

func TestAuthManager_Logout(t *testing.T) {
	cfg := testAppConfig()
	mgr, m := newTestAuthManager(t, cfg)
	ctx := context.Background()

	sess := models.Session{SessionID: "sid-1", UserID: 7}
	m.sessions.EXPECT().Destroy(ctx, "sid-1").Return(nil)

	assert.NoError(t, mgr.Logout(ctx, &sess, testMeta))
	assert.NoError(t, mgr.Logout(ctx, nil, testMeta), "logging out without a session is a no-op")
}

func TestAuthManager_ChangePassword(t *testing.T) {
	cfg := testAppConfig()
	mgr, m := newTestAuthManager(t, cfg)
	ctx := context.Background()
	user := testUser(t, testPassword)

	sess := models.Session{
		SessionID: "sid-1",
		UserID:    user.UserID,
		Email:     user.Email,
		AuthToken: utils.SessionAuthToken(user.UserID, "sid-1", cfg.AuthTokenKey),
	}

	hasher := NewPasswordHasher(cfg.BcryptCost, cfg.LegacyHashKey)

	m.users.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
	m.users.EXPECT().UpdatePasswordHash(ctx, user.UserID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, newHash string) error {
			assert.True(t, hasher.Verify("N3w-Secret!", newHash))
			return nil
		})

	assert.NoError(t, mgr.ChangePassword(ctx, &sess, testPassword, "N3w-Secret!", testMeta))
}

func TestAuthManager_ChangePassword_WrongCurrentPassword(t *testing.T) {
	cfg := testAppConfig()
	mgr, m := newTestAuthManager(t, cfg)
	ctx := context.Background()
	user := testUser(t, testPassword)

	sess := models.Session{
		SessionID: "sid-1",
		UserID:    user.UserID,
		Email:     user.Email,
		AuthToken: utils.SessionAuthToken(user.UserID, "sid-1", cfg.AuthTokenKey),
	}

	m.users.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)

	err := mgr.ChangePassword(ctx, &sess, "wrong-password", "N3w-Secret!", testMeta)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthManager_ChangePassword_WeakNewPassword(t *testing.T) {
	cfg := testAppConfig()
	mgr, _ := newTestAuthManager(t, cfg)

	sess := models.Session{
		SessionID: "sid-1",
		UserID:    7,
		Email:     testEmail,
		AuthToken: utils.SessionAuthToken(7, "sid-1", cfg.AuthTokenKey),
	}

	err := mgr.ChangePassword(context.Background(), &sess, testPassword, "tiny", testMeta)
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestAuthManager_ChangePassword_RequiresAuthentication(t *testing.T) {
	mgr, _ := newTestAuthManager(t, testAppConfig())

	err := mgr.ChangePassword(context.Background(), nil, testPassword, "N3w-Secret!", testMeta)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestAuthManager_ResetTokenRoundTrip(t *testing.T) {
	cfg := testAppConfig()
	mgr, m := newTestAuthManager(t, cfg)
	ctx := context.Background()
	user := testUser(t, testPassword)

	hasher := NewPasswordHasher(cfg.BcryptCost, cfg.LegacyHashKey)

	m.users.EXPECT().FindByEmail(ctx, testEmail).Return(user, nil)
	token, err := mgr.CreateResetToken(ctx, testEmail)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	m.users.EXPECT().UpdatePasswordHash(ctx, user.UserID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, newHash string) error {
			assert.True(t, hasher.Verify("N3w-Secret!", newHash))
			return nil
		})

	assert.NoError(t, mgr.ResetPassword(ctx, token, "N3w-Secret!", testMeta))
}

func TestAuthManager_CreateResetToken_UnknownOrInactiveEmail(t *testing.T) {
	cfg := testAppConfig()
	mgr, m := newTestAuthManager(t, cfg)
	ctx := context.Background()

	m.users.EXPECT().FindByEmail(ctx, testEmail).Return(models.User{}, store.ErrNoUserWasFound)
	_, err := mgr.CreateResetToken(ctx, testEmail)
	assert.ErrorIs(t, err, store.ErrNoUserWasFound)

	inactive := testUser(t, testPassword)
	inactive.Active = false
	m.users.EXPECT().FindByEmail(ctx, testEmail).Return(inactive, nil)
	_, err = mgr.CreateResetToken(ctx, testEmail)
	assert.ErrorIs(t, err, store.ErrNoUserWasFound)
}

func TestAuthManager_ResetPassword_RejectsBadToken(t *testing.T) {
	mgr, _ := newTestAuthManager(t, testAppConfig())

	err := mgr.ResetPassword(context.Background(), "not-a-jwt", "N3w-Secret!", testMeta)
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestAuthManager_ResetPassword_RejectsTokenFromOtherKey(t *testing.T) {
	cfg := testAppConfig()
	mgr, _ := newTestAuthManager(t, cfg)

	forged, err := utils.GenerateResetToken(cfg.ResetTokenIssuer, 7, time.Hour, "some-other-key")
	require.NoError(t, err)

	err = mgr.ResetPassword(context.Background(), forged, "N3w-Secret!", testMeta)
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}
