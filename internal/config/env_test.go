package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_PopulatesFields(t *testing.T) {
	t.Setenv("APP_AUTH_TOKEN_KEY", "atk")
	t.Setenv("APP_LEGACY_HASH_KEY", "lhk")
	t.Setenv("APP_BCRYPT_COST", "10")
	t.Setenv("APP_LOCKOUT_THRESHOLD", "5")
	t.Setenv("APP_LOCKOUT_WINDOW", "15m")
	t.Setenv("APP_SESSION_IDLE_TIMEOUT", "30m")
	t.Setenv("APP_RESET_TOKEN_SIGN_KEY", "rts")
	t.Setenv("APP_RESET_TOKEN_ISSUER", "pratiko")
	t.Setenv("APP_RESET_TOKEN_DURATION", "1h")
	t.Setenv("STORAGE_DB_DATABASE_URI", "postgres://localhost/pratiko")
	t.Setenv("STORAGE_SESSIONS_BACKEND", "memory")
	t.Setenv("SERVER_ADDRESS", "localhost:8080")
	t.Setenv("SERVER_REQUEST_TIMEOUT", "30s")
	t.Setenv("WORKERS_PURGE_INTERVAL", "2h")
	t.Setenv("CONFIG", "/etc/pratiko/config.json")

	var cfg StructuredConfig
	require.NoError(t, parseEnv(&cfg))

	assert.Equal(t, "atk", cfg.App.AuthTokenKey)
	assert.Equal(t, "lhk", cfg.App.LegacyHashKey)
	assert.Equal(t, 10, cfg.App.BcryptCost)
	assert.Equal(t, 5, cfg.App.LockoutThreshold)
	assert.Equal(t, 15*time.Minute, cfg.App.LockoutWindow)
	assert.Equal(t, 30*time.Minute, cfg.App.SessionIdleTimeout)
	assert.Equal(t, "rts", cfg.App.ResetTokenSignKey)
	assert.Equal(t, "pratiko", cfg.App.ResetTokenIssuer)
	assert.Equal(t, time.Hour, cfg.App.ResetTokenDuration)
	assert.Equal(t, "postgres://localhost/pratiko", cfg.Storage.DB.DSN)
	assert.Equal(t, SessionBackendMemory, cfg.Storage.Sessions.Backend)
	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 2*time.Hour, cfg.Workers.PurgeInterval)
	assert.Equal(t, "/etc/pratiko/config.json", cfg.JSONFilePath)
}

func TestParseEnv_EmptyEnvironmentIsZeroConfig(t *testing.T) {
	var cfg StructuredConfig
	require.NoError(t, parseEnv(&cfg))
	assert.Empty(t, cfg.App.AuthTokenKey)
	assert.Zero(t, cfg.App.LockoutWindow)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	t.Setenv("APP_LOCKOUT_WINDOW", "fifteen minutes")

	var cfg StructuredConfig
	assert.Error(t, parseEnv(&cfg))
}
