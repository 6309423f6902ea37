// SPDX-License-Identifier: Apache-2.0

package config

import "time"

// Fallback values applied by [StructuredConfig.applyDefaults] when a setting
// was not provided by any source.
const (
	defaultBcryptCost         = 12
	defaultLockoutThreshold   = 5
	defaultLockoutWindow      = 15 * time.Minute
	defaultSessionIdleTimeout = 30 * time.Minute
	defaultResetTokenDuration = time.Hour
	defaultResetTokenIssuer   = "pratiko"
	defaultPurgeInterval      = time.Hour
)

// applyDefaults fills in conservative defaults for every optional setting
// left at its zero value after the merge. Required secrets (token keys, DSN)
// have no defaults and are enforced by [StructuredConfig.validate].
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.App.BcryptCost == 0 {
		cfg.App.BcryptCost = defaultBcryptCost
	}
	if cfg.App.LockoutThreshold == 0 {
		cfg.App.LockoutThreshold = defaultLockoutThreshold
	}
	if cfg.App.LockoutWindow == 0 {
		cfg.App.LockoutWindow = defaultLockoutWindow
	}
	if cfg.App.SessionIdleTimeout == 0 {
		cfg.App.SessionIdleTimeout = defaultSessionIdleTimeout
	}
	if cfg.App.ResetTokenDuration == 0 {
		cfg.App.ResetTokenDuration = defaultResetTokenDuration
	}
	if cfg.App.ResetTokenIssuer == "" {
		cfg.App.ResetTokenIssuer = defaultResetTokenIssuer
	}
	if cfg.Storage.Sessions.Backend == "" {
		cfg.Storage.Sessions.Backend = SessionBackendMemory
	}
	if cfg.Workers.PurgeInterval == 0 {
		cfg.Workers.PurgeInterval = defaultPurgeInterval
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	switch cfg.Storage.Sessions.Backend {
	case SessionBackendMemory:
	case SessionBackendSQLite:
		if cfg.Storage.Sessions.DSN == "" {
			return ErrInvalidSessionConfigs
		}
	default:
		return ErrInvalidSessionConfigs
	}

	if cfg.App.AuthTokenKey == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}
