package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty database DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidSessionConfigs indicates invalid session-store settings
	// (unknown backend, or the sqlite backend without a DSN).
	ErrInvalidSessionConfigs = errors.New("invalid session store configuration")
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, a missing auth token key).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
)
