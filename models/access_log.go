package models

import "time"

// Access-log action kinds written by the auth core.
const (
	ActionLogin          = "login"
	ActionLogout         = "logout"
	ActionFailedLogin    = "failed_login"
	ActionPasswordChange = "password_change"
)

// AccessLogEntry is an immutable audit row. The core only appends entries;
// they are read back exclusively by external reporting.
type AccessLogEntry struct {
	ID         int64          `json:"-"`
	UserID     int64          `json:"user_id"`
	Action     string         `json:"action"`
	SourceAddr string         `json:"source_addr"`
	UserAgent  string         `json:"user_agent"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the AccessLogEntry model.
func (e AccessLogEntry) TableName() string {
	return "access_log"
}

// RequestMeta carries the transport-level facts the core records for audit
// purposes. Captured by the HTTP layer, opaque to the service.
type RequestMeta struct {
	SourceAddr string
	UserAgent  string
}
