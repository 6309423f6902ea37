package models

import "time"

// LoginAttempt is one failed authentication try. Attempts are recorded
// against the submitted email whether or not an account with that email
// exists, so the ledger cannot be used as an account-existence oracle.
type LoginAttempt struct {
	ID          int64     `json:"-"`
	Email       string    `json:"email"`
	SourceAddr  string    `json:"source_addr"`
	AttemptedAt time.Time `json:"attempted_at"`
}

// TableName returns the name of the database table
// associated with the LoginAttempt model.
func (a LoginAttempt) TableName() string {
	return "login_attempts"
}
