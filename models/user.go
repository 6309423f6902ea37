package models

import "time"

// User represents an operator account used for authentication and
// authorization. It contains identity attributes and credential-related data.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the internal unique identifier of the operator.
	// It is not exposed via JSON and is used only at the persistence layer.
	UserID int64 `json:"-"`

	// Email is the unique login identifier, compared case-insensitively.
	Email string `json:"email"`

	// Name is the display name of the operator.
	// It is non-sensitive and may be shown in UI.
	Name string `json:"name"`

	// PasswordHash stores the derived credential value. Either a bcrypt
	// digest (current scheme) or a hex HMAC-SHA256 digest (legacy scheme,
	// upgraded transparently on the next successful login).
	// This value MUST be a derived value, never plaintext.
	PasswordHash string `json:"-"`

	// Active reports whether the account may authenticate.
	// Inactive accounts are treated exactly like unknown ones.
	Active bool `json:"active"`

	// Admin grants access to administrative sections of the CRM.
	// Authorization decisions based on it are made by the calling code.
	Admin bool `json:"admin"`

	// CreatedAt is the timestamp when the account was provisioned.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// Public returns the externally visible view of the account:
// identity and authorization flags, never the credential hash.
func (u User) Public() PublicUser {
	return PublicUser{
		UserID: u.UserID,
		Email:  u.Email,
		Name:   u.Name,
		Admin:  u.Admin,
	}
}

// PublicUser is the denormalized identity view handed to callers of the
// auth core. It is also the shape cached inside a session so that
// CurrentUser never needs a database round trip.
type PublicUser struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Admin  bool   `json:"admin"`
}
