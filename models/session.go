package models

import "time"

// Session is the server-side authenticated context bound to one browser
// session. It exists only after a verified login and is destroyed on logout
// or idle timeout. The SessionID is rotated on every successful login.
type Session struct {
	// SessionID is the opaque identifier stored in the client cookie.
	// A fresh value is minted on every successful login (fixation defense).
	SessionID string `json:"session_id"`

	// UserID of the authenticated operator.
	UserID int64 `json:"user_id"`

	// Email, Name and Admin are denormalized from the user record at login
	// time so that identity reads never touch the database. They may go
	// stale until the next login; this is accepted.
	Email string `json:"email"`
	Name  string `json:"name"`
	Admin bool   `json:"admin"`

	// AuthToken is a keyed HMAC over (UserID, SessionID). It is recomputed
	// and compared on every authentication check to detect a session whose
	// id changed without the token being regenerated.
	AuthToken string `json:"-"`

	// CSRFSecret is minted lazily on first demand and stays stable for the
	// session's lifetime. Empty until GenerateCSRFToken is first called.
	CSRFSecret string `json:"-"`

	// LoginAt is the moment the session was created.
	LoginAt time.Time `json:"login_at"`

	// LastSeenAt is refreshed on authenticated activity and drives the
	// idle-timeout eviction in the session store.
	LastSeenAt time.Time `json:"last_seen_at"`
}

// User returns the denormalized identity view carried by the session.
func (s Session) User() PublicUser {
	return PublicUser{
		UserID: s.UserID,
		Email:  s.Email,
		Name:   s.Name,
		Admin:  s.Admin,
	}
}
