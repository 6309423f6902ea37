package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// csrfSecretBytes is the entropy of a CSRF secret. 32 bytes gives 256 bits,
// comfortably above the 128-bit guessing-resistance floor.
const csrfSecretBytes = 32

// SessionAuthToken derives the keyed token stored inside a session.
//
// The token is an HMAC-SHA256 over "userID:sessionID" under authTokenKey.
// IsAuthenticated recomputes it from the current session id on every check;
// a session whose id was swapped without the token being regenerated fails
// the comparison and authentication fails closed.
func SessionAuthToken(userID int64, sessionID string, authTokenKey string) string {
	return HashString(fmt.Sprintf("%d:%s", userID, sessionID), authTokenKey)
}

// NewCSRFSecret mints a fresh per-session CSRF secret from the
// cryptographically secure random source.
//
// Returns the base64url-encoded secret or an error if the random source
// fails (which should be treated as a server-side fault, never retried in a
// loop with a weaker source).
func NewCSRFSecret() (string, error) {
	b := make([]byte, csrfSecretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("error generating csrf secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
