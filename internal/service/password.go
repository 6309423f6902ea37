// SPDX-License-Identifier: Apache-2.0

package service

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/studiogest/pratiko/internal/utils"
)

// minPasswordLength is the floor enforced on every new password accepted
// through ChangePassword and ResetPassword. Existing stored hashes are
// never re-checked against it.
const minPasswordLength = 8

// PasswordHasher abstracts the credential hashing strategy so that the auth
// core can verify hashes produced by more than one scheme and transparently
// migrate accounts to the current one.
type PasswordHasher interface {
	// Hash derives a storable digest from the plaintext secret using the
	// current scheme.
	Hash(secret string) (string, error)

	// Verify reports whether the plaintext secret matches the stored hash,
	// recognizing both the current and the legacy scheme.
	Verify(secret, hash string) bool

	// NeedsRehash reports whether the stored hash should be replaced on
	// the next successful verification: it is a legacy-scheme digest or a
	// current-scheme digest produced at a lower cost.
	NeedsRehash(hash string) bool
}

// bcryptHasher produces bcrypt digests and additionally recognizes the
// retired keyed HMAC-SHA256 hex scheme for verification only, so that
// pre-migration accounts keep working and get upgraded on login.
type bcryptHasher struct {
	cost      int
	legacyKey string
}

// NewPasswordHasher returns the production PasswordHasher. cost is the
// bcrypt cost for newly produced hashes; legacyHashKey is the HMAC key of
// the retired scheme (empty disables legacy verification entirely).
func NewPasswordHasher(cost int, legacyHashKey string) PasswordHasher {
	return &bcryptHasher{
		cost:      cost,
		legacyKey: legacyHashKey,
	}
}

func (h *bcryptHasher) Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("error occured during hashing password: %w", err)
	}
	return string(digest), nil
}

func (h *bcryptHasher) Verify(secret, hash string) bool {
	if hash == "" {
		return false
	}

	if isBcryptHash(hash) {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
	}

	// legacy scheme: hex HMAC-SHA256 under the retired key
	if h.legacyKey == "" {
		return false
	}
	return utils.SecureCompare(utils.HashString(secret, h.legacyKey), hash)
}

func (h *bcryptHasher) NeedsRehash(hash string) bool {
	if !isBcryptHash(hash) {
		return true
	}

	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return true
	}
	return cost < h.cost
}

func isBcryptHash(hash string) bool {
	return strings.HasPrefix(hash, "$2")
}

// checkPasswordStrength enforces the minimum policy on a proposed password.
func checkPasswordStrength(secret string) error {
	if len(secret) < minPasswordLength {
		return ErrWeakPassword
	}
	return nil
}
