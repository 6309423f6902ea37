package utils

import (
	"net/mail"
	"strings"
)

// NormalizeEmail lowercases and trims the submitted identity so that lookups,
// lockout counters and audit rows all agree on one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsEmailShaped reports whether the string looks like a plain e-mail address
// (single addr-spec, no display name, dotted domain). It is a shape check
// performed before any storage access, not a deliverability check.
func IsEmailShaped(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" || addr.Address != email {
		return false
	}

	at := strings.LastIndex(email, "@")
	if at < 1 {
		return false
	}
	domain := email[at+1:]

	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}
