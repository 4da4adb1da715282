package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// PasswordChecker verifies the admin password. When a bcrypt hash is
// configured it takes precedence; otherwise the plaintext setting is
// compared in constant time. Never use ==.
type PasswordChecker struct {
	plain string
	hash  string
}

// NewPasswordChecker builds a checker from the configured credentials.
// At least one of plain or hash must be non-empty; Configured reports
// whether that holds.
func NewPasswordChecker(plain, hash string) PasswordChecker {
	return PasswordChecker{plain: plain, hash: hash}
}

// Configured reports whether any admin credential is set. An unconfigured
// checker rejects every candidate.
func (c PasswordChecker) Configured() bool {
	return c.plain != "" || c.hash != ""
}

// Check reports whether candidate matches the configured password.
func (c PasswordChecker) Check(candidate string) bool {
	if c.hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(c.hash), []byte(candidate)) == nil
	}
	if c.plain == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.plain), []byte(candidate)) == 1
}

// HashPassword produces a bcrypt hash suitable for the admin password
// hash setting.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
