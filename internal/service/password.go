package service

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// passwordSymbols is the allowed special character set for passwords.
const passwordSymbols = "!@#$%^&*"

// PasswordHasher performs one-way password hashing and verification.
// Implementations must be safe for concurrent use.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

type bcryptHasher struct {
	cost int
}

// NewPasswordHasher creates a bcrypt-backed hasher. Costs outside
// bcrypt's supported range fall back to the default cost.
func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify fails closed: a malformed hash verifies as false, never as an
// error the caller could mishandle. bcrypt's comparison is constant time.
func (h *bcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// ValidatePasswordStrength checks password rules in fixed order:
// length, uppercase, digit, symbol. The first violated rule's message
// is returned; an empty message means the password passes.
func ValidatePasswordStrength(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}
	if !containsRange(password, 'A', 'Z') {
		return false, "Password must contain at least one uppercase letter"
	}
	if !containsRange(password, '0', '9') {
		return false, "Password must contain at least one number"
	}
	if !strings.ContainsAny(password, passwordSymbols) {
		return false, "Password must contain at least one special character"
	}
	return true, ""
}

func containsRange(s string, lo, hi byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= lo && s[i] <= hi {
			return true
		}
	}
	return false
}
