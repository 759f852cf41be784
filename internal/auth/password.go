package auth

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"scribbly/internal/utils"
)

// Punctuation accepted by the password policy.
const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

// HashPassword hashes a plaintext password with bcrypt. The salt is
// generated per call, so hashing the same password twice yields
// different digests that both verify.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword reports whether the plaintext matches the digest.
// A malformed digest is treated as a mismatch, never an error.
func CheckPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// ValidatePassword enforces the registration password policy. Rules are
// checked in a fixed order and only the first violated rule is reported.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return utils.NewValidationError("Password must be at least 8 characters long")
	}
	if !containsFunc(password, unicode.IsUpper) {
		return utils.NewValidationError("Password must contain at least one uppercase letter")
	}
	if !containsFunc(password, unicode.IsLower) {
		return utils.NewValidationError("Password must contain at least one lowercase letter")
	}
	if !containsFunc(password, unicode.IsDigit) {
		return utils.NewValidationError("Password must contain at least one number")
	}
	if !strings.ContainsAny(password, passwordSymbols) {
		return utils.NewValidationError("Password must contain at least one special character")
	}
	return nil
}

func containsFunc(s string, f func(rune) bool) bool {
	for _, r := range s {
		if f(r) {
			return true
		}
	}
	return false
}
