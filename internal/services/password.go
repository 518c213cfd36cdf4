package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	passwordMinLength = 8

	// Hash format of accounts imported from the previous backend:
	// $pbkdf2-sha256$<rounds>$<salt>$<hash> with adapted base64 (passlib).
	legacyHashPrefix = "$pbkdf2-sha256$"
	legacyKeyLength  = 32
)

var (
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`\d`)
	specialRe = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// PasswordService validates credentials and handles both current bcrypt
// hashes and legacy PBKDF2 hashes carried over from the old backend.
type PasswordService struct{}

func NewPasswordService() *PasswordService {
	return &PasswordService{}
}

// ValidateStrength returns every unmet strength requirement, empty when the
// password passes.
func (s *PasswordService) ValidateStrength(password string) []string {
	var errors []string
	if len(password) < passwordMinLength {
		errors = append(errors, fmt.Sprintf("Password must be at least %d characters long", passwordMinLength))
	}
	if !upperRe.MatchString(password) {
		errors = append(errors, "Password must contain at least one uppercase letter")
	}
	if !lowerRe.MatchString(password) {
		errors = append(errors, "Password must contain at least one lowercase letter")
	}
	if !digitRe.MatchString(password) {
		errors = append(errors, "Password must contain at least one number")
	}
	if !specialRe.MatchString(password) {
		errors = append(errors, "Password must contain at least one special character")
	}
	return errors
}

// ValidateEmail reports whether the email has a plausible shape.
func (s *PasswordService) ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

// Hash produces a bcrypt hash for new or rehashed credentials.
func (s *PasswordService) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify checks a password against a stored hash. needsUpgrade is true when
// the stored hash is a legacy PBKDF2 hash that should be replaced with bcrypt
// on successful login.
func (s *PasswordService) Verify(password, stored string) (valid bool, needsUpgrade bool) {
	if strings.HasPrefix(stored, legacyHashPrefix) {
		return verifyLegacyPBKDF2(password, stored), true
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil, false
}

func verifyLegacyPBKDF2(password, stored string) bool {
	// $pbkdf2-sha256$200000$<salt>$<hash>
	parts := strings.Split(strings.TrimPrefix(stored, "$"), "$")
	if len(parts) != 4 {
		return false
	}

	rounds, err := strconv.Atoi(parts[1])
	if err != nil || rounds <= 0 {
		return false
	}
	salt, err := decodeAdaptedBase64(parts[2])
	if err != nil {
		return false
	}
	expected, err := decodeAdaptedBase64(parts[3])
	if err != nil {
		return false
	}

	derived := pbkdf2.Key([]byte(password), salt, rounds, legacyKeyLength, sha256.New)
	return hmac.Equal(derived, expected)
}

// decodeAdaptedBase64 decodes passlib's base64 variant: '.' instead of '+',
// no padding.
func decodeAdaptedBase64(s string) ([]byte, error) {
	return base64.RawStdEncoding.DecodeString(strings.ReplaceAll(s, ".", "+"))
}
