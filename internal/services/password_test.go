package services

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"
)

func TestValidateStrength(t *testing.T) {
	svc := NewPasswordService()

	tests := []struct {
		name       string
		password   string
		errorCount int
	}{
		{name: "strong password", password: "Str0ng!pass", errorCount: 0},
		{name: "too short", password: "S1!a", errorCount: 1},
		{name: "no uppercase", password: "weak1!pass", errorCount: 1},
		{name: "no digit or special", password: "Weakpassword", errorCount: 2},
		{name: "everything wrong", password: "abc", errorCount: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, svc.ValidateStrength(tt.password), tt.errorCount)
		})
	}
}

func TestValidateEmail(t *testing.T) {
	svc := NewPasswordService()

	assert.True(t, svc.ValidateEmail("user@example.com"))
	assert.True(t, svc.ValidateEmail("a+b@sub.domain.org"))
	assert.False(t, svc.ValidateEmail("not-an-email"))
	assert.False(t, svc.ValidateEmail("spaces in@example.com"))
	assert.False(t, svc.ValidateEmail("missing@tld"))
}

func TestHashAndVerify_Bcrypt(t *testing.T) {
	svc := NewPasswordService()

	hash, err := svc.Hash("Str0ng!pass")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2"))

	valid, needsUpgrade := svc.Verify("Str0ng!pass", hash)
	assert.True(t, valid)
	assert.False(t, needsUpgrade)

	valid, _ = svc.Verify("wrong password", hash)
	assert.False(t, valid)
}

// legacyHash builds a passlib-format pbkdf2-sha256 hash for test fixtures.
func legacyHash(password string, salt []byte, rounds int) string {
	derived := pbkdf2.Key([]byte(password), salt, rounds, 32, sha256.New)
	enc := func(b []byte) string {
		return strings.ReplaceAll(base64.RawStdEncoding.EncodeToString(b), "+", ".")
	}
	return fmt.Sprintf("$pbkdf2-sha256$%d$%s$%s", rounds, enc(salt), enc(derived))
}

func TestVerify_LegacyPBKDF2(t *testing.T) {
	svc := NewPasswordService()
	salt := []byte("0123456789abcdef")
	stored := legacyHash("Imported!1", salt, 1000)

	valid, needsUpgrade := svc.Verify("Imported!1", stored)
	assert.True(t, valid)
	assert.True(t, needsUpgrade, "legacy hashes must be flagged for rehash")

	valid, _ = svc.Verify("wrong", stored)
	assert.False(t, valid)
}

func TestVerify_MalformedLegacyHash(t *testing.T) {
	svc := NewPasswordService()

	for _, stored := range []string{
		"$pbkdf2-sha256$",
		"$pbkdf2-sha256$abc$salt$hash",
		"$pbkdf2-sha256$1000$not*base64$hash",
	} {
		valid, _ := svc.Verify("anything", stored)
		assert.False(t, valid, "malformed hash %q must not verify", stored)
	}
}
