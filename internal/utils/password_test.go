package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurePasswordFormat(t *testing.T) {
	stored, err := SecurePassword("hunter22")
	require.NoError(t, err)

	parts := strings.Split(stored, ":")
	require.Len(t, parts, 2, "stored credential must be hash:salt")
	assert.NotEmpty(t, parts[0])
	assert.NotEmpty(t, parts[1])
	assert.False(t, IsLegacyPassword(stored))
}

func TestVerifyPasswordRoundTrip(t *testing.T) {
	stored, err := SecurePassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, VerifyPassword(stored, "correct horse battery staple"))
	assert.False(t, VerifyPassword(stored, "correct horse battery stapl"))
	assert.False(t, VerifyPassword(stored, ""))
}

func TestSecurePasswordSaltsDiffer(t *testing.T) {
	a, err := SecurePassword("same-password")
	require.NoError(t, err)
	b, err := SecurePassword("same-password")
	require.NoError(t, err)

	// Fresh random salt per call, so stored values never collide.
	assert.NotEqual(t, a, b)
	assert.True(t, VerifyPassword(a, "same-password"))
	assert.True(t, VerifyPassword(b, "same-password"))
}

func TestVerifyPasswordLegacyPlaintext(t *testing.T) {
	// Rows predating the hashing scheme hold the raw password with no
	// separator and must still verify by exact match.
	assert.True(t, IsLegacyPassword("oldsecret"))
	assert.True(t, VerifyPassword("oldsecret", "oldsecret"))
	assert.False(t, VerifyPassword("oldsecret", "OldSecret"))
	assert.False(t, VerifyPassword("oldsecret", "oldsecret "))
}

func TestVerifyPasswordGarbageStored(t *testing.T) {
	assert.False(t, VerifyPassword("not-base64!:also-not-base64!", "anything"))
	assert.False(t, VerifyPassword(":", "anything"))
}
