package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccessTokenClaims(t *testing.T) {
	at, err := NewAccessToken("test-secret", 42, "Admin", 15)
	require.NoError(t, err)
	require.NotEmpty(t, at.Token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), at.Exp, 5*time.Second)

	tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)

	claims, ok := tok.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "Admin", claims["role"])
}

func TestNewAccessTokenWrongSecret(t *testing.T) {
	at, err := NewAccessToken("right-secret", 1, "User", 15)
	require.NoError(t, err)

	_, err = jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	})
	assert.Error(t, err)
}

func TestNewRefreshToken(t *testing.T) {
	a, err := NewRefreshToken(7)
	require.NoError(t, err)
	b, err := NewRefreshToken(7)
	require.NoError(t, err)

	assert.Len(t, a.Raw, 96) // 48 random bytes hex-encoded
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), a.Exp, 5*time.Second)
}

func TestHashRefreshRawStable(t *testing.T) {
	h1 := HashRefreshRaw("some-raw-token")
	h2 := HashRefreshRaw("some-raw-token")
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
	assert.NotEqual(t, h1, HashRefreshRaw("other-raw-token"))
}
