package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccessToken_Claims(t *testing.T) {
	at, err := NewAccessToken("test-secret", 42, "subadmin", 60)
	require.NoError(t, err)
	require.NotEmpty(t, at.Token)

	parsed, err := jwt.Parse(at.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["id"])
	assert.Equal(t, "subadmin", claims["role"])
	assert.InDelta(t, time.Now().Add(60*time.Minute).Unix(), at.Exp.Unix(), 5)
}

func TestNewAccessToken_WrongSecretRejected(t *testing.T) {
	at, err := NewAccessToken("test-secret", 42, "admin", 60)
	require.NoError(t, err)

	_, err = jwt.Parse(at.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	assert.Error(t, err)
}

func TestNewResetToken(t *testing.T) {
	tok, err := NewResetToken(30)
	require.NoError(t, err)

	assert.Len(t, tok.Raw, 64) // 32 random bytes hex encoded
	assert.InDelta(t, time.Now().Add(30*time.Minute).Unix(), tok.Exp.Unix(), 5)

	// The stored hash never equals the raw token and is deterministic.
	h := HashResetRaw(tok.Raw)
	assert.NotEqual(t, tok.Raw, h)
	assert.Equal(t, h, HashResetRaw(tok.Raw))

	other, err := NewResetToken(30)
	require.NoError(t, err)
	assert.NotEqual(t, tok.Raw, other.Raw)
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret!", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)

	assert.True(t, VerifyPassword(hash, "s3cret!"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}
