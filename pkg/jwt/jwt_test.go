package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(secret, 42, "a@b.c", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, "a@b.c", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestTokenExpired(t *testing.T) {
	token, err := GenerateToken(secret, 1, "a@b.c", "customer", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(secret, token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(secret, 1, "a@b.c", "customer", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken([]byte("other"), token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenGarbage(t *testing.T) {
	_, err := ParseToken(secret, "not-a-token")
	require.ErrorIs(t, err, ErrTokenInvalid)
}
