package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 1, 168)
	access, refresh, err := tm.CreateTokens(&JWTMessage{UID: "u-1", Email: "admin@example.com"})
	require.NoError(t, err)
	assert.NotEqual(t, access, refresh)

	msg, err := tm.CheckToken(access)
	require.NoError(t, err)
	assert.Equal(t, JWTMessage{UID: "u-1", Email: "admin@example.com"}, msg)
}

func TestTokenRejected(t *testing.T) {
	tm := NewTokenManager("secret", 1, 168)
	access, _, err := tm.CreateTokens(&JWTMessage{UID: "u-1"})
	require.NoError(t, err)

	t.Run("wrong key", func(t *testing.T) {
		_, err := NewTokenManager("other", 1, 168).CheckToken(access)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewTokenManager("secret", 1, 168)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.CheckToken(access)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tm.CheckToken("not-a-token")
		assert.Error(t, err)
	})
}
