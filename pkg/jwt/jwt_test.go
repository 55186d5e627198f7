package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/coursebook/pkg/errors"
)

func TestGenerateAndParse(t *testing.T) {
	m := NewManager("secret", time.Hour, 24*time.Hour)

	pair, err := m.GenerateToken(42, "a@example.com", "Alice")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	claims, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "Alice", claims.DisplayName)
	assert.Equal(t, "42", claims.Subject)

	ttl := claims.TTL(time.Now())
	assert.Greater(t, ttl, 59*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)
}

func TestParseToken_Errors(t *testing.T) {
	m := NewManager("secret", time.Hour, time.Hour)

	t.Run("过期", func(t *testing.T) {
		expired := NewManager("secret", -time.Minute, time.Hour)
		pair, err := expired.GenerateToken(1, "", "")
		require.NoError(t, err)

		_, err = m.ParseToken(pair.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})

	t.Run("签名不匹配", func(t *testing.T) {
		other := NewManager("other", time.Hour, time.Hour)
		pair, err := other.GenerateToken(1, "", "")
		require.NoError(t, err)

		_, err = m.ParseToken(pair.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("格式错误", func(t *testing.T) {
		_, err := m.ParseToken("not-a-token")
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}

func TestRefreshAccessToken(t *testing.T) {
	m := NewManager("secret", time.Hour, 24*time.Hour)
	pair, err := m.GenerateToken(7, "old@example.com", "Old")
	require.NoError(t, err)

	token, userID, err := m.RefreshAccessToken(pair.RefreshToken, "new@example.com", "New")
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "New", claims.DisplayName)
}
