package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiylo/backend/internal/infrastructure/config"
)

func testJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret-at-least-32-chars!!",
		RefreshSecret:          "test-refresh-secret-at-least-32-chars!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "kiylo-test",
		MaxRefreshCount:        3,
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := testJWTService()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(userID, "jane@example.com", []string{"admin"})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int64(900), pair.ExpiresIn)

	t.Run("access token carries identity", func(t *testing.T) {
		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, "jane@example.com", claims.Email)
		assert.Equal(t, []string{"admin"}, claims.Roles)
		assert.Equal(t, TokenTypeAccess, claims.TokenType)
		assert.NotEmpty(t, claims.ID)

		parsed, err := claims.GetUserUUID()
		require.NoError(t, err)
		assert.Equal(t, userID, parsed)
	})

	t.Run("refresh token rejected as access token", func(t *testing.T) {
		_, err := svc.ValidateAccessToken(pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("access token rejected as refresh token", func(t *testing.T) {
		_, err := svc.ValidateRefreshToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret-at-least-32-chars!!",
		AccessTokenExpiration:  -time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "kiylo-test",
	})

	pair, err := svc.GenerateTokenPair(uuid.New(), "jane@example.com", []string{"user"})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_Refresh(t *testing.T) {
	svc := testJWTService()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(userID, "jane@example.com", []string{"user"})
	require.NoError(t, err)

	t.Run("refresh yields new pair with incremented count", func(t *testing.T) {
		next, err := svc.RefreshTokenPair(pair.RefreshToken)
		require.NoError(t, err)
		assert.NotEqual(t, pair.AccessToken, next.AccessToken)

		claims, err := svc.ValidateRefreshToken(next.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, 1, claims.RefreshCount)
	})

	t.Run("refresh chain is bounded", func(t *testing.T) {
		current := pair
		for i := 0; i < 3; i++ {
			next, err := svc.RefreshTokenPair(current.RefreshToken)
			require.NoError(t, err)
			current = next
		}
		_, err := svc.RefreshTokenPair(current.RefreshToken)
		assert.ErrorIs(t, err, ErrRefreshLimitReached)
	})

	t.Run("access token cannot be refreshed", func(t *testing.T) {
		_, err := svc.RefreshTokenPair(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestJWTService_WrongSecret(t *testing.T) {
	svc := testJWTService()
	pair, err := svc.GenerateTokenPair(uuid.New(), "jane@example.com", nil)
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{
		Secret:                 "completely-different-secret-32-chars!!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "kiylo-test",
	})

	_, err = other.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashPassword(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		hash, err := HashPassword("s3cret-password")
		require.NoError(t, err)
		assert.True(t, VerifyPassword(hash, "s3cret-password"))
		assert.False(t, VerifyPassword(hash, "wrong-password"))
	})

	t.Run("too short", func(t *testing.T) {
		_, err := HashPassword("short")
		assert.Error(t, err)
	})
}
