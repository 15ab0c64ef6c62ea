package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	bl := NewInMemoryTokenBlacklist()

	t.Run("unknown jti is not blacklisted", func(t *testing.T) {
		blocked, err := bl.IsBlacklisted(ctx, "unknown")
		require.NoError(t, err)
		assert.False(t, blocked)
	})

	t.Run("blacklisted jti is blocked until expiry", func(t *testing.T) {
		require.NoError(t, bl.AddToBlacklist(ctx, "jti-1", time.Minute))

		blocked, err := bl.IsBlacklisted(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, blocked)
	})

	t.Run("expired entry is pruned", func(t *testing.T) {
		require.NoError(t, bl.AddToBlacklist(ctx, "jti-2", time.Nanosecond))
		time.Sleep(time.Millisecond)

		blocked, err := bl.IsBlacklisted(ctx, "jti-2")
		require.NoError(t, err)
		assert.False(t, blocked)
	})

	t.Run("zero ttl is a no-op", func(t *testing.T) {
		require.NoError(t, bl.AddToBlacklist(ctx, "jti-3", 0))

		blocked, err := bl.IsBlacklisted(ctx, "jti-3")
		require.NoError(t, err)
		assert.False(t, blocked)
	})
}

func TestInMemoryTokenBlacklist_UserInvalidation(t *testing.T) {
	ctx := context.Background()
	bl := NewInMemoryTokenBlacklist()

	issuedBefore := time.Now().Add(-time.Minute)
	require.NoError(t, bl.AddUserTokensToBlacklist(ctx, "user-1", time.Hour))
	issuedAfter := time.Now().Add(time.Minute)

	t.Run("tokens issued before cutoff are invalid", func(t *testing.T) {
		invalid, err := bl.IsUserTokenInvalidated(ctx, "user-1", issuedBefore)
		require.NoError(t, err)
		assert.True(t, invalid)
	})

	t.Run("tokens issued after cutoff remain valid", func(t *testing.T) {
		invalid, err := bl.IsUserTokenInvalidated(ctx, "user-1", issuedAfter)
		require.NoError(t, err)
		assert.False(t, invalid)
	})

	t.Run("other users unaffected", func(t *testing.T) {
		invalid, err := bl.IsUserTokenInvalidated(ctx, "user-2", issuedBefore)
		require.NoError(t, err)
		assert.False(t, invalid)
	})
}
