package auth

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist_Revoke(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.Revoke(ctx, "jti-1", time.Hour))

	revoked, err := blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_EntryLapses(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	blacklist.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, blacklist.Revoke(ctx, "jti-expire", time.Minute))

	now = now.Add(2 * time.Minute)
	revoked, err := blacklist.IsRevoked(ctx, "jti-expire")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Empty(t, blacklist.revoked)
}

func TestInMemoryTokenBlacklist_IgnoresExpiredTokens(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.Revoke(ctx, "already-dead", 0))

	revoked, err := blacklist.IsRevoked(ctx, "already-dead")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisTokenBlacklist_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	blacklist := NewRedisTokenBlacklist(client)

	_, err := blacklist.IsRevoked(context.Background(), "jti")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to check token blacklist")

	err = blacklist.Revoke(context.Background(), "jti", time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to revoke token")
}
