package revocations

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/projecthub/internal/server/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisRepository_RevokeSetsTTL(t *testing.T) {
	mr, client := newMiniredis(t)
	repo := NewRedisRepository(client, "")
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	err := repo.Revoke(context.Background(), models.RevokedToken{
		TokenID: "jti-1", UserID: "u-1", ExpiresAt: now.Add(10 * time.Minute),
	})
	require.NoError(t, err)

	got, err := mr.Get(DefaultKeyPrefix + "jti-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got)
	assert.Equal(t, 10*time.Minute, mr.TTL(DefaultKeyPrefix+"jti-1"))
}

func TestRedisRepository_IsRevokedUntilExpiry(t *testing.T) {
	mr, client := newMiniredis(t)
	repo := NewRedisRepository(client, "test:")
	now := time.Now()
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	revoked, err := repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.Revoke(ctx, models.RevokedToken{TokenID: "jti-1", ExpiresAt: now.Add(time.Minute)}))

	revoked, err = repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)

	revoked, err = repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRepository_ClampsShortTTL(t *testing.T) {
	mr, client := newMiniredis(t)
	repo := NewRedisRepository(client, "")
	now := time.Now()
	repo.now = func() time.Time { return now }

	require.NoError(t, repo.Revoke(context.Background(), models.RevokedToken{TokenID: "gone", ExpiresAt: now.Add(-time.Hour)}))
	assert.Equal(t, minEntryTTL, mr.TTL(DefaultKeyPrefix+"gone"))
}

func TestRedisRepository_RevokeIdempotent(t *testing.T) {
	_, client := newMiniredis(t)
	repo := NewRedisRepository(client, "")
	ctx := context.Background()
	tok := models.RevokedToken{TokenID: "jti-1", ExpiresAt: time.Now().Add(time.Hour)}

	require.NoError(t, repo.Revoke(ctx, tok))
	require.NoError(t, repo.Revoke(ctx, tok))

	revoked, err := repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRedisRepository_Unavailable(t *testing.T) {
	mr, client := newMiniredis(t)
	repo := NewRedisRepository(client, "")
	mr.Close()

	_, err := repo.IsRevoked(context.Background(), "jti-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis error")

	err = repo.Revoke(context.Background(), models.RevokedToken{TokenID: "jti-1", ExpiresAt: time.Now().Add(time.Hour)})
	require.Error(t, err)
}

func TestRedisRepository_PurgeNoop(t *testing.T) {
	_, client := newMiniredis(t)
	repo := NewRedisRepository(client, "")

	n, err := repo.Purge(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
}
