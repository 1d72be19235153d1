package revocations

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/projecthub/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultKeyPrefix = "projecthub:revoked:"

	// Redis rejects a zero or negative expiry, and a token that is about to
	// expire still needs its entry for the remaining milliseconds.
	minEntryTTL = time.Second
)

// RedisRepository keeps one key per revoked token with a TTL equal to the
// token's remaining lifetime, so Redis expires entries on its own.
type RedisRepository struct {
	client redis.Cmdable
	prefix string
	now    func() time.Time
}

func NewRedisRepository(client redis.Cmdable, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisRepository{client: client, prefix: prefix, now: time.Now}
}

// NewRedisClient builds a client for addr. The caller owns Close.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func (r *RedisRepository) key(tokenID string) string {
	return r.prefix + tokenID
}

func (r *RedisRepository) Revoke(ctx context.Context, token models.RevokedToken) error {
	ttl := token.ExpiresAt.Sub(r.now())
	if ttl < minEntryTTL {
		ttl = minEntryTTL
	}

	if err := r.client.Set(ctx, r.key(token.TokenID), token.UserID, ttl).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis error: %w", err)
	}
	return n > 0, nil
}

// Purge is a no-op: Redis expires entries itself.
func (r *RedisRepository) Purge(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}
