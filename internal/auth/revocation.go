package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	rediskeys "github.com/herdup/herdup/pkg/redis"
)

// RevocationStore remembers signed-out token IDs until the tokens expire on their own.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisRevocations keeps revoked token IDs as expiring Redis keys.
type RedisRevocations struct {
	client *redis.Client
}

// NewRedisRevocations creates a Redis-backed revocation store.
func NewRedisRevocations(client *redis.Client) *RedisRevocations {
	return &RedisRevocations{client: client}
}

// Revoke marks tokenID revoked until expiresAt. Already-expired tokens are ignored.
func (r *RedisRevocations) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, rediskeys.Key("revoked", tokenID), 1, ttl).Err()
}

// IsRevoked reports whether tokenID was signed out.
func (r *RedisRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, rediskeys.Key("revoked", tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
