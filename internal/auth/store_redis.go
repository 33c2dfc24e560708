// Copyright (c) 2026 Robin CRM. All rights reserved.

package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/robin-crm/robin/internal/platform/apperr"
	"github.com/robin-crm/robin/internal/platform/constants"
)

// RedisTokenDenylist implements [TokenDenylist] on Redis.
//
// Each revoked token ID becomes a key with a TTL equal to the token's
// remaining lifetime, so the denylist is self-cleaning and its size is
// bounded by the number of logouts within one session window.
type RedisTokenDenylist struct {
	client *redis.Client
}

// NewTokenDenylist creates a Redis-backed token denylist.
func NewTokenDenylist(client *redis.Client) *RedisTokenDenylist {
	return &RedisTokenDenylist{client: client}
}

// Revoke marks a token ID as dead for its remaining lifetime.
func (denylist *RedisTokenDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already past expiry; nothing to store.
		return nil
	}

	key := constants.RedisPrefixDenylist + tokenID
	if err := denylist.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return apperr.StorageUnavailable(err)
	}
	return nil
}

// IsRevoked reports whether a token ID has been revoked.
func (denylist *RedisTokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	key := constants.RedisPrefixDenylist + tokenID

	count, err := denylist.client.Exists(ctx, key).Result()
	if err != nil {
		return false, apperr.StorageUnavailable(err)
	}
	return count > 0, nil
}
