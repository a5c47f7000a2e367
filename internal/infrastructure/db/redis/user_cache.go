package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/domain"
	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/ports"
)

const userKeyPrefix = "auth:user:"

var _ ports.UserCache = (*UserCache)(nil)

// UserCache stores resolved users keyed by token digest.
// Key format: auth:user:<sha256 of token>
type UserCache struct {
	client redis.Cmdable
}

func NewUserCache(client redis.Cmdable) *UserCache {
	return &UserCache{client: client}
}

// Get returns nil without error on a miss.
func (c *UserCache) Get(ctx context.Context, key string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, userKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("user cache get: %w", err)
	}

	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("user cache decode: %w", err)
	}
	return &u, nil
}

func (c *UserCache) Set(ctx context.Context, key string, user *domain.User, ttl time.Duration) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("user cache encode: %w", err)
	}
	if err := c.client.Set(ctx, userKeyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("user cache set: %w", err)
	}
	return nil
}
