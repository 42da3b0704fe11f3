package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisTimeout bounds a single template lookup
const DefaultRedisTimeout = 2 * time.Second

// Getter is the part of a Redis client Redis needs
type Getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// Redis locates templates stored as string keys "<prefix><id>"
type Redis struct {
	client  Getter
	prefix  string
	timeout time.Duration
}

// NewRedis creates a Redis locator
func NewRedis(client Getter, prefix string, timeout time.Duration) *Redis {
	if timeout <= 0 {
		timeout = DefaultRedisTimeout
	}
	return &Redis{client: client, prefix: prefix, timeout: timeout}
}

// Source implements Locator.
func (r *Redis) Source(id string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	src, err := r.client.Get(ctx, r.prefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get template %s from redis: %w", id, err)
	}
	return src, true, nil
}
