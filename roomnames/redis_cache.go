package roomnames

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	// Key names for Redis
	availableKey = "puttbot:roomnames:available"
	usedKey      = "puttbot:roomnames:used"
)

// RedisCache is a Cache shared by every bot process pointed at the same Redis
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis-backed cache and checks the connection
func NewRedisCache(ctx context.Context, client *redis.Client) (*RedisCache, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Add(ctx context.Context, words ...string) error {
	if len(words) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	checks := make([]*redis.BoolCmd, len(words))
	for i, w := range words {
		checks[i] = pipe.SIsMember(ctx, usedKey, w)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to check used words: %w", err)
	}

	fresh := make([]interface{}, 0, len(words))
	for i, w := range words {
		if !checks[i].Val() {
			fresh = append(fresh, w)
		}
	}
	if len(fresh) == 0 {
		return nil
	}
	if err := c.client.SAdd(ctx, availableKey, fresh...).Err(); err != nil {
		return fmt.Errorf("failed to cache words: %w", err)
	}
	return nil
}

func (c *RedisCache) Pop(ctx context.Context) (string, bool, error) {
	word, err := c.client.SPop(ctx, availableKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to pop word: %w", err)
	}
	return word, true, nil
}

func (c *RedisCache) MarkUsed(ctx context.Context, word string) error {
	pipe := c.client.TxPipeline()
	pipe.SAdd(ctx, usedKey, word)
	pipe.SRem(ctx, availableKey, word)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to mark word used: %w", err)
	}
	return nil
}

func (c *RedisCache) Len(ctx context.Context) (int64, error) {
	n, err := c.client.SCard(ctx, availableKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count words: %w", err)
	}
	return n, nil
}
