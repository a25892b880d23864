package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/muzz-matching/internal/config"
	"github.com/oggyb/muzz-matching/internal/repository"
)

const keyPopularInterests = "interests:popular"

type RedisCache struct {
	Client     *redis.Client
	popularTTL time.Duration
	countTTL   time.Duration
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}

	c := &RedisCache{
		Client:     redis.NewClient(opts),
		popularTTL: cfg.Redis.PopularTTL,
		countTTL:   cfg.Redis.CountTTL,
	}
	if c.popularTTL <= 0 {
		c.popularTTL = 5 * time.Minute
	}
	if c.countTTL <= 0 {
		c.countTTL = time.Hour
	}
	return c
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

// KeyForLikeCount generates Redis key for a user's liked-you count
func (c *RedisCache) KeyForLikeCount(userID uint64) string {
	return fmt.Sprintf("likes:count:%d", userID)
}

// GetLikeCount returns the cached liked-you count. ok is false on a miss.
// A hit refreshes the TTL since the user is active.
func (c *RedisCache) GetLikeCount(ctx context.Context, userID uint64) (int64, bool, error) {
	key := c.KeyForLikeCount(userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}

	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		// corrupt entry; treat as a miss and let the caller rebuild it
		_ = c.Client.Del(ctx, key).Err()
		return 0, false, nil
	}
	_ = c.Client.Expire(ctx, key, c.countTTL).Err()
	return n, true, nil
}

// SetLikeCount stores the count with a fresh TTL.
func (c *RedisCache) SetLikeCount(ctx context.Context, userID uint64, count int64) error {
	return c.Client.Set(ctx, c.KeyForLikeCount(userID), count, c.countTTL).Err()
}

// InvalidateLikeCount drops the cached count; the next read rebuilds it.
func (c *RedisCache) InvalidateLikeCount(ctx context.Context, userID uint64) error {
	return c.Client.Del(ctx, c.KeyForLikeCount(userID)).Err()
}

// GetPopular returns the cached popularity ranking. ok is false on a miss.
func (c *RedisCache) GetPopular(ctx context.Context) ([]repository.InterestUsage, bool, error) {
	val, err := c.Client.Get(ctx, keyPopularInterests).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}

	var out []repository.InterestUsage
	if err := json.Unmarshal(val, &out); err != nil {
		_ = c.Client.Del(ctx, keyPopularInterests).Err()
		return nil, false, nil
	}
	return out, true, nil
}

// SetPopular caches the popularity ranking.
func (c *RedisCache) SetPopular(ctx context.Context, ranking []repository.InterestUsage) error {
	b, err := json.Marshal(ranking)
	if err != nil {
		return fmt.Errorf("failed to marshal popular interests: %w", err)
	}
	return c.Client.Set(ctx, keyPopularInterests, b, c.popularTTL).Err()
}

// InvalidatePopular drops the cached popularity ranking.
func (c *RedisCache) InvalidatePopular(ctx context.Context) error {
	return c.Client.Del(ctx, keyPopularInterests).Err()
}
