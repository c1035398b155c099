package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a Cache backed by Redis. Tags are Redis sets of member keys
// and generations are plain counters.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the Redis server at addr
func NewRedisCache(addr string) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{client: rdb}
}

// Ping checks the connection
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the underlying client
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// Get returns the value stored under key; any Redis error counts as a miss
func (r *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores value under key for ttl and adds key to every tag set
func (r *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration, tags ...string) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, value, ttl)
	for _, tag := range tags {
		pipe.SAdd(ctx, tagKey(tag), key)
		if ttl > 0 {
			pipe.Expire(ctx, tagKey(tag), ttl)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache %s: %w", key, err)
	}
	return nil
}

// Generation returns the current generation of tag, zero if never invalidated
func (r *RedisCache) Generation(ctx context.Context, tag string) (int64, error) {
	gen, err := r.client.Get(ctx, generationKey(tag)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read generation of %s: %w", tag, err)
	}
	return gen, nil
}

// InvalidateTag bumps the tag's generation, then deletes the keys it tracks.
// Keys added after the member scan belong to an older generation and only
// linger until their TTL.
func (r *RedisCache) InvalidateTag(ctx context.Context, tag string) error {
	if err := r.client.Incr(ctx, generationKey(tag)).Err(); err != nil {
		return fmt.Errorf("failed to bump generation of %s: %w", tag, err)
	}

	keys, err := r.client.SMembers(ctx, tagKey(tag)).Result()
	if err != nil {
		return fmt.Errorf("failed to read tag %s: %w", tag, err)
	}
	keys = append(keys, tagKey(tag))
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate tag %s: %w", tag, err)
	}
	return nil
}
