package cache

import (
	"context"
	"time"
)

// Cache stores serialized results with a TTL. Entries can be grouped under
// tags and dropped together. Each tag carries a generation that only grows;
// InvalidateTag bumps it so keys built from an older generation are never
// read again.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration, tags ...string) error
	Generation(ctx context.Context, tag string) (int64, error)
	InvalidateTag(ctx context.Context, tag string) error
}

func tagKey(tag string) string {
	return "tag:" + tag
}

func generationKey(tag string) string {
	return "gen:" + tag
}
