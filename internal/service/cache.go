package service

import (
	"context"
	"encoding/json"
	"fmt"
)

func userTag(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

func cacheKey(userID, generation int64, name string) string {
	return fmt.Sprintf("liquidity:%d:%d:%s", userID, generation, name)
}

// cached serves a result from the cache or computes and stores it. The key
// carries the user's generation read before computing, so a result that
// finishes after a concurrent write lands under a key nobody reads. Cache
// failures only cost a recomputation.
func cached[T any](ctx context.Context, s *Service, userID int64, name string, compute func() (T, error)) (T, error) {
	gen, err := s.cache.Generation(ctx, userTag(userID))
	if err != nil {
		s.log.Warnf("Bypassing cache for user %d: %v", userID, err)
		return compute()
	}

	key := cacheKey(userID, gen, name)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			return v, nil
		}
		s.log.Warnf("Discarding unreadable cache entry %s", key)
	}

	v, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}

	raw, err := json.Marshal(v)
	if err != nil {
		s.log.Warnf("Failed to encode %s for cache: %v", key, err)
		return v, nil
	}
	if err := s.cache.Set(ctx, key, string(raw), s.config.CacheTTL, userTag(userID)); err != nil {
		s.log.Warnf("Failed to cache %s: %v", key, err)
	}
	return v, nil
}

func (s *Service) invalidate(ctx context.Context, userID int64) {
	if err := s.cache.InvalidateTag(ctx, userTag(userID)); err != nil {
		s.log.Warnf("Failed to invalidate cache for user %d: %v", userID, err)
	}
}
