package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value   string
	expires time.Time
}

// MemoryCache is an in-process Cache used when no Redis address is configured
type MemoryCache struct {
	mu   sync.Mutex
	data map[string]entry
	tags map[string]map[string]struct{}
	gens map[string]int64
	now  func() time.Time
}

// NewMemoryCache creates an empty in-process cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: make(map[string]entry),
		tags: make(map[string]map[string]struct{}),
		gens: make(map[string]int64),
		now:  time.Now,
	}
}

// Get returns the value stored under key unless it has expired
func (m *MemoryCache) Get(ctx context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[key]
	if !ok {
		return "", false
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.data, key)
		return "", false
	}
	return e.value, true
}

// Set stores value under key for ttl and records it under every tag. A
// non-positive ttl keeps the entry until its tag is invalidated.
func (m *MemoryCache) Set(ctx context.Context, key, value string, ttl time.Duration, tags ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := entry{value: value}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.data[key] = e
	for _, tag := range tags {
		members, ok := m.tags[tagKey(tag)]
		if !ok {
			members = make(map[string]struct{})
			m.tags[tagKey(tag)] = members
		}
		members[key] = struct{}{}
	}
	return nil
}

// Generation returns the current generation of tag, zero if never invalidated
func (m *MemoryCache) Generation(ctx context.Context, tag string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gens[generationKey(tag)], nil
}

// InvalidateTag bumps the tag's generation and drops every entry stored under it
func (m *MemoryCache) InvalidateTag(ctx context.Context, tag string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gens[generationKey(tag)]++
	for key := range m.tags[tagKey(tag)] {
		delete(m.data, key)
	}
	delete(m.tags, tagKey(tag))
	return nil
}
