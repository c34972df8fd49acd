package yandexhome

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Cache stores raw response bodies of read operations.
// Implementations must be safe for concurrent access.
type Cache interface {
	// Get returns the body stored under key, if present and not expired.
	Get(key string) ([]byte, bool)

	// Set stores body under key. A ttl of 0 or less never expires.
	Set(key string, body []byte, ttl time.Duration)

	// Delete removes key.
	Delete(key string)

	// Clear removes every entry.
	Clear()
}

type cacheEntry struct {
	body      []byte
	expiresAt time.Time
	noExpiry  bool
}

// MemoryCache is a thread-safe in-memory Cache.
type MemoryCache struct {
	entries map[string]*cacheEntry
	mu      sync.RWMutex
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*cacheEntry),
	}
}

// Get retrieves a body from the cache.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}
	if !entry.noExpiry && time.Now().After(entry.expiresAt) {
		c.Delete(key)
		return nil, false
	}
	return entry.body, true
}

// Set stores a body with the given TTL.
func (c *MemoryCache) Set(key string, body []byte, ttl time.Duration) {
	entry := &cacheEntry{body: body}
	if ttl <= 0 {
		entry.noExpiry = true
	} else {
		entry.expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
}

// Delete removes a body from the cache.
func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear removes all bodies from the cache.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

// Size returns the number of entries, including expired ones.
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Cleanup removes expired entries and returns how many were removed.
func (c *MemoryCache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, entry := range c.entries {
		if !entry.noExpiry && now.After(entry.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// CacheConfig configures response caching for a Client.
type CacheConfig struct {
	// Cache is the cache implementation to use.
	Cache Cache

	// UserInfoTTL is how long a user info snapshot is reused.
	// Defaults to 30 seconds if zero.
	UserInfoTTL time.Duration

	// StateTTL is how long device and group states are reused.
	// Defaults to 10 seconds if zero.
	StateTTL time.Duration
}

// DefaultCacheConfig returns a CacheConfig with an in-memory cache.
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		Cache:       NewMemoryCache(),
		UserInfoTTL: 30 * time.Second,
		StateTTL:    10 * time.Second,
	}
}

// WithCache enables caching of read operations. Cached bodies are decoded
// again on every hit, so callers never share model values. Any action request
// and any credential change empties the cache.
//
// Example:
//
//	client, _ := yandexhome.NewClient(token,
//	    yandexhome.WithCache(yandexhome.DefaultCacheConfig()),
//	)
func WithCache(config *CacheConfig) Option {
	return func(c *Client) {
		if config == nil {
			config = DefaultCacheConfig()
		}
		if config.Cache == nil {
			config.Cache = NewMemoryCache()
		}
		if config.UserInfoTTL == 0 {
			config.UserInfoTTL = 30 * time.Second
		}
		if config.StateTTL == 0 {
			config.StateTTL = 10 * time.Second
		}
		c.cacheConfig = config
	}
}

// cacheKey joins an operation name and identifiers, for example
// "device_state:lamp-1".
func cacheKey(op string, ids ...string) string {
	return strings.Join(append([]string{op}, ids...), ":")
}

// getCached returns the body of a GET request, from the cache when possible.
// Only 2xx bodies are stored. A body fetched while the cache was invalidated
// is returned but not kept.
func (c *Client) getCached(ctx context.Context, op, path, key string, ttl time.Duration) ([]byte, error) {
	if c.cacheConfig == nil {
		resp, err := c.get(ctx, op, path)
		if err != nil {
			return nil, err
		}
		return resp.body, nil
	}

	if body, ok := c.cacheConfig.Cache.Get(key); ok {
		if c.logger != nil {
			c.logger.LogAttrs(ctx, slog.LevelDebug, "cache_hit",
				slog.String("operation", op),
				slog.String("key", key),
			)
		}
		return body, nil
	}

	gen := c.cacheGen.Load()
	resp, err := c.get(ctx, op, path)
	if err != nil {
		return nil, err
	}
	if c.cacheGen.Load() == gen {
		c.cacheConfig.Cache.Set(key, resp.body, ttl)
		// An invalidation may have landed between the check and the store.
		if c.cacheGen.Load() != gen {
			c.cacheConfig.Cache.Delete(key)
		}
	}
	return resp.body, nil
}

// InvalidateCache removes every cached response.
func (c *Client) InvalidateCache() {
	if c.cacheConfig == nil {
		return
	}
	c.cacheGen.Add(1)
	c.cacheConfig.Cache.Clear()
}

func (c *Client) userInfoTTL() time.Duration {
	if c.cacheConfig == nil {
		return 0
	}
	return c.cacheConfig.UserInfoTTL
}

func (c *Client) stateTTL() time.Duration {
	if c.cacheConfig == nil {
		return 0
	}
	return c.cacheConfig.StateTTL
}
