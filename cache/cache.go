// ABOUTME: In-memory TTL cache for computed plan responses
// ABOUTME: Thread-safe via sync.Map; keys are digests of canonical request JSON

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

type entry struct {
	data      interface{}
	expiresAt time.Time
}

// Cache is a TTL-bound in-memory cache. Expired entries are dropped lazily
// on read and swept periodically.
type Cache struct {
	store sync.Map
	ttl   time.Duration
}

// New creates a cache whose entries live for ttl. A ttl of zero disables
// expiry sweeping but entries still expire immediately on read.
func New(ttl time.Duration) *Cache {
	c := &Cache{ttl: ttl}
	if ttl > 0 {
		go c.sweep()
	}
	return c
}

// RequestDigest returns a stable cache key for any JSON-serializable request.
func RequestDigest(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// Get returns the cached value for key if present and unexpired.
func (c *Cache) Get(key string) (interface{}, bool) {
	val, ok := c.store.Load(key)
	if !ok {
		return nil, false
	}
	e := val.(entry)
	if time.Now().After(e.expiresAt) {
		c.store.Delete(key)
		slog.Debug("Cache entry expired", "key", key)
		return nil, false
	}
	return e.data, true
}

// Set stores a value under key with the cache's TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.store.Store(key, entry{
		data:      value,
		expiresAt: time.Now().Add(c.ttl),
	})
	slog.Debug("Cache entry set", "key", key, "ttl", c.ttl)
}

// Delete removes a key.
func (c *Cache) Delete(key string) {
	c.store.Delete(key)
}

// sweep periodically removes expired entries so unused keys do not pile up.
func (c *Cache) sweep() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		c.store.Range(func(key, val interface{}) bool {
			if now.After(val.(entry).expiresAt) {
				c.store.Delete(key)
			}
			return true
		})
	}
}
