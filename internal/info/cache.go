package info

import (
	"crypto/md5"
	"fmt"
	"sync"
	"time"
)

type cacheEntry struct {
	data      interface{}
	timestamp time.Time
	ttl       time.Duration
}

// Cache is a TTL response cache shared by the provider tools.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

// NewCache creates a cache and starts its cleanup routine.
func NewCache() *Cache {
	cache := &Cache{
		entries: make(map[string]*cacheEntry),
	}

	go cache.cleanup()

	return cache
}

// Get returns the cached value for key if it has not expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return nil, false
	}

	if time.Since(entry.timestamp) > entry.ttl {
		return nil, false
	}

	return entry.data, true
}

// Set stores a value under key for ttl.
func (c *Cache) Set(key string, data interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &cacheEntry{
		data:      data,
		timestamp: time.Now(),
		ttl:       ttl,
	}
}

// GenerateKey derives a cache key from arbitrary request parameters.
func (c *Cache) GenerateKey(params interface{}) string {
	hash := md5.Sum([]byte(fmt.Sprintf("%+v", params)))
	return fmt.Sprintf("%x", hash)
}

func (c *Cache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, entry := range c.entries {
			if now.Sub(entry.timestamp) > entry.ttl {
				delete(c.entries, key)
			}
		}
		c.mu.Unlock()
	}
}
