// Package cache provides the bounded TTL caches used for intent analyses and
// embeddings.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultSize bounds each cache when no size is configured.
const DefaultSize = 1024

// TTL is a size-bounded cache whose entries expire after a fixed duration.
// Values are stored and returned as-is; callers store immutable values and
// replace them wholesale.
type TTL[K comparable, V any] struct {
	lru *expirable.LRU[K, V]
	ttl time.Duration
}

// New creates a cache holding at most size entries for ttl each. Every cache
// starts a background goroutine that evicts expired entries; it runs for the
// life of the process, so create caches once and share them.
func New[K comparable, V any](size int, ttl time.Duration) *TTL[K, V] {
	if size <= 0 {
		size = DefaultSize
	}
	return &TTL[K, V]{
		lru: expirable.NewLRU[K, V](size, nil, ttl),
		ttl: ttl,
	}
}

// Get returns the cached value for key if it has not expired.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	return c.lru.Get(key)
}

// Set stores value under key, replacing any previous value and resetting its expiry.
func (c *TTL[K, V]) Set(key K, value V) {
	c.lru.Add(key, value)
}

// Len returns the number of live entries.
func (c *TTL[K, V]) Len() int {
	return c.lru.Len()
}

// Purge drops every entry.
func (c *TTL[K, V]) Purge() {
	c.lru.Purge()
}

// TTL returns the configured lifetime.
func (c *TTL[K, V]) TTL() time.Duration {
	return c.ttl
}

// Key derives a stable cache key from text, namespaced by prefix.
func Key(prefix, text string) string {
	return prefix + "_" + Hash(text)
}

// Hash returns the hex SHA-256 of text.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
