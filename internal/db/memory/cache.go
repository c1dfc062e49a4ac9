// Package memory is an in-process db.Cache backed by ristretto.
package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/kailas-cloud/rex/internal/db"
)

// Compile-time check: Cache implements db.Cache.
var _ db.Cache = (*Cache)(nil)

// DefaultMaxBytes bounds the cache when no size is configured.
const DefaultMaxBytes = 16 << 20

// Cache is a size-bounded in-process key-value cache.
type Cache struct {
	c *ristretto.Cache[string, []byte]
}

// New creates a cache holding at most maxBytes of values.
func New(maxBytes int64) (*Cache, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: 1e5,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create ristretto cache: %w", err)
	}
	return &Cache{c: c}, nil
}

// Ping always succeeds for an in-process cache.
func (c *Cache) Ping(_ context.Context) error { return nil }

// Get returns a copy of the cached value.
func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := c.c.Get(key)
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

// SetWithTTL stores value under key. Admission is probabilistic, so a Set may be dropped.
func (c *Cache) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	v := append([]byte(nil), value...)
	cost := int64(len(v) + len(key))
	if ttl > 0 {
		c.c.SetWithTTL(key, v, cost, ttl)
	} else {
		c.c.Set(key, v, cost)
	}
	return nil
}

// Wait blocks until buffered writes are applied.
func (c *Cache) Wait() { c.c.Wait() }

// Close releases the cache goroutines.
func (c *Cache) Close() { c.c.Close() }
