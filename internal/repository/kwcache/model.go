package kwcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/rex/internal/db"
	"github.com/kailas-cloud/rex/internal/domain"
)

var cacheKeyPrefix = domain.KeyPrefix + "kw_cache:"

// DefaultTTL bounds how long a model answer is reused.
const DefaultTTL = 24 * time.Hour

// store is the consumer interface for the keyword cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedModel caches keyword model answers in a key-value store and coalesces
// identical concurrent lookups into one model call.
type CachedModel struct {
	inner      domain.KeywordModel
	store      store
	model      string
	ttl        time.Duration
	group      singleflight.Group
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator. model is part of the cache key so switching
// models never serves stale answers. cacheTotal has label "result" ("hit"/"miss").
func New(
	inner domain.KeywordModel,
	s store,
	model string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedModel {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedModel{
		inner:      inner,
		store:      s,
		model:      model,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// ExtractKeywords returns cached keywords or calls the inner model.
// Empty answers are not cached.
func (c *CachedModel) ExtractKeywords(ctx context.Context, query string) ([]string, error) {
	key := c.cacheKey(query)

	if kws, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return kws, nil
	}

	c.incCache("miss")

	v, err, _ := c.group.Do(key, func() (any, error) {
		kws, err := c.inner.ExtractKeywords(ctx, query)
		if err != nil {
			return nil, err
		}
		if len(kws) > 0 {
			c.putToCache(ctx, key, kws)
		}
		return kws, nil
	})
	if err != nil {
		return nil, fmt.Errorf("extract keywords: %w", err)
	}
	kws, _ := v.([]string)
	return append([]string(nil), kws...), nil
}

// HealthCheck delegates to the inner model when it supports health checks.
func (c *CachedModel) HealthCheck(ctx context.Context) error {
	if hc, ok := c.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // transparent decorator
	}
	return nil
}

func (c *CachedModel) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey folds case and whitespace so trivially different spellings share an entry.
func (c *CachedModel) cacheKey(query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	h := sha256.Sum256([]byte(c.model + "\x00" + normalized))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedModel) getFromCache(ctx context.Context, key string) ([]string, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached keywords", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var kws []string
	if err := json.Unmarshal(data, &kws); err != nil {
		c.logger.Warn("Failed to parse cached keywords", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if len(kws) == 0 {
		return nil, false
	}
	return kws, true
}

func (c *CachedModel) putToCache(ctx context.Context, key string, kws []string) {
	data, err := json.Marshal(kws)
	if err != nil {
		c.logger.Warn("Failed to encode keywords for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache keywords", zap.String("key", key), zap.Error(err))
	}
}
