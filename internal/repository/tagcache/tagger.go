// Package tagcache caches generated tags per prompt in a key-value store.
package tagcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/placebook/internal/db"
	"github.com/kailas-cloud/placebook/internal/domain"
)

// store is the consumer interface for the tag cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedTagger caches tag generations in a key-value store.
// Refusals are never cached so a changed provider policy takes effect at once.
type CachedTagger struct {
	inner      domain.TagGenerator
	store      store
	keyPrefix  string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.TagGenerator,
	s store,
	keyPrefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedTagger {
	return &CachedTagger{
		inner:      inner,
		store:      s,
		keyPrefix:  keyPrefix + "tag_cache:",
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Generate returns cached tags or calls the inner generator.
// Cache hit: no tokens are reported.
func (c *CachedTagger) Generate(ctx context.Context, prompt string) (domain.Generation, error) {
	key := c.cacheKey(prompt)

	if tags, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		domain.UsageFromContext(ctx).MarkCached()
		return domain.Generation{Tags: tags}, nil
	}

	c.incCache("miss")
	domain.UsageFromContext(ctx).MarkCacheMiss()

	gen, err := c.inner.Generate(ctx, prompt)
	if err != nil {
		return domain.Generation{}, fmt.Errorf("generate tags: %w", err)
	}

	if !gen.Refused() {
		c.putToCache(ctx, key, gen.Tags)
	}
	return gen, nil
}

func (c *CachedTagger) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey hashes the prompt after trimming and lower-casing it.
func (c *CachedTagger) cacheKey(prompt string) string {
	h := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(prompt))))
	return c.keyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedTagger) getFromCache(ctx context.Context, key string) ([]string, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached tags", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		c.logger.Warn("Failed to parse cached tags", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return domain.CloneStrings(tags), true
}

func (c *CachedTagger) putToCache(ctx context.Context, key string, tags []string) {
	data, err := json.Marshal(domain.CloneStrings(tags))
	if err != nil {
		c.logger.Warn("Failed to encode tags for cache", zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache tags", zap.String("key", key), zap.Error(err))
	}
}
