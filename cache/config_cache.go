package cache

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/Manzana-Ecommerce/manzana-storefront-backend/store"
	"golang.org/x/sync/singleflight"
)

const DefaultConfigTTL = 60 * time.Second

// ConfigTag is the invalidation tag of the config document stored under key.
func ConfigTag(key string) string {
	return "site-config:" + key
}

// ConfigReader is the slice of store.Provider the config caches need.
type ConfigReader interface {
	GetConfigByKey(ctx context.Context, key string) (json.RawMessage, error)
}

// ConfigCache is a read-through cache of one config document. Reads never
// fail: when the store cannot be read the built-in default is returned and
// nothing is cached, so the next read tries the store again.
type ConfigCache[T any] struct {
	key      string
	reader   ConfigReader
	defaults func() T
	merge    func(T, json.RawMessage) T
	ttl      time.Duration
	now      func() time.Time

	sf singleflight.Group

	mu        sync.RWMutex
	loaded    bool
	value     T
	expiresAt time.Time
	gen       uint64
}

func NewConfigCache[T any](
	key string,
	reader ConfigReader,
	defaults func() T,
	merge func(T, json.RawMessage) T,
	ttl time.Duration,
	now func() time.Time,
) *ConfigCache[T] {
	if ttl <= 0 {
		ttl = DefaultConfigTTL
	}
	if now == nil {
		now = time.Now
	}
	return &ConfigCache[T]{
		key:      key,
		reader:   reader,
		defaults: defaults,
		merge:    merge,
		ttl:      ttl,
		now:      now,
	}
}

func (c *ConfigCache[T]) Key() string { return c.key }
func (c *ConfigCache[T]) Tag() string { return ConfigTag(c.key) }

// Get returns the merged document. The result shares slices with the cached
// value and must not be modified.
func (c *ConfigCache[T]) Get(ctx context.Context) T {
	c.mu.RLock()
	if c.loaded && c.now().Before(c.expiresAt) {
		v := c.value
		c.mu.RUnlock()
		cacheHitsTotal.WithLabelValues(c.Tag()).Inc()
		return v
	}
	c.mu.RUnlock()

	v, _, shared := c.sf.Do(c.key, func() (any, error) {
		cacheMissesTotal.WithLabelValues(c.Tag()).Inc()
		return c.load(context.WithoutCancel(ctx)), nil
	})
	if shared {
		cacheCoalescedTotal.WithLabelValues(c.Tag()).Inc()
	}
	return v.(T)
}

func (c *ConfigCache[T]) load(ctx context.Context) T {
	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	raw, err := c.reader.GetConfigByKey(ctx, c.key)
	if err != nil {
		cacheDegradedTotal.WithLabelValues(c.Tag()).Inc()
		log.Printf("[config-cache] ⚠️ %s unavailable (%s), serving defaults: %v", c.key, store.KindOf(err), err)
		return c.defaults()
	}

	value := c.merge(c.defaults(), raw)

	c.mu.Lock()
	if gen == c.gen {
		c.value = value
		c.loaded = true
		c.expiresAt = c.now().Add(c.ttl)
	}
	c.mu.Unlock()
	return value
}

// Invalidate forgets the cached document so the next Get reads the store.
func (c *ConfigCache[T]) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.expiresAt = time.Time{}
	c.gen++
	c.mu.Unlock()
	c.sf.Forget(c.key)
}
