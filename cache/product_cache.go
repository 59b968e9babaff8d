package cache

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Manzana-Ecommerce/manzana-storefront-backend/models"
)

const (
	// DefaultProductsTTL is the in-process freshness window of the snapshot.
	DefaultProductsTTL = 30 * time.Second

	TagProducts = "products"

	// ProductsDurableKey holds the snapshot in the durable layer.
	ProductsDurableKey = "cache:products:snapshot"
)

// Invalidator is the tag-based invalidation channel.
type Invalidator interface {
	Invalidate(ctx context.Context, tags ...string) error
}

// GetOptions controls a snapshot read.
type GetOptions struct {
	// Force skips the fresh copy and coalescing and fetches anew.
	Force bool
}

// call is one non-forced fetch shared by every reader that arrives while it runs.
type call struct {
	done chan struct{}
	gen  uint64
	snap models.Snapshot
	err  error
}

// ProductCache holds the last good product snapshot of this process.
//
// Each process owns its own ProductCache; nothing is shared between workers
// except through the durable layer behind the Fetcher.
type ProductCache struct {
	fetcher     Fetcher
	invalidator Invalidator
	ttl         time.Duration
	now         func() time.Time

	mu        sync.Mutex
	loaded    bool
	data      []models.Product
	fetchedAt time.Time
	expiresAt time.Time
	connected bool
	inFlight  *call
	// gen is bumped by Reset. A fetch started under an older generation
	// returns its result to its own callers but does not overwrite state.
	gen uint64

	lastGood *models.Snapshot
}

type ProductCacheOption func(*ProductCache)

func WithClock(now func() time.Time) ProductCacheOption {
	return func(c *ProductCache) {
		if now != nil {
			c.now = now
		}
	}
}

func WithInvalidator(inv Invalidator) ProductCacheOption {
	return func(c *ProductCache) { c.invalidator = inv }
}

func NewProductCache(fetcher Fetcher, ttl time.Duration, opts ...ProductCacheOption) *ProductCache {
	if ttl <= 0 {
		ttl = DefaultProductsTTL
	}
	c := &ProductCache{
		fetcher: fetcher,
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ProductCache) TTL() time.Duration {
	return c.ttl
}

// Get returns the cached snapshot while it is fresh, otherwise fetches one.
// Concurrent non-forced readers share a single fetch and its outcome. A failed
// fetch leaves the cached state untouched.
func (c *ProductCache) Get(ctx context.Context, opts GetOptions) (models.Snapshot, error) {
	if opts.Force {
		return c.refresh(ctx)
	}

	c.mu.Lock()
	if c.loaded && c.now().Before(c.expiresAt) {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		cacheHitsTotal.WithLabelValues(TagProducts).Inc()
		return snap, nil
	}

	cl := c.inFlight
	if cl == nil {
		cl = &call{done: make(chan struct{}), gen: c.gen}
		c.inFlight = cl
		c.mu.Unlock()

		cacheMissesTotal.WithLabelValues(TagProducts).Inc()
		// the shared fetch must not die with the first caller's request
		go c.run(context.WithoutCancel(ctx), cl)
	} else {
		c.mu.Unlock()
		cacheCoalescedTotal.WithLabelValues(TagProducts).Inc()
	}

	select {
	case <-cl.done:
		return cl.snap, cl.err
	case <-ctx.Done():
		return models.Snapshot{}, ctx.Err()
	}
}

func (c *ProductCache) run(ctx context.Context, cl *call) {
	snap, err := c.fetcher.Fetch(ctx)

	c.mu.Lock()
	if err != nil {
		cacheFetchErrorsTotal.WithLabelValues(TagProducts).Inc()
		log.Printf("[cache] ❌ product snapshot fetch failed: %v", err)
	} else {
		c.storeLocked(snap, cl.gen)
	}
	if c.inFlight == cl {
		c.inFlight = nil
	}
	cl.snap, cl.err = snap, err
	c.mu.Unlock()

	close(cl.done)
}

// refresh drops the cached state, invalidates the products tag downstream and
// performs a fetch of its own.
func (c *ProductCache) refresh(ctx context.Context) (models.Snapshot, error) {
	c.Reset()
	if c.invalidator != nil {
		if err := c.invalidator.Invalidate(ctx, TagProducts); err != nil {
			log.Printf("[cache] ⚠️ invalidate %q before forced refresh: %v", TagProducts, err)
		}
	}

	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	cacheMissesTotal.WithLabelValues(TagProducts).Inc()
	snap, err := c.fetchFresh(ctx)
	if err != nil {
		cacheFetchErrorsTotal.WithLabelValues(TagProducts).Inc()
		log.Printf("[cache] ❌ forced product snapshot fetch failed: %v", err)
		return models.Snapshot{}, err
	}

	c.mu.Lock()
	c.storeLocked(snap, gen)
	c.mu.Unlock()
	return snap, nil
}

func (c *ProductCache) fetchFresh(ctx context.Context) (models.Snapshot, error) {
	if ff, ok := c.fetcher.(FreshFetcher); ok {
		return ff.FetchFresh(ctx)
	}
	return c.fetcher.Fetch(ctx)
}

func (c *ProductCache) storeLocked(snap models.Snapshot, gen uint64) {
	if gen != c.gen {
		log.Printf("[cache] discarding snapshot fetched at %s: cache was reset while it was in flight",
			snap.FetchedAt.Format(time.RFC3339Nano))
		return
	}
	if c.loaded && snap.FetchedAt.Before(c.fetchedAt) {
		return
	}
	c.loaded = true
	c.data = snap.Data
	c.fetchedAt = snap.FetchedAt
	c.expiresAt = snap.FetchedAt.Add(c.ttl)
	c.connected = snap.Connected

	good := snap
	c.lastGood = &good
}

func (c *ProductCache) snapshotLocked() models.Snapshot {
	return models.Snapshot{
		Data:      c.data,
		FetchedAt: c.fetchedAt,
		Connected: c.connected,
	}
}

// Reset empties the cache so the next read fetches. A fetch already in flight
// still completes for its waiters but is no longer shared with new readers.
func (c *ProductCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.data = nil
	c.fetchedAt = time.Time{}
	c.expiresAt = time.Time{}
	c.connected = false
	c.inFlight = nil
	c.gen++
}

// Peek returns the most recent successfully fetched snapshot, fresh or not.
// It survives Reset so handlers can serve stale data when a fetch fails.
func (c *ProductCache) Peek() (models.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastGood == nil {
		return models.Snapshot{}, false
	}
	return *c.lastGood, true
}

// ExpiresAt reports when the cached snapshot stops being fresh; zero when empty.
func (c *ProductCache) ExpiresAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expiresAt
}
