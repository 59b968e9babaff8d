package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Manzana-Ecommerce/manzana-storefront-backend/models"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/store"
)

// Fetcher produces a full product snapshot.
type Fetcher interface {
	Fetch(ctx context.Context) (models.Snapshot, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) (models.Snapshot, error)

func (f FetcherFunc) Fetch(ctx context.Context) (models.Snapshot, error) {
	return f(ctx)
}

// ProductLister is the slice of store.Provider the fetcher needs.
type ProductLister interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
}

var _ ProductLister = (store.Provider)(nil)

// ProviderFetcher reads the whole catalog from the data provider.
type ProviderFetcher struct {
	provider ProductLister
	now      func() time.Time
}

func NewProviderFetcher(provider ProductLister, now func() time.Time) *ProviderFetcher {
	if now == nil {
		now = time.Now
	}
	return &ProviderFetcher{provider: provider, now: now}
}

// Fetch fails whenever the provider fails; it never returns a partial or
// disconnected snapshot.
func (f *ProviderFetcher) Fetch(ctx context.Context) (models.Snapshot, error) {
	products, err := f.provider.ListProducts(ctx)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("fetch products: %w", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return models.Snapshot{
		Data:      products,
		FetchedAt: f.now(),
		Connected: true,
	}, nil
}

// FreshFetcher is implemented by fetchers that sit on a shared cache layer and
// can skip it. Forced reads use it so they always reach the data provider.
type FreshFetcher interface {
	FetchFresh(ctx context.Context) (models.Snapshot, error)
}

// DurableFetcher serves snapshots from the durable layer when present and
// writes fresh ones back. Durable-layer failures are logged and bypassed.
type DurableFetcher struct {
	next  Fetcher
	store DurableStore
	key   string
	// ttl is the in-process freshness window; durableTTL is what Redis keeps,
	// rounded up to whole seconds.
	ttl        time.Duration
	durableTTL time.Duration
	now        func() time.Time
}

func NewDurableFetcher(next Fetcher, store DurableStore, key string, ttl time.Duration, now func() time.Time) *DurableFetcher {
	if ttl <= 0 {
		ttl = DefaultProductsTTL
	}
	if now == nil {
		now = time.Now
	}
	return &DurableFetcher{
		next:       next,
		store:      store,
		key:        key,
		ttl:        ttl,
		durableTTL: DurableTTL(ttl),
		now:        now,
	}
}

func (f *DurableFetcher) Fetch(ctx context.Context) (models.Snapshot, error) {
	return f.fetch(ctx, true)
}

// FetchFresh skips the durable read but still writes the result back.
func (f *DurableFetcher) FetchFresh(ctx context.Context) (models.Snapshot, error) {
	return f.fetch(ctx, false)
}

func (f *DurableFetcher) fetch(ctx context.Context, readDurable bool) (models.Snapshot, error) {
	if f.store == nil {
		return f.next.Fetch(ctx)
	}

	// the epoch must be read before the provider is
	epoch, epochErr := f.store.Epoch(ctx, f.key)

	if readDurable {
		var snap models.Snapshot
		found, err := f.store.GetJSON(ctx, f.key, &snap)
		switch {
		case err != nil:
			durableReadsTotal.WithLabelValues("error").Inc()
			log.Printf("[cache] ⚠️ durable read %s failed, falling back to provider: %v", f.key, err)
		case found && f.now().Before(snap.FetchedAt.Add(f.ttl)):
			durableReadsTotal.WithLabelValues("hit").Inc()
			return snap, nil
		case found:
			// Redis keeps whole seconds; a copy already past the in-process
			// window would expire on arrival and send every read back here.
			durableReadsTotal.WithLabelValues("expired").Inc()
		default:
			durableReadsTotal.WithLabelValues("miss").Inc()
		}
	}

	snap, err := f.next.Fetch(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}

	if epochErr != nil {
		log.Printf("[cache] ⚠️ skipping durable write %s, epoch unknown: %v", f.key, epochErr)
		return snap, nil
	}
	writeBack(ctx, f.store, f.key, epoch, snap, f.durableTTL)
	return snap, nil
}
