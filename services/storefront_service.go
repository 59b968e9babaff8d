package services

import (
	"context"
	"errors"

	"github.com/Manzana-Ecommerce/manzana-storefront-backend/cache"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/catalog"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/models"
	"github.com/google/uuid"
)

var ErrProductNotFound = errors.New("product not found")

// CatalogRequest is one catalog page request. Force bypasses every cache layer.
type CatalogRequest struct {
	catalog.Options
	Force bool
}

// StorefrontService is what route handlers and page renderers read through.
type StorefrontService struct {
	products *cache.ProductCache
	configs  *cache.ConfigSet
	bus      cache.Invalidator
}

func NewStorefrontService(products *cache.ProductCache, configs *cache.ConfigSet, bus cache.Invalidator) *StorefrontService {
	return &StorefrontService{products: products, configs: configs, bus: bus}
}

func (s *StorefrontService) GetSnapshot(ctx context.Context, force bool) (models.Snapshot, error) {
	return s.products.Get(ctx, cache.GetOptions{Force: force})
}

func (s *StorefrontService) GetCatalogPage(ctx context.Context, req CatalogRequest) (models.CatalogPage, error) {
	snap, err := s.GetSnapshot(ctx, req.Force)
	if err != nil {
		return models.CatalogPage{}, err
	}
	return catalog.Query(snap, req.Options), nil
}

// StaleCatalogPage answers from the last good snapshot, if this process ever
// had one. Handlers use it when GetCatalogPage fails.
func (s *StorefrontService) StaleCatalogPage(req CatalogRequest) (models.CatalogPage, bool) {
	snap, ok := s.products.Peek()
	if !ok {
		return models.CatalogPage{}, false
	}
	return catalog.Query(snap, req.Options), true
}

// GetProduct looks a product up in the cached snapshot.
func (s *StorefrontService) GetProduct(ctx context.Context, id uuid.UUID) (models.Product, error) {
	snap, err := s.GetSnapshot(ctx, false)
	if err != nil {
		return models.Product{}, err
	}
	for _, p := range snap.Data {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

func (s *StorefrontService) GetHomeConfig(ctx context.Context) models.HomeConfig {
	return s.configs.Home.Get(ctx)
}

func (s *StorefrontService) GetTradeInConfig(ctx context.Context) models.TradeInConfig {
	return s.configs.TradeIn.Get(ctx)
}

func (s *StorefrontService) GetInstallmentConfig(ctx context.Context) models.InstallmentConfig {
	return s.configs.Installments.Get(ctx)
}

func (s *StorefrontService) GetDollarConfig(ctx context.Context) models.DollarConfig {
	return s.configs.Dollar.Get(ctx)
}

// The Invalidate methods return once the signal is acknowledged, not once
// other workers have refetched.

func (s *StorefrontService) InvalidateProductsCache(ctx context.Context) error {
	return s.bus.Invalidate(ctx, cache.TagProducts)
}

func (s *StorefrontService) InvalidateHomeConfigCache(ctx context.Context) error {
	return s.bus.Invalidate(ctx, cache.ConfigTag(models.ConfigKeyHome))
}

func (s *StorefrontService) InvalidateTradeInConfigCache(ctx context.Context) error {
	return s.bus.Invalidate(ctx, cache.ConfigTag(models.ConfigKeyTradeIn))
}

func (s *StorefrontService) InvalidateInstallmentConfigCache(ctx context.Context) error {
	return s.bus.Invalidate(ctx, cache.ConfigTag(models.ConfigKeyInstallments))
}

func (s *StorefrontService) InvalidateDollarConfigCache(ctx context.Context) error {
	return s.bus.Invalidate(ctx, cache.ConfigTag(models.ConfigKeyDollar))
}

// Revalidate invalidates the given tags, or every known tag when none are given.
func (s *StorefrontService) Revalidate(ctx context.Context, tags []string) ([]string, error) {
	if len(tags) == 0 {
		tags = AllTags()
	}
	return tags, s.bus.Invalidate(ctx, tags...)
}

// AllTags lists the products tag followed by every config tag.
func AllTags() []string {
	tags := []string{cache.TagProducts}
	for _, key := range cache.ConfigKeys() {
		tags = append(tags, cache.ConfigTag(key))
	}
	return tags
}

// GetFilterMetadata summarises the catalog matching opts for storefront filters.
func (s *StorefrontService) GetFilterMetadata(ctx context.Context, opts catalog.Options) (models.FilterMetadata, error) {
	snap, err := s.GetSnapshot(ctx, false)
	if err != nil {
		return models.FilterMetadata{}, err
	}
	return catalog.Facets(snap, opts), nil
}
