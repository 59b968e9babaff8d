package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/Manzana-Ecommerce/manzana-storefront-backend/cache"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/models"
)

// ErrInvalidConfigDocument is returned when a config update is not a JSON object.
var ErrInvalidConfigDocument = errors.New("config update must be a JSON object")

// ConfigStore is the read/write side of the site_config table.
type ConfigStore interface {
	GetConfigByKey(ctx context.Context, key string) (json.RawMessage, error)
	UpsertConfig(ctx context.Context, key string, value json.RawMessage) error
}

// SiteConfigService is the admin write path for config documents. Reads go
// straight to the store so admins always see what is persisted.
type SiteConfigService struct {
	store ConfigStore
	bus   cache.Invalidator
}

func NewSiteConfigService(store ConfigStore, bus cache.Invalidator) *SiteConfigService {
	return &SiteConfigService{store: store, bus: bus}
}

func (s *SiteConfigService) CurrentHome(ctx context.Context) (models.HomeConfig, error) {
	return current(ctx, s, models.ConfigKeyHome, models.DefaultHomeConfig, models.MergeHomeConfig)
}

func (s *SiteConfigService) UpdateHome(ctx context.Context, partial json.RawMessage) (models.HomeConfig, error) {
	return update(ctx, s, models.ConfigKeyHome, models.DefaultHomeConfig, models.MergeHomeConfig, partial)
}

func (s *SiteConfigService) CurrentTradeIn(ctx context.Context) (models.TradeInConfig, error) {
	return current(ctx, s, models.ConfigKeyTradeIn, models.DefaultTradeInConfig, models.MergeTradeInConfig)
}

func (s *SiteConfigService) UpdateTradeIn(ctx context.Context, partial json.RawMessage) (models.TradeInConfig, error) {
	return update(ctx, s, models.ConfigKeyTradeIn, models.DefaultTradeInConfig, models.MergeTradeInConfig, partial)
}

func (s *SiteConfigService) CurrentInstallments(ctx context.Context) (models.InstallmentConfig, error) {
	return current(ctx, s, models.ConfigKeyInstallments, models.DefaultInstallmentConfig, models.MergeInstallmentConfig)
}

func (s *SiteConfigService) UpdateInstallments(ctx context.Context, partial json.RawMessage) (models.InstallmentConfig, error) {
	return update(ctx, s, models.ConfigKeyInstallments, models.DefaultInstallmentConfig, models.MergeInstallmentConfig, partial)
}

func (s *SiteConfigService) CurrentDollar(ctx context.Context) (models.DollarConfig, error) {
	return current(ctx, s, models.ConfigKeyDollar, models.DefaultDollarConfig, models.MergeDollarConfig)
}

func (s *SiteConfigService) UpdateDollar(ctx context.Context, partial json.RawMessage) (models.DollarConfig, error) {
	return update(ctx, s, models.ConfigKeyDollar, models.DefaultDollarConfig, models.MergeDollarConfig, partial)
}

func current[T any](
	ctx context.Context,
	s *SiteConfigService,
	key string,
	defaults func() T,
	merge func(T, json.RawMessage) T,
) (T, error) {
	raw, err := s.store.GetConfigByKey(ctx, key)
	if err != nil {
		var zero T
		return zero, err
	}
	return merge(defaults(), raw), nil
}

// update merges partial onto the persisted document and writes the full result
// back. Read then upsert is not atomic; concurrent admin writes are last-write-wins.
func update[T any](
	ctx context.Context,
	s *SiteConfigService,
	key string,
	defaults func() T,
	merge func(T, json.RawMessage) T,
	partial json.RawMessage,
) (T, error) {
	var zero T

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(partial, &probe); err != nil || probe == nil {
		return zero, ErrInvalidConfigDocument
	}

	existing, err := current(ctx, s, key, defaults, merge)
	if err != nil {
		return zero, err
	}
	merged := merge(existing, partial)

	doc, err := json.Marshal(merged)
	if err != nil {
		return zero, fmt.Errorf("encode %s config: %w", key, err)
	}
	if err := s.store.UpsertConfig(ctx, key, doc); err != nil {
		return zero, err
	}

	if err := s.bus.Invalidate(ctx, cache.ConfigTag(key)); err != nil {
		// the write is durable; caches expire on their own TTL
		log.Printf("[site-config] ⚠️ saved %s but invalidation failed: %v", key, err)
	}
	log.Printf("[site-config] ✅ %s updated", key)
	return merged, nil
}
