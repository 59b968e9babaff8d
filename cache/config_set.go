package cache

import (
	"time"

	"github.com/Manzana-Ecommerce/manzana-storefront-backend/models"
)

// ConfigSet holds the four site config caches of one process.
type ConfigSet struct {
	Home         *ConfigCache[models.HomeConfig]
	TradeIn      *ConfigCache[models.TradeInConfig]
	Installments *ConfigCache[models.InstallmentConfig]
	Dollar       *ConfigCache[models.DollarConfig]
}

func NewConfigSet(reader ConfigReader, ttl time.Duration, now func() time.Time) *ConfigSet {
	return &ConfigSet{
		Home:         NewConfigCache(models.ConfigKeyHome, reader, models.DefaultHomeConfig, models.MergeHomeConfig, ttl, now),
		TradeIn:      NewConfigCache(models.ConfigKeyTradeIn, reader, models.DefaultTradeInConfig, models.MergeTradeInConfig, ttl, now),
		Installments: NewConfigCache(models.ConfigKeyInstallments, reader, models.DefaultInstallmentConfig, models.MergeInstallmentConfig, ttl, now),
		Dollar:       NewConfigCache(models.ConfigKeyDollar, reader, models.DefaultDollarConfig, models.MergeDollarConfig, ttl, now),
	}
}

// Register subscribes every cache to its tag on bus and ties the tag to the
// document's durable key.
func (s *ConfigSet) Register(bus *TagBus) {
	register(bus, s.Home)
	register(bus, s.TradeIn)
	register(bus, s.Installments)
	register(bus, s.Dollar)
}

func register[T any](bus *TagBus, c *ConfigCache[T]) {
	bus.Subscribe(c.Tag(), c.Invalidate)
	bus.RegisterDurableKey(c.Tag(), ConfigDurableKey(c.Key()))
}

// ConfigKeys lists the stored document keys in a stable order.
func ConfigKeys() []string {
	return []string{
		models.ConfigKeyHome,
		models.ConfigKeyTradeIn,
		models.ConfigKeyInstallments,
		models.ConfigKeyDollar,
	}
}
