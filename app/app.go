// ════════════════════════════════════════════════════════════
// Path: app/app.go
// Process wiring shared by the HTTP server and the Lambda handler
// ════════════════════════════════════════════════════════════

package app

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/Manzana-Ecommerce/manzana-storefront-backend/cache"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/services"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Deps struct {
	Gorm  *gorm.DB
	Pool  *pgxpool.Pool
	Redis *redis.Client

	ProductsTTL   time.Duration
	SiteConfigTTL time.Duration

	// Images may be nil; uploads then answer 503 and deletes skip cleanup.
	Images services.ImageStore
}

// App is everything one process owns. Each process builds exactly one.
type App struct {
	Bus        *cache.TagBus
	Products   *cache.ProductCache
	Configs    *cache.ConfigSet
	Storefront *services.StorefrontService
	SiteConfig *services.SiteConfigService
	Catalog    *services.ProductService
}

func New(d Deps) *App {
	db := store.NewPostgres(d.Gorm, d.Pool)

	var durable cache.DurableStore
	if d.Redis != nil {
		durable = cache.NewRedisStore(d.Redis)
	}
	bus := cache.NewTagBus(d.Redis, durable)

	fetcher := cache.NewDurableFetcher(cache.NewProviderFetcher(db, nil), durable, cache.ProductsDurableKey, d.ProductsTTL, nil)
	products := cache.NewProductCache(fetcher, d.ProductsTTL, cache.WithInvalidator(bus))
	bus.Subscribe(cache.TagProducts, products.Reset)
	bus.RegisterDurableKey(cache.TagProducts, cache.ProductsDurableKey)

	configs := cache.NewConfigSet(cache.NewDurableConfigReader(db, durable, d.SiteConfigTTL), d.SiteConfigTTL, nil)
	configs.Register(bus)

	log.Printf("✅ Caches ready (products ttl=%s, site config ttl=%s, durable=%t)",
		products.TTL(), d.SiteConfigTTL, durable != nil)

	return &App{
		Bus:        bus,
		Products:   products,
		Configs:    configs,
		Storefront: services.NewStorefrontService(products, configs, bus),
		SiteConfig: services.NewSiteConfigService(db, bus),
		Catalog:    services.NewProductService(db, d.Images, bus),
	}
}

// Listen applies invalidations from other workers until ctx ends, resubscribing
// after Redis drops the connection.
func (a *App) Listen(ctx context.Context) {
	for {
		err := a.Bus.Listen(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			log.Printf("[invalidate] ❌ listener stopped: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

// NewImageStore builds the Cloudinary image store from CLOUDINARY_* env vars,
// or returns nil when they are not set.
func NewImageStore() services.ImageStore {
	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		log.Println("⚠️ Cloudinary not configured, image uploads disabled")
		return nil
	}
	svc, err := services.NewCloudinaryService(cloudName, apiKey, apiSecret)
	if err != nil {
		log.Printf("❌ Failed to initialize Cloudinary: %v", err)
		return nil
	}
	log.Println("✅ Cloudinary initialized")
	return svc
}
