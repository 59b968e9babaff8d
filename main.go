// @title Manzana Storefront API
// @version 1.0
// @description Catalog, site config and admin API of the Manzana storefront
// @host localhost:8081
// @BasePath /api/v1
// @schemes http
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Manzana-Ecommerce/manzana-storefront-backend/app"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/config"
	cms_cache "github.com/Manzana-Ecommerce/manzana-storefront-backend/controllers/cms/cache_controller"
	cms_config "github.com/Manzana-Ecommerce/manzana-storefront-backend/controllers/cms/config_controller"
	cms_product "github.com/Manzana-Ecommerce/manzana-storefront-backend/controllers/cms/product_controller"
	store_config "github.com/Manzana-Ecommerce/manzana-storefront-backend/controllers/ecommerce/config_controller"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/controllers/ecommerce/filter_controller"
	store_product "github.com/Manzana-Ecommerce/manzana-storefront-backend/controllers/ecommerce/product_controller"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/middleware"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/models"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/routes/cms_routes"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/routes/ecommerce_routes"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	_ = godotenv.Load()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to DB
	config.InitDB()
	defer config.CloseDB()
	// Redis connection
	config.ConnectRedis()
	defer config.CloseRedis()

	a := app.New(app.Deps{
		Gorm:          config.Gorm,
		Pool:          config.DB,
		Redis:         config.RedisClient,
		ProductsTTL:   config.ProductsCacheTTL(),
		SiteConfigTTL: config.SiteConfigCacheTTL(),
		Images:        app.NewImageStore(),
	})
	go a.Listen(ctx)

	store_product.InitStorefront(a.Storefront)
	store_config.InitStorefront(a.Storefront)
	filter_controller.InitStorefront(a.Storefront)
	cms_cache.InitStorefront(a.Storefront)
	cms_config.InitSiteConfigService(a.SiteConfig)
	cms_product.InitProductService(a.Catalog)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	corsCfg := cors.Config{
		AllowOrigins:     config.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Password", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	router := gin.Default()
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := config.WithCustomTimeout(2 * time.Second)
		defer cancel()
		c.JSON(http.StatusOK, models.SuccessResponse(c, "ok", gin.H{
			"database": config.DB != nil && config.DB.Ping(ctx) == nil,
			"redis":    config.PingRedis(ctx) == nil,
			"products": gin.H{"expires_at": a.Products.ExpiresAt()},
		}))
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")

	// Admin API (at /api/v1/admin prefix)
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.RateLimiter(config.RedisClient, 100, time.Minute))
	adminGroup.Use(middleware.AdminPasswordMiddleware(config.AdminPassword()))
	adminGroup.Use(middleware.ActivityLoggingMiddleware())
	cms_routes.SetupProductRoutes(adminGroup)
	cms_routes.SetupConfigRoutes(adminGroup)
	cms_routes.SetupCacheRoutes(adminGroup)
	log.Println("✅ Admin routes registered")

	// Public storefront (no rate limiter)
	ecommerce_routes.SetupStorefrontRoutes(api)

	srv := &http.Server{
		Addr:              ":" + config.Port(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server is running on http://localhost:%s", config.Port())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := config.WithTimeout()
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Forced shutdown: %v", err)
	}
}
