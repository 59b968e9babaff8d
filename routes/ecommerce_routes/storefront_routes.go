package ecommerce_routes

import (
	store_config "github.com/Manzana-Ecommerce/manzana-storefront-backend/controllers/ecommerce/config_controller"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/controllers/ecommerce/filter_controller"
	store_product "github.com/Manzana-Ecommerce/manzana-storefront-backend/controllers/ecommerce/product_controller"
	"github.com/gin-gonic/gin"
)

func SetupStorefrontRoutes(router *gin.RouterGroup) {
	// Storefront routes (public, no auth required)
	store := router.Group("/store")

	// Product routes
	products := store.Group("/products")
	{
		products.GET("", store_product.GetStorefrontProducts)        // Catalog page
		products.GET("/:id", store_product.GetStorefrontProductByID) // Single product
	}

	// Filter sidebar
	store.GET("/filters/metadata", filter_controller.GetFilterMetadata)

	// Site config documents
	cfg := store.Group("/config")
	{
		cfg.GET("/home", store_config.GetHomeConfig)
		cfg.GET("/trade-in", store_config.GetTradeInConfig)
		cfg.GET("/installments", store_config.GetInstallmentConfig)
		cfg.GET("/dollar", store_config.GetDollarConfig)
	}
}
