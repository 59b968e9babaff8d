package cms_routes

import (
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/controllers/cms/cache_controller"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/controllers/cms/config_controller"
	"github.com/gin-gonic/gin"
)

// SetupConfigRoutes registers read and merge-write endpoints for every site
// config document.
func SetupConfigRoutes(rg *gin.RouterGroup) {
	cfg := rg.Group("/config")
	{
		cfg.GET("/home", config_controller.GetHomeConfig)
		cfg.PUT("/home", config_controller.UpdateHomeConfig)

		cfg.GET("/trade-in", config_controller.GetTradeInConfig)
		cfg.PUT("/trade-in", config_controller.UpdateTradeInConfig)

		cfg.GET("/installments", config_controller.GetInstallmentConfig)
		cfg.PUT("/installments", config_controller.UpdateInstallmentConfig)

		cfg.GET("/dollar", config_controller.GetDollarConfig)
		cfg.PUT("/dollar", config_controller.UpdateDollarConfig)
	}
}

func SetupCacheRoutes(rg *gin.RouterGroup) {
	rg.POST("/cache/revalidate", cache_controller.RevalidateCache)
}
