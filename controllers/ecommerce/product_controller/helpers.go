package product_controller

import (
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/catalog"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/services"
	"github.com/gin-gonic/gin"
)

var storefront *services.StorefrontService

func InitStorefront(s *services.StorefrontService) {
	storefront = s
}

const (
	cacheControlShared  = catalog.CacheControlShared
	cacheControlNoStore = catalog.CacheControlNoStore
)

func setCatalogCacheHeaders(c *gin.Context, forced bool) {
	c.Header("Cache-Control", catalog.CacheControl(forced))
}

func parseCatalogRequest(c *gin.Context) services.CatalogRequest {
	opts, force := catalog.ParseQuery(c.Request.URL.Query())
	return services.CatalogRequest{Options: opts, Force: force}
}
