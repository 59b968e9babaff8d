package product_controller

import (
	"log"
	"net/http"

	"github.com/Manzana-Ecommerce/manzana-storefront-backend/config"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/models"
	"github.com/gin-gonic/gin"
)

// GetStorefrontProducts godoc
// @Summary Get storefront products
// @Description Filtered, sorted page of the cached catalog snapshot
// @Tags store
// @Produce json
// @Param limit query int false "Items per page (1-60)" default(24)
// @Param offset query int false "Items to skip" default(0)
// @Param category query string false "Category (iphone, ipad, mac, watch, airpods, accesorios)"
// @Param condition query string false "Condition" Enums(new, used)
// @Param featured query bool false "Only featured / non-featured products"
// @Param search query string false "Case-insensitive search over name, description and category"
// @Param force query bool false "Bypass every cache layer"
// @Success 200 {object} models.ApiResponse
// @Failure 503 {object} models.ApiResponse
// @Router /store/products [get]
func GetStorefrontProducts(c *gin.Context) {
	req := parseCatalogRequest(c)

	ctx, cancel := config.WithTimeout()
	defer cancel()

	page, err := storefront.GetCatalogPage(ctx, req)
	if err != nil {
		stale, ok := storefront.StaleCatalogPage(req)
		if !ok {
			log.Printf("[store] ❌ catalog unavailable: %v", err)
			c.Header("Cache-Control", cacheControlNoStore)
			c.JSON(http.StatusServiceUnavailable, models.ErrorResponse(c, "could not load products"))
			return
		}

		log.Printf("[store] ⚠️ serving stale catalog: %v", err)
		// stale pages must not be kept by shared caches
		c.Header("Cache-Control", cacheControlNoStore)
		resp := models.PaginatedResponse(c, "Products retrieved (stale)", stale,
			models.NewPagination(req.Limit, req.Offset, len(stale.Items), stale.Total))
		resp.Stale = true
		c.JSON(http.StatusOK, resp)
		return
	}

	setCatalogCacheHeaders(c, req.Force)
	c.JSON(http.StatusOK, models.PaginatedResponse(c, "Products retrieved successfully", page,
		models.NewPagination(req.Limit, req.Offset, len(page.Items), page.Total)))
}
