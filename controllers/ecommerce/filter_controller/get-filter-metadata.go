package filter_controller

import (
	"log"
	"net/http"

	"github.com/Manzana-Ecommerce/manzana-storefront-backend/catalog"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/config"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/models"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/services"
	"github.com/gin-gonic/gin"
)

var storefront *services.StorefrontService

func InitStorefront(s *services.StorefrontService) {
	storefront = s
}

// GetFilterMetadata godoc
// @Summary Get all filter metadata
// @Description Returns availability counts, categories, conditions and price range for storefront filters.
// @Description Accepts the same filters as /store/products so counts can follow the current selection.
// @Tags store
// @Produce json
// @Param category query string false "Category"
// @Param condition query string false "Condition" Enums(new, used)
// @Param search query string false "Search text"
// @Success 200 {object} models.ApiResponse{data=models.FilterMetadata}
// @Failure 503 {object} models.ApiResponse
// @Router /store/filters/metadata [get]
func GetFilterMetadata(c *gin.Context) {
	opts, _ := catalog.ParseQuery(c.Request.URL.Query())

	ctx, cancel := config.WithTimeout()
	defer cancel()

	metadata, err := storefront.GetFilterMetadata(ctx, opts)
	if err != nil {
		log.Printf("[store] ❌ filter metadata unavailable: %v", err)
		c.Header("Cache-Control", catalog.CacheControlNoStore)
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse(c, "Failed to fetch filter metadata"))
		return
	}

	c.Header("Cache-Control", catalog.CacheControlShared)
	c.JSON(http.StatusOK, models.SuccessResponse(c, "Filter metadata fetched", metadata))
}
