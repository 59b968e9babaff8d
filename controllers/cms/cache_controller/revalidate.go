package cache_controller

import (
	"log"
	"net/http"

	"github.com/Manzana-Ecommerce/manzana-storefront-backend/config"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/models"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/services"
	"github.com/gin-gonic/gin"
)

var storefront *services.StorefrontService

func InitStorefront(s *services.StorefrontService) {
	storefront = s
}

type revalidateRequest struct {
	Tags []string `json:"tags"`
}

// RevalidateCache godoc
// @Summary Invalidate cache tags on every worker
// @Description Empty or missing tags invalidates everything
// @Tags CMS - Cache
// @Accept json
// @Produce json
// @Success 200 {object} models.ApiResponse
// @Failure 502 {object} models.ApiResponse
// @Router /api/v1/admin/cache/revalidate [post]
func RevalidateCache(c *gin.Context) {
	var req revalidateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(c, "Invalid request: "+err.Error()))
			return
		}
	}

	ctx, cancel := config.WithTimeout()
	defer cancel()

	tags, err := storefront.Revalidate(ctx, req.Tags)
	if err != nil {
		// local caches are already cleared; other workers may still hold old data
		log.Printf("[invalidate] ⚠️ revalidate %v: %v", tags, err)
		c.JSON(http.StatusBadGateway, models.ErrorResponse(c, "Local caches cleared, broadcast failed"))
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(c, "Cache revalidated", gin.H{"tags": tags}))
}
