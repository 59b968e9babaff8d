package product_controller

import (
	"errors"
	"net/http"

	"github.com/Manzana-Ecommerce/manzana-storefront-backend/config"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/models"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetStorefrontProductByID godoc
// @Summary Get single product details for storefront
// @Description Product lookup served from the cached catalog snapshot
// @Tags store
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.ApiResponse
// @Failure 400 {object} models.ApiResponse
// @Failure 404 {object} models.ApiResponse
// @Failure 503 {object} models.ApiResponse
// @Router /store/products/{id} [get]
func GetStorefrontProductByID(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, "Invalid product ID"))
		return
	}

	ctx, cancel := config.WithTimeout()
	defer cancel()

	product, err := storefront.GetProduct(ctx, productID)
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse(c, "Product not found"))
		return
	case err != nil:
		c.Header("Cache-Control", cacheControlNoStore)
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse(c, "could not load products"))
		return
	}

	setCatalogCacheHeaders(c, false)
	c.JSON(http.StatusOK, models.SuccessResponse(c, "Product retrieved successfully", product))
}
