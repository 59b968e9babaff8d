package product_controller

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/Manzana-Ecommerce/manzana-storefront-backend/models"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/services"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/store"
	"github.com/gin-gonic/gin"
)

var productService *services.ProductService

func InitProductService(s *services.ProductService) {
	productService = s
}

const writeTimeout = 30 * time.Second

// CreateProduct godoc
// @Summary Create a new product
// @Description Create a product; every worker drops its catalog snapshot afterwards
// @Tags CMS - Products
// @Accept json
// @Produce json
// @Param product body models.ProductRequest true "Product details"
// @Success 201 {object} models.ApiResponse
// @Failure 400 {object} models.ApiResponse
// @Failure 503 {object} models.ApiResponse
// @Router /api/v1/admin/products [post]
func CreateProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), writeTimeout)
	defer cancel()

	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[ERROR] Invalid request: %v", err)
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, "Invalid request: "+err.Error()))
		return
	}

	product, err := productService.Create(ctx, req)
	if err != nil {
		writeStoreError(c, "create product", err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse(c, "Product created successfully", product))
}

// writeStoreError maps a store failure onto the response envelope.
func writeStoreError(c *gin.Context, op string, err error) {
	log.Printf("[ERROR] %s: %v", op, err)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse(c, "Product not found"))
	case store.IsUnavailable(err), store.IsSchemaMissing(err):
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse(c, "Database unavailable"))
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse(c, "Failed to "+op))
	}
}
