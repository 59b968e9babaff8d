package product_controller

import (
	"context"
	"net/http"

	"github.com/Manzana-Ecommerce/manzana-storefront-backend/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DeleteProduct godoc
// @Summary Delete a product
// @Description Delete a product by ID; its Cloudinary folder is removed in the background
// @Tags CMS - Products
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Success 200 {object} models.ApiResponse
// @Failure 400 {object} models.ApiResponse
// @Failure 404 {object} models.ApiResponse
// @Router /api/v1/admin/products/{id} [delete]
func DeleteProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, "Invalid product ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), writeTimeout)
	defer cancel()

	product, err := productService.Delete(ctx, productID)
	if err != nil {
		writeStoreError(c, "delete product", err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(c, "Product deleted successfully", gin.H{
		"id":   product.ID,
		"name": product.Name,
	}))
}
