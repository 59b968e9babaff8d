package product_controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/Manzana-Ecommerce/manzana-storefront-backend/models"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxImagesPerUpload = 10

// UploadProductImages godoc
// @Summary Upload product images
// @Description Upload images to Cloudinary and append their URLs to the product
// @Tags CMS - Products
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Param images formData file true "Images (repeatable)"
// @Success 200 {object} models.ApiResponse
// @Failure 400 {object} models.ApiResponse
// @Failure 503 {object} models.ApiResponse
// @Router /api/v1/admin/products/{id}/images [post]
func UploadProductImages(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, "Invalid product ID"))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, "Invalid multipart form"))
		return
	}
	files := form.File["images"]
	if len(files) == 0 || len(files) > maxImagesPerUpload {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, "Send between 1 and 10 images"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*writeTimeout)
	defer cancel()

	product, err := productService.AddImages(ctx, productID, files)
	switch {
	case errors.Is(err, services.ErrImagesDisabled):
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse(c, "Image uploads are not configured"))
		return
	case err != nil:
		writeStoreError(c, "upload images", err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(c, "Images uploaded successfully", product))
}
