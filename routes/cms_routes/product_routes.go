package cms_routes

import (
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/controllers/cms/product_controller"
	"github.com/gin-gonic/gin"
)

// SetupProductRoutes expects rg to be guarded by the admin middleware already.
func SetupProductRoutes(rg *gin.RouterGroup) {
	product := rg.Group("/products")
	{
		product.POST("", product_controller.CreateProduct)
		product.PATCH("/:id", product_controller.UpdateProduct)
		product.DELETE("/:id", product_controller.DeleteProduct)
		product.POST("/:id/images", product_controller.UploadProductImages)
	}
}
