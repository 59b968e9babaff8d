package config_controller

import (
	"net/http"
	"strconv"

	"github.com/Manzana-Ecommerce/manzana-storefront-backend/config"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/models"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/services"
	"github.com/gin-gonic/gin"
)

var storefront *services.StorefrontService

func InitStorefront(s *services.StorefrontService) {
	storefront = s
}

// Config documents never fail: when the store is down the defaults are served.
// Shared caches keep them briefly since an admin write only invalidates this
// backend's caches.
const configCacheControl = "public, s-maxage=60, stale-while-revalidate=300"

// GetHomeConfig godoc
// @Summary Home page layout
// @Tags store
// @Produce json
// @Success 200 {object} models.ApiResponse
// @Router /store/config/home [get]
func GetHomeConfig(c *gin.Context) {
	ctx, cancel := config.WithTimeout()
	defer cancel()

	c.Header("Cache-Control", configCacheControl)
	c.JSON(http.StatusOK, models.SuccessResponse(c, "Home config retrieved", storefront.GetHomeConfig(ctx)))
}

// GetTradeInConfig godoc
// @Summary Trade-in price table
// @Tags store
// @Produce json
// @Success 200 {object} models.ApiResponse
// @Router /store/config/trade-in [get]
func GetTradeInConfig(c *gin.Context) {
	ctx, cancel := config.WithTimeout()
	defer cancel()

	c.Header("Cache-Control", configCacheControl)
	c.JSON(http.StatusOK, models.SuccessResponse(c, "Trade-in config retrieved", storefront.GetTradeInConfig(ctx)))
}

type installmentsResponse struct {
	models.InstallmentConfig
	Quotes []models.InstallmentQuote `json:"quotes,omitempty"`
}

// GetInstallmentConfig godoc
// @Summary Installment plans, optionally quoted for a price
// @Tags store
// @Produce json
// @Param price query number false "Price to quote every enabled plan for"
// @Success 200 {object} models.ApiResponse
// @Failure 400 {object} models.ApiResponse
// @Router /store/config/installments [get]
func GetInstallmentConfig(c *gin.Context) {
	var price float64
	if raw := c.Query("price"); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil || p < 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(c, "Invalid price"))
			return
		}
		price = p
	}

	ctx, cancel := config.WithTimeout()
	defer cancel()

	cfg := storefront.GetInstallmentConfig(ctx)
	resp := installmentsResponse{InstallmentConfig: cfg}
	if price > 0 {
		resp.Quotes = cfg.Quote(price)
	}

	c.Header("Cache-Control", configCacheControl)
	c.JSON(http.StatusOK, models.SuccessResponse(c, "Installment config retrieved", resp))
}

// GetDollarConfig godoc
// @Summary Dollar exchange settings
// @Tags store
// @Produce json
// @Success 200 {object} models.ApiResponse
// @Router /store/config/dollar [get]
func GetDollarConfig(c *gin.Context) {
	ctx, cancel := config.WithTimeout()
	defer cancel()

	c.Header("Cache-Control", configCacheControl)
	c.JSON(http.StatusOK, models.SuccessResponse(c, "Dollar config retrieved", storefront.GetDollarConfig(ctx)))
}
