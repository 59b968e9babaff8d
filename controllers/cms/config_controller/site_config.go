package config_controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/Manzana-Ecommerce/manzana-storefront-backend/config"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/models"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/services"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/store"
	"github.com/gin-gonic/gin"
)

var siteConfigService *services.SiteConfigService

func InitSiteConfigService(s *services.SiteConfigService) {
	siteConfigService = s
}

const maxConfigBody = 256 << 10

// GetHomeConfig godoc
// @Summary Persisted home layout
// @Tags CMS - Site config
// @Produce json
// @Success 200 {object} models.ApiResponse
// @Failure 503 {object} models.ApiResponse
// @Router /api/v1/admin/config/home [get]
func GetHomeConfig(c *gin.Context) {
	read(c, "home", func(ctx context.Context) (any, error) { return siteConfigService.CurrentHome(ctx) })
}

// UpdateHomeConfig godoc
// @Summary Merge a partial home layout into the persisted one
// @Tags CMS - Site config
// @Accept json
// @Produce json
// @Success 200 {object} models.ApiResponse
// @Failure 400 {object} models.ApiResponse
// @Failure 503 {object} models.ApiResponse
// @Router /api/v1/admin/config/home [put]
func UpdateHomeConfig(c *gin.Context) {
	write(c, "home", func(ctx context.Context, raw json.RawMessage) (any, error) {
		return siteConfigService.UpdateHome(ctx, raw)
	})
}

// @Router /api/v1/admin/config/trade-in [get]
func GetTradeInConfig(c *gin.Context) {
	read(c, "trade-in", func(ctx context.Context) (any, error) { return siteConfigService.CurrentTradeIn(ctx) })
}

// @Router /api/v1/admin/config/trade-in [put]
func UpdateTradeInConfig(c *gin.Context) {
	write(c, "trade-in", func(ctx context.Context, raw json.RawMessage) (any, error) {
		return siteConfigService.UpdateTradeIn(ctx, raw)
	})
}

// @Router /api/v1/admin/config/installments [get]
func GetInstallmentConfig(c *gin.Context) {
	read(c, "installments", func(ctx context.Context) (any, error) { return siteConfigService.CurrentInstallments(ctx) })
}

// @Router /api/v1/admin/config/installments [put]
func UpdateInstallmentConfig(c *gin.Context) {
	write(c, "installments", func(ctx context.Context, raw json.RawMessage) (any, error) {
		return siteConfigService.UpdateInstallments(ctx, raw)
	})
}

// @Router /api/v1/admin/config/dollar [get]
func GetDollarConfig(c *gin.Context) {
	read(c, "dollar", func(ctx context.Context) (any, error) { return siteConfigService.CurrentDollar(ctx) })
}

// @Router /api/v1/admin/config/dollar [put]
func UpdateDollarConfig(c *gin.Context) {
	write(c, "dollar", func(ctx context.Context, raw json.RawMessage) (any, error) {
		return siteConfigService.UpdateDollar(ctx, raw)
	})
}

// ─────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────

func read(c *gin.Context, name string, get func(context.Context) (any, error)) {
	ctx, cancel := config.WithTimeout()
	defer cancel()

	value, err := get(ctx)
	if err != nil {
		writeConfigError(c, name, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, models.SuccessResponse(c, "Config retrieved", value))
}

func write(c *gin.Context, name string, update func(context.Context, json.RawMessage) (any, error)) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxConfigBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, "Could not read request body"))
		return
	}

	ctx, cancel := config.WithTimeout()
	defer cancel()

	value, err := update(ctx, json.RawMessage(body))
	if err != nil {
		writeConfigError(c, name, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse(c, "Config updated successfully", value))
}

func writeConfigError(c *gin.Context, name string, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidConfigDocument):
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, err.Error()))
	case store.IsSchemaMissing(err), store.IsUnavailable(err):
		log.Printf("[site-config] ❌ %s: %v", name, err)
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse(c, "remote config unavailable"))
	default:
		log.Printf("[site-config] ❌ %s: %v", name, err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse(c, "Failed to save config"))
	}
}
