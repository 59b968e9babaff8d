package filter_controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Manzana-Ecommerce/manzana-storefront-backend/cache"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/catalog"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/models"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type noConfigs struct{}

func (noConfigs) GetConfigByKey(context.Context, string) (json.RawMessage, error) { return nil, nil }

func newRouter(fetch cache.FetcherFunc) *gin.Engine {
	products := cache.NewProductCache(fetch, time.Minute)
	InitStorefront(services.NewStorefrontService(products, cache.NewConfigSet(noConfigs{}, time.Minute, nil), nil))

	r := gin.New()
	r.GET("/store/filters/metadata", GetFilterMetadata)
	return r
}

func TestGetFilterMetadata(t *testing.T) {
	r := newRouter(func(context.Context) (models.Snapshot, error) {
		return models.Snapshot{FetchedAt: time.Now(), Connected: true, Data: []models.Product{
			{ID: uuid.New(), Category: "iphone", Condition: "new", Price: 10, Stock: 1},
			{ID: uuid.New(), Category: "mac", Condition: "used", Price: 30},
		}}, nil
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/store/filters/metadata?condition=used", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Cache-Control"); got != catalog.CacheControlShared {
		t.Fatalf("Cache-Control = %q", got)
	}

	var resp struct {
		Data models.FilterMetadata `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.Availability.OutOfStock != 1 || resp.Data.Availability.InStock != 0 {
		t.Fatalf("availability = %+v", resp.Data.Availability)
	}
	if len(resp.Data.Categories) != 1 || resp.Data.Categories[0].Value != "mac" {
		t.Fatalf("categories = %+v", resp.Data.Categories)
	}
}

func TestGetFilterMetadataUnavailable(t *testing.T) {
	r := newRouter(func(context.Context) (models.Snapshot, error) {
		return models.Snapshot{}, errors.New("db down")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/store/filters/metadata", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}
