package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAdminRouter(password string) *gin.Engine {
	r := gin.New()
	r.Use(RateLimiter(nil, 1, time.Minute))
	r.Use(AdminPasswordMiddleware(password))
	r.GET("/admin/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestAdminPasswordMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		password string
		headers  map[string]string
		want     int
	}{
		{"header password", "s3cret", map[string]string{"X-Admin-Password": "s3cret"}, http.StatusOK},
		{"bearer password", "s3cret", map[string]string{"Authorization": "Bearer s3cret"}, http.StatusOK},
		{"wrong password", "s3cret", map[string]string{"X-Admin-Password": "guess"}, http.StatusUnauthorized},
		{"malformed bearer", "s3cret", map[string]string{"Authorization": "Basic s3cret"}, http.StatusUnauthorized},
		{"missing password", "s3cret", nil, http.StatusUnauthorized},
		{"admin disabled", "", map[string]string{"X-Admin-Password": ""}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAdminRouter(tt.password)
			req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestRateLimiterWithoutRedisPassesThrough(t *testing.T) {
	r := newAdminRouter("pw")
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		req.Header.Set("X-Admin-Password", "pw")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d limited without redis: %d", i, w.Code)
		}
	}
}

func TestDescribeTarget(t *testing.T) {
	tests := []struct {
		route, path      string
		resource, target string
	}{
		{"/api/v1/admin/products", "/api/v1/admin/products", "product", "-"},
		{"/api/v1/admin/products/:id", "/api/v1/admin/products/abc", "product", "abc"},
		{"/api/v1/admin/products/:id/images", "/api/v1/admin/products/abc/images", "product", "abc/images"},
		{"/api/v1/admin/config/home", "/api/v1/admin/config/home", "site_config", "home"},
		{"/api/v1/admin/cache/revalidate", "/api/v1/admin/cache/revalidate", "cache", "revalidate"},
		{"", "/healthz", "unknown", "/healthz"},
	}
	for _, tt := range tests {
		resource, target := describeTarget(tt.route, tt.path)
		if resource != tt.resource || target != tt.target {
			t.Errorf("describeTarget(%q) = %q, %q; want %q, %q", tt.path, resource, target, tt.resource, tt.target)
		}
	}
}

func TestActivityLoggingMiddlewarePassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(ActivityLoggingMiddleware())
	r.PUT("/api/v1/admin/config/home", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/api/v1/admin/config/home", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, method := range []string{http.MethodPut, http.MethodGet} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, "/api/v1/admin/config/home", nil))
		if w.Code >= http.StatusBadRequest {
			t.Fatalf("%s status = %d", method, w.Code)
		}
	}
}
