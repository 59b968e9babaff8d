package config

import (
	"testing"
	"time"
)

func TestProductsCacheTTL(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{"", 30 * time.Second},
		{"45000", 45 * time.Second},
		{"250", 250 * time.Millisecond},
		{"0", 30 * time.Second},
		{"-10", 30 * time.Second},
		{"soon", 30 * time.Second},
	}
	for _, tt := range tests {
		t.Setenv("PRODUCTS_CACHE_TTL_MS", tt.raw)
		if got := ProductsCacheTTL(); got != tt.want {
			t.Errorf("PRODUCTS_CACHE_TTL_MS=%q: got %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestSiteConfigCacheTTLDefault(t *testing.T) {
	t.Setenv("SITE_CONFIG_CACHE_TTL_MS", "")
	if got := SiteConfigCacheTTL(); got != time.Minute {
		t.Fatalf("got %s, want 1m", got)
	}
}

func TestPortDefault(t *testing.T) {
	t.Setenv("PORT", "")
	if Port() != "8081" {
		t.Fatalf("unexpected default port %q", Port())
	}
}

func TestAllowedOrigins(t *testing.T) {
	t.Setenv("CORS_ORIGINS", " https://manzana.com.ar, ,http://localhost:3000 ")
	got := AllowedOrigins()
	if len(got) != 2 || got[0] != "https://manzana.com.ar" || got[1] != "http://localhost:3000" {
		t.Fatalf("AllowedOrigins() = %q", got)
	}
}
