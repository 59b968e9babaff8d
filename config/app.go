package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultProductsCacheTTL   = 30 * time.Second
	defaultSiteConfigCacheTTL = 60 * time.Second

	redisPingTimeout = 3 * time.Second
)

func IsProduction() bool {
	return os.Getenv("APP_ENV") == "production"
}

func Port() string {
	return getEnv("PORT", "8081")
}

// AllowedOrigins is the CORS allow-list, comma separated in CORS_ORIGINS.
func AllowedOrigins() []string {
	raw := getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// AdminPassword guards the admin API. An empty value disables the admin routes.
func AdminPassword() string {
	return os.Getenv("ADMIN_PASSWORD")
}

// ProductsCacheTTL is the in-process freshness window of the product snapshot.
func ProductsCacheTTL() time.Duration {
	return durationMillis("PRODUCTS_CACHE_TTL_MS", defaultProductsCacheTTL)
}

// SiteConfigCacheTTL is the freshness window of each config document.
func SiteConfigCacheTTL() time.Duration {
	return durationMillis("SITE_CONFIG_CACHE_TTL_MS", defaultSiteConfigCacheTTL)
}

// durationMillis reads a positive millisecond count from key.
func durationMillis(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms <= 0 {
		log.Printf("⚠️ invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}
