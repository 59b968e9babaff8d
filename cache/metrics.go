package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache metrics, labelled by cache name ("products", "site-config:home", ...).
var (
	cacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cache_hits_total",
		Help: "Reads served from process memory without I/O.",
	}, []string{"cache"})
	cacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cache_misses_total",
		Help: "Reads that started a fetch from the data provider.",
	}, []string{"cache"})
	cacheCoalescedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cache_coalesced_total",
		Help: "Reads that joined a fetch already in flight.",
	}, []string{"cache"})
	cacheFetchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cache_fetch_errors_total",
		Help: "Failed fetches from the data provider.",
	}, []string{"cache"})
	cacheDegradedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cache_degraded_total",
		Help: "Config reads answered with the built-in default because the store failed.",
	}, []string{"cache"})
	cacheInvalidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cache_invalidations_total",
		Help: "Tag invalidations applied, by origin (local or remote).",
	}, []string{"tag", "origin"})
	durableReadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_durable_cache_reads_total",
		Help: "Durable layer lookups by result (hit, expired, miss, error).",
	}, []string{"result"})
	durableWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_durable_cache_writes_total",
		Help: "Durable layer write-backs by result (stored, superseded, error).",
	}, []string{"result"})
)
