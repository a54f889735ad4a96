package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by tier (memory, persistent)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"tier"}, // "memory", "persistent"
	)

	// CacheMisses tracks requests not served from any tier
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "news_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// CacheExpired tracks entries found but rejected as stale
	CacheExpired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_cache_expired_total",
			Help: "Total number of expired cache entries found at read time",
		},
		[]string{"tier"},
	)

	// CacheErrors tracks cache operation errors by operation
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "put", "evict"
	)

	// CacheEvictions tracks entries removed by the background sweep
	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "news_cache_evictions_total",
			Help: "Total number of entries removed by EvictExpired",
		},
	)
)
