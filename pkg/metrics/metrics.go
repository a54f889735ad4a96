// Package metrics provides the centralized Prometheus registry for the
// news client. All metrics are defined in their respective packages
// (news, cache, ratelimit, upstream, fallback) to maintain modularity
// and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registerer used by the news client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Service Metrics (pkg/news):
//   - news_requests_total{source} (Counter): Retrieval requests by result source
//     (cache, live, snapshot, synthetic)
//   - news_request_duration_seconds (Histogram): End-to-end latency including
//     retries and fallback
//
// Cache Metrics (pkg/cache):
//   - news_cache_hits_total{tier} (Counter): Cache hits by tier (memory, persistent)
//   - news_cache_misses_total (Counter): Cache misses across all tiers
//   - news_cache_expired_total{tier} (Counter): Expired entries found at read time
//   - news_cache_errors_total{operation} (Counter): Cache operation errors
//   - news_cache_evictions_total (Counter): Entries removed by sweeps
//
// Rate Limit Metrics (pkg/ratelimit):
//   - news_ratelimit_acquires_total (Counter): Rate limiter acquisitions
//   - news_ratelimit_wait_seconds (Histogram): Time spent waiting for a slot
//
// Upstream Metrics (pkg/upstream):
//   - news_upstream_requests_total{config, status} (Counter): Requests by
//     endpoint config and HTTP status
//   - news_upstream_request_duration_seconds{config} (Histogram): Request
//     duration by endpoint config
//   - news_upstream_errors_total{class} (Counter): Errors by class
//     (client, server, rate_limit, network)
//
// Retry Metrics (pkg/upstream):
//   - news_retries_total (Counter): Retry attempts across all requests
//   - news_retry_backoff_seconds (Histogram): Backoff duration between attempts
//   - news_retry_exhausted_total (Counter): Requests that exhausted max attempts
//
// Fallback Metrics (pkg/fallback):
//   - news_fallback_results_total{step} (Counter): Fallback resolutions by step
//     (snapshot, synthetic)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(news_cache_hits_total[5m])) /
//   (sum(rate(news_cache_hits_total[5m])) + sum(rate(news_cache_misses_total[5m])))
//
//   # Share of Degraded Answers
//   sum(rate(news_requests_total{source=~"snapshot|synthetic"}[5m])) /
//   sum(rate(news_requests_total[5m]))
//
//   # Upstream Error Rate
//   rate(news_upstream_errors_total[5m])
//
//   # P95 End-to-End Latency
//   histogram_quantile(0.95, rate(news_request_duration_seconds_bucket[5m]))
//
//   # Retry Pressure
//   rate(news_retries_total[5m])
