// Package cache provides the two-tier result cache used by the news
// retrieval service.
//
// A Store composes two Tier implementations:
//
// - MemoryTier: fast in-process map, short trust window (default 5m)
// - DiskTier or RedisTier: persistent layer with longer per-entry TTLs
//
// Reads check memory first; a persistent hit repopulates the memory
// tier. Expired entries are removed lazily at read time, with an
// optional EvictExpired sweep. Tier failures never propagate: reads
// degrade to misses and writes are best-effort, so the cache can never
// abort a retrieval.
//
// # Basic Usage
//
//	disk, err := cache.NewDiskTier("./cache")
//	if err != nil {
//		return err
//	}
//	store := cache.NewStore(cache.NewMemoryTier(5*time.Minute), disk)
//
//	key := cache.Key{Query: "climate change", Country: "DE", Category: "news"}
//
//	payload, ok := store.Get(ctx, key, time.Hour)
//	if !ok {
//		// Cache miss - fetch from upstream, then:
//		store.Put(ctx, key, payload, time.Hour)
//	}
//
// # Swapping the persistent tier
//
// The persistent layer is a capability, not a subclass: any Tier works.
// RedisTier shares entries across processes with Redis-native expiry:
//
//	store := cache.NewStore(cache.NewMemoryTier(5*time.Minute),
//		cache.NewRedisTier(redisClient))
//
// # Metrics
//
// The store exports Prometheus metrics:
//
//   - news_cache_hits_total{tier} - Cache hits by tier
//   - news_cache_misses_total - Cache misses
//   - news_cache_expired_total{tier} - Stale entries found at read time
//   - news_cache_errors_total{operation} - Tier operation errors
//   - news_cache_evictions_total - Entries removed by EvictExpired
package cache
