// Package news wires the cache store, rate limiter, upstream fetcher
// and fallback chain into one retrieval service whose Get never fails:
// every degradation path ends in a usable, provenance-labeled result.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/newsroom-labs/news-client/pkg/cache"
	"github.com/newsroom-labs/news-client/pkg/fallback"
	"github.com/newsroom-labs/news-client/pkg/ratelimit"
	"github.com/newsroom-labs/news-client/pkg/upstream"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "news_requests_total",
		Help: "Total retrieval requests by result source",
	}, []string{"source"})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "news_request_duration_seconds",
		Help:    "End-to-end retrieval latency including retries and fallback",
		Buckets: prometheus.DefBuckets,
	})
)

// Service is the retrieval facade. One Service is shared by all
// callers; every collaborator behind it is safe for concurrent use.
type Service struct {
	store    *cache.Store
	limiter  *ratelimit.Limiter
	fetchers map[string]*upstream.Fetcher
	chain    *fallback.Chain
	config   Config
	logger   zerolog.Logger
}

// New creates a retrieval service from the configuration. Zero-valued
// settings are filled from DefaultConfig.
func New(cfg Config) (*Service, error) {
	defaults := DefaultConfig(cfg.BaseURL, cfg.UserAgent)
	if cfg.CacheDir == "" {
		cfg.CacheDir = defaults.CacheDir
	}
	if cfg.MemoryTTL <= 0 {
		cfg.MemoryTTL = defaults.MemoryTTL
	}
	if cfg.TTLs == nil {
		cfg.TTLs = DefaultTTLs()
	}
	if cfg.SyntheticTTL <= 0 {
		cfg.SyntheticTTL = defaults.SyntheticTTL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaults.RequestTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaults.MaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = defaults.InitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = defaults.MaxBackoff
	}
	if cfg.BackoffMultiplier <= 0 {
		cfg.BackoffMultiplier = defaults.BackoffMultiplier
	}
	if cfg.SnapshotTimeout <= 0 {
		cfg.SnapshotTimeout = defaults.SnapshotTimeout
	}
	if cfg.SyntheticCount <= 0 {
		cfg.SyntheticCount = defaults.SyntheticCount
	}

	var slow cache.Tier
	if cfg.Redis != nil {
		slow = cache.NewRedisTier(cfg.Redis)
	} else {
		disk, err := cache.NewDiskTier(cfg.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("create disk cache tier: %w", err)
		}
		slow = disk
	}
	store := cache.NewStore(cache.NewMemoryTier(cfg.MemoryTTL), slow)

	fetcherConfig := upstream.Config{
		BaseURL:   cfg.BaseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.RequestTimeout,
		Retry: upstream.RetryConfig{
			MaxAttempts:       cfg.MaxAttempts,
			InitialBackoff:    cfg.InitialBackoff,
			MaxBackoff:        cfg.MaxBackoff,
			BackoffMultiplier: cfg.BackoffMultiplier,
		},
		TreatEmptyAsFailure: !cfg.AllowEmptyResults,
	}

	newsFetcher, err := upstream.NewFetcher(fetcherConfig, upstream.NewRotator(upstream.DefaultConfigs()...))
	if err != nil {
		return nil, fmt.Errorf("create news fetcher: %w", err)
	}
	trendingFetcher, err := upstream.NewFetcher(fetcherConfig, upstream.NewRotator(upstream.TrendingConfigs()...))
	if err != nil {
		return nil, fmt.Errorf("create trending fetcher: %w", err)
	}

	chain := fallback.NewChain(fallback.Config{
		SnapshotBaseURL: cfg.SnapshotBaseURL,
		SnapshotTimeout: cfg.SnapshotTimeout,
		SyntheticCount:  cfg.SyntheticCount,
	})

	return &Service{
		store:   store,
		limiter: ratelimit.NewLimiter(cfg.MinInterval),
		fetchers: map[string]*upstream.Fetcher{
			CategoryNews:     newsFetcher,
			CategoryTrending: trendingFetcher,
		},
		chain:  chain,
		config: cfg,
		logger: log.With().Str("component", "news").Logger(),
	}, nil
}

// Get retrieves articles for the query. It never returns an error:
// failures degrade through cache, live retrieval, published snapshot
// and finally synthesized placeholders, and the Result's Source field
// says which one answered.
func (s *Service) Get(ctx context.Context, query, country, category string, maxRecords int) *Result {
	start := time.Now()
	defer func() {
		requestDuration.Observe(time.Since(start).Seconds())
	}()

	if category == "" {
		category = CategoryNews
	}
	key := cache.Key{Query: query, Country: country, Category: category}

	if list, ok := s.cached(ctx, key); ok {
		requestsTotal.WithLabelValues(string(SourceCache)).Inc()
		return &Result{Payload: list, Source: SourceCache, Timestamp: time.Now()}
	}

	if list, ok := s.live(ctx, key, query, country, category, maxRecords); ok {
		requestsTotal.WithLabelValues(string(SourceLive)).Inc()
		return &Result{Payload: list, Source: SourceLive, Timestamp: time.Now()}
	}

	list, fromSnapshot := s.chain.Resolve(ctx, query, country)
	source := SourceSynthetic
	ttl := s.config.SyntheticTTL
	if fromSnapshot {
		source = SourceSnapshot
		ttl = s.config.TTLFor(category)
	}
	s.put(ctx, key, list, ttl)

	requestsTotal.WithLabelValues(string(source)).Inc()
	return &Result{Payload: list, Source: source, Timestamp: time.Now()}
}

// cached looks the key up in the store and decodes the stored payload.
// A payload that no longer decodes counts as a miss.
func (s *Service) cached(ctx context.Context, key cache.Key) (*upstream.ArticleList, bool) {
	payload, ok := s.store.Get(ctx, key, 0)
	if !ok {
		return nil, false
	}

	var list upstream.ArticleList
	if err := json.Unmarshal(payload, &list); err != nil {
		s.logger.Warn().Err(err).
			Str("fingerprint", key.Fingerprint()).
			Msg("Cached payload no longer decodes, treating as miss")
		return nil, false
	}
	return &list, true
}

// live paces the request through the limiter and runs the retrying
// fetch. Success is written back to the cache with the category TTL.
func (s *Service) live(ctx context.Context, key cache.Key, query, country, category string, maxRecords int) (*upstream.ArticleList, bool) {
	if err := s.limiter.Acquire(ctx); err != nil {
		s.logger.Warn().Err(err).Str("query", query).Msg("Gave up waiting for rate limiter")
		return nil, false
	}

	fetcher, ok := s.fetchers[category]
	if !ok {
		fetcher = s.fetchers[CategoryNews]
	}

	list, err := fetcher.Fetch(ctx, upstream.Request{
		Query:      query,
		Country:    country,
		MaxRecords: maxRecords,
	})
	if err != nil {
		s.logger.Warn().Err(err).
			Str("query", query).
			Str("category", category).
			Msg("Live retrieval failed, falling back")
		return nil, false
	}

	s.put(ctx, key, list, s.config.TTLFor(category))
	return list, true
}

// put serializes the list and writes it through the store. Cache
// writes are best-effort and never fail the request.
func (s *Service) put(ctx context.Context, key cache.Key, list *upstream.ArticleList, ttl time.Duration) {
	payload, err := json.Marshal(list)
	if err != nil {
		s.logger.Error().Err(err).Str("fingerprint", key.Fingerprint()).Msg("Failed to serialize payload for cache")
		return
	}
	s.store.Put(ctx, key, payload, ttl)
}

// EvictExpired sweeps expired entries from all cache tiers that
// support sweeping and returns how many were removed.
func (s *Service) EvictExpired(ctx context.Context) int {
	return s.store.EvictExpired(ctx)
}

// Store exposes the underlying cache store, mainly for operational
// tooling and tests.
func (s *Service) Store() *cache.Store {
	return s.store
}
