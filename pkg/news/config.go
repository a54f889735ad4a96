package news

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// Content categories. The category picks the endpoint rotation and the
// persistent cache TTL; unknown categories fall back to the news
// defaults.
const (
	CategoryNews        = "news"
	CategoryTrending    = "trending"
	CategoryTranslation = "translation"
)

// Config holds service configuration. Zero values are filled in by
// New from DefaultConfig, so callers only set what they care about.
type Config struct {
	// BaseURL is the live upstream endpoint (required).
	BaseURL string

	// UserAgent identifies this client to the upstream (required).
	UserAgent string

	// CacheDir is where the disk cache tier lives. Ignored when Redis
	// is set.
	CacheDir string

	// Redis, when non-nil, replaces the disk tier as the persistent
	// cache tier.
	Redis *redis.Client

	// MinInterval is the minimum spacing between live upstream calls.
	// Zero or negative disables pacing.
	MinInterval time.Duration

	// MemoryTTL is how long the in-process tier trusts an entry before
	// re-checking the persistent tier.
	MemoryTTL time.Duration

	// TTLs maps category to persistent-tier TTL. Categories not listed
	// use the news TTL.
	TTLs map[string]time.Duration

	// SyntheticTTL is the short TTL for cached synthetic payloads, so
	// a degraded answer is retried soon instead of being remembered for
	// the full category TTL.
	SyntheticTTL time.Duration

	// RequestTimeout is the per-call HTTP timeout for live fetches.
	RequestTimeout time.Duration

	// MaxAttempts bounds full retry attempts per logical request.
	MaxAttempts int

	// InitialBackoff, MaxBackoff and BackoffMultiplier drive the
	// exponential backoff between failed attempts.
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64

	// SnapshotBaseURL is the published snapshot mirror. Empty disables
	// the snapshot fallback step.
	SnapshotBaseURL string

	// SnapshotTimeout bounds the snapshot fetch.
	SnapshotTimeout time.Duration

	// SyntheticCount is how many placeholder articles to synthesize.
	SyntheticCount int

	// AllowEmptyResults accepts a 2xx response with zero usable items
	// as a successful retrieval. By default an empty response advances
	// the endpoint rotation instead, on the assumption that a query
	// with no matches usually means the endpoint mode is misbehaving.
	AllowEmptyResults bool
}

// DefaultConfig returns a safe default service configuration.
func DefaultConfig(baseURL, userAgent string) Config {
	return Config{
		BaseURL:        baseURL,
		UserAgent:      userAgent,
		CacheDir:       "cache",
		MinInterval:    1 * time.Second,
		MemoryTTL:      5 * time.Minute,
		TTLs:           DefaultTTLs(),
		SyntheticTTL:   2 * time.Minute,
		RequestTimeout: 15 * time.Second,

		MaxAttempts:       3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,

		SnapshotTimeout: 5 * time.Second,
		SyntheticCount:  3,
	}
}

// DefaultTTLs returns the per-category persistent-tier TTL table.
// Trending ages fastest, translations barely change.
func DefaultTTLs() map[string]time.Duration {
	return map[string]time.Duration{
		CategoryNews:        1 * time.Hour,
		CategoryTrending:    30 * time.Minute,
		CategoryTranslation: 24 * time.Hour,
	}
}

// TTLFor returns the persistent-tier TTL for a category.
func (c Config) TTLFor(category string) time.Duration {
	if ttl, ok := c.TTLs[category]; ok {
		return ttl
	}
	return c.TTLs[CategoryNews]
}
