// Package fallback provides the degraded result sources used when live
// retrieval is exhausted: a published snapshot mirror, then synthesized
// placeholder articles as last resort.
package fallback

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/newsroom-labs/news-client/pkg/upstream"
)

var fallbackResultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "news_fallback_results_total",
	Help: "Total fallback resolutions by step",
}, []string{"step"}) // "snapshot", "synthetic"

// Config holds fallback chain configuration.
type Config struct {
	// SnapshotBaseURL is the root of the published snapshot mirror
	// (e.g. a static site rebuilt every couple of hours). Empty
	// disables the snapshot step.
	SnapshotBaseURL string

	// SnapshotTimeout bounds the snapshot fetch. The snapshot host is
	// independent of the live upstream, so this path carries its own
	// short timeout and skips the rate limiter.
	SnapshotTimeout time.Duration

	// SyntheticCount is how many placeholder articles to synthesize.
	SyntheticCount int
}

// DefaultConfig returns a safe default fallback configuration.
func DefaultConfig(snapshotBaseURL string) Config {
	return Config{
		SnapshotBaseURL: snapshotBaseURL,
		SnapshotTimeout: 5 * time.Second,
		SyntheticCount:  3,
	}
}

// Chain resolves a result when all live attempts have failed. Neither
// step may fail the caller: the snapshot fetch is best-effort and
// synthesis always succeeds.
type Chain struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// NewChain creates a fallback chain.
func NewChain(cfg Config) *Chain {
	if cfg.SnapshotTimeout <= 0 {
		cfg.SnapshotTimeout = 5 * time.Second
	}
	if cfg.SyntheticCount <= 0 {
		cfg.SyntheticCount = 3
	}

	return &Chain{
		httpClient: &http.Client{
			Timeout: cfg.SnapshotTimeout,
		},
		config: cfg,
		logger: log.With().Str("component", "fallback").Logger(),
	}
}

// Resolve returns a degraded result for the query: the published
// snapshot if present and parseable, otherwise synthetic placeholders.
// The boolean reports whether the result came from the snapshot step.
func (c *Chain) Resolve(ctx context.Context, query, country string) (*upstream.ArticleList, bool) {
	if list, err := c.snapshot(ctx, query, country); err == nil {
		fallbackResultsTotal.WithLabelValues("snapshot").Inc()
		c.logger.Info().
			Str("query", query).
			Int("total", list.Total).
			Msg("Resolved from published snapshot")
		return list, true
	} else if c.config.SnapshotBaseURL != "" {
		c.logger.Debug().Err(err).Str("query", query).Msg("Snapshot unavailable")
	}

	fallbackResultsTotal.WithLabelValues("synthetic").Inc()
	return c.Synthetic(query, country), false
}

// snapshot fetches the published JSON file for the query from the
// snapshot mirror.
func (c *Chain) snapshot(ctx context.Context, query, country string) (*upstream.ArticleList, error) {
	if c.config.SnapshotBaseURL == "" {
		return nil, fmt.Errorf("snapshot source not configured")
	}

	snapshotURL := fmt.Sprintf("%s/search/%s.json", c.config.SnapshotBaseURL, SafeName(query, country))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, snapshotURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create snapshot request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("snapshot status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	list, err := decodeSnapshot(body, query)
	if err != nil {
		return nil, err
	}
	if list.Total == 0 {
		return nil, fmt.Errorf("snapshot is empty")
	}
	return list, nil
}
