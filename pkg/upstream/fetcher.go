// Package upstream implements live news retrieval: endpoint rotation,
// retry with exponential backoff and jitter, and tolerant payload
// parsing against an unreliable rate-limited upstream.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for upstream operations.
var (
	upstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "news_upstream_requests_total",
		Help: "Total upstream requests by endpoint config and status",
	}, []string{"config", "status"})

	upstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "news_upstream_request_duration_seconds",
		Help:    "Upstream request duration in seconds by endpoint config",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 15},
	}, []string{"config"})

	upstreamErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "news_upstream_errors_total",
		Help: "Total upstream errors by class",
	}, []string{"class"})

	retriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "news_retries_total",
		Help: "Total number of retry attempts",
	})

	retryBackoffSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "news_retry_backoff_seconds",
		Help:    "Backoff duration between retry attempts",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30},
	})

	retryExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "news_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted",
	})
)

// Config holds fetcher configuration.
type Config struct {
	// BaseURL is the default upstream endpoint.
	BaseURL string

	// UserAgent identifies this client to the upstream (required).
	UserAgent string

	// Timeout is the per-call HTTP timeout.
	Timeout time.Duration

	// Retry drives the attempt loop.
	Retry RetryConfig

	// TreatEmptyAsFailure makes a successful response with zero usable
	// items fail the endpoint config, advancing the rotation. Whether
	// empty means broken depends on the upstream's semantics, so it is
	// a setting rather than hard-coded.
	TreatEmptyAsFailure bool
}

// DefaultConfig returns a safe default fetcher configuration.
func DefaultConfig(baseURL, userAgent string) Config {
	return Config{
		BaseURL:             baseURL,
		UserAgent:           userAgent,
		Timeout:             15 * time.Second,
		Retry:               DefaultRetryConfig(),
		TreatEmptyAsFailure: true,
	}
}

// Request is one logical retrieval request.
type Request struct {
	Query      string
	Country    string
	MaxRecords int
}

// Fetcher retrieves article lists from the live upstream. One Fetcher
// is shared by all requests; attempts within one logical request are
// strictly sequential, and backoff waits block only that request.
type Fetcher struct {
	httpClient *http.Client
	rotator    *Rotator
	config     Config
	logger     zerolog.Logger
}

// NewFetcher creates a fetcher over the given rotation.
func NewFetcher(cfg Config, rotator *Rotator) (*Fetcher, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.Retry.MaxAttempts < 1 {
		return nil, fmt.Errorf("max attempts must be >= 1 (got %d)", cfg.Retry.MaxAttempts)
	}
	if rotator == nil {
		rotator = NewRotator()
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rotator: rotator,
		config:  cfg,
		logger:  log.With().Str("component", "upstream").Logger(),
	}, nil
}

// Fetch drives the retry loop: each attempt walks the endpoint rotation
// in order; a rate-limit or network failure aborts the walk and triggers
// a backoff wait (exponential, jittered) before a fresh attempt. Other
// failures advance to the next config within the same attempt. After
// MaxAttempts without success, Fetch reports ErrRetryExhausted.
func (f *Fetcher) Fetch(ctx context.Context, req Request) (*ArticleList, error) {
	retry := f.config.Retry
	backoff := retry.InitialBackoff

	var lastErr error

	for attempt := 1; attempt <= retry.MaxAttempts; attempt++ {
		list, err := f.tryConfigs(ctx, req)
		if err == nil {
			if attempt > 1 {
				f.logger.Info().
					Str("query", req.Query).
					Int("attempt", attempt).
					Msg("Fetch succeeded after retry")
			}
			return list, nil
		}
		lastErr = err

		// A spent caller deadline short-circuits to the fallback chain
		// instead of sleeping through more backoff.
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
		}

		if attempt >= retry.MaxAttempts {
			break
		}

		retriesTotal.Inc()

		wait := withJitter(backoff)
		retryBackoffSeconds.Observe(wait.Seconds())

		f.logger.Debug().
			Str("query", req.Query).
			Int("attempt", attempt).
			Dur("backoff", wait).
			Msg("Retrying after backoff")

		select {
		case <-ctx.Done():
			f.logger.Warn().
				Str("query", req.Query).
				Int("attempt", attempt).
				Msg("Context cancelled during retry backoff")
			return nil, fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
		case <-time.After(wait):
		}

		backoff = retry.nextBackoff(backoff)
	}

	retryExhaustedTotal.Inc()
	f.logger.Warn().
		Str("query", req.Query).
		Int("max_attempts", retry.MaxAttempts).
		Msg("Retry attempts exhausted")

	return nil, fmt.Errorf("%w after %d attempts: %v", ErrRetryExhausted, retry.MaxAttempts, lastErr)
}

// tryConfigs walks the rotation once. Retryable failures (rate limit,
// network) escalate immediately to a fresh attempt; soft failures
// (other statuses, malformed payloads, empty results) rotate to the
// next config.
func (f *Fetcher) tryConfigs(ctx context.Context, req Request) (*ArticleList, error) {
	var lastErr error

	for _, endpoint := range f.rotator.Configs() {
		list, err := f.doRequest(ctx, endpoint, req)
		if err == nil {
			return list, nil
		}
		lastErr = err

		var uerr *Error
		if errors.As(err, &uerr) && uerr.Retryable() {
			return nil, err
		}

		f.logger.Debug().
			Err(err).
			Str("config", endpoint.Name).
			Str("query", req.Query).
			Msg("Endpoint config failed, rotating")
	}

	return nil, lastErr
}

// doRequest executes one upstream call for one endpoint config.
func (f *Fetcher) doRequest(ctx context.Context, endpoint EndpointConfig, req Request) (*ArticleList, error) {
	base := endpoint.BaseURL
	if base == "" {
		base = f.config.BaseURL
	}

	params := url.Values{}
	params.Set("query", req.Query)
	params.Set("mode", endpoint.Mode)
	params.Set("format", "json")
	params.Set("sort", endpoint.Sort)
	if req.MaxRecords > 0 {
		params.Set("maxrecords", strconv.Itoa(req.MaxRecords))
	}
	if req.Country != "" {
		params.Set("sourcecountry", req.Country)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", f.config.UserAgent)
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := f.httpClient.Do(httpReq)
	upstreamRequestDuration.WithLabelValues(endpoint.Name).Observe(time.Since(start).Seconds())

	if err != nil {
		upstreamErrorsTotal.WithLabelValues(string(ClassNetwork)).Inc()
		upstreamRequestsTotal.WithLabelValues(endpoint.Name, "network_error").Inc()
		return nil, &Error{Class: ClassNetwork, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	upstreamRequestsTotal.WithLabelValues(endpoint.Name, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		class := Classify(resp.StatusCode, nil)
		upstreamErrorsTotal.WithLabelValues(string(class)).Inc()

		f.logger.Warn().
			Str("config", endpoint.Name).
			Int("status", resp.StatusCode).
			Str("class", string(class)).
			Msg("Upstream request error")

		return nil, &Error{
			StatusCode: resp.StatusCode,
			Class:      class,
			Message:    resp.Status,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		upstreamErrorsTotal.WithLabelValues(string(ClassNetwork)).Inc()
		return nil, &Error{Class: ClassNetwork, Message: "read response body", Err: err}
	}

	list, err := ParseArticles(body, req.Query, req.MaxRecords)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	if f.config.TreatEmptyAsFailure && list.Total == 0 {
		return nil, ErrNoResults
	}

	return list, nil
}

// Rotator returns the fetcher's endpoint rotation.
func (f *Fetcher) Rotator() *Rotator {
	return f.rotator
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (f *Fetcher) SetHTTPClient(client *http.Client) {
	f.httpClient = client
}
