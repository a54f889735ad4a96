// Package prefetch provides parallel cache warming for known topics
package prefetch

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/newsroom-labs/news-client/pkg/news"
)

// Config holds warmer configuration
type Config struct {
	// MaxConcurrency is the maximum number of parallel retrievals.
	// Keep it small: the rate limiter serializes live upstream calls
	// anyway, so extra workers only help when topics hit the cache.
	MaxConcurrency int
	// Timeout per topic retrieval
	Timeout time.Duration
}

// DefaultConfig returns safe default warmer configuration
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
		Timeout:        60 * time.Second,
	}
}

// Retriever is the interface the warmer drives topics through.
// *news.Service implements it.
type Retriever interface {
	Get(ctx context.Context, query, country, category string, maxRecords int) *news.Result
}

// Topic is one query to warm.
type Topic struct {
	Query      string
	Country    string
	Category   string
	MaxRecords int
}

// Summary reports the outcome of a warming run.
type Summary struct {
	Warmed   int
	BySource map[news.Source]int
	Duration time.Duration
}

// Warmer pre-populates the cache for a topic list using a worker pool.
type Warmer struct {
	retriever Retriever
	config    Config
}

// NewWarmer creates a warmer over the given retriever.
func NewWarmer(retriever Retriever, config Config) *Warmer {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}

	return &Warmer{
		retriever: retriever,
		config:    config,
	}
}

// WarmAll retrieves every topic through the service so later callers
// hit the cache. Retrieval never fails, so the summary counts result
// sources instead of errors: synthetic counts flag topics that stayed
// cold.
func (w *Warmer) WarmAll(ctx context.Context, topics []Topic) Summary {
	start := time.Now()

	log.Info().
		Int("topics", len(topics)).
		Int("workers", w.config.MaxConcurrency).
		Msg("Starting cache warm")

	queue := make(chan Topic, len(topics))
	for _, topic := range topics {
		queue <- topic
	}
	close(queue)

	results := make(chan news.Source, len(topics))

	var wg sync.WaitGroup
	for i := 0; i < w.config.MaxConcurrency; i++ {
		wg.Add(1)
		go w.worker(ctx, queue, results, &wg, i)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	summary := Summary{BySource: make(map[news.Source]int)}
	for source := range results {
		summary.Warmed++
		summary.BySource[source]++
	}
	summary.Duration = time.Since(start)

	log.Info().
		Int("warmed", summary.Warmed).
		Int("topics", len(topics)).
		Dur("duration", summary.Duration).
		Msg("Cache warm complete")

	return summary
}

// worker processes topics from the queue
func (w *Warmer) worker(ctx context.Context, queue <-chan Topic, results chan<- news.Source, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()
	processed := 0

	for topic := range queue {
		select {
		case <-ctx.Done():
			log.Debug().
				Int("worker_id", workerID).
				Int("processed", processed).
				Msg("Worker stopping (context cancelled)")
			return
		default:
		}

		topicCtx, cancel := context.WithTimeout(ctx, w.config.Timeout)
		result := w.retriever.Get(topicCtx, topic.Query, topic.Country, topic.Category, topic.MaxRecords)
		cancel()

		if result.Source == news.SourceSynthetic {
			log.Warn().
				Int("worker_id", workerID).
				Str("query", topic.Query).
				Msg("Topic stayed cold, only synthetic data available")
		}

		results <- result.Source
		processed++
	}
}
