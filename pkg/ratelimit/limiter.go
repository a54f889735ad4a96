// Package ratelimit enforces a minimum spacing between outbound upstream
// calls, shared across the whole process.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for limiter operations.
var (
	limiterAcquiresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "news_ratelimit_acquires_total",
		Help: "Total number of rate limiter acquisitions",
	})

	limiterWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "news_ratelimit_wait_seconds",
		Help:    "Time spent waiting for the rate limiter",
		Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 5, 10},
	})
)

// Limiter paces outbound upstream calls: Acquire suspends the caller
// until at least the configured interval has elapsed since the previous
// Acquire returned. One Limiter instance is shared by all requests in
// the process and must be explicitly constructed and injected, so tests
// can substitute a no-op limiter.
//
// Waiters are released in FIFO order by mutex ordering; there is no
// priority tiering.
type Limiter struct {
	interval time.Duration

	mu   sync.Mutex
	last time.Time
}

// NewLimiter creates a limiter with the given minimum interval between
// calls. A zero or negative interval yields a no-op limiter.
func NewLimiter(interval time.Duration) *Limiter {
	return &Limiter{interval: interval}
}

// Acquire blocks until the caller may proceed, or until ctx is done.
// The internal last-call time is only advanced when the caller is
// actually released, so a cancelled wait does not consume a slot.
func (l *Limiter) Acquire(ctx context.Context) error {
	if l.interval <= 0 {
		limiterAcquiresTotal.Inc()
		return nil
	}

	start := time.Now()

	// The lock is held through the wait: this serializes all outbound
	// calls process-wide and releases waiters in arrival order.
	l.mu.Lock()
	defer l.mu.Unlock()

	wait := l.interval - time.Since(l.last)
	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	l.last = time.Now()

	limiterAcquiresTotal.Inc()
	limiterWaitSeconds.Observe(time.Since(start).Seconds())
	return nil
}

// Interval returns the configured minimum spacing.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}
