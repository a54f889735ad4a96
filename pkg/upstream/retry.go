package upstream

import (
	"math/rand"
	"time"
)

// RetryConfig holds the configuration for the attempt loop.
type RetryConfig struct {
	// MaxAttempts is the maximum number of full rotation passes
	// (including the initial one).
	MaxAttempts int

	// InitialBackoff is the wait before the second attempt.
	InitialBackoff time.Duration

	// MaxBackoff caps the exponential growth.
	MaxBackoff time.Duration

	// BackoffMultiplier is the per-attempt growth factor.
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// withJitter randomizes a backoff duration by ±20% to avoid
// synchronized retry storms across concurrent logical requests.
func withJitter(backoff time.Duration) time.Duration {
	return time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
}

// nextBackoff grows the backoff exponentially up to the configured cap.
func (c RetryConfig) nextBackoff(backoff time.Duration) time.Duration {
	next := time.Duration(float64(backoff) * c.BackoffMultiplier)
	if next > c.MaxBackoff {
		next = c.MaxBackoff
	}
	return next
}
