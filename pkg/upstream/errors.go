package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

// Class categorizes upstream failures for retry decisions and metrics.
type Class string

const (
	// ClassClient represents 4xx client errors (other than 429).
	ClassClient Class = "client"

	// ClassServer represents 5xx server errors.
	ClassServer Class = "server"

	// ClassRateLimit represents an explicit rate-limit signal (429).
	ClassRateLimit Class = "rate_limit"

	// ClassNetwork represents network/timeout errors.
	ClassNetwork Class = "network"
)

// Common errors returned by the fetcher.
var (
	// ErrRetryExhausted is returned when all attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context ends during
	// retrieval or backoff.
	ErrContextCancelled = errors.New("context cancelled")

	// ErrNoResults marks a successful response carrying zero usable
	// items; whether this fails the endpoint config is configurable.
	ErrNoResults = errors.New("no usable results")

	// ErrMalformedPayload marks a response body that could not be decoded.
	ErrMalformedPayload = errors.New("malformed upstream payload")
)

// Error is an upstream failure with classification context.
type Error struct {
	StatusCode int
	Class      Class
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream %s error (status %d): %s: %v",
			e.Class, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("upstream %s error (status %d): %s",
		e.Class, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether the error warrants a fresh attempt cycle
// with backoff. Rate-limit signals and network failures are retryable;
// other statuses merely advance the endpoint rotation.
func (e *Error) Retryable() bool {
	switch e.Class {
	case ClassRateLimit, ClassNetwork:
		return true
	default:
		return false
	}
}

// Classify categorizes a response status or transport error.
func Classify(statusCode int, err error) Class {
	if err != nil {
		return ClassNetwork
	}

	switch {
	case statusCode == http.StatusTooManyRequests:
		return ClassRateLimit
	case statusCode >= 400 && statusCode < 500:
		return ClassClient
	case statusCode >= 500:
		return ClassServer
	default:
		return ""
	}
}
