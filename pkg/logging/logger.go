// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs debug messages and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer

	// Service names the binary in every entry, so logs from the proxy,
	// warming jobs and library consumers stay distinguishable when they
	// share an aggregation pipeline. Empty omits the field.
	Service string
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:   LevelInfo,
		Pretty:  false,
		Output:  os.Stderr,
		Service: "news-client",
	}
}

// Setup configures the global zerolog logger. Component loggers created
// afterwards via NewLogger inherit the service field.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	ctx := zerolog.New(output).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}

	logger := ctx.Logger()
	log.Logger = logger

	return logger
}

// parseLevel converts LogLevel to zerolog.Level.
func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: Detailed information for debugging
//   - Cache tier operations (hit/miss, fingerprint, TTL)
//   - Rate limiter waits
//   - Snapshot lookups
//
// Info: Normal operation events
//   - Successful live retrievals
//   - Snapshot resolutions
//   - Server startup/shutdown
//   - Cache sweeps
//
// Warn: Warning conditions that don't prevent operation
//   - Retry attempts and backoff waits
//   - Cache tier errors (degraded to miss)
//   - Live retrieval failures (fallback engaged)
//
// Error: Error conditions requiring attention
//   - Retry exhaustion
//   - Persistent cache tier unavailability
//   - Configuration errors
//
// Context Fields:
//   - component: Package emitting the entry (cache, ratelimit, upstream, fallback, news)
//   - query: The search query being retrieved
//   - fingerprint: Cache key fingerprint
//   - config: Endpoint configuration name in the rotation
//   - status: HTTP status code
//   - class: Error classification (client, server, rate_limit, network)
//   - attempt: Retry attempt number
//   - backoff: Backoff wait before the next attempt
//   - source: Result provenance (cache, live, snapshot, synthetic)
//   - ttl: Cache entry TTL
