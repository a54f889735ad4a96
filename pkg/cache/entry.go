package cache

import (
	"time"
)

// Entry is one cached retrieval result.
type Entry struct {
	// Fingerprint is the deterministic key this entry is stored under.
	Fingerprint string `json:"fingerprint"`

	// Payload is the opaque result blob (JSON-encoded article list).
	Payload []byte `json:"payload"`

	// StoredAt is when the entry was written.
	StoredAt time.Time `json:"stored_at"`

	// TTL is the declared lifetime of the entry.
	TTL time.Duration `json:"ttl"`
}

// Age returns the time elapsed since the entry was stored.
func (e *Entry) Age() time.Duration {
	return time.Since(e.StoredAt)
}

// ExpiresAt returns the point in time the entry becomes stale.
func (e *Entry) ExpiresAt() time.Time {
	return e.StoredAt.Add(e.TTL)
}

// IsExpired returns true if the entry's declared TTL has elapsed.
func (e *Entry) IsExpired() bool {
	return !e.FreshFor(0)
}

// FreshFor reports whether the entry is still usable under the given
// maximum age. A maxAge of 0 means the entry's own TTL applies; a
// positive maxAge overrides the declared TTL for use-case-specific
// freshness (e.g. 30 minutes for trending, 24 hours for translations).
func (e *Entry) FreshFor(maxAge time.Duration) bool {
	limit := e.TTL
	if maxAge > 0 {
		limit = maxAge
	}
	return e.Age() <= limit
}
