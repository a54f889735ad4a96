package cache

import (
	"context"
	"errors"
)

var (
	// ErrCacheMiss indicates the requested fingerprint was not found in a tier.
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates a stored entry is corrupted or unreadable.
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Tier is one layer of the cache hierarchy. Implementations are plain
// key-value stores and do not judge freshness; expiry decisions belong
// to the Store so that caller-supplied maximum ages can be honored.
//
// A Tier must be safe for concurrent use.
type Tier interface {
	// Get returns the entry stored under fingerprint, or ErrCacheMiss.
	Get(ctx context.Context, fingerprint string) (*Entry, error)

	// Set stores the entry under its fingerprint, replacing any
	// previous entry wholesale (last write wins).
	Set(ctx context.Context, entry *Entry) error

	// Delete removes the entry for fingerprint. Deleting an absent
	// fingerprint is not an error.
	Delete(ctx context.Context, fingerprint string) error
}

// Sweeper is an optional Tier capability: eager removal of expired
// entries. Tiers without it rely on lazy expiry at read time, which is
// sufficient for correctness.
type Sweeper interface {
	// EvictExpired removes expired entries and returns how many were removed.
	EvictExpired(ctx context.Context) int
}
