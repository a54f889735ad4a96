package cache

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// Store composes a fast tier and a persistent tier into the two-tier
// cache used by the retrieval service. The fast tier holds entries for
// a short window; the persistent tier keeps them longer and repopulates
// the fast tier on read (write-through on read).
//
// Store never returns an error: tier failures degrade to misses on read
// and dropped writes on put, logged but swallowed, so caching can never
// abort a retrieval.
type Store struct {
	fast Tier
	slow Tier
}

// NewStore creates a two-tier store. slow may be nil for a memory-only
// store.
func NewStore(fast, slow Tier) *Store {
	return &Store{
		fast: fast,
		slow: slow,
	}
}

// Get looks up the payload for key. The fast tier is checked first; on
// miss the persistent tier is consulted. maxAge overrides each entry's
// declared TTL as the freshness limit (0 means the declared TTL
// applies). A persistent hit repopulates the fast tier. Expired entries
// count as misses and are removed lazily.
func (s *Store) Get(ctx context.Context, key Key, maxAge time.Duration) ([]byte, bool) {
	fingerprint := key.Fingerprint()

	if entry, err := s.fast.Get(ctx, fingerprint); err == nil {
		if entry.FreshFor(maxAge) {
			CacheHits.WithLabelValues("memory").Inc()
			return entry.Payload, true
		}
		CacheExpired.WithLabelValues("memory").Inc()
		if entry.IsExpired() {
			_ = s.fast.Delete(ctx, fingerprint)
		}
	}

	if s.slow == nil {
		CacheMisses.Inc()
		return nil, false
	}

	entry, err := s.slow.Get(ctx, fingerprint)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			CacheErrors.WithLabelValues("get").Inc()
			log.Warn().Err(err).Str("fingerprint", fingerprint).Msg("Persistent cache read failed")
		}
		CacheMisses.Inc()
		return nil, false
	}

	if !entry.FreshFor(maxAge) {
		CacheExpired.WithLabelValues("persistent").Inc()
		// Only drop entries past their own TTL. An entry that just
		// failed a stricter maxAge is still valid for other callers.
		if entry.IsExpired() {
			_ = s.slow.Delete(ctx, fingerprint)
		}
		CacheMisses.Inc()
		return nil, false
	}

	// Write-through on read: promote to the fast tier.
	if err := s.fast.Set(ctx, entry); err != nil {
		CacheErrors.WithLabelValues("put").Inc()
	}

	CacheHits.WithLabelValues("persistent").Inc()
	return entry.Payload, true
}

// Put stores the payload under key in both tiers. Persistent failures
// are logged and swallowed; the in-memory copy always survives.
func (s *Store) Put(ctx context.Context, key Key, payload []byte, ttl time.Duration) {
	entry := &Entry{
		Fingerprint: key.Fingerprint(),
		Payload:     payload,
		StoredAt:    time.Now(),
		TTL:         ttl,
	}

	if err := s.fast.Set(ctx, entry); err != nil {
		CacheErrors.WithLabelValues("put").Inc()
		log.Warn().Err(err).Str("fingerprint", entry.Fingerprint).Msg("Memory cache write failed")
	}

	if s.slow == nil {
		return
	}
	if err := s.slow.Set(ctx, entry); err != nil {
		CacheErrors.WithLabelValues("put").Inc()
		log.Warn().Err(err).Str("fingerprint", entry.Fingerprint).Msg("Persistent cache write failed")
	}
}

// EvictExpired sweeps both tiers for expired entries. Optional: lazy
// expiry at read time keeps the store correct without it.
func (s *Store) EvictExpired(ctx context.Context) int {
	removed := 0
	for _, tier := range []Tier{s.fast, s.slow} {
		if sweeper, ok := tier.(Sweeper); ok {
			removed += sweeper.EvictExpired(ctx)
		}
	}
	if removed > 0 {
		CacheEvictions.Add(float64(removed))
		log.Debug().Int("removed", removed).Msg("Evicted expired cache entries")
	}
	return removed
}
