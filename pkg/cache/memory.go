package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryTier is the fast in-process cache layer. It holds entries for a
// short window of its own (independent of each entry's declared TTL),
// bounding how long a copy is trusted before the persistent tier is
// consulted again. Reads take a shared lock so concurrent lookups of
// different fingerprints do not serialize.
type MemoryTier struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]memoryItem
}

type memoryItem struct {
	entry    *Entry
	cachedAt time.Time
}

// NewMemoryTier creates an in-process tier whose entries are trusted
// for at most ttl after insertion. A ttl of 0 disables the window and
// entries live until evicted or replaced.
func NewMemoryTier(ttl time.Duration) *MemoryTier {
	return &MemoryTier{
		ttl:     ttl,
		entries: make(map[string]memoryItem),
	}
}

// Get returns the entry stored under fingerprint, or ErrCacheMiss if it
// is absent or its in-memory window has elapsed.
func (t *MemoryTier) Get(_ context.Context, fingerprint string) (*Entry, error) {
	t.mu.RLock()
	item, ok := t.entries[fingerprint]
	t.mu.RUnlock()

	if !ok {
		return nil, ErrCacheMiss
	}
	if t.expired(item) {
		t.mu.Lock()
		delete(t.entries, fingerprint)
		t.mu.Unlock()
		return nil, ErrCacheMiss
	}
	return item.entry, nil
}

// Set stores the entry, replacing any previous one and restarting its
// in-memory window.
func (t *MemoryTier) Set(_ context.Context, entry *Entry) error {
	t.mu.Lock()
	t.entries[entry.Fingerprint] = memoryItem{entry: entry, cachedAt: time.Now()}
	t.mu.Unlock()
	return nil
}

// Delete removes the entry for fingerprint.
func (t *MemoryTier) Delete(_ context.Context, fingerprint string) error {
	t.mu.Lock()
	delete(t.entries, fingerprint)
	t.mu.Unlock()
	return nil
}

// EvictExpired removes entries whose in-memory window or declared TTL
// has elapsed.
func (t *MemoryTier) EvictExpired(_ context.Context) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for fingerprint, item := range t.entries {
		if t.expired(item) || item.entry.IsExpired() {
			delete(t.entries, fingerprint)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (t *MemoryTier) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

func (t *MemoryTier) expired(item memoryItem) bool {
	return t.ttl > 0 && time.Since(item.cachedAt) > t.ttl
}
