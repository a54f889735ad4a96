package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DiskTier is the persistent cache layer: one JSON file per fingerprint
// under a dedicated directory. Entries are throwaway structured records,
// never a source of truth, and may be deleted freely at any time.
//
// A single coarse lock guards directory operations; the disk tier sits
// behind the memory tier, so contention here is off the hot path.
type DiskTier struct {
	dir string
	mu  sync.Mutex
}

// NewDiskTier creates the cache directory if needed and returns a tier
// rooted at dir.
func NewDiskTier(dir string) (*DiskTier, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &DiskTier{dir: dir}, nil
}

// Get reads the entry file for fingerprint. A missing file is a cache
// miss; an unreadable or corrupted file is reported as ErrInvalidEntry
// so the caller can degrade it to a miss.
func (t *DiskTier) Get(_ context.Context, fingerprint string) (*Entry, error) {
	t.mu.Lock()
	data, err := os.ReadFile(t.path(fingerprint))
	t.mu.Unlock()

	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	return &entry, nil
}

// Set writes the entry file, replacing any previous one wholesale.
// Concurrent writers to the same fingerprint race benignly: last write wins.
func (t *DiskTier) Set(_ context.Context, entry *Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	t.mu.Lock()
	err = os.WriteFile(t.path(entry.Fingerprint), data, 0o644)
	t.mu.Unlock()

	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Delete removes the entry file for fingerprint.
func (t *DiskTier) Delete(_ context.Context, fingerprint string) error {
	t.mu.Lock()
	err := os.Remove(t.path(fingerprint))
	t.mu.Unlock()

	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove cache entry: %w", err)
	}
	return nil
}

// EvictExpired scans the cache directory and removes files whose entries
// have expired. Corrupted files are removed as well.
func (t *DiskTier) EvictExpired(_ context.Context) int {
	dirEntries, err := os.ReadDir(t.dir)
	if err != nil {
		return 0
	}

	removed := 0
	for _, dirEntry := range dirEntries {
		if dirEntry.IsDir() || !strings.HasSuffix(dirEntry.Name(), ".json") {
			continue
		}

		path := filepath.Join(t.dir, dirEntry.Name())

		t.mu.Lock()
		data, err := os.ReadFile(path)
		t.mu.Unlock()
		if err != nil {
			continue
		}

		var entry Entry
		stale := json.Unmarshal(data, &entry) != nil || entry.IsExpired()
		if !stale {
			continue
		}

		t.mu.Lock()
		if os.Remove(path) == nil {
			removed++
		}
		t.mu.Unlock()
	}
	return removed
}

// path maps a fingerprint to its file, replacing separator characters
// that are awkward in file names.
func (t *DiskTier) path(fingerprint string) string {
	name := strings.ReplaceAll(fingerprint, ":", "_")
	return filepath.Join(t.dir, name+".json")
}
