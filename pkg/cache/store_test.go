package cache

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) (*Store, *DiskTier) {
	t.Helper()

	disk, err := NewDiskTier(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskTier: %v", err)
	}
	return NewStore(NewMemoryTier(5*time.Minute), disk), disk
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	key := Key{Query: "technology", Category: "news"}
	payload := []byte(`{"articles":[{"title":"a"}]}`)

	store.Put(ctx, key, payload, time.Hour)

	got, ok := store.Get(ctx, key, time.Hour)
	if !ok {
		t.Fatal("Get() after Put() reported miss, want hit")
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Get() payload = %q, want %q", got, payload)
	}
}

func TestStore_MissForUnknownKey(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	if _, ok := store.Get(ctx, Key{Query: "nothing stored"}, time.Hour); ok {
		t.Error("Get() for unknown key reported hit, want miss")
	}
}

func TestStore_ExpiredEntryIsMiss(t *testing.T) {
	ctx := context.Background()

	disk, err := NewDiskTier(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskTier: %v", err)
	}
	store := NewStore(NewMemoryTier(5*time.Minute), disk)

	key := Key{Query: "stale", Category: "news"}

	// Store an already-expired entry directly in both tiers.
	entry := &Entry{
		Fingerprint: key.Fingerprint(),
		Payload:     []byte("old"),
		StoredAt:    time.Now().Add(-2 * time.Hour),
		TTL:         time.Hour,
	}
	if err := disk.Set(ctx, entry); err != nil {
		t.Fatalf("disk Set: %v", err)
	}

	if _, ok := store.Get(ctx, key, 0); ok {
		t.Error("Get() returned expired entry, want miss")
	}

	// The lazy expiry should also have removed the file.
	if _, err := disk.Get(ctx, key.Fingerprint()); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("disk Get after lazy expiry = %v, want ErrCacheMiss", err)
	}
}

func TestStore_MaxAgeOverride(t *testing.T) {
	ctx := context.Background()
	disk, err := NewDiskTier(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskTier: %v", err)
	}
	store := NewStore(NewMemoryTier(0), disk)

	key := Key{Query: "trending topics", Category: "trending"}
	entry := &Entry{
		Fingerprint: key.Fingerprint(),
		Payload:     []byte("data"),
		StoredAt:    time.Now().Add(-45 * time.Minute),
		TTL:         time.Hour,
	}
	if err := disk.Set(ctx, entry); err != nil {
		t.Fatalf("disk Set: %v", err)
	}

	// Fresh under the declared TTL.
	if _, ok := store.Get(ctx, key, 0); !ok {
		t.Error("Get() with declared TTL reported miss, want hit")
	}

	// Re-store since the stricter check below deletes on expiry.
	if err := disk.Set(ctx, entry); err != nil {
		t.Fatalf("disk Set: %v", err)
	}

	// Stale under a 30-minute override.
	if _, ok := store.Get(ctx, key, 30*time.Minute); ok {
		t.Error("Get() with 30m maxAge returned 45m-old entry, want miss")
	}
}

func TestStore_DiskHitPopulatesMemory(t *testing.T) {
	ctx := context.Background()
	memory := NewMemoryTier(5 * time.Minute)
	disk, err := NewDiskTier(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskTier: %v", err)
	}
	store := NewStore(memory, disk)

	key := Key{Query: "business", Category: "news"}
	entry := &Entry{
		Fingerprint: key.Fingerprint(),
		Payload:     []byte("payload"),
		StoredAt:    time.Now(),
		TTL:         time.Hour,
	}
	if err := disk.Set(ctx, entry); err != nil {
		t.Fatalf("disk Set: %v", err)
	}

	if _, ok := store.Get(ctx, key, time.Hour); !ok {
		t.Fatal("Get() from disk reported miss, want hit")
	}

	if _, err := memory.Get(ctx, key.Fingerprint()); err != nil {
		t.Errorf("memory Get after disk hit = %v, want entry promoted", err)
	}
}

func TestStore_DiskWriteFailureKeepsMemoryCopy(t *testing.T) {
	ctx := context.Background()

	dir := t.TempDir()
	disk, err := NewDiskTier(dir)
	if err != nil {
		t.Fatalf("NewDiskTier: %v", err)
	}
	store := NewStore(NewMemoryTier(5*time.Minute), disk)

	// Make the cache directory unwritable so the persistent write fails.
	if err := os.Chmod(dir, 0o500); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	key := Key{Query: "degraded", Category: "news"}
	payload := []byte("still cached in memory")

	store.Put(ctx, key, payload, time.Hour)

	got, ok := store.Get(ctx, key, time.Hour)
	if !ok {
		t.Fatal("Get() after degraded Put() reported miss, want memory hit")
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Get() payload = %q, want %q", got, payload)
	}
}

func TestStore_CorruptDiskEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	disk, err := NewDiskTier(dir)
	if err != nil {
		t.Fatalf("NewDiskTier: %v", err)
	}
	store := NewStore(NewMemoryTier(0), disk)

	key := Key{Query: "corrupt", Category: "news"}
	name := strings.ReplaceAll(key.Fingerprint(), ":", "_") + ".json"
	if err := os.WriteFile(filepath.Join(dir, name), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	if _, ok := store.Get(ctx, key, time.Hour); ok {
		t.Error("Get() returned payload from corrupt file, want miss")
	}
}

func TestStore_EvictExpired(t *testing.T) {
	ctx := context.Background()
	memory := NewMemoryTier(5 * time.Minute)
	disk, err := NewDiskTier(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskTier: %v", err)
	}
	store := NewStore(memory, disk)

	fresh := Key{Query: "fresh", Category: "news"}
	store.Put(ctx, fresh, []byte("keep"), time.Hour)

	stale := &Entry{
		Fingerprint: Key{Query: "stale", Category: "news"}.Fingerprint(),
		Payload:     []byte("drop"),
		StoredAt:    time.Now().Add(-2 * time.Hour),
		TTL:         time.Minute,
	}
	if err := disk.Set(ctx, stale); err != nil {
		t.Fatalf("disk Set: %v", err)
	}

	if removed := store.EvictExpired(ctx); removed != 1 {
		t.Errorf("EvictExpired() = %d, want 1", removed)
	}

	if _, ok := store.Get(ctx, fresh, time.Hour); !ok {
		t.Error("fresh entry was evicted, want it kept")
	}
}

func TestStore_MemoryOnly(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryTier(5*time.Minute), nil)

	key := Key{Query: "memory only", Category: "news"}
	store.Put(ctx, key, []byte("x"), time.Hour)

	if _, ok := store.Get(ctx, key, time.Hour); !ok {
		t.Error("memory-only store missed a just-written entry")
	}
}
