package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryTier_SetGet(t *testing.T) {
	ctx := context.Background()
	tier := NewMemoryTier(time.Minute)

	entry := &Entry{Fingerprint: "news:abc", Payload: []byte("x"), StoredAt: time.Now(), TTL: time.Hour}
	if err := tier.Set(ctx, entry); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := tier.Get(ctx, "news:abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got.Payload) != "x" {
		t.Errorf("payload = %q, want %q", got.Payload, "x")
	}
}

func TestMemoryTier_MissAndDelete(t *testing.T) {
	ctx := context.Background()
	tier := NewMemoryTier(time.Minute)

	if _, err := tier.Get(ctx, "news:missing"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get(missing) = %v, want ErrCacheMiss", err)
	}

	entry := &Entry{Fingerprint: "news:gone", StoredAt: time.Now(), TTL: time.Hour}
	_ = tier.Set(ctx, entry)
	if err := tier.Delete(ctx, "news:gone"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := tier.Get(ctx, "news:gone"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after Delete = %v, want ErrCacheMiss", err)
	}

	// Deleting an absent fingerprint is not an error.
	if err := tier.Delete(ctx, "news:never"); err != nil {
		t.Errorf("Delete(absent) = %v, want nil", err)
	}
}

func TestMemoryTier_WindowExpiry(t *testing.T) {
	ctx := context.Background()
	tier := NewMemoryTier(10 * time.Millisecond)

	entry := &Entry{Fingerprint: "news:short", StoredAt: time.Now(), TTL: time.Hour}
	_ = tier.Set(ctx, entry)

	time.Sleep(20 * time.Millisecond)

	if _, err := tier.Get(ctx, "news:short"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after window elapsed = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryTier_EvictExpired(t *testing.T) {
	ctx := context.Background()
	tier := NewMemoryTier(0)

	_ = tier.Set(ctx, &Entry{Fingerprint: "news:fresh", StoredAt: time.Now(), TTL: time.Hour})
	_ = tier.Set(ctx, &Entry{Fingerprint: "news:stale", StoredAt: time.Now().Add(-2 * time.Hour), TTL: time.Hour})

	if removed := tier.EvictExpired(ctx); removed != 1 {
		t.Errorf("EvictExpired() = %d, want 1", removed)
	}
	if tier.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tier.Len())
	}
}

func TestMemoryTier_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	tier := NewMemoryTier(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			fp := fmt.Sprintf("news:%d", n%5)
			_ = tier.Set(ctx, &Entry{Fingerprint: fp, StoredAt: time.Now(), TTL: time.Hour})
			_, _ = tier.Get(ctx, fp)
		}(i)
	}
	wg.Wait()

	if tier.Len() != 5 {
		t.Errorf("Len() = %d, want 5", tier.Len())
	}
}
