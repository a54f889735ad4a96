package cache

import (
	"testing"
	"time"
)

func TestEntry_IsExpired(t *testing.T) {
	tests := []struct {
		name     string
		storedAt time.Time
		ttl      time.Duration
		want     bool
	}{
		{
			name:     "fresh entry",
			storedAt: time.Now().Add(-1 * time.Minute),
			ttl:      time.Hour,
			want:     false,
		},
		{
			name:     "expired entry",
			storedAt: time.Now().Add(-2 * time.Hour),
			ttl:      time.Hour,
			want:     true,
		},
		{
			name:     "just expired",
			storedAt: time.Now().Add(-61 * time.Second),
			ttl:      time.Minute,
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &Entry{StoredAt: tt.storedAt, TTL: tt.ttl}
			if got := entry.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntry_FreshFor(t *testing.T) {
	tests := []struct {
		name   string
		age    time.Duration
		ttl    time.Duration
		maxAge time.Duration
		want   bool
	}{
		{
			name:   "zero maxAge falls back to declared TTL",
			age:    30 * time.Minute,
			ttl:    time.Hour,
			maxAge: 0,
			want:   true,
		},
		{
			name:   "maxAge tightens freshness",
			age:    45 * time.Minute,
			ttl:    time.Hour,
			maxAge: 30 * time.Minute,
			want:   false,
		},
		{
			name:   "maxAge extends freshness",
			age:    2 * time.Hour,
			ttl:    time.Hour,
			maxAge: 24 * time.Hour,
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &Entry{StoredAt: time.Now().Add(-tt.age), TTL: tt.ttl}
			if got := entry.FreshFor(tt.maxAge); got != tt.want {
				t.Errorf("FreshFor(%v) = %v, want %v", tt.maxAge, got, tt.want)
			}
		})
	}
}

func TestEntry_ExpiresAt(t *testing.T) {
	storedAt := time.Now()
	entry := &Entry{StoredAt: storedAt, TTL: time.Hour}

	if got := entry.ExpiresAt(); !got.Equal(storedAt.Add(time.Hour)) {
		t.Errorf("ExpiresAt() = %v, want %v", got, storedAt.Add(time.Hour))
	}
}
