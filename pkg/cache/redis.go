package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces cache entries in a shared Redis instance.
const keyPrefix = "news:cache:"

// RedisTier is a persistent tier backed by Redis. It is a drop-in
// replacement for DiskTier when cache entries should be shared across
// processes. Redis expiry mirrors the entry TTL, so the tier never
// needs an eager sweep.
type RedisTier struct {
	client *redis.Client
}

// NewRedisTier creates a Redis-backed tier.
func NewRedisTier(client *redis.Client) *RedisTier {
	if client == nil {
		panic("redis client cannot be nil")
	}
	return &RedisTier{client: client}
}

// Get retrieves the entry stored under fingerprint.
func (t *RedisTier) Get(ctx context.Context, fingerprint string) (*Entry, error) {
	data, err := t.client.Get(ctx, keyPrefix+fingerprint).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	return &entry, nil
}

// Set stores the entry with a Redis expiry matching its remaining TTL.
func (t *RedisTier) Set(ctx context.Context, entry *Entry) error {
	ttl := time.Until(entry.ExpiresAt())
	if ttl <= 0 {
		// Already expired, don't store.
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := t.client.Set(ctx, keyPrefix+entry.Fingerprint, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes the entry for fingerprint.
func (t *RedisTier) Delete(ctx context.Context, fingerprint string) error {
	if err := t.client.Del(ctx, keyPrefix+fingerprint).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
