package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/lexharvest/dedup-core/internal/core/ports/driven"
	"github.com/redis/go-redis/v9"
)

// Verify interface compliance
var _ driven.FingerprintIndex = (*FingerprintIndex)(nil)

const fingerprintPrefix = "dedup:fp:"

// defaultFingerprintTTL keeps a fingerprint visible across the harvest
// window; entries expire on their own afterwards.
const defaultFingerprintTTL = 30 * 24 * time.Hour

// FingerprintIndex implements driven.FingerprintIndex using one Redis key
// per fingerprint with a TTL. MGET keeps the lookup a single round trip for
// a whole batch.
type FingerprintIndex struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFingerprintIndex creates a Redis-backed fingerprint index with the
// default retention.
func NewFingerprintIndex(client *redis.Client) *FingerprintIndex {
	return &FingerprintIndex{client: client, ttl: defaultFingerprintTTL}
}

// NewFingerprintIndexTTL creates a fingerprint index with a custom retention.
func NewFingerprintIndexTTL(client *redis.Client, ttl time.Duration) *FingerprintIndex {
	if ttl <= 0 {
		ttl = defaultFingerprintTTL
	}
	return &FingerprintIndex{client: client, ttl: ttl}
}

// Seen reports which fingerprints were recorded by an earlier batch.
func (f *FingerprintIndex) Seen(ctx context.Context, fingerprints []string) (map[string]bool, error) {
	if len(fingerprints) == 0 {
		return map[string]bool{}, nil
	}

	keys := make([]string, len(fingerprints))
	for i, fp := range fingerprints {
		keys[i] = fingerprintPrefix + fp
	}

	values, err := f.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("fingerprint lookup: %w", err)
	}

	out := make(map[string]bool, len(fingerprints))
	for i, v := range values {
		if v != nil {
			out[fingerprints[i]] = true
		}
	}
	return out, nil
}

// Add records fingerprints as seen, refreshing the TTL of known ones.
func (f *FingerprintIndex) Add(ctx context.Context, fingerprints []string) error {
	if len(fingerprints) == 0 {
		return nil
	}

	pipe := f.client.Pipeline()
	for _, fp := range fingerprints {
		pipe.Set(ctx, fingerprintPrefix+fp, "1", f.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("fingerprint update: %w", err)
	}
	return nil
}

// Ping checks if the Redis backend is healthy.
func (f *FingerprintIndex) Ping(ctx context.Context) error {
	return f.client.Ping(ctx).Err()
}
