// Package cache stores computed dashboard summaries between requests.
//
// Summaries are pure functions of a snapshot and the current day, so caching
// them is only an optimisation: every caller must behave the same on a miss.
// Backends therefore report a miss rather than fail whenever they can.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the value and true on a hit, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

const summaryPrefix = "peoplestats:summary:"

// SummaryKey is the key under which the summary of one snapshot is cached.
func SummaryKey(snapshotID string) string {
	return summaryPrefix + snapshotID
}
