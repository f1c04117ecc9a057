// Package cache stores session snapshots and fetched payloads.
//
// [Cache] is a byte-oriented key/value store with per-entry TTLs. Three
// backends are provided:
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared redis instance, for the HTTP server when more
//     than one process serves the same sessions
//   - [NullCache]: stores nothing, for tests and --no-cache runs
//
// Keys are built by a [Keyer] so that the key layout lives in one place;
// [ScopedKeyer] adds a namespace prefix on top of another keyer.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	// SnapshotTTL is how long an idle exploration session is kept.
	SnapshotTTL = 24 * time.Hour

	// NeighborsTTL is how long a fetched neighbor payload is reused.
	NeighborsTTL = 10 * time.Minute
)

// Cache is a key/value store with expiring entries.
type Cache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// SnapshotKey returns the key of a session's snapshot.
	SnapshotKey(session string) string

	// NeighborsKey returns the key of a cached neighbor fetch.
	NeighborsKey(source, vertexID string, limit int) string
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key layout.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SnapshotKey returns "snapshot:<session>".
func (DefaultKeyer) SnapshotKey(session string) string { return "snapshot:" + session }

// NeighborsKey hashes the fetch parameters under the "neighbors" prefix.
func (DefaultKeyer) NeighborsKey(source, vertexID string, limit int) string {
	return hashKey("neighbors", source, vertexID, limit)
}
