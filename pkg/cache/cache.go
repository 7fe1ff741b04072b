// Package cache provides content-addressed caching for routed geometry and
// rendered artifacts.
//
// # Overview
//
// Routing a diagram is pure: the same diagram, edge selection and metrics
// always yield the same geometry. Cache keys are therefore hashes of the
// complete input (see [Keyer]), and an entry can never go stale relative to
// node positions. Changing any node or edge changes the diagram hash and
// misses the cache.
//
// # Backends
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for the HTTP service
//
// # Instrumentation
//
// Wrap any backend with [Instrument] to report hits, misses and writes to
// the registered observability hooks.
package cache

import (
	"context"
	"time"
)

// Default TTLs.
const (
	// GeometryTTL is how long routed geometry is kept.
	GeometryTTL = 7 * 24 * time.Hour
	// ArtifactTTL is how long rendered output is kept.
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiration.
//
// Get reports a miss with found=false and a nil error. A ttl of zero or less
// passed to Set means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, found bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
