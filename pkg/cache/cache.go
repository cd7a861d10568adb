// Package cache stores parsed diagrams and rendered artifacts.
//
// Rendering is deterministic: the same source, style options and metrics
// always produce the same bytes. That makes every artifact addressable by a
// hash of its inputs, which is what [Keyer] derives.
//
// Three backends implement [Cache]:
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry under a directory (CLI)
//   - [RedisCache]: shared cache for the preview service
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind.
const (
	// TTLDiagram applies to parsed diagram models.
	TTLDiagram = 7 * 24 * time.Hour

	// TTLArtifact applies to rendered output (SVG, JSON, PNG, PDF).
	TTLArtifact = 30 * 24 * time.Hour
)

// Cache is a byte-oriented key-value store with expiry.
//
// Get reports a miss as (nil, false, nil); an error means the backend itself
// failed. A ttl of zero means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
