// Package cache stores computed diagrams and rendered artifacts.
//
// Layouts are pure functions of a process record and the layout options, so
// a result can be stored under a key derived from both and served again
// without recomputation. The [Cache] interface is a plain byte store with
// TTLs; [Keyer] derives the keys.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a local directory (CLI)
//   - [RedisCache]: Redis strings with native expiry (server)
//   - [MongoCache]: one document per entry with a TTL index (server)
//   - [NullCache]: stores nothing (caching disabled)
//
// A cache failure never fails a layout: callers log it and compute the
// result directly.
package cache

import (
	"context"
	"time"
)

// Default TTLs.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry. A ttl of zero stores the
// entry without expiry. Get reports a miss as (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// =============================================================================
// Keys
// =============================================================================

// LayoutKeyOpts are the options that change a computed diagram.
type LayoutKeyOpts struct {
	Strategy string `json:"strategy"`
	// ConfigHash is the hash of the resolved layout and route constants.
	ConfigHash string `json:"config_hash"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Background string  `json:"background,omitempty"`
	FontFamily string  `json:"font_family,omitempty"`
	ShowLabels bool    `json:"show_labels,omitempty"`
	Detailed   bool    `json:"detailed,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey keys a diagram by the hash of its canonical record.
	LayoutKey(recordHash string, opts LayoutKeyOpts) string
	// ArtifactKey keys a rendered artifact by the hash of its diagram.
	ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(recordHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", recordHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", diagramHash, opts)
}
