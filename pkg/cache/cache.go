// Package cache stores styled documents so repeated runs of the same source
// and brand skip the styling pipeline.
//
// Three backends implement [Cache]: [FileCache] for the CLI, and
// [RedisCache] or [MemoryCache] for the HTTP server. [Disabled] returns a
// memory cache with no room, used when caching is turned off. Keys are
// produced by a [Keyer] from content hashes, so a changed source file or an
// edited brand preset never hits a stale entry.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// A missing or expired key is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// RunKey identifies the output of styling one source with one brand.
	RunKey(sourceHash, brandID string, opts RunKeyOpts) string

	// ReportKey identifies the quality report of an unstyled source.
	ReportKey(sourceHash string) string
}

// RunKeyOpts holds the inputs besides source and brand that change a run's
// output.
type RunKeyOpts struct {
	ThemeHash string `json:"theme_hash"`
	Policy    string `json:"policy,omitempty"`
}

// DefaultKeyer produces "run:<sha256>" and "report:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RunKey implements Keyer.
func (DefaultKeyer) RunKey(sourceHash, brandID string, opts RunKeyOpts) string {
	return hashKey("run", sourceHash, brandID, opts)
}

// ReportKey implements Keyer.
func (DefaultKeyer) ReportKey(sourceHash string) string {
	return hashKey("report", sourceHash)
}

// ScopedKeyer prefixes every key of an inner Keyer, giving several
// processes sharing one Redis their own namespace.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, which defaults to DefaultKeyer when nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// RunKey implements Keyer.
func (k *ScopedKeyer) RunKey(sourceHash, brandID string, opts RunKeyOpts) string {
	return k.prefix + k.inner.RunKey(sourceHash, brandID, opts)
}

// ReportKey implements Keyer.
func (k *ScopedKeyer) ReportKey(sourceHash string) string {
	return k.prefix + k.inner.ReportKey(sourceHash)
}
