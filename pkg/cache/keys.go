package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash fingerprints a byte payload (a marshaled tree or layout) as a
// 64-character SHA-256 hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// stageKey derives a cache key for one pipeline stage from its inputs.
// Inputs are serialized to JSON before hashing so struct options and
// plain strings key identically across backends.
func stageKey(stage string, inputs ...any) string {
	blob, _ := json.Marshal(inputs)
	return stage + ":" + Hash(blob)
}

// LayoutKeyOpts identifies one layout computation: the viewport and the
// serialized engine configuration.
type LayoutKeyOpts struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Config string  `json:"config"`
}

// ArtifactKeyOpts identifies one rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
}

// Keyer generates cache keys for the pipeline stages. Implementations
// must be deterministic: identical inputs yield identical keys.
type Keyer interface {
	// TreeKey identifies a scanned source tree by scanner name and source
	// fingerprint (e.g. a hash of the file set).
	TreeKey(scanner, fingerprint string) string

	// LayoutKey identifies a layout pass over a tree.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered artifact for a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes all key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// TreeKey generates a key for scanned tree caching.
func (k *DefaultKeyer) TreeKey(scanner, fingerprint string) string {
	return stageKey("tree", scanner, fingerprint)
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return stageKey("layout", treeHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return stageKey("artifact", layoutHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation,
// useful when one cache backend serves several users or projects.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to all generated
// keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// TreeKey generates a prefixed key for scanned tree caching.
func (k *ScopedKeyer) TreeKey(scanner, fingerprint string) string {
	return k.prefix + k.inner.TreeKey(scanner, fingerprint)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(treeHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
