// Package source defines the scanner contract: turning a codebase on
// disk into a value-weighted tree for the layout engine.
package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/matzehuels/nestmap/pkg/tree"
)

// Scanner builds a tree from a source directory. Implementations decide
// what counts as a container and how leaf values are weighted.
type Scanner interface {
	// Name identifies the scanner, used in cache keys and logs.
	Name() string

	// Scan walks root and returns the weighted tree.
	Scan(ctx context.Context, root string) (*tree.Node, error)
}

// Fingerprint hashes the names, sizes, and modification times of all
// files under root that match the filter. Scanners use it for cache
// keys: any file change produces a new fingerprint without re-reading
// file contents.
func Fingerprint(root string, match func(path string) bool) (string, error) {
	var entries []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || (match != nil && !match(path)) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		entries = append(entries, fmt.Sprintf("%s|%d|%d", filepath.ToSlash(rel), info.Size(), info.ModTime().UnixNano()))
		return nil
	})
	if err != nil {
		return "", err
	}

	sort.Strings(entries)
	h := sha256.New()
	for _, e := range entries {
		h.Write([]byte(e))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
