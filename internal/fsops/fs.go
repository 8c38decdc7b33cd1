// Package fsops provides the read-only filesystem access used by viashmerge.
//
// Merge resolution never writes. All reads in viashmerge go through the FS
// interface, which keeps the resolver testable against an in-memory tree
// and keeps path handling (absolute keys, glob discovery) in one place.
//
// Key features:
//   - Reads keyed by absolute, cleaned paths
//   - Doublestar glob discovery with exclude patterns
//   - MemFS for tests
package fsops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// FS provides read-only filesystem operations.
type FS interface {
	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// Exists checks if a path exists.
	Exists(path string) (bool, error)

	// IsDir reports whether path is an existing directory.
	IsDir(path string) (bool, error)

	// Glob returns the absolute paths of regular files under root matching
	// any of patterns and none of exclude. Patterns are doublestar patterns
	// relative to root using forward slashes. Results are sorted.
	Glob(root string, patterns, exclude []string) ([]string, error)
}

// RealFS implements FS using actual OS operations.
type RealFS struct{}

// NewRealFS creates a new RealFS.
func NewRealFS() *RealFS {
	return &RealFS{}
}

// ReadFile reads the entire contents of a file.
func (r *RealFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Exists checks if a path exists.
func (r *RealFS) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// IsDir reports whether path is an existing directory.
func (r *RealFS) IsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// Glob walks root once and matches every regular file against patterns.
func (r *RealFS) Glob(root string, patterns, exclude []string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}
	if err := ValidatePatterns(append(append([]string{}, patterns...), exclude...)); err != nil {
		return nil, err
	}

	var matches []string
	fsys := os.DirFS(absRoot)
	err = fs.WalkDir(fsys, ".", func(rel string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable subtrees are skipped rather than failing discovery.
			if d != nil && d.IsDir() && rel != "." {
				return fs.SkipDir
			}
			return walkErr
		}
		if d.IsDir() {
			if rel != "." && (matchAny(exclude, rel) || matchAny(exclude, rel+"/")) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		if matchAny(exclude, rel) || !matchAny(patterns, rel) {
			return nil
		}
		matches = append(matches, filepath.Join(absRoot, filepath.FromSlash(rel)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", absRoot, err)
	}

	sort.Strings(matches)
	return matches, nil
}

// ValidatePatterns reports the first malformed doublestar pattern.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: %q", ErrBadPattern, p)
		}
	}
	return nil
}

// ErrBadPattern indicates a malformed glob pattern.
var ErrBadPattern = errors.New("invalid glob pattern")

// matchAny reports whether rel (slash separated) matches one of patterns.
// Directories are tried with and without a trailing slash so that patterns
// such as "**/node_modules/**" prune the whole subtree.
func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
