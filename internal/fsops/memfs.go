package fsops

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// MemFS implements FS over an in-memory set of files, for testing.
// Paths are cleaned before use; directories exist implicitly.
type MemFS struct {
	mu    sync.RWMutex
	files map[string][]byte
	reads map[string]int
}

// NewMemFS creates an empty MemFS.
func NewMemFS() *MemFS {
	return &MemFS{
		files: make(map[string][]byte),
		reads: make(map[string]int),
	}
}

// WriteFile stores a file (for testing).
func (m *MemFS) WriteFile(path string, data string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filepath.Clean(path)] = []byte(data)
}

// Reads returns how many times path was read.
func (m *MemFS) Reads(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reads[filepath.Clean(path)]
}

// ReadFile returns the stored contents or fs.ErrNotExist.
func (m *MemFS) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	data, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	m.reads[path]++
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Exists checks if a file or implicit directory exists.
func (m *MemFS) Exists(path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path = filepath.Clean(path)
	if _, ok := m.files[path]; ok {
		return true, nil
	}
	return m.hasDir(path), nil
}

// IsDir reports whether any stored file lives under path.
func (m *MemFS) IsDir(path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hasDir(filepath.Clean(path)), nil
}

func (m *MemFS) hasDir(dir string) bool {
	prefix := dir + string(filepath.Separator)
	if dir == string(filepath.Separator) {
		prefix = dir
	}
	for p := range m.files {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// Glob matches stored files under root.
func (m *MemFS) Glob(root string, patterns, exclude []string) ([]string, error) {
	if err := ValidatePatterns(append(append([]string{}, patterns...), exclude...)); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	root = filepath.Clean(root)
	var matches []string
	for p := range m.files {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil, fmt.Errorf("failed to relativize %s: %w", p, err)
		}
		if rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		rel = filepath.ToSlash(rel)
		if excludedDir(exclude, rel) || matchAny(exclude, rel) || !matchAny(patterns, rel) {
			continue
		}
		matches = append(matches, p)
	}
	sort.Strings(matches)
	return matches, nil
}

// excludedDir reports whether any parent directory of rel is excluded,
// mirroring the subtree pruning RealFS performs while walking.
func excludedDir(exclude []string, rel string) bool {
	parts := strings.Split(rel, "/")
	for i := 1; i < len(parts); i++ {
		dir := strings.Join(parts[:i], "/")
		if matchAny(exclude, dir) || matchAny(exclude, dir+"/") {
			return true
		}
	}
	return false
}
