package merge

import (
	"path/filepath"
	"strings"
)

// ResolvePath maps a merge specifier to an absolute, cleaned file path.
// Specifiers starting with "/" are anchored at rootDir, all others at
// currentDir. Existence is not checked. It reports false when the
// specifier names no file (empty, or only slashes).
func ResolvePath(spec, currentDir, rootDir string) (string, bool) {
	if spec == "" {
		return "", false
	}

	var joined string
	if strings.HasPrefix(spec, "/") {
		rel := strings.TrimLeft(spec, "/")
		if rel == "" {
			return "", false
		}
		joined = filepath.Join(rootDir, filepath.FromSlash(rel))
	} else {
		joined = filepath.Join(currentDir, filepath.FromSlash(spec))
	}

	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", false
	}
	return abs, true
}
