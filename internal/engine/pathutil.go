package engine

import (
	"fmt"
	"path/filepath"
)

// absPath resolves a user-provided path (absolute, relative, or containing "..")
// against cwd. An empty path means cwd itself.
func absPath(userPath, cwd string) (string, error) {
	if userPath == "" {
		userPath = "."
	}
	if filepath.IsAbs(userPath) {
		return filepath.Clean(userPath), nil
	}
	if cwd == "" {
		abs, err := filepath.Abs(userPath)
		if err != nil {
			return "", fmt.Errorf("failed to resolve path %q: %w", userPath, err)
		}
		return abs, nil
	}
	base, err := filepath.Abs(cwd)
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory %q: %w", cwd, err)
	}
	return filepath.Join(base, userPath), nil
}
