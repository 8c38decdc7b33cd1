// Package config manages viashmerge configuration and filesystem paths.
//
// Configuration lives under a root directory, ~/.viashmerge by default,
// which can be moved with the VIASHMERGE_ROOT environment variable. The
// only file read from it is config.yaml; a missing file means defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the filesystem paths used by viashmerge.
type Paths struct {
	// Root is the base directory for viashmerge data (default: ~/.viashmerge)
	Root string

	// Config is the path to the global config file
	Config string
}

// DefaultPaths returns the default paths for viashmerge.
// Paths can be overridden with environment variables:
// - VIASHMERGE_ROOT: Override the root directory
func DefaultPaths() (*Paths, error) {
	root := os.Getenv("VIASHMERGE_ROOT")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".viashmerge")
	}

	return &Paths{
		Root:   root,
		Config: filepath.Join(root, "config.yaml"),
	}, nil
}
