package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultPaths(t *testing.T) {
	t.Run("returns paths based on home directory", func(t *testing.T) {
		t.Setenv("VIASHMERGE_ROOT", "")

		paths, err := DefaultPaths()
		if err != nil {
			t.Fatalf("DefaultPaths failed: %v", err)
		}

		if filepath.Base(paths.Root) != ".viashmerge" {
			t.Errorf("Root should end with .viashmerge, got: %s", paths.Root)
		}
		if paths.Config != filepath.Join(paths.Root, "config.yaml") {
			t.Errorf("Config path incorrect: got %s", paths.Config)
		}
	})

	t.Run("respects VIASHMERGE_ROOT environment variable", func(t *testing.T) {
		customRoot := "/custom/viashmerge/path"
		t.Setenv("VIASHMERGE_ROOT", customRoot)

		paths, err := DefaultPaths()
		if err != nil {
			t.Fatalf("DefaultPaths failed: %v", err)
		}

		if paths.Root != customRoot {
			t.Errorf("Expected root %s, got %s", customRoot, paths.Root)
		}
		if paths.Config != filepath.Join(customRoot, "config.yaml") {
			t.Errorf("Config should be under custom root, got: %s", paths.Config)
		}
	})
}
