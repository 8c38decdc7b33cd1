package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/viashmerge/internal/engine"
	"github.com/danieljhkim/viashmerge/internal/value"
)

// setupPackage lays out a viash package in a temp dir and returns its root.
func setupPackage(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"_viash.yaml":                "name: demo\nviash_version: 0.9.0\n",
		"src/base.yaml":              "namespace: tools\nresources:\n  - type: bash_script\n    path: script.sh\n",
		"src/comp/config.vsh.yaml":   "__merge__: [/src/base.yaml, missing.yaml]\nname: comp\n",
		"src/broken/config.vsh.yaml": "name: [unclosed\n",
		"nested/_viash.yml":          "name: nested\nviash_version: 0.8.6\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func TestResolveCommand(t *testing.T) {
	root := setupPackage(t)
	config := filepath.Join(root, "src", "comp", "config.vsh.yaml")

	t.Run("yaml output", func(t *testing.T) {
		stdout, stderr, err := runCLI(t, "resolve", config)
		require.NoError(t, err)
		assert.Contains(t, stdout, "name: comp")
		assert.Contains(t, stdout, "namespace: tools")
		assert.NotContains(t, stdout, "__merge__")
		assert.Empty(t, stderr)
	})

	t.Run("json format", func(t *testing.T) {
		stdout, _, err := runCLI(t, "resolve", config, "--format", "json")
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
		assert.Equal(t, "comp", doc["name"])
	})

	t.Run("json envelope", func(t *testing.T) {
		stdout, _, err := runCLI(t, "resolve", config, "--json")
		require.NoError(t, err)

		var out struct {
			Path     string         `json:"path"`
			Root     string         `json:"root"`
			Sources  []string       `json:"sources"`
			Skipped  []any          `json:"skipped"`
			Document map[string]any `json:"document"`
		}
		require.NoError(t, json.Unmarshal([]byte(stdout), &out))
		assert.Equal(t, config, out.Path)
		assert.Equal(t, root, out.Root)
		assert.Len(t, out.Sources, 2)
		assert.Len(t, out.Skipped, 1)
		assert.Equal(t, "tools", out.Document["namespace"])
	})

	t.Run("report", func(t *testing.T) {
		_, stderr, err := runCLI(t, "resolve", config, "--report")
		require.NoError(t, err)
		assert.Contains(t, stderr, "missing.yaml")
		assert.Contains(t, stderr, "source unreadable")
	})

	t.Run("explicit root", func(t *testing.T) {
		stdout, _, err := runCLI(t, "resolve", config, "--root", filepath.Join(root, "src"))
		require.NoError(t, err)
		assert.NotContains(t, stdout, "namespace: tools")
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := runCLI(t, "resolve", filepath.Join(root, "absent.yaml"))
		assert.True(t, errors.Is(err, engine.ErrNotFound), "got %v", err)
	})

	t.Run("bad format", func(t *testing.T) {
		_, _, err := runCLI(t, "resolve", config, "--format", "xml")
		assert.ErrorIs(t, err, engine.ErrValidation)
	})

	t.Run("requires a file", func(t *testing.T) {
		_, _, err := runCLI(t, "resolve")
		assert.Error(t, err)
	})
}

func TestPackagesCommand(t *testing.T) {
	root := setupPackage(t)

	t.Run("table", func(t *testing.T) {
		stdout, _, err := runCLI(t, "packages", root)
		require.NoError(t, err)
		assert.Contains(t, stdout, "NAME")
		assert.Contains(t, stdout, "demo")
		assert.Contains(t, stdout, "nested")
	})

	t.Run("versions", func(t *testing.T) {
		stdout, _, err := runCLI(t, "packages", root, "--versions")
		require.NoError(t, err)
		assert.Less(t, strings.Index(stdout, "0.9.0"), strings.Index(stdout, "0.8.6"))
	})

	t.Run("versions as json", func(t *testing.T) {
		stdout, _, err := runCLI(t, "packages", root, "--versions", "--json")
		require.NoError(t, err)

		var versions []string
		require.NoError(t, json.Unmarshal([]byte(stdout), &versions))
		assert.Equal(t, []string{"0.9.0", "0.8.6"}, versions)
	})

	t.Run("empty directory", func(t *testing.T) {
		stdout, _, err := runCLI(t, "packages", t.TempDir())
		require.NoError(t, err)
		assert.Contains(t, stdout, "No packages found")
	})
}

func TestNsListCommand(t *testing.T) {
	root := setupPackage(t)

	t.Run("table", func(t *testing.T) {
		stdout, stderr, err := runCLI(t, "ns", "list", filepath.Join(root, "src"))
		require.NoError(t, err)
		assert.Contains(t, stdout, "demo/tools/comp")
		assert.Contains(t, stderr, "broken")
	})

	t.Run("json", func(t *testing.T) {
		stdout, _, err := runCLI(t, "ns", "list", root, "--json")
		require.NoError(t, err)

		var out struct {
			Components []struct {
				FullName string `json:"full_name"`
			} `json:"components"`
			Problems []any `json:"problems"`
		}
		require.NoError(t, json.Unmarshal([]byte(stdout), &out))
		require.Len(t, out.Components, 1)
		assert.Equal(t, "demo/tools/comp", out.Components[0].FullName)
		assert.Len(t, out.Problems, 1)
	})
}

func TestPrintWatchEvent(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	jsonOutput = false

	emit := printWatchEvent(cmd)
	emit(engine.WatchEvent{Result: &engine.ResolveResult{
		Document: value.Mapping{"a": value.Int(1)},
		Output:   []byte("a: 1\n"),
	}})
	emit(engine.WatchEvent{Err: errors.New("boom")})

	assert.Equal(t, "---\na: 1\n", stdout.String())
	assert.Contains(t, stderr.String(), "boom")
}

func TestCommandHelp(t *testing.T) {
	commands := [][]string{{"resolve"}, {"watch"}, {"packages"}, {"ns", "list"}}

	for _, path := range commands {
		t.Run(strings.Join(path, " "), func(t *testing.T) {
			output, _, err := runCLI(t, append(path, "--help")...)
			if err != nil {
				t.Errorf("Execute() for %v --help error = %v", path, err)
			}
			if output == "" {
				t.Errorf("expected help output for %v, got empty", path)
			}
		})
	}
}
