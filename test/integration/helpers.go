package integration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/danieljhkim/viashmerge/internal/clock"
	"github.com/danieljhkim/viashmerge/internal/config"
	"github.com/danieljhkim/viashmerge/internal/decode"
	"github.com/danieljhkim/viashmerge/internal/engine"
	"github.com/danieljhkim/viashmerge/internal/fsops"
	"github.com/danieljhkim/viashmerge/internal/hash"
	"github.com/danieljhkim/viashmerge/internal/merge"
)

var fixedNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// writeTree writes files (slash separated, relative to root) to disk.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create dir for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", rel, err)
		}
	}
}

// workspaceFiles is a workspace with two packages modelled on a typical
// viash pipeline repository.
var workspaceFiles = map[string]string{
	"pipeline/_viash.yaml": `name: pipeline
viash_version: 0.9.0
config_mods: |
  .resources += {path: '/src/workflows/utils/labels.config', dest: 'nextflow_labels.config'}
`,
	"pipeline/src/base/requirements.yaml": `engines:
  - type: docker
    image: python:3.12
runners:
  - type: executable
`,
	"pipeline/src/base/defaults.json": `{
  // shared argument groups
  "argument_groups": [
    {"name": "Inputs", "arguments": [{"name": "--input", "type": "file"}]},
  ],
}
`,
	"pipeline/src/mapping/star/config.vsh.yaml": `__merge__: [/src/base/requirements.yaml, /src/base/defaults.json]
name: star
namespace: mapping
argument_groups:
  - name: Outputs
    arguments:
      - name: --output
        type: file
resources:
  - type: python_script
    path: script.py
`,
	"pipeline/src/convert/from_bam/config.vsh.yaml": `__merge__: ../../base/requirements.yaml
name: from_bam
namespace: convert
runners:
  - type: nextflow
`,
	"pipeline/src/convert/broken/config.vsh.yaml": "name: [unclosed\n",
	"tools/_viash.yml": `name: tools
viash_version: 0.8.6
`,
	"tools/src/echo/config.vsh.yaml": "name: echo\n",
	"tools/node_modules/dep/_viash.yaml": "name: vendored\n",
}

// setupTestEngine lays out the workspace in a temp dir and wires an engine
// over the real filesystem.
func setupTestEngine(t *testing.T) (*engine.Engine, string) {
	t.Helper()
	dir := t.TempDir()
	writeTree(t, dir, workspaceFiles)

	fs := fsops.NewRealFS()
	resolver := merge.NewResolver(fs, decode.Auto, zerolog.Nop())
	eng := engine.New(fs, resolver, hash.NewSHA256Hasher(), clock.NewFakeClock(fixedNow), config.DefaultSettings(), zerolog.Nop())
	return eng, dir
}
