package engine

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/danieljhkim/viashmerge/internal/clock"
	"github.com/danieljhkim/viashmerge/internal/config"
	"github.com/danieljhkim/viashmerge/internal/decode"
	"github.com/danieljhkim/viashmerge/internal/fsops"
	"github.com/danieljhkim/viashmerge/internal/hash"
	"github.com/danieljhkim/viashmerge/internal/merge"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// newTestEngine wires an Engine over fs with a fake clock and real hashing.
func newTestEngine(fs fsops.FS, clk clock.Clock) *Engine {
	resolver := merge.NewResolver(fs, decode.Auto, zerolog.Nop())
	return New(fs, resolver, hash.NewSHA256Hasher(), clk, config.DefaultSettings(), zerolog.Nop())
}

// demoPackage lays out a small package with one component.
func demoPackage() *fsops.MemFS {
	mem := fsops.NewMemFS()
	mem.WriteFile("/ws/demo/_viash.yaml", "name: demo\nviash_version: 0.9.0\n")
	mem.WriteFile("/ws/demo/src/base.yaml", "namespace: tools\nresources:\n  - type: bash_script\n    path: script.sh\n")
	mem.WriteFile("/ws/demo/src/comp/config.vsh.yaml", "__merge__: [/src/base.yaml, missing.yaml]\nname: comp\nresources:\n  - path: extra.txt\n")
	return mem
}
