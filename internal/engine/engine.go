// Package engine provides the core operations of viashmerge.
//
// The engine package acts as the orchestration layer between CLI commands and
// lower-level packages. It locates package roots, runs merge resolution,
// encodes and digests the composed documents, and watches contributing files
// for changes.
//
// Key components:
//   - Engine: Main orchestrator that coordinates all operations
//   - Resolve: Composes one document and reports every merge source
//   - ListPackages/ListNamespaces: Discovery across a workspace
//   - Watch: Re-resolves when a contributing file changes
package engine

import (
	"github.com/rs/zerolog"

	"github.com/danieljhkim/viashmerge/internal/clock"
	"github.com/danieljhkim/viashmerge/internal/config"
	"github.com/danieljhkim/viashmerge/internal/fsops"
	"github.com/danieljhkim/viashmerge/internal/hash"
	"github.com/danieljhkim/viashmerge/internal/merge"
	"github.com/danieljhkim/viashmerge/internal/namespace"
	"github.com/danieljhkim/viashmerge/internal/packages"
)

// Engine orchestrates all viashmerge operations.
// It is the main API surface called by the CLI.
type Engine struct {
	fs       fsops.FS
	resolver *merge.Resolver
	finder   *packages.Finder
	lister   *namespace.Lister
	hasher   hash.Hasher
	clock    clock.Clock
	settings *config.Settings
	logger   zerolog.Logger
}

// New creates a new Engine with the given dependencies.
func New(
	fs fsops.FS,
	resolver *merge.Resolver,
	hasher hash.Hasher,
	clk clock.Clock,
	settings *config.Settings,
	logger zerolog.Logger,
) *Engine {
	return &Engine{
		fs:       fs,
		resolver: resolver,
		finder:   packages.NewFinder(fs, resolver, settings, logger),
		lister:   namespace.NewLister(fs, resolver, settings, logger),
		hasher:   hasher,
		clock:    clk,
		settings: settings,
		logger:   logger,
	}
}
