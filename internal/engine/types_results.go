package engine

import (
	"time"

	"github.com/danieljhkim/viashmerge/internal/merge"
	"github.com/danieljhkim/viashmerge/internal/namespace"
	"github.com/danieljhkim/viashmerge/internal/packages"
	"github.com/danieljhkim/viashmerge/internal/value"
)

// ResolveResult represents one composed document.
type ResolveResult struct {
	// Path is the absolute path of the resolved document
	Path string `json:"path"`

	// Root is the directory "/" specifiers were anchored at
	Root string `json:"root"`

	// Document is the composed tree
	Document value.Value `json:"-"`

	// Output is Document encoded in the requested format
	Output []byte `json:"-"`

	// Digest is the hash of Output
	Digest string `json:"digest"`

	// Sources lists the document itself followed by every loaded source
	Sources []string `json:"sources"`

	// Skipped lists the sources that contributed nothing
	Skipped []merge.Outcome `json:"skipped"`

	// ResolvedAt is when resolution finished
	ResolvedAt time.Time `json:"resolved_at"`
}

// PackagesResult represents the outcome of package discovery.
type PackagesResult struct {
	// Packages are the discovered packages, sorted by descriptor path
	Packages []packages.Package `json:"packages"`

	// Versions are the distinct viash versions, newest first
	Versions []string `json:"versions"`
}

// NamespacesResult represents the components of one or more packages.
type NamespacesResult struct {
	// Packages are the packages that were listed
	Packages []packages.Package `json:"packages"`

	// Components are sorted by full name
	Components []namespace.Component `json:"components"`

	// Problems are component configs that could not be listed
	Problems []namespace.Problem `json:"problems,omitempty"`
}

// WatchEvent is emitted by Watch after every resolution whose output
// changed, and after every failed resolution.
type WatchEvent struct {
	Result *ResolveResult
	Err    error
}
