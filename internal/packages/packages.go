// Package packages discovers viash packages: directories holding a package
// descriptor (_viash.yaml by default).
//
// Descriptors may themselves use merge directives, so each one is composed
// with the merge resolver before its name and viash_version are read.
package packages

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"

	"github.com/danieljhkim/viashmerge/internal/config"
	"github.com/danieljhkim/viashmerge/internal/fsops"
	"github.com/danieljhkim/viashmerge/internal/merge"
	"github.com/danieljhkim/viashmerge/internal/value"
)

// ErrNoPackageRoot indicates that no ancestor directory holds a descriptor.
var ErrNoPackageRoot = errors.New("no package root found")

// Package is one discovered package.
type Package struct {
	// ConfigPath is the absolute path to the descriptor file.
	ConfigPath string `json:"config_path"`

	// RootDir is the directory containing the descriptor.
	RootDir string `json:"root_dir"`

	// Name is the package name, empty when the descriptor could not be read.
	Name string `json:"name,omitempty"`

	// ViashVersion is the viash version the package pins, if any.
	ViashVersion string `json:"viash_version,omitempty"`
}

// Finder discovers packages through a filesystem and a merge resolver.
type Finder struct {
	fs       fsops.FS
	resolver *merge.Resolver
	settings *config.Settings
	logger   zerolog.Logger
}

// NewFinder creates a Finder.
func NewFinder(fs fsops.FS, resolver *merge.Resolver, settings *config.Settings, logger zerolog.Logger) *Finder {
	return &Finder{
		fs:       fs,
		resolver: resolver,
		settings: settings,
		logger:   logger,
	}
}

// Discover finds every descriptor under dir, skipping excluded subtrees.
// A descriptor that cannot be read or decoded is still listed, without
// name or version. Results are sorted by ConfigPath.
func (f *Finder) Discover(ctx context.Context, dir string) ([]Package, error) {
	patterns := make([]string, len(f.settings.PackageFiles))
	for i, name := range f.settings.PackageFiles {
		patterns[i] = "**/" + name
	}

	paths, err := f.fs.Glob(dir, patterns, f.settings.Exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s for packages: %w", dir, err)
	}

	pkgs := make([]Package, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pkgs = append(pkgs, f.Load(path))
	}
	return pkgs, nil
}

// Load composes the descriptor at path and extracts its package fields.
func (f *Finder) Load(path string) Package {
	pkg := Package{
		ConfigPath: path,
		RootDir:    filepath.Dir(path),
	}

	doc, _, err := f.resolver.ResolveFile(path, pkg.RootDir)
	if err != nil {
		f.logger.Warn().Err(err).Str("path", path).Msg("package descriptor unreadable")
		return pkg
	}
	if m, ok := doc.(value.Mapping); ok {
		pkg.Name, _ = m.Text("name")
		pkg.ViashVersion, _ = m.Text("viash_version")
	}
	return pkg
}

// Nearest loads the package whose root is startDir or its nearest ancestor
// holding a descriptor.
func (f *Finder) Nearest(startDir string) (Package, error) {
	root, err := FindRoot(f.fs, startDir, f.settings.PackageFiles)
	if err != nil {
		return Package{}, err
	}
	for _, name := range f.settings.PackageFiles {
		path := filepath.Join(root, name)
		if ok, _ := f.fs.Exists(path); ok {
			return f.Load(path), nil
		}
	}
	return Package{}, fmt.Errorf("%w above %s", ErrNoPackageRoot, startDir)
}

// FindRoot walks up from startDir to the nearest directory holding one of
// the descriptor names.
func FindRoot(fs fsops.FS, startDir string, names []string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", startDir, err)
	}
	for {
		for _, name := range names {
			ok, err := fs.Exists(filepath.Join(dir, name))
			if err != nil {
				return "", fmt.Errorf("failed to check %s: %w", dir, err)
			}
			if ok {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w above %s", ErrNoPackageRoot, startDir)
		}
		dir = parent
	}
}

// UniqueVersions returns the distinct non-empty viash versions of pkgs,
// newest first. Semantic versions sort before anything unparseable, which
// falls back to a numeric-aware string order.
func UniqueVersions(pkgs []Package) []string {
	seen := make(map[string]bool)
	var versions []string
	for _, p := range pkgs {
		if p.ViashVersion == "" || seen[p.ViashVersion] {
			continue
		}
		seen[p.ViashVersion] = true
		versions = append(versions, p.ViashVersion)
	}

	sort.SliceStable(versions, func(i, j int) bool {
		vi, errI := semver.NewVersion(versions[i])
		vj, errJ := semver.NewVersion(versions[j])
		switch {
		case errI == nil && errJ == nil:
			if c := vi.Compare(vj); c != 0 {
				return c > 0
			}
			return versions[i] > versions[j]
		case errI == nil:
			return true
		case errJ == nil:
			return false
		default:
			return naturalLess(versions[j], versions[i])
		}
	})
	return versions
}

// naturalLess compares strings with digit runs ordered numerically.
func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		ra, rb := rune(a[0]), rune(b[0])
		if unicode.IsDigit(ra) && unicode.IsDigit(rb) {
			na, restA := digitRun(a)
			nb, restB := digitRun(b)
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			if na != nb {
				return na < nb
			}
			a, b = restA, restB
			continue
		}
		if ra != rb {
			return ra < rb
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

// digitRun splits s after its leading digits, dropping leading zeros.
func digitRun(s string) (string, string) {
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if end < 0 {
		end = len(s)
	}
	n := strings.TrimLeft(s[:end], "0")
	return n, s[end:]
}
