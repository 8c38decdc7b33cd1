// Package namespace lists the components of a viash package.
//
// Every component config below the package root is composed with the merge
// resolver, so names and namespaces inherited through merge directives are
// honoured.
package namespace

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/danieljhkim/viashmerge/internal/config"
	"github.com/danieljhkim/viashmerge/internal/fsops"
	"github.com/danieljhkim/viashmerge/internal/merge"
	"github.com/danieljhkim/viashmerge/internal/packages"
	"github.com/danieljhkim/viashmerge/internal/value"
)

var errNoName = errors.New("config has no name")

// Component is one component config of a package.
type Component struct {
	Name        string `json:"name"`
	Namespace   string `json:"namespace,omitempty"`
	PackageName string `json:"package_name,omitempty"`
	FullName    string `json:"full_name"`
	ConfigPath  string `json:"config_path"`
}

// Problem records a component config that could not be listed.
type Problem struct {
	ConfigPath string `json:"config_path"`
	Err        error  `json:"-"`
	Message    string `json:"error"`
}

// FullName joins the package name, namespace and component name, leaving
// out the parts that are empty.
func FullName(pkgName, namespace, name string) string {
	var b strings.Builder
	if pkgName != "" {
		b.WriteString(pkgName)
		b.WriteByte('/')
	}
	if namespace != "" {
		b.WriteString(namespace)
		b.WriteByte('/')
	}
	b.WriteString(name)
	return b.String()
}

// Lister lists components through a filesystem and a merge resolver.
type Lister struct {
	fs       fsops.FS
	resolver *merge.Resolver
	settings *config.Settings
	logger   zerolog.Logger
}

// NewLister creates a Lister.
func NewLister(fs fsops.FS, resolver *merge.Resolver, settings *config.Settings, logger zerolog.Logger) *Lister {
	return &Lister{
		fs:       fs,
		resolver: resolver,
		settings: settings,
		logger:   logger,
	}
}

// List composes every component config of pkg. Configs below a nested
// package root belong to that package and are left out. Configs that fail to
// compose or carry no name are returned as problems. Components are sorted
// by FullName.
func (l *Lister) List(ctx context.Context, pkg packages.Package) ([]Component, []Problem, error) {
	paths, err := l.fs.Glob(pkg.RootDir, l.settings.ComponentPatterns, l.settings.Exclude)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to search %s for components: %w", pkg.RootDir, err)
	}
	nested, err := l.nestedRoots(pkg.RootDir)
	if err != nil {
		return nil, nil, err
	}
	paths = outside(paths, nested)

	var comps []Component
	var problems []Problem
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		comp, err := l.load(path, pkg)
		if err != nil {
			l.logger.Warn().Err(err).Str("path", path).Msg("component skipped")
			problems = append(problems, Problem{ConfigPath: path, Err: err, Message: err.Error()})
			continue
		}
		comps = append(comps, comp)
	}

	SortComponents(comps)
	return comps, problems, nil
}

// nestedRoots returns the directories below root that hold their own
// package descriptor.
func (l *Lister) nestedRoots(root string) ([]string, error) {
	patterns := make([]string, len(l.settings.PackageFiles))
	for i, name := range l.settings.PackageFiles {
		patterns[i] = "**/" + name
	}
	descriptors, err := l.fs.Glob(root, patterns, l.settings.Exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s for nested packages: %w", root, err)
	}

	root = filepath.Clean(root)
	var dirs []string
	for _, d := range descriptors {
		if dir := filepath.Dir(d); dir != root {
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}

// outside drops the paths that live under one of dirs.
func outside(paths, dirs []string) []string {
	if len(dirs) == 0 {
		return paths
	}
	kept := paths[:0]
	for _, p := range paths {
		inside := false
		for _, dir := range dirs {
			if strings.HasPrefix(p, dir+string(filepath.Separator)) {
				inside = true
				break
			}
		}
		if !inside {
			kept = append(kept, p)
		}
	}
	return kept
}

// SortComponents orders components by FullName, then by config path.
func SortComponents(comps []Component) {
	sort.Slice(comps, func(i, j int) bool {
		if comps[i].FullName != comps[j].FullName {
			return comps[i].FullName < comps[j].FullName
		}
		return comps[i].ConfigPath < comps[j].ConfigPath
	})
}

func (l *Lister) load(path string, pkg packages.Package) (Component, error) {
	doc, _, err := l.resolver.ResolveFile(path, pkg.RootDir)
	if err != nil {
		return Component{}, err
	}
	m, ok := doc.(value.Mapping)
	if !ok {
		return Component{}, fmt.Errorf("config is a %s, not a mapping", doc.Kind())
	}
	name, ok := m.Text("name")
	if !ok || name == "" {
		return Component{}, errNoName
	}
	ns, _ := m.Text("namespace")

	return Component{
		Name:        name,
		Namespace:   ns,
		PackageName: pkg.Name,
		FullName:    FullName(pkg.Name, ns, name),
		ConfigPath:  path,
	}, nil
}
