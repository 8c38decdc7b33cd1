package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/danieljhkim/viashmerge/internal/namespace"
	"github.com/danieljhkim/viashmerge/internal/packages"
)

// ListPackages discovers every package below the requested directory.
func (e *Engine) ListPackages(ctx context.Context, req *PackagesRequest) (*PackagesResult, error) {
	dir, err := absPath(req.Dir, req.CWD)
	if err != nil {
		return nil, err
	}

	pkgs, err := e.finder.Discover(ctx, dir)
	if err != nil {
		return nil, err
	}

	return &PackagesResult{
		Packages: pkgs,
		Versions: packages.UniqueVersions(pkgs),
	}, nil
}

// ListNamespaces lists the components of the package enclosing the
// requested directory, or of every package below it when there is none.
func (e *Engine) ListNamespaces(ctx context.Context, req *NamespacesRequest) (*NamespacesResult, error) {
	dir, err := absPath(req.Dir, req.CWD)
	if err != nil {
		return nil, err
	}

	var pkgs []packages.Package
	pkg, err := e.finder.Nearest(dir)
	switch {
	case err == nil:
		pkgs = []packages.Package{pkg}
	case errors.Is(err, packages.ErrNoPackageRoot):
		pkgs, err = e.finder.Discover(ctx, dir)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoPackages, dir)
	}

	result := &NamespacesResult{Packages: pkgs}
	for _, p := range pkgs {
		comps, problems, err := e.lister.List(ctx, p)
		if err != nil {
			return nil, err
		}
		result.Components = append(result.Components, comps...)
		result.Problems = append(result.Problems, problems...)
	}
	namespace.SortComponents(result.Components)
	return result, nil
}
