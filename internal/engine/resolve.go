package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/viashmerge/internal/decode"
	"github.com/danieljhkim/viashmerge/internal/packages"
	"github.com/danieljhkim/viashmerge/internal/value"
)

// Output formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Resolve composes the requested document and encodes it.
func (e *Engine) Resolve(ctx context.Context, req *ResolveRequest) (*ResolveResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format, err := parseFormat(req.Format)
	if err != nil {
		return nil, err
	}

	path, err := absPath(req.Path, req.CWD)
	if err != nil {
		return nil, err
	}
	if ok, err := e.fs.Exists(path); err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", path, err)
	} else if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	root, err := e.rootFor(req, path)
	if err != nil {
		return nil, err
	}

	doc, report, err := e.resolver.ResolveFile(path, root)
	if err != nil {
		return nil, err
	}

	out, err := encode(format, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", path, err)
	}

	e.logger.Debug().
		Str("path", path).
		Str("root", root).
		Int("loaded", len(report.Loaded())).
		Int("skipped", len(report.Skipped())).
		Msg("document resolved")

	return &ResolveResult{
		Path:       path,
		Root:       root,
		Document:   doc,
		Output:     out,
		Digest:     e.hasher.HashBytes(out),
		Sources:    append([]string{path}, report.Loaded()...),
		Skipped:    report.Skipped(),
		ResolvedAt: e.clock.Now(),
	}, nil
}

// rootFor picks the anchor for "/" specifiers.
func (e *Engine) rootFor(req *ResolveRequest, path string) (string, error) {
	if req.RootDir != "" {
		root, err := absPath(req.RootDir, req.CWD)
		if err != nil {
			return "", err
		}
		isDir, err := e.fs.IsDir(root)
		if err != nil {
			return "", fmt.Errorf("failed to check %s: %w", root, err)
		}
		if !isDir {
			return "", fmt.Errorf("%w: root %s is not a directory", ErrValidation, root)
		}
		return root, nil
	}

	dir := filepath.Dir(path)
	root, err := packages.FindRoot(e.fs, dir, e.settings.PackageFiles)
	if errors.Is(err, packages.ErrNoPackageRoot) {
		e.logger.Debug().Str("dir", dir).Msg("no package root, anchoring at document directory")
		return dir, nil
	}
	return root, err
}

func parseFormat(format string) (string, error) {
	switch strings.ToLower(format) {
	case "", FormatYAML, "yml":
		return FormatYAML, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want yaml or json)", ErrValidation, format)
	}
}

func encode(format string, doc value.Value) ([]byte, error) {
	if format == FormatJSON {
		return decode.EncodeJSON(doc)
	}
	return decode.EncodeYAML(doc)
}
