package merge

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/danieljhkim/viashmerge/internal/decode"
	"github.com/danieljhkim/viashmerge/internal/fsops"
	"github.com/danieljhkim/viashmerge/internal/value"
)

// Resolver composes documents by following merge directives. It holds no
// per-call state, so one Resolver may serve concurrent resolutions.
type Resolver struct {
	fs      fsops.FS
	decoder decode.Decoder
	logger  zerolog.Logger
}

// NewResolver creates a Resolver reading sources through fs and decoding
// every document, top-level or referenced, with decoder.
func NewResolver(fs fsops.FS, decoder decode.Decoder, logger zerolog.Logger) *Resolver {
	return &Resolver{
		fs:      fs,
		decoder: decoder,
		logger:  logger,
	}
}

// resolution is the context of one top-level call, threaded by reference
// through every recursive step.
type resolution struct {
	rootDir string
	visited *Visited
	report  *Report
}

// Resolve decodes text, which lives in currentDir, and resolves every merge
// directive in it. rootDir anchors specifiers starting with "/". A decode
// error is returned unchanged; problems with merge sources are not errors
// and are listed in the report instead.
func (r *Resolver) Resolve(text []byte, currentDir, rootDir string) (value.Value, *Report, error) {
	doc, err := r.decoder.Decode(text)
	if err != nil {
		return nil, nil, err
	}
	v, report := r.ResolveValue(emptyIfNull(doc), currentDir, rootDir)
	return v, report, nil
}

// ResolveFile reads, decodes and resolves the document at path.
func (r *Resolver) ResolveFile(path, rootDir string) (value.Value, *Report, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	data, err := r.fs.ReadFile(abs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", abs, err)
	}
	v, report, err := r.Resolve(data, filepath.Dir(abs), rootDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode %s: %w", abs, err)
	}
	return v, report, nil
}

// ResolveValue resolves an already decoded tree. A tree without directives
// is returned equal to the input.
func (r *Resolver) ResolveValue(doc value.Value, currentDir, rootDir string) (value.Value, *Report) {
	res := &resolution{
		rootDir: rootDir,
		visited: NewVisited(),
		report:  &Report{},
	}
	return r.resolveNode(res, doc, currentDir), res.report
}

func (r *Resolver) resolveNode(res *resolution, node value.Value, dir string) value.Value {
	switch n := node.(type) {
	case value.Mapping:
		return r.resolveMapping(res, n, dir)
	case value.Sequence:
		out := make(value.Sequence, len(n))
		for i, item := range n {
			out[i] = r.resolveNode(res, item, dir)
		}
		return out
	case value.Null, value.Bool, value.Int, value.Float, value.String, nil:
		return node
	default:
		panic(fmt.Sprintf("merge: unhandled value variant %T", node))
	}
}

func (r *Resolver) resolveMapping(res *resolution, m value.Mapping, dir string) value.Value {
	fields, raw, present := splitDirective(m)

	// Nested directives resolve before this mapping's sources are loaded.
	// Keys are walked in sorted order so that, when two branches name the
	// same file, the same branch loads it on every run.
	self := make(value.Mapping, len(fields))
	for _, k := range fields.Keys() {
		self[k] = r.resolveNode(res, fields[k], dir)
	}

	specs, dropped := normalizeDirective(raw, present)
	for _, err := range dropped {
		r.skip(res, Outcome{Dir: dir, Reason: InvalidDirectiveType, Err: err})
	}

	var acc value.Value = value.Mapping{}
	for _, spec := range specs {
		if spec == SelfMarker {
			acc = Combine(acc, self)
			continue
		}
		if doc, ok := r.load(res, spec, dir); ok {
			acc = Combine(acc, doc)
		}
	}
	return acc
}

// load reads one source and resolves it in its own directory. It reports
// false when the source contributes nothing.
func (r *Resolver) load(res *resolution, spec, dir string) (value.Value, bool) {
	path, ok := ResolvePath(spec, dir, res.rootDir)
	if !ok {
		r.skip(res, Outcome{Spec: spec, Dir: dir, Reason: PathUnresolved})
		return nil, false
	}
	if res.visited.Has(path) {
		r.skip(res, Outcome{Spec: spec, Path: path, Dir: dir, Reason: CycleDetected})
		return nil, false
	}

	data, err := r.fs.ReadFile(path)
	if err != nil {
		r.skip(res, Outcome{Spec: spec, Path: path, Dir: dir, Reason: SourceUnreadable, Err: err})
		return nil, false
	}
	res.visited.Visit(path)

	doc, err := r.decoder.Decode(data)
	if err != nil {
		r.skip(res, Outcome{Spec: spec, Path: path, Dir: dir, Reason: SourceUndecodable, Err: err})
		return nil, false
	}

	res.report.add(Outcome{Spec: spec, Path: path, Dir: dir, Reason: Loaded})
	r.logger.Debug().Str("spec", spec).Str("path", path).Msg("merge source loaded")

	return r.resolveNode(res, emptyIfNull(doc), filepath.Dir(path)), true
}

func (r *Resolver) skip(res *resolution, o Outcome) {
	res.report.add(o)
	event := r.logger.Debug().
		Str("spec", o.Spec).
		Str("dir", o.Dir).
		Stringer("reason", o.Reason)
	if o.Path != "" {
		event = event.Str("path", o.Path)
	}
	if o.Err != nil {
		event = event.Err(o.Err)
	}
	event.Msg("merge source skipped")
}

// emptyIfNull treats an empty document as an empty mapping.
func emptyIfNull(v value.Value) value.Value {
	switch v.(type) {
	case value.Null, nil:
		return value.Mapping{}
	default:
		return v
	}
}
