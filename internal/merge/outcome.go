package merge

// Outcome records what happened to one merge source during a resolution.
type Outcome struct {
	// Spec is the specifier as written in the directive. It is empty for
	// directive type problems that concern the directive as a whole.
	Spec string `json:"spec,omitempty"`

	// Path is the absolute path the specifier resolved to, if any.
	Path string `json:"path,omitempty"`

	// Dir is the directory of the document that declared the directive.
	Dir string `json:"dir"`

	// Reason says whether the source was loaded or why it was skipped.
	Reason Reason `json:"reason"`

	// Err carries the skip cause. It is nil for loaded sources.
	Err error `json:"-"`
}

// Skipped reports whether the source contributed nothing.
func (o Outcome) Skipped() bool {
	return o.Reason != Loaded
}

// AsError returns the skip as a *SourceError, or nil for loaded sources.
func (o Outcome) AsError() error {
	if !o.Skipped() {
		return nil
	}
	return &SourceError{Reason: o.Reason, Spec: o.Spec, Path: o.Path, Err: o.Err}
}

// Report collects the outcomes of one top-level resolution in the order the
// sources were considered.
type Report struct {
	Outcomes []Outcome `json:"outcomes"`
}

func (r *Report) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Loaded returns the paths of sources that were folded in, in load order.
func (r *Report) Loaded() []string {
	var paths []string
	for _, o := range r.Outcomes {
		if !o.Skipped() {
			paths = append(paths, o.Path)
		}
	}
	return paths
}

// Skipped returns the outcomes of sources that contributed nothing.
func (r *Report) Skipped() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Skipped() {
			out = append(out, o)
		}
	}
	return out
}

// Count returns how many outcomes carry reason.
func (r *Report) Count(reason Reason) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Reason == reason {
			n++
		}
	}
	return n
}
