package merge

// Visited is the set of absolute source paths loaded during one top-level
// resolution. It is owned by that call and shared by every recursive step,
// which bounds recursion depth by the number of distinct reachable files.
type Visited struct {
	seen  map[string]struct{}
	order []string
}

// NewVisited creates an empty set.
func NewVisited() *Visited {
	return &Visited{seen: make(map[string]struct{})}
}

// Visit records path. It returns false, leaving the set unchanged, when the
// path was already recorded.
func (v *Visited) Visit(path string) bool {
	if _, ok := v.seen[path]; ok {
		return false
	}
	v.seen[path] = struct{}{}
	v.order = append(v.order, path)
	return true
}

// Has reports whether path was recorded.
func (v *Visited) Has(path string) bool {
	_, ok := v.seen[path]
	return ok
}

// Paths returns recorded paths in visit order.
func (v *Visited) Paths() []string {
	return append([]string(nil), v.order...)
}

// Len returns the number of recorded paths.
func (v *Visited) Len() int {
	return len(v.order)
}
