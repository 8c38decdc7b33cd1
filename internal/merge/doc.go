// Package merge composes documents that include other documents through the
// __merge__ directive.
//
// A mapping carrying __merge__ lists the sources it is built from. Each
// source is a file path, either relative to the directory of the document
// being resolved or, when it starts with "/", relative to the package root.
// The marker "." stands for the mapping's own fields and is appended to the
// list when missing. Sources are folded left to right with Combine, so later
// sources win scalar conflicts while sequences from every source are kept in
// order.
//
// Resolution never fails because of a bad merge source. A source that cannot
// be located, read or decoded, or that was already loaded during the current
// call, contributes nothing and is recorded as an Outcome in the call's
// Report. Only failure to read or decode the top-level document is returned
// as an error.
//
// Key components:
//   - ResolvePath: maps a specifier onto the two directory anchors
//   - Visited: the per-call set of loaded paths that stops cycles
//   - Combine: type-aware deep merge
//   - Resolver: the recursive walk that ties them together
package merge
