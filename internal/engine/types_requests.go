package engine

// ResolveRequest represents a request to compose one document.
type ResolveRequest struct {
	// CWD is the directory relative paths are taken from
	CWD string

	// Path is the document to resolve
	Path string

	// RootDir anchors "/" specifiers. When empty, the nearest ancestor
	// holding a package descriptor is used, else the document's directory.
	RootDir string

	// Format is the output encoding, "yaml" (default) or "json"
	Format string
}

// PackagesRequest represents a request to discover packages.
type PackagesRequest struct {
	// CWD is the current working directory
	CWD string

	// Dir is the directory to search, relative to CWD (default: CWD)
	Dir string
}

// NamespacesRequest represents a request to list components.
type NamespacesRequest struct {
	// CWD is the current working directory
	CWD string

	// Dir selects the packages to list. Inside a package, that package is
	// listed; otherwise every package found below Dir.
	Dir string
}

// WatchRequest represents a request to keep a document resolved.
type WatchRequest struct {
	ResolveRequest
}
