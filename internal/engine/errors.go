package engine

import "errors"

var (
	// ErrValidation indicates a request that cannot be served as given.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates that the document to resolve does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoPackages indicates that discovery found no package.
	ErrNoPackages = errors.New("no packages found")
)
