package merge

import (
	"errors"
	"fmt"
)

var (
	// ErrPathUnresolved indicates a specifier that maps to no file path.
	ErrPathUnresolved = errors.New("path unresolved")

	// ErrSourceUnreadable indicates a source file that is missing or unreadable.
	ErrSourceUnreadable = errors.New("source unreadable")

	// ErrSourceUndecodable indicates a source file whose text fails to decode.
	ErrSourceUndecodable = errors.New("source undecodable")

	// ErrInvalidDirectiveType indicates a directive value, or directive entry,
	// that is not a string.
	ErrInvalidDirectiveType = errors.New("invalid merge directive type")

	// ErrCycleDetected indicates a source already loaded in the active call.
	ErrCycleDetected = errors.New("cycle detected")
)

// Reason classifies what happened to one merge source.
type Reason int

const (
	// Loaded means the source was read, decoded, resolved and folded in.
	Loaded Reason = iota
	PathUnresolved
	SourceUnreadable
	SourceUndecodable
	InvalidDirectiveType
	CycleDetected
)

func (r Reason) String() string {
	switch r {
	case Loaded:
		return "loaded"
	case PathUnresolved:
		return "path-unresolved"
	case SourceUnreadable:
		return "source-unreadable"
	case SourceUndecodable:
		return "source-undecodable"
	case InvalidDirectiveType:
		return "invalid-directive-type"
	case CycleDetected:
		return "cycle-detected"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// MarshalText renders the reason for JSON reports.
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// sentinel returns the error matching a skip reason.
func (r Reason) sentinel() error {
	switch r {
	case PathUnresolved:
		return ErrPathUnresolved
	case SourceUnreadable:
		return ErrSourceUnreadable
	case SourceUndecodable:
		return ErrSourceUndecodable
	case InvalidDirectiveType:
		return ErrInvalidDirectiveType
	case CycleDetected:
		return ErrCycleDetected
	default:
		return nil
	}
}

// SourceError describes why a merge source contributed nothing. It matches
// both the reason's sentinel and the underlying cause with errors.Is.
type SourceError struct {
	Reason Reason
	Spec   string
	Path   string
	Err    error
}

func (e *SourceError) Error() string {
	target := e.Spec
	if e.Path != "" {
		target = e.Path
	}
	if e.Err != nil {
		return fmt.Sprintf("merge source %q: %v: %v", target, e.Reason.sentinel(), e.Err)
	}
	return fmt.Sprintf("merge source %q: %v", target, e.Reason.sentinel())
}

func (e *SourceError) Unwrap() []error {
	errs := []error{e.Reason.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
