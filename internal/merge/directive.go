package merge

import (
	"fmt"

	"github.com/danieljhkim/viashmerge/internal/value"
)

const (
	// DirectiveKey is the reserved mapping key listing merge sources.
	DirectiveKey = "__merge__"

	// SelfMarker stands for the mapping's own fields in a source list.
	SelfMarker = "."
)

// splitDirective returns the mapping without its directive, and the raw
// directive value if present.
func splitDirective(m value.Mapping) (value.Mapping, value.Value, bool) {
	raw, ok := m[DirectiveKey]
	if !ok {
		return m, nil, false
	}
	rest := make(value.Mapping, len(m)-1)
	for k, v := range m {
		if k != DirectiveKey {
			rest[k] = v
		}
	}
	return rest, raw, true
}

// normalizeDirective turns a raw directive value into an ordered specifier
// list that always contains SelfMarker. Entries that are not strings are
// dropped and reported; a directive that is neither a string nor a sequence
// counts as absent. Null and the empty string count as absent silently.
func normalizeDirective(raw value.Value, present bool) ([]string, []error) {
	var specs []string
	var dropped []error

	if present {
		switch d := raw.(type) {
		case value.String:
			if d != "" {
				specs = append(specs, string(d))
			}
		case value.Sequence:
			for i, item := range d {
				s, ok := item.(value.String)
				if !ok {
					dropped = append(dropped, fmt.Errorf("entry %d is %s, not string", i, kindOf(item)))
					continue
				}
				specs = append(specs, string(s))
			}
		case value.Null, nil:
		case value.Mapping, value.Bool, value.Int, value.Float:
			dropped = append(dropped, fmt.Errorf("directive is %s, not string or sequence", kindOf(raw)))
		default:
			panic(fmt.Sprintf("merge: unhandled value variant %T", raw))
		}
	}

	for _, s := range specs {
		if s == SelfMarker {
			return specs, dropped
		}
	}
	return append(specs, SelfMarker), dropped
}

func kindOf(v value.Value) string {
	if v == nil {
		return value.KindNull.String()
	}
	return v.Kind().String()
}
