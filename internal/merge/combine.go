package merge

import (
	"fmt"

	"github.com/danieljhkim/viashmerge/internal/value"
)

// Combine deep merges incoming over base without modifying either.
//
//   - Mapping over Mapping: keys of both survive; shared keys are combined
//     recursively.
//   - Sequence over Sequence: base elements followed by incoming elements.
//   - Anything else: incoming replaces base, including type changes and null.
func Combine(base, incoming value.Value) value.Value {
	switch b := base.(type) {
	case value.Mapping:
		if in, ok := incoming.(value.Mapping); ok {
			return combineMappings(b, in)
		}
	case value.Sequence:
		if in, ok := incoming.(value.Sequence); ok {
			return concat(b, in)
		}
	case value.Null, value.Bool, value.Int, value.Float, value.String, nil:
	default:
		panic(fmt.Sprintf("merge: unhandled value variant %T", base))
	}
	return incoming
}

func combineMappings(base, incoming value.Mapping) value.Mapping {
	out := make(value.Mapping, len(base)+len(incoming))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range incoming {
		if existing, ok := out[k]; ok {
			out[k] = Combine(existing, v)
			continue
		}
		out[k] = v
	}
	return out
}

func concat(base, incoming value.Sequence) value.Sequence {
	out := make(value.Sequence, 0, len(base)+len(incoming))
	out = append(out, base...)
	return append(out, incoming...)
}
