// Package value defines the generic document tree produced by decoding
// structured text and consumed by merge resolution.
//
// The tree is a closed set of variants: Mapping, Sequence and the scalar
// kinds String, Int, Float, Bool and Null. Code that switches over values
// is expected to handle every variant; adding a variant means revisiting
// every such switch (see Kind).
package value

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Kind identifies the variant of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a node of a document tree. The interface is sealed: only the
// types declared in this package implement it.
type Value interface {
	Kind() Kind
	sealed()
}

// Null is the explicit null scalar.
type Null struct{}

// Bool is a boolean scalar.
type Bool bool

// Int is an integer scalar.
type Int int64

// Float is a floating point scalar.
type Float float64

// String is a string scalar.
type String string

// Sequence is an ordered list of values.
type Sequence []Value

// Mapping is a set of unique string keys mapped to values. Key order carries
// no meaning.
type Mapping map[string]Value

func (Null) Kind() Kind     { return KindNull }
func (Bool) Kind() Kind     { return KindBool }
func (Int) Kind() Kind      { return KindInt }
func (Float) Kind() Kind    { return KindFloat }
func (String) Kind() Kind   { return KindString }
func (Sequence) Kind() Kind { return KindSequence }
func (Mapping) Kind() Kind  { return KindMapping }

func (Null) sealed()     {}
func (Bool) sealed()     {}
func (Int) sealed()      {}
func (Float) sealed()    {}
func (String) sealed()   {}
func (Sequence) sealed() {}
func (Mapping) sealed()  {}

// Text returns the scalar under key rendered as text. It reports false when
// the key is missing or holds a null, a sequence or a mapping.
func (m Mapping) Text(key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	return Text(v)
}

// Keys returns the mapping keys in sorted order.
func (m Mapping) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Text renders a non-null scalar as text.
func Text(v Value) (string, bool) {
	switch t := v.(type) {
	case String:
		return string(t), true
	case Int:
		return strconv.FormatInt(int64(t), 10), true
	case Float:
		return strconv.FormatFloat(float64(t), 'g', -1, 64), true
	case Bool:
		return strconv.FormatBool(bool(t)), true
	case Null, Sequence, Mapping, nil:
		return "", false
	default:
		panic(fmt.Sprintf("value: unhandled variant %T", v))
	}
}

// ToAny converts a tree into plain Go values (map[string]any, []any, string,
// int64, float64, bool, nil) suitable for generic encoders.
func ToAny(v Value) any {
	switch t := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(t)
	case Int:
		return int64(t)
	case Float:
		return float64(t)
	case String:
		return string(t)
	case Sequence:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = ToAny(item)
		}
		return out
	case Mapping:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = ToAny(item)
		}
		return out
	default:
		panic(fmt.Sprintf("value: unhandled variant %T", v))
	}
}

// FromAny converts plain Go values into a tree. Mapping keys that are not
// strings are rendered with fmt.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(t), nil
	case int32:
		return Int(t), nil
	case int64:
		return Int(t), nil
	case uint:
		return fromUint(uint64(t)), nil
	case uint32:
		return Int(t), nil
	case uint64:
		return fromUint(t), nil
	case float32:
		return Float(t), nil
	case float64:
		return Float(t), nil
	case string:
		return String(t), nil
	case []any:
		out := make(Sequence, len(t))
		for i, item := range t {
			v, err := FromAny(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = v
		}
		return out, nil
	case map[string]any:
		out := make(Mapping, len(t))
		for k, item := range t {
			v, err := FromAny(item)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			out[k] = v
		}
		return out, nil
	case map[any]any:
		out := make(Mapping, len(t))
		for k, item := range t {
			key := fmt.Sprint(k)
			v, err := FromAny(item)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			out[key] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", x)
	}
}

// fromUint keeps unsigned values that overflow Int as Float.
func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Float(u)
	}
	return Int(u)
}
