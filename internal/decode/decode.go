// Package decode turns raw document text into value trees and back.
//
// YAML is the native format. JSON documents are accepted as YAML, and JSON
// with comments or trailing commas is handled by JSONC and Auto.
package decode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/viashmerge/internal/value"
)

var (
	// ErrRecursiveAlias is returned for an alias whose anchor contains itself.
	ErrRecursiveAlias = errors.New("recursive alias")

	// ErrExcessiveAliasing is returned when alias expansion dwarfs the
	// document it comes from.
	ErrExcessiveAliasing = errors.New("excessive aliasing")
)

// Decoder decodes one document.
type Decoder interface {
	Decode(data []byte) (value.Value, error)
}

// DecoderFunc adapts a plain function to Decoder.
type DecoderFunc func(data []byte) (value.Value, error)

// Decode calls f(data).
func (f DecoderFunc) Decode(data []byte) (value.Value, error) {
	return f(data)
}

// YAML decodes the first YAML document in data. Empty input yields Null.
var YAML Decoder = DecoderFunc(decodeYAML)

// JSONC decodes JSON that may carry comments and trailing commas.
var JSONC Decoder = DecoderFunc(func(data []byte) (value.Value, error) {
	return decodeYAML(jsonc.ToJSON(data))
})

// Auto decodes text as JSONC when it opens with a flow mapping or sequence
// and is valid JSON once comments and trailing commas are stripped.
// Everything else, including YAML flow collections, is decoded as YAML.
var Auto Decoder = DecoderFunc(func(data []byte) (value.Value, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		if stripped := jsonc.ToJSON(trimmed); json.Valid(stripped) {
			return decodeYAML(stripped)
		}
	}
	return decodeYAML(data)
})

func decodeYAML(data []byte) (value.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return value.Null{}, nil
	}
	c := &converter{active: make(map[*yaml.Node]bool)}
	return c.convert(&doc)
}

// converter walks a node tree. Aliases are expanded in place, so the walk
// counts nodes and gives up once nodes reached through aliases dominate.
type converter struct {
	active     map[*yaml.Node]bool
	aliasDepth int
	nodes      int
	aliased    int
}

// allowedAliasRatio is the share of nodes that may come from alias
// expansion, tightening as documents grow.
func allowedAliasRatio(nodes int) float64 {
	switch {
	case nodes <= 400000:
		return 0.99
	case nodes >= 4000000:
		return 0.10
	default:
		return 0.99 - 0.89*(float64(nodes-400000)/3600000)
	}
}

func (c *converter) count(n *yaml.Node) error {
	c.nodes++
	if c.aliasDepth > 0 {
		c.aliased++
	}
	if c.aliased > 100 && c.nodes > 1000 && float64(c.aliased)/float64(c.nodes) > allowedAliasRatio(c.nodes) {
		return fmt.Errorf("line %d: %w", n.Line, ErrExcessiveAliasing)
	}
	return nil
}

func (c *converter) convert(n *yaml.Node) (value.Value, error) {
	if err := c.count(n); err != nil {
		return nil, err
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null{}, nil
		}
		return c.convert(n.Content[0])
	case yaml.AliasNode:
		if c.active[n.Alias] {
			return nil, fmt.Errorf("line %d: %w", n.Line, ErrRecursiveAlias)
		}
		c.active[n.Alias] = true
		c.aliasDepth++
		defer func() {
			delete(c.active, n.Alias)
			c.aliasDepth--
		}()
		return c.convert(n.Alias)
	case yaml.SequenceNode:
		out := make(value.Sequence, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := c.convert(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		return c.mapping(n)
	case yaml.ScalarNode:
		return scalar(n)
	default:
		return nil, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
	}
}

// mapping converts a mapping node. Keys introduced through "<<" merge keys
// never override keys written explicitly in the mapping.
func (c *converter) mapping(n *yaml.Node) (value.Value, error) {
	out := make(value.Mapping, len(n.Content)/2)
	var merges []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valNode := n.Content[i], n.Content[i+1]
		if keyNode.Kind == yaml.ScalarNode && keyNode.ShortTag() == "!!merge" {
			merges = append(merges, valNode)
			continue
		}
		key, err := c.key(keyNode)
		if err != nil {
			return nil, err
		}
		v, err := c.convert(valNode)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}

	for _, m := range merges {
		v, err := c.convert(m)
		if err != nil {
			return nil, err
		}
		var sources []value.Mapping
		switch t := v.(type) {
		case value.Mapping:
			sources = append(sources, t)
		case value.Sequence:
			for _, item := range t {
				if mm, ok := item.(value.Mapping); ok {
					sources = append(sources, mm)
				}
			}
		}
		for _, src := range sources {
			for k, sv := range src {
				if _, exists := out[k]; !exists {
					out[k] = sv
				}
			}
		}
	}
	return out, nil
}

func (c *converter) key(n *yaml.Node) (string, error) {
	if n.Kind == yaml.ScalarNode {
		return n.Value, nil
	}
	v, err := c.convert(n)
	if err != nil {
		return "", err
	}
	return fmt.Sprint(value.ToAny(v)), nil
}

func scalar(n *yaml.Node) (value.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return value.Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return value.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return value.Int(i), nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return value.Float(f), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return value.Float(f), nil
	default:
		return value.String(n.Value), nil
	}
}

// EncodeYAML renders a tree as YAML with sorted keys.
func EncodeYAML(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(value.ToAny(v)); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeJSON renders a tree as indented JSON with sorted keys.
func EncodeJSON(v value.Value) ([]byte, error) {
	data, err := json.MarshalIndent(value.ToAny(v), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode json: %w", err)
	}
	return append(data, '\n'), nil
}
