package harness

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/recopt/internal/options"
)

// TagUnset marks a YAML value as undefined (options.Unset).
const TagUnset = "!unset"

// ParseDescriptor reads a YAML or JSON descriptor document. Values tagged
// !unset become options.Unset; null stays nil.
func ParseDescriptor(data []byte) (options.Descriptor, error) {
	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse descriptor: %w", err)
	}
	return DecodeDescriptor(&doc)
}

// DecodeDescriptor converts a parsed YAML node into a descriptor.
func DecodeDescriptor(node *yaml.Node) (options.Descriptor, error) {
	if node == nil || node.Kind == 0 {
		return nil, nil
	}
	v, err := convertNode(node)
	if err != nil {
		return nil, err
	}
	switch d := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return options.Descriptor(d), nil
	default:
		return nil, fmt.Errorf("descriptor must be a mapping, got %T", v)
	}
}

func convertNode(n *yaml.Node) (any, error) {
	if n.Tag == TagUnset {
		return options.Unset, nil
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return convertNode(n.Content[0])
	case yaml.AliasNode:
		return convertNode(n.Alias)
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key must be a scalar", key.Line)
			}
			v, err := convertNode(val)
			if err != nil {
				return nil, err
			}
			m[key.Value] = v
		}
		return m, nil
	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := convertNode(item)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
	}
}
