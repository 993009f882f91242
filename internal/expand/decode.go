package expand

import (
	"reflect"
	"unsafe"
)

// Decode converts a generic expansion list into Nodes.
//
// Accepted input:
//   - []Node (returned as-is after a bounded depth check, which also
//     rejects a slice that contains itself)
//   - []any or []map[string]any whose elements are maps with a string "key",
//     an optional "fields" list of strings and an optional nested "expand"
//
// This is the shape produced by encoding/json and gopkg.in/yaml.v3 when
// decoding into map[string]any. Such maps can alias each other, so Decode
// tracks the maps on the current path and rejects a map that contains
// itself, in addition to enforcing maxDepth (<= 0 selects DefaultMaxDepth).
func Decode(v any, maxDepth int) ([]Node, error) {
	d := &decoder{
		maxDepth: resolveMaxDepth(maxDepth),
		onPath:   make(map[unsafe.Pointer]bool),
	}
	return d.decodeList(v, "", 1)
}

type decoder struct {
	maxDepth int
	onPath   map[unsafe.Pointer]bool
}

func (d *decoder) decodeList(v any, path string, depth int) ([]Node, error) {
	switch list := v.(type) {
	case nil:
		return nil, nil
	case []Node:
		if got := Depth(list, d.maxDepth-depth+1) + depth - 1; got > d.maxDepth {
			return nil, newTooDeepError(path, got, d.maxDepth)
		}
		return list, nil
	case []map[string]any:
		nodes := make([]Node, 0, len(list))
		for i, m := range list {
			n, err := d.decodeNode(m, path, depth, i)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
		}
		return nodes, nil
	case []any:
		nodes := make([]Node, 0, len(list))
		for i, elem := range list {
			var n Node
			var err error
			switch e := elem.(type) {
			case map[string]any:
				n, err = d.decodeNode(e, path, depth, i)
			case Node:
				n, err = e, d.checkNode(e, path, depth)
			default:
				err = newInvalidNodeError(path, depth, "expand[%d]: expected object, got %T", i, elem)
			}
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
		}
		return nodes, nil
	default:
		return nil, newInvalidNodeError(path, depth, "expand must be a list, got %T", v)
	}
}

func (d *decoder) decodeNode(m map[string]any, parent string, depth, index int) (Node, error) {
	key, ok := m["key"].(string)
	if !ok {
		return Node{}, newInvalidNodeError(parent, depth, "expand[%d]: missing string key", index)
	}
	path := joinPath(parent, key)

	if depth > d.maxDepth {
		return Node{}, newTooDeepError(path, depth, d.maxDepth)
	}

	id := reflect.ValueOf(m).UnsafePointer()
	if d.onPath[id] {
		return Node{}, newCycleError(path, depth)
	}
	d.onPath[id] = true
	defer delete(d.onPath, id)

	n := Node{Key: key}

	rawFields, present := m["fields"]
	fields, err := decodeFields(rawFields, path, depth)
	if err != nil {
		return Node{}, err
	}
	n.Fields = fields
	n.FieldsNull = present && rawFields == nil

	if raw, ok := m["expand"]; ok && raw != nil {
		children, err := d.decodeList(raw, path, depth+1)
		if err != nil {
			return Node{}, err
		}
		if children == nil {
			children = []Node{}
		}
		n.Expand = children
	}

	return n, nil
}

func (d *decoder) checkNode(n Node, parent string, depth int) error {
	path := joinPath(parent, n.Key)
	if got := Depth(n.Expand, d.maxDepth-depth) + depth; got > d.maxDepth {
		return newTooDeepError(path, got, d.maxDepth)
	}
	return nil
}

// decodeFields converts a generic field list. A missing or null value
// yields nil; decodeNode records the null case separately.
func decodeFields(v any, path string, depth int) ([]string, error) {
	switch fields := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return fields, nil
	case []any:
		out := make([]string, len(fields))
		for i, f := range fields {
			s, ok := f.(string)
			if !ok {
				return nil, newInvalidNodeError(path, depth, "fields[%d]: expected string, got %T", i, f)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, newInvalidNodeError(path, depth, "fields must be a list of strings, got %T", v)
	}
}

// DecodeFields converts a generic field list ([]string or []any of strings)
// into a []string. nil means "not specified" and is returned as nil.
func DecodeFields(v any) ([]string, error) {
	return decodeFields(v, "", 0)
}
