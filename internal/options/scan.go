package options

import (
	"reflect"
	"unsafe"

	"github.com/roach88/recopt/internal/expand"
)

// fieldsScan looks for a "fields" key anywhere inside a descriptor value:
// in the descriptor itself, in generic expansion maps and in passthrough
// values such as nested maps and lists. A key holding nil counts; a key
// holding Unset does not.
//
// Maps and slices are visited once each, so shared or self-containing
// values terminate. Typed expansion trees are checked with expand.HasFields
// down to maxDepth.
type fieldsScan struct {
	maxDepth int
	seen     map[scanRef]bool
}

type scanRef struct {
	ptr unsafe.Pointer
	len int
}

func hasFieldsKey(d Descriptor, maxDepth int) bool {
	if d == nil {
		return false
	}
	s := &fieldsScan{maxDepth: maxDepth, seen: make(map[scanRef]bool)}
	return s.contains(map[string]any(d))
}

func (s *fieldsScan) contains(v any) bool {
	switch t := v.(type) {
	case nil, string:
		return false
	case expand.Node:
		return expand.HasFields([]expand.Node{t}, s.maxDepth)
	case []expand.Node:
		return expand.HasFields(t, s.maxDepth)
	case map[string]any:
		if s.visited(reflect.ValueOf(t)) {
			return false
		}
		if f, ok := t[KeyFields]; ok && !IsUnset(f) {
			return true
		}
		for _, elem := range t {
			if s.contains(elem) {
				return true
			}
		}
		return false
	case Descriptor:
		return s.contains(map[string]any(t))
	case []any:
		if s.visited(reflect.ValueOf(t)) {
			return false
		}
		for _, elem := range t {
			if s.contains(elem) {
				return true
			}
		}
		return false
	}
	return s.containsReflect(reflect.ValueOf(v))
}

// containsReflect handles typed maps with string keys and typed slices,
// e.g. map[string]string headers or []map[string]any lists.
func (s *fieldsScan) containsReflect(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Map:
		keyType := rv.Type().Key()
		if keyType.Kind() != reflect.String || s.visited(rv) {
			return false
		}
		if f := rv.MapIndex(reflect.ValueOf(KeyFields).Convert(keyType)); f.IsValid() && !IsUnset(f.Interface()) {
			return true
		}
		iter := rv.MapRange()
		for iter.Next() {
			if s.contains(iter.Value().Interface()) {
				return true
			}
		}
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 || s.visited(rv) {
			return false
		}
		for i := 0; i < rv.Len(); i++ {
			if s.contains(rv.Index(i).Interface()) {
				return true
			}
		}
	case reflect.Pointer:
		if !rv.IsNil() {
			return s.containsReflect(rv.Elem())
		}
	}
	return false
}

func (s *fieldsScan) visited(rv reflect.Value) bool {
	if rv.IsNil() {
		return true
	}
	ref := scanRef{ptr: rv.UnsafePointer()}
	if rv.Kind() == reflect.Slice {
		ref.len = rv.Len()
	}
	if s.seen[ref] {
		return true
	}
	s.seen[ref] = true
	return false
}
