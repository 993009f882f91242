package options

import (
	"github.com/roach88/recopt/internal/expand"
	"github.com/roach88/recopt/internal/filter"
)

// Validate checks the shape of d without compiling anything:
//   - fields, when set, must be a list
//   - expand, when set, must be a list
//   - filter and sort, when set, must be a string or a function
//
// nil and Unset entries are treated as not set. The element types inside
// the lists are checked while decoding, in Process.
func Validate(d Descriptor) error {
	if v := d[KeyFields]; isSet(v) && !isList(v) {
		return newValidationError(d, KeyFields, v, "fields must be a list of strings")
	}
	if v := d[KeyExpand]; isSet(v) && !isList(v) {
		return newValidationError(d, KeyExpand, v, "expand must be a list of expansion nodes")
	}
	for _, key := range []string{KeyFilter, KeySort} {
		if v := d[key]; isSet(v) && !isExpr(v) {
			return newValidationError(d, key, v, key+" must be a string or a function")
		}
	}
	return nil
}

func isList(v any) bool {
	switch v.(type) {
	case []string, []any, []expand.Node, []map[string]any:
		return true
	default:
		return false
	}
}

func isExpr(v any) bool {
	switch v.(type) {
	case string, filter.Func, func(filter.Helpers) string:
		return true
	default:
		return false
	}
}
