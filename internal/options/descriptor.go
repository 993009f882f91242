package options

// Descriptor holds request options keyed by parameter name. Keys other than
// the ones compiled here pass through untouched.
type Descriptor map[string]any

// Well-known descriptor keys.
const (
	KeyFields     = "fields"
	KeyExpand     = "expand"
	KeyFilter     = "filter"
	KeySort       = "sort"
	KeyRequestKey = "requestKey"
	KeyPage       = "page"
	KeyPerPage    = "perPage"
	KeySkipTotal  = "skipTotal"
)

type undefined struct{}

// Unset marks a descriptor key as not supplied. Process removes keys holding
// Unset from its result; nil values are kept.
var Unset any = undefined{}

// IsUnset reports whether v is the Unset sentinel.
func IsUnset(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// isSet reports whether v carries a value: neither Unset nor nil.
func isSet(v any) bool {
	return v != nil && !IsUnset(v)
}

// IsCompiled reports whether d has already been through Process, i.e. its
// fields or expand entry is a string.
func IsCompiled(d Descriptor) bool {
	if _, ok := d[KeyFields].(string); ok {
		return true
	}
	_, ok := d[KeyExpand].(string)
	return ok
}

// Clone returns a shallow copy of d.
func (d Descriptor) Clone() Descriptor {
	if d == nil {
		return nil
	}
	out := make(Descriptor, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// String returns the string stored under key, or "" when absent or not a
// string.
func (d Descriptor) String(key string) string {
	s, _ := d[key].(string)
	return s
}
