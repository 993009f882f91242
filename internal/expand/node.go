package expand

import "encoding/json"

// DefaultMaxDepth is the deepest expansion level accepted when no bound is
// configured.
const DefaultMaxDepth = 6

// Node is one relation in an expansion tree.
//
// Fields == nil means no projection was requested for this relation; a
// non-nil empty slice is an explicit, empty projection. The same holds for
// Expand.
//
// FieldsNull records a "fields" key that was present with a null value. Such
// a node renders like one without fields, but it still counts as specifying
// fields when its ancestors choose between "expand.*" and descending.
type Node struct {
	Key        string   `json:"key" yaml:"key"`
	Fields     []string `json:"fields,omitempty" yaml:"fields,omitempty"`
	Expand     []Node   `json:"expand,omitempty" yaml:"expand,omitempty"`
	FieldsNull bool     `json:"-" yaml:"-"`
}

// MarshalJSON omits nil Fields and Expand but keeps empty ones, which
// omitempty cannot express. A FieldsNull node encodes "fields": null.
func (n Node) MarshalJSON() ([]byte, error) {
	m := map[string]any{"key": n.Key}
	switch {
	case n.Fields != nil:
		m["fields"] = n.Fields
	case n.FieldsNull:
		m["fields"] = nil
	}
	if n.Expand != nil {
		m["expand"] = n.Expand
	}
	return json.Marshal(m)
}

func (n Node) specifiesFields() bool {
	return n.Fields != nil || n.FieldsNull
}

// HasFields reports whether any node in nodes, down to maxDepth levels,
// specifies fields. Levels past the bound are not visited, so a tree that
// refers back to itself still terminates. maxDepth <= 0 selects
// DefaultMaxDepth.
func HasFields(nodes []Node, maxDepth int) bool {
	return hasFields(nodes, resolveMaxDepth(maxDepth))
}

func hasFields(nodes []Node, remaining int) bool {
	if remaining <= 0 {
		return false
	}
	for _, n := range nodes {
		if n.specifiesFields() || hasFields(n.Expand, remaining-1) {
			return true
		}
	}
	return false
}

// Depth returns the number of expansion levels in nodes, counting at most
// limit+1 of them. A result above limit means "deeper than limit", which is
// all a bound check needs, and keeps trees that refer back to themselves
// finite. An empty list has depth 0.
func Depth(nodes []Node, limit int) int {
	if len(nodes) == 0 {
		return 0
	}
	if limit <= 0 {
		return 1
	}
	deepest := 1
	for _, n := range nodes {
		if d := 1 + Depth(n.Expand, limit-1); d > deepest {
			deepest = d
		}
		if deepest > limit {
			break
		}
	}
	return deepest
}

func resolveMaxDepth(maxDepth int) int {
	if maxDepth <= 0 {
		return DefaultMaxDepth
	}
	return maxDepth
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}
