// Package schema checks query descriptors against declared collections.
//
// Collections are declared in CUE:
//
//	collection: posts: {
//		fields: { title: string, likes: int, tags: [...string] }
//		relations: { author: "users", comments: ["comments"] }
//	}
//
// A relation whose value is a string points at one record; a one-element
// list points at many. Every relation also yields a back-relation on its
// target named <collection>_via_<relation>, which is how the record API
// exposes reverse lookups.
package schema

import "sort"

// Kind is the value kind of a collection field.
type Kind string

const (
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindNumber Kind = "number"
	KindBool   Kind = "bool"
	KindList   Kind = "list"
	KindJSON   Kind = "json"
)

// System fields present on every record.
var systemFields = []string{"id", "collectionId", "collectionName"}

// Field is a declared collection field.
type Field struct {
	Name   string `json:"name"`
	Kind   Kind   `json:"kind"`
	System bool   `json:"system,omitempty"`
}

// Relation links a collection to a target collection.
type Relation struct {
	Name   string `json:"name"`
	Target string `json:"target"`
	Many   bool   `json:"many,omitempty"`

	// Back is set for derived <collection>_via_<relation> entries.
	Back bool `json:"back,omitempty"`
}

// Collection is a named record type.
type Collection struct {
	Name      string              `json:"name"`
	Fields    map[string]Field    `json:"fields"`
	Relations map[string]Relation `json:"relations"`
}

// Field returns the named field.
func (c *Collection) Field(name string) (Field, bool) {
	f, ok := c.Fields[name]
	return f, ok
}

// Relation returns the named relation, including derived back-relations.
func (c *Collection) Relation(name string) (Relation, bool) {
	r, ok := c.Relations[name]
	return r, ok
}

// Schema is the set of declared collections.
type Schema struct {
	Collections map[string]*Collection `json:"collections"`
}

// Collection returns the named collection.
func (s *Schema) Collection(name string) (*Collection, bool) {
	if s == nil {
		return nil, false
	}
	c, ok := s.Collections[name]
	return c, ok
}

// Names returns the collection names in sorted order.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.Collections))
	for name := range s.Collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newCollection(name string) *Collection {
	c := &Collection{
		Name:      name,
		Fields:    make(map[string]Field),
		Relations: make(map[string]Relation),
	}
	for _, f := range systemFields {
		c.Fields[f] = Field{Name: f, Kind: KindString, System: true}
	}
	return c
}

// BackRelationName is the name under which target exposes the records of
// collection that point at it through relation.
func BackRelationName(collection, relation string) string {
	return collection + "_via_" + relation
}

// linkBackRelations adds a back-relation on every relation target. A name
// the target already declares is left alone.
func (s *Schema) linkBackRelations() {
	for _, name := range s.Names() {
		c := s.Collections[name]
		for _, r := range c.Relations {
			if r.Back {
				continue
			}
			target, ok := s.Collections[r.Target]
			if !ok {
				continue
			}
			back := BackRelationName(c.Name, r.Name)
			if _, exists := target.Relations[back]; exists {
				continue
			}
			target.Relations[back] = Relation{Name: back, Target: c.Name, Many: true, Back: true}
		}
	}
}
