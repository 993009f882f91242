package client

// Record is a decoded record.
type Record map[string]any

// ID returns the record id.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Body is a create or update payload. Keys may carry the modifiers built by
// Add, Prepend and Remove.
type Body map[string]any

// Add names the "field+" key: adds to a number, appends to a list.
func Add(field string) string { return field + "+" }

// Prepend names the "+field" key: prepends to a list.
func Prepend(field string) string { return "+" + field }

// Remove names the "field-" key: subtracts from a number, removes from a
// list.
func Remove(field string) string { return field + "-" }
