package filter

import "strings"

// SortBy joins sort tokens with commas. A token is a field path (ascending)
// or a "-"-prefixed field path (descending). Duplicates and conflicting
// directions are not checked.
func SortBy(tokens ...string) string {
	return strings.Join(tokens, ",")
}

// Desc marks a sort field as descending.
func Desc(field string) string {
	return "-" + field
}
