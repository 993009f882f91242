package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/recopt/internal/expand"
	"github.com/roach88/recopt/internal/options"
)

// Issue codes reported by Validate.
const (
	IssueUnknownCollection = "UNKNOWN_COLLECTION"
	IssueUnknownField      = "UNKNOWN_FIELD"
	IssueUnknownRelation   = "UNKNOWN_RELATION"
	IssueTooDeep           = "TOO_DEEP"
	IssueInvalidOptions    = "INVALID_OPTIONS"
)

// Sort tokens that do not name a field.
var sortSpecials = map[string]bool{"@random": true, "@rowid": true}

// Issue is one problem found in a descriptor.
type Issue struct {
	Code    string `json:"code"`
	Key     string `json:"key"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s %q: %s", i.Code, i.Key, i.Path, i.Message)
}

// Result is the outcome of a validation. Issues is empty when Valid.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Validator checks descriptors against a Schema.
type Validator struct {
	Schema *Schema

	// MaxDepth bounds expansion depth (<= 0 selects expand.DefaultMaxDepth).
	MaxDepth int
}

// NewValidator creates a Validator with the default depth bound.
func NewValidator(s *Schema) *Validator {
	return &Validator{Schema: s, MaxDepth: expand.DefaultMaxDepth}
}

// Validate checks d against collection in s with the default depth bound.
func Validate(s *Schema, collection string, d options.Descriptor) Result {
	return NewValidator(s).Validate(collection, d)
}

// Validate compiles d and checks every field path, expansion path and sort
// token against the collection it targets. It reports all issues found and
// never mutates d. Filters are not inspected.
func (v *Validator) Validate(collection string, d options.Descriptor) Result {
	var issues []Issue

	c, ok := v.Schema.Collection(collection)
	if !ok {
		issues = append(issues, Issue{
			Code:    IssueUnknownCollection,
			Path:    collection,
			Message: fmt.Sprintf("unknown collection %q", collection),
		})
		return result(issues)
	}

	compiler := &options.Compiler{MaxDepth: v.MaxDepth}
	compiled, err := compiler.Process(d)
	if err != nil {
		code, key := IssueInvalidOptions, options.KeyExpand
		var ve *options.ValidationError
		if errors.As(err, &ve) {
			key = ve.Key
		}
		if expand.IsTooDeepOrCyclic(err) {
			code = IssueTooDeep
		}
		issues = append(issues, Issue{Code: code, Key: key, Message: err.Error()})
		return result(issues)
	}

	maxDepth := v.MaxDepth
	if maxDepth <= 0 {
		maxDepth = expand.DefaultMaxDepth
	}

	for _, path := range splitList(compiled.String(options.KeyExpand)) {
		issues = append(issues, v.checkExpandPath(c, path, maxDepth)...)
	}
	for _, entry := range splitList(compiled.String(options.KeyFields)) {
		issues = append(issues, v.checkFieldPath(c, entry)...)
	}
	for _, token := range splitList(compiled.String(options.KeySort)) {
		issues = append(issues, v.checkSortToken(c, token)...)
	}

	return result(issues)
}

func result(issues []Issue) Result {
	return Result{Valid: len(issues) == 0, Issues: issues}
}

func (v *Validator) checkExpandPath(c *Collection, path string, maxDepth int) []Issue {
	segs := strings.Split(path, ".")
	if len(segs) > maxDepth {
		return []Issue{{
			Code:    IssueTooDeep,
			Key:     options.KeyExpand,
			Path:    path,
			Message: fmt.Sprintf("expansion depth %d exceeds limit %d", len(segs), maxDepth),
		}}
	}

	cur := c
	for _, seg := range segs {
		rel, ok := cur.Relation(seg)
		if !ok {
			return []Issue{unknownRelation(options.KeyExpand, path, cur, seg)}
		}
		cur = v.Schema.Collections[rel.Target]
	}
	return nil
}

// checkFieldPath walks a compiled fields entry such as
// "expand.author.expand.posts_via_author.title:excerpt(10)".
func (v *Validator) checkFieldPath(c *Collection, entry string) []Issue {
	name := entry
	if i := strings.IndexByte(name, ':'); i >= 0 {
		name = name[:i]
	}

	segs := strings.Split(name, ".")
	cur := c
	for i := 0; i < len(segs); {
		seg := segs[i]
		if seg == "expand" && i+1 < len(segs) {
			if segs[i+1] == "*" {
				return nil
			}
			rel, ok := cur.Relation(segs[i+1])
			if !ok {
				return []Issue{unknownRelation(options.KeyFields, entry, cur, segs[i+1])}
			}
			cur = v.Schema.Collections[rel.Target]
			i += 2
			continue
		}
		return checkField(options.KeyFields, entry, cur, segs[i:])
	}
	return nil
}

// checkSortToken resolves "-created", "title" or "author.name".
func (v *Validator) checkSortToken(c *Collection, token string) []Issue {
	name := strings.TrimLeft(token, "-+")
	if sortSpecials[name] {
		return nil
	}

	segs := strings.Split(name, ".")
	cur := c
	for i, seg := range segs[:len(segs)-1] {
		rel, ok := cur.Relation(seg)
		if !ok {
			// A JSON field may be addressed by a dotted path.
			return checkField(options.KeySort, token, cur, segs[i:])
		}
		cur = v.Schema.Collections[rel.Target]
	}
	return checkField(options.KeySort, token, cur, segs[len(segs)-1:])
}

// checkField resolves the trailing segments of a path in c. A single
// segment must be "*" or a field; more segments are only allowed below a
// JSON field.
func checkField(key, path string, c *Collection, segs []string) []Issue {
	if len(segs) == 1 && segs[0] == "*" {
		return nil
	}
	f, ok := c.Field(segs[0])
	if !ok {
		return []Issue{{
			Code:    IssueUnknownField,
			Key:     key,
			Path:    path,
			Message: fmt.Sprintf("collection %q has no field %q", c.Name, segs[0]),
		}}
	}
	if len(segs) > 1 && f.Kind != KindJSON {
		return []Issue{{
			Code:    IssueUnknownField,
			Key:     key,
			Path:    path,
			Message: fmt.Sprintf("field %q of collection %q is %s and has no subfields", f.Name, c.Name, f.Kind),
		}}
	}
	return nil
}

func unknownRelation(key, path string, c *Collection, name string) Issue {
	return Issue{
		Code:    IssueUnknownRelation,
		Key:     key,
		Path:    path,
		Message: fmt.Sprintf("collection %q has no relation %q", c.Name, name),
	}
}

// splitList splits a comma-joined parameter, ignoring commas inside
// parentheses (modifier arguments) and empty entries.
func splitList(s string) []string {
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				if part := strings.TrimSpace(s[start:i]); part != "" {
					out = append(out, part)
				}
				start = i + 1
			}
		}
	}
	if part := strings.TrimSpace(s[start:]); part != "" {
		out = append(out, part)
	}
	return out
}
