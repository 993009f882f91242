package options

import (
	"errors"
	"fmt"

	"github.com/roach88/recopt/internal/expand"
	"github.com/roach88/recopt/internal/filter"
)

// Compiler normalizes descriptors. The zero value uses
// expand.DefaultMaxDepth.
type Compiler struct {
	// MaxDepth bounds the expansion tree depth (<= 0 selects
	// expand.DefaultMaxDepth).
	MaxDepth int
}

// NewCompiler creates a Compiler with the default depth bound.
func NewCompiler() *Compiler {
	return &Compiler{MaxDepth: expand.DefaultMaxDepth}
}

var defaultCompiler = NewCompiler()

// Process normalizes d with the default Compiler.
func Process(d Descriptor) (Descriptor, error) {
	return defaultCompiler.Process(d)
}

// Process compiles fields, expand, filter and sort into strings and returns
// a new descriptor with every Unset key removed.
//
// A nil descriptor yields nil. A descriptor that is already compiled (see
// IsCompiled) is returned as-is. Shape violations fail with a
// *ValidationError before anything is compiled; expansion trees past the
// depth bound fail with an error wrapping *expand.TreeError.
func (c *Compiler) Process(d Descriptor) (Descriptor, error) {
	if d == nil || IsCompiled(d) {
		return d, nil
	}

	if err := Validate(d); err != nil {
		return nil, err
	}

	nodes, err := expand.Decode(setOrNil(d[KeyExpand]), c.MaxDepth)
	if err != nil {
		return nil, wrapTreeError(d, KeyExpand, err)
	}

	topFields, err := expand.DecodeFields(setOrNil(d[KeyFields]))
	if err != nil {
		return nil, wrapTreeError(d, KeyFields, err)
	}

	var expandParam any = Unset
	if nodes != nil {
		s, err := expand.CompileExpand(nodes, c.MaxDepth)
		if err != nil {
			return nil, fmt.Errorf("compile expand: %w", err)
		}
		expandParam = s
	}

	var fieldsParam any = Unset
	if hasFieldsKey(d, c.MaxDepth) {
		s, err := expand.CompileFields(expand.Node{Fields: topFields, Expand: nodes}, c.MaxDepth)
		if err != nil {
			return nil, fmt.Errorf("compile fields: %w", err)
		}
		fieldsParam = s
	}

	filterParam, err := processExpr(d, KeyFilter)
	if err != nil {
		return nil, err
	}
	sortParam, err := processExpr(d, KeySort)
	if err != nil {
		return nil, err
	}

	res := d.Clone()
	res[KeyFields] = fieldsParam
	res[KeyExpand] = expandParam
	res[KeyFilter] = filterParam
	res[KeySort] = sortParam

	for k, v := range res {
		if IsUnset(v) {
			delete(res, k)
		}
	}

	return res, nil
}

// HasFieldsSpecified reports whether d, or any value nested within it at any
// depth, has a "fields" key. Expansion nodes and passthrough values are both
// searched. A "fields" key holding nil counts as specified; one holding
// Unset does not.
func HasFieldsSpecified(d Descriptor) bool {
	return hasFieldsKey(d, expand.DefaultMaxDepth)
}

// ProcessFilter evaluates a bare filter or sort value: functions are invoked
// with the combinator set, strings pass through and nil or Unset yield "".
func ProcessFilter(v any) (string, error) {
	if !isSet(v) {
		return "", nil
	}
	out, ok := evalExpr(v)
	if !ok {
		return "", newValidationError(nil, KeyFilter, v, "filter must be a string or a function")
	}
	return out, nil
}

// processExpr compiles the filter or sort entry of d. Unset stays Unset and
// an explicit nil stays nil.
func processExpr(d Descriptor, key string) (any, error) {
	v, ok := d[key]
	if !ok || IsUnset(v) {
		return Unset, nil
	}
	if v == nil {
		return nil, nil
	}
	out, ok := evalExpr(v)
	if !ok {
		return nil, newValidationError(d, key, v, key+" must be a string or a function")
	}
	return out, nil
}

func evalExpr(v any) (string, bool) {
	switch fn := v.(type) {
	case string:
		return fn, true
	case filter.Func:
		return filter.Eval(fn), true
	case func(filter.Helpers) string:
		return filter.Eval(fn), true
	default:
		return "", false
	}
}

func setOrNil(v any) any {
	if IsUnset(v) {
		return nil
	}
	return v
}

// wrapTreeError reports malformed nodes as validation errors and passes
// depth and cycle violations through.
func wrapTreeError(d Descriptor, key string, err error) error {
	var te *expand.TreeError
	if errors.As(err, &te) && te.Code == expand.ErrCodeInvalidNode {
		return &ValidationError{
			Code:       ErrCodeInvalidOptions,
			Key:        key,
			Message:    "malformed " + key,
			Descriptor: d,
			Err:        err,
		}
	}
	return fmt.Errorf("decode %s: %w", key, err)
}
