package filter

import (
	"fmt"
	"strings"
)

// Operators of the filter grammar.
const (
	OpEq      = "="
	OpNe      = "!="
	OpGt      = ">"
	OpGte     = ">="
	OpLt      = "<"
	OpLte     = "<="
	OpLike    = "~"
	OpNotLike = "!~"

	// anyPrefix turns an operator into its "at least one element" form.
	anyPrefix = "?"
)

// And joins two or more conditions with &&.
func And(a, b string, rest ...string) string {
	return group("&&", a, b, rest...)
}

// Or joins two or more conditions with ||.
func Or(a, b string, rest ...string) string {
	return group("||", a, b, rest...)
}

func group(sep, a, b string, rest ...string) string {
	conds := make([]string, 0, 2+len(rest))
	conds = append(conds, a, b)
	conds = append(conds, rest...)
	return "(" + strings.Join(conds, sep) + ")"
}

func Eq(a string, b any) string      { return compare(a, OpEq, b) }
func Ne(a string, b any) string      { return compare(a, OpNe, b) }
func Gt(a string, b any) string      { return compare(a, OpGt, b) }
func Gte(a string, b any) string     { return compare(a, OpGte, b) }
func Lt(a string, b any) string      { return compare(a, OpLt, b) }
func Lte(a string, b any) string     { return compare(a, OpLte, b) }
func Like(a string, b any) string    { return compare(a, OpLike, b) }
func NotLike(a string, b any) string { return compare(a, OpNotLike, b) }

func AnyEq(a string, b any) string      { return compare(a, anyPrefix+OpEq, b) }
func AnyNe(a string, b any) string      { return compare(a, anyPrefix+OpNe, b) }
func AnyGt(a string, b any) string      { return compare(a, anyPrefix+OpGt, b) }
func AnyGte(a string, b any) string     { return compare(a, anyPrefix+OpGte, b) }
func AnyLt(a string, b any) string      { return compare(a, anyPrefix+OpLt, b) }
func AnyLte(a string, b any) string     { return compare(a, anyPrefix+OpLte, b) }
func AnyLike(a string, b any) string    { return compare(a, anyPrefix+OpLike, b) }
func AnyNotLike(a string, b any) string { return compare(a, anyPrefix+OpNotLike, b) }

// Between matches lo <= a <= hi.
func Between(a string, lo, hi any) string {
	return "(" + Gte(a, lo) + "&&" + Lte(a, hi) + ")"
}

// NotBetween matches a < lo or a > hi.
func NotBetween(a string, lo, hi any) string {
	return "(" + Lt(a, lo) + "||" + Gt(a, hi) + ")"
}

// InArray matches when a equals any of values.
// An empty list renders as "()".
func InArray(a string, values ...any) string {
	return expandList(a, OpEq, "||", values)
}

// NotInArray matches when a equals none of values.
func NotInArray(a string, values ...any) string {
	return expandList(a, OpNe, "&&", values)
}

func expandList(a, op, sep string, values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = compare(a, op, v)
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// Template concatenates literal segments and interpolated values
// positionally: segments[0] + values[0] + segments[1] + ...
//
// It is the legacy form of the builder and is equivalent to building the
// string by hand. Missing trailing segments render as empty.
func Template(segments []string, values ...any) string {
	var b strings.Builder
	if len(segments) > 0 {
		b.WriteString(segments[0])
	}
	for i, v := range values {
		b.WriteString(Operand(v))
		if i+1 < len(segments) {
			b.WriteString(segments[i+1])
		}
	}
	return b.String()
}

func compare(a, op string, b any) string {
	return a + op + Operand(b)
}

// Operand renders a single operand the way the combinators embed it.
// Strings are emitted verbatim and nil renders as the null literal.
func Operand(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
