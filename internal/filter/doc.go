// Package filter builds filter and sort expressions in the record store's
// filter grammar.
//
// Every combinator is a pure string formatter. Operands are emitted verbatim:
// a string operand is a field path, a quoted literal, a macro or another field
// path; numbers and booleans are stringified with %v. Nothing here checks that
// a field exists or that an operand has the right type. That belongs to the
// schema validator (internal/schema), not to the builder.
//
// GRAMMAR:
//
//	And(c1, c2, ...)        (c1&&c2&&...)
//	Or(c1, c2, ...)         (c1||c2||...)
//	Eq / Ne                 a=b / a!=b
//	Gt / Gte / Lt / Lte     a>b / a>=b / a<b / a<=b
//	Like / NotLike          a~b / a!~b
//	AnyEq ... AnyNotLike    a?=b ... a?!~b
//	Between(a, lo, hi)      (a>=lo&&a<=hi)
//	NotBetween(a, lo, hi)   (a<lo||a>hi)
//	InArray(a, v1..vn)      (a=v1||...||a=vn)
//	NotInArray(a, v1..vn)   (a!=v1&&...&&a!=vn)
//
// The Any* forms insert a literal "?" before the operator and match when at
// least one element of an array-valued field satisfies the comparison.
//
// Sort expressions are comma-joined tokens; a leading "-" sorts descending:
//
//	SortBy("author.name", Desc("title"))  // "author.name,-title"
//
// Filter and sort functions receive the combinator set as a Helpers value:
//
//	var f Func = func(h Helpers) string {
//	    return h.And(h.Eq("title", Quote("foo")), h.Gte("likes", 5))
//	}
package filter
