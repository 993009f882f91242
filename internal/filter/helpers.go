package filter

// Func builds a filter or sort expression from the combinator set.
type Func func(h Helpers) string

// Helpers is the combinator set handed to filter and sort functions.
// The zero value is ready to use; every method delegates to the package
// function of the same name.
type Helpers struct{}

func (Helpers) And(a, b string, rest ...string) string { return And(a, b, rest...) }
func (Helpers) Or(a, b string, rest ...string) string  { return Or(a, b, rest...) }

func (Helpers) Eq(a string, b any) string      { return Eq(a, b) }
func (Helpers) Ne(a string, b any) string      { return Ne(a, b) }
func (Helpers) Gt(a string, b any) string      { return Gt(a, b) }
func (Helpers) Gte(a string, b any) string     { return Gte(a, b) }
func (Helpers) Lt(a string, b any) string      { return Lt(a, b) }
func (Helpers) Lte(a string, b any) string     { return Lte(a, b) }
func (Helpers) Like(a string, b any) string    { return Like(a, b) }
func (Helpers) NotLike(a string, b any) string { return NotLike(a, b) }

func (Helpers) AnyEq(a string, b any) string      { return AnyEq(a, b) }
func (Helpers) AnyNe(a string, b any) string      { return AnyNe(a, b) }
func (Helpers) AnyGt(a string, b any) string      { return AnyGt(a, b) }
func (Helpers) AnyGte(a string, b any) string     { return AnyGte(a, b) }
func (Helpers) AnyLt(a string, b any) string      { return AnyLt(a, b) }
func (Helpers) AnyLte(a string, b any) string     { return AnyLte(a, b) }
func (Helpers) AnyLike(a string, b any) string    { return AnyLike(a, b) }
func (Helpers) AnyNotLike(a string, b any) string { return AnyNotLike(a, b) }

func (Helpers) Between(a string, lo, hi any) string    { return Between(a, lo, hi) }
func (Helpers) NotBetween(a string, lo, hi any) string { return NotBetween(a, lo, hi) }

func (Helpers) InArray(a string, values ...any) string    { return InArray(a, values...) }
func (Helpers) NotInArray(a string, values ...any) string { return NotInArray(a, values...) }

// Template is the legacy positional template combinator.
//
// Deprecated: use the comparison combinators instead.
func (Helpers) Template(segments []string, values ...any) string {
	return Template(segments, values...)
}

func (Helpers) SortBy(tokens ...string) string { return SortBy(tokens...) }

// Eval runs fn with the combinator set. A nil fn yields "".
func Eval(fn Func) string {
	if fn == nil {
		return ""
	}
	return fn(Helpers{})
}
