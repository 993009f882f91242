package filter

import "strings"

// Macros are dynamic values resolved by the server at query time.
const (
	MacroNow        = "@now"
	MacroSecond     = "@second"
	MacroMinute     = "@minute"
	MacroHour       = "@hour"
	MacroWeekday    = "@weekday"
	MacroDay        = "@day"
	MacroMonth      = "@month"
	MacroYear       = "@year"
	MacroYesterday  = "@yesterday"
	MacroTomorrow   = "@tomorrow"
	MacroTodayStart = "@todayStart"
	MacroTodayEnd   = "@todayEnd"
	MacroMonthStart = "@monthStart"
	MacroMonthEnd   = "@monthEnd"
	MacroYearStart  = "@yearStart"
	MacroYearEnd    = "@yearEnd"
)

// Macros lists every macro token in declaration order.
var Macros = []string{
	MacroNow, MacroSecond, MacroMinute, MacroHour, MacroWeekday, MacroDay,
	MacroMonth, MacroYear, MacroYesterday, MacroTomorrow, MacroTodayStart,
	MacroTodayEnd, MacroMonthStart, MacroMonthEnd, MacroYearStart, MacroYearEnd,
}

// IsMacro reports whether s is a known macro token.
func IsMacro(s string) bool {
	for _, m := range Macros {
		if m == s {
			return true
		}
	}
	return false
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Quote renders s as a double-quoted string literal.
func Quote(s string) string {
	return `"` + quoteEscaper.Replace(s) + `"`
}

// Field modifiers understood by the server. They are appended to a field
// path and never interpreted here.
const (
	ModLower  = ":lower"
	ModEach   = ":each"
	ModLength = ":length"
)

// Lower compares a string field case-insensitively.
func Lower(field string) string { return field + ModLower }

// Each applies the comparison to every element of an array field.
func Each(field string) string { return field + ModEach }

// Length compares the number of elements of an array field.
func Length(field string) string { return field + ModLength }

// CollectionRef references a field of another collection: @collection.c.f.
func CollectionRef(collection, field string) string {
	return "@collection." + collection + "." + field
}
