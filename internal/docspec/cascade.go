package docspec

import (
	"regexp"
	"strconv"
	"strings"
)

// Rule is one alternative of an ordered cascade.
type Rule[T any] struct {
	Name  string
	Match func(text string) (T, bool)
}

// FirstMatch tries rules in order and returns the value produced by the
// first one that matches, with its index. Order is the only tie-break: a
// later rule is never consulted once an earlier one matched, even if it
// would match a longer span. idx is -1 when nothing matched.
func FirstMatch[T any](text string, rules []Rule[T]) (val T, idx int, ok bool) {
	for i, r := range rules {
		if v, matched := r.Match(text); matched {
			return v, i, true
		}
	}
	return val, -1, false
}

// Pattern compiles expr case-insensitively in multi-line mode. The rule
// yields capture group 1 when the pattern has one and the whole match
// otherwise, with whitespace runs collapsed. A blank value counts as no match.
func Pattern(name, expr string) Rule[string] {
	re := regexp.MustCompile(`(?im)` + expr)
	return Rule[string]{
		Name: name,
		Match: func(text string) (string, bool) {
			m := re.FindStringSubmatch(text)
			if m == nil {
				return "", false
			}
			v := m[0]
			if re.NumSubexp() > 0 {
				v = m[1]
			}
			v = strings.Join(strings.Fields(v), " ")
			return v, v != ""
		},
	}
}

// Patterns builds a rule list from expressions, naming each by position.
func Patterns(field string, exprs ...string) []Rule[string] {
	rules := make([]Rule[string], 0, len(exprs))
	for i, e := range exprs {
		rules = append(rules, Pattern(field+"#"+strconv.Itoa(i), e))
	}
	return rules
}
