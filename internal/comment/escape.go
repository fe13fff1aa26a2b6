package comment

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// escapeCycle returns a description of the first cycle among rules, or "".
// A rule a -> b links a to b when b is exactly one character that is itself
// escaped. A rule mapping a character to itself is a cycle of length one.
func escapeCycle(rules map[string]string) string {
	keys := sortedKeys(rules)
	for _, start := range keys {
		seen := map[string]bool{start: true}
		path := []string{start}
		cur := start
		for {
			next, ok := rules[cur]
			if !ok || utf8.RuneCountInString(next) != 1 {
				break
			}
			if _, escaped := rules[next]; !escaped && next != cur {
				break
			}
			path = append(path, next)
			if seen[next] {
				return strings.Join(path, " -> ")
			}
			seen[next] = true
			cur = next
		}
	}
	return ""
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// escaper applies the escape rules in a single left-to-right pass and then
// replaces any remaining block close delimiter.
type escaper struct {
	rules       *strings.Replacer // nil when there are no rules
	close       string
	closeEscape string
}

func newEscaper(rules map[string]string, close, closeEscape string) escaper {
	e := escaper{close: close, closeEscape: closeEscape}
	if len(rules) > 0 {
		pairs := make([]string, 0, 2*len(rules))
		for _, k := range sortedKeys(rules) {
			pairs = append(pairs, k, rules[k])
		}
		e.rules = strings.NewReplacer(pairs...)
	}
	return e
}

// text escapes literal text.
func (e escaper) text(s string) string {
	if e.rules != nil {
		s = e.rules.Replace(s)
	}
	return e.guard(s)
}

// guard replaces block close delimiters until none is left. Replacement can
// create a new occurrence at a seam, so it repeats; close_escape never
// contains the delimiter, which bounds the loop.
func (e escaper) guard(s string) string {
	if e.close == "" {
		return s
	}
	for i := 0; i <= len(s) && strings.Contains(s, e.close); i++ {
		s = strings.ReplaceAll(s, e.close, e.closeEscape)
	}
	return s
}

// rulesOnly applies the escape rules without the guard.
func (e escaper) rulesOnly(s string) string {
	if e.rules == nil {
		return s
	}
	return e.rules.Replace(s)
}
