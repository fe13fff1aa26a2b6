package comment

import "strings"

type word struct {
	text  string
	width int
}

// wrap fills lines greedily. The first line holds at most first columns and
// later lines rest columns; a word wider than the budget gets a line of its
// own. Words are joined with one space.
func wrap(words []word, first, rest int) []string {
	if len(words) == 0 {
		return nil
	}
	budget := max(first, 1)
	var (
		out  []string
		line strings.Builder
		used int
	)
	for _, w := range words {
		if used > 0 && used+1+w.width > budget {
			out = append(out, line.String())
			line.Reset()
			used = 0
			budget = max(rest, 1)
		}
		if used > 0 {
			line.WriteByte(' ')
			used++
		}
		line.WriteString(w.text)
		used += w.width
	}
	return append(out, line.String())
}
