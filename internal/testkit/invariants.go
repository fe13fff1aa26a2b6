// Package testkit holds invariant checks on rendered comments, shared by the
// package tests of the renderer and the driver.
package testkit

import (
	"fmt"
	"regexp"
	"strings"

	"semdoc/internal/comment"
)

type bodyLine struct {
	num     int // 1-based over the whole comment
	content string
}

// body returns the content lines of out with the block delimiters dropped
// and the prefix stripped.
func body(out string, d *comment.Descriptor) ([]bodyLine, error) {
	lines := strings.Split(out, "\n")
	first, last := 0, len(lines)
	if d.BlockOpen() != "" {
		if lines[0] != d.BlockOpen() {
			return nil, fmt.Errorf("line 1: want block_open %q, got %q", d.BlockOpen(), lines[0])
		}
		first++
	}
	if d.BlockClose() != "" {
		if last <= first || lines[last-1] != d.BlockClose() {
			return nil, fmt.Errorf("line %d: want block_close %q, got %q", last, d.BlockClose(), lines[last-1])
		}
		last--
	}

	prefix := d.LinePrefix()
	bare := strings.TrimRight(prefix, " \t")
	res := make([]bodyLine, 0, last-first)
	for i := first; i < last; i++ {
		l := lines[i]
		switch {
		case strings.HasPrefix(l, prefix):
			l = l[len(prefix):]
		case l == bare:
			l = ""
		default:
			return nil, fmt.Errorf("line %d: missing line prefix %q: %q", i+1, prefix, l)
		}
		res = append(res, bodyLine{num: i + 1, content: l})
	}
	return res, nil
}

var leadToken = regexp.MustCompile(`^(-|>|#{1,6}|\d+\.|\[![A-Za-z]+\])$`)

// CheckWidth verifies that every body line outside code blocks fits
// max_width, or else carries a single word after its list, quote or heading
// lead. Lines past the end of laid.Code count as prose.
func CheckWidth(laid comment.Rendered, d *comment.Descriptor) error {
	lines, err := body(laid.Text, d)
	if err != nil {
		return err
	}
	prefixWidth := d.Width(d.LinePrefix())
	for _, l := range lines {
		if l.num <= len(laid.Code) && laid.Code[l.num-1] {
			continue
		}
		if prefixWidth+d.Width(l.content) <= d.MaxWidth() {
			continue
		}
		fields := strings.Fields(l.content)
		for _, f := range fields[:len(fields)-1] {
			if !leadToken.MatchString(f) {
				return fmt.Errorf("line %d: width %d exceeds %d: %q",
					l.num, prefixWidth+d.Width(l.content), d.MaxWidth(), l.content)
			}
		}
	}
	return nil
}

// CheckClosure verifies that the closing delimiter occurs only as the final
// line, so the comment cannot end early.
func CheckClosure(out string, d *comment.Descriptor) error {
	token := strings.TrimSpace(d.BlockClose())
	if token == "" {
		return nil
	}
	lines, err := body(out, d)
	if err != nil {
		return err
	}
	for _, l := range lines {
		if strings.Contains(l.content, token) {
			return fmt.Errorf("line %d: unescaped %q inside the comment: %q", l.num, token, l.content)
		}
	}
	return nil
}

// CheckNoSplitWords verifies that each of words occurs whole on a single
// line of out.
func CheckNoSplitWords(out string, words ...string) error {
	lines := strings.Split(out, "\n")
	for _, w := range words {
		found := false
		for _, l := range lines {
			if strings.Contains(l, w) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("word %q is not on any single line", w)
		}
	}
	return nil
}
