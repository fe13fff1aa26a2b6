package markdown

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const tabStop = 4

// line is one physical input line. body is normalised for block and inline
// scanning; text keeps the original bytes for code blocks.
type line struct {
	num    int    // 1-based line number in the note
	indent int    // leading columns, tabs expanded
	body   string // NFC text after the leading whitespace, right-trimmed
	text   string // the line as written
}

func (l line) blank() bool { return l.body == "" }

func splitLines(src string) []line {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.ReplaceAll(src, "\r", "\n")
	raw := strings.Split(src, "\n")
	out := make([]line, len(raw))
	for i, r := range raw {
		out[i] = newLine(i+1, r)
	}
	return out
}

func newLine(num int, raw string) line {
	indent := 0
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case ' ':
			indent++
		case '\t':
			indent += tabStop - indent%tabStop
		default:
			body := norm.NFC.String(strings.TrimRight(raw[i:], " \t"))
			return line{num: num, indent: indent, body: body, text: raw}
		}
	}
	return line{num: num, indent: indent, text: raw}
}

// afterIndent is text without its leading whitespace.
func (l line) afterIndent() string {
	return strings.TrimLeft(l.text, " \t")
}

// verbatim returns the original text minus at most strip columns of leading
// whitespace. A tab that straddles the strip boundary leaves its remaining
// columns as spaces.
func (l line) verbatim(strip int) string {
	col := 0
	for i := 0; i < len(l.text) && col < strip; i++ {
		switch l.text[i] {
		case ' ':
			col++
		case '\t':
			next := col + tabStop - col%tabStop
			if next > strip {
				return strings.Repeat(" ", next-strip) + l.text[i+1:]
			}
			col = next
		default:
			return l.text[i:]
		}
		if col == strip {
			return l.text[i+1:]
		}
	}
	if strip <= 0 {
		return l.text
	}
	return ""
}

// cursor walks a slice of lines with one line of lookahead.
type cursor struct {
	lines []line
	off   int
}

func (c *cursor) eof() bool { return c.off >= len(c.lines) }

// peek returns the current line; ok is false at end of input.
func (c *cursor) peek() (line, bool) {
	if c.eof() {
		return line{}, false
	}
	return c.lines[c.off], true
}

// peekNonBlank returns the first non-blank line at or after the cursor and
// its offset, without moving.
func (c *cursor) peekNonBlank() (line, int, bool) {
	for i := c.off; i < len(c.lines); i++ {
		if !c.lines[i].blank() {
			return c.lines[i], i, true
		}
	}
	return line{}, len(c.lines), false
}

func (c *cursor) bump() line {
	l := c.lines[c.off]
	c.off++
	return l
}

func (c *cursor) mark() int   { return c.off }
func (c *cursor) reset(m int) { c.off = m }
