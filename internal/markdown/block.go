package markdown

import (
	"strconv"
	"strings"

	"fortio.org/safecast"

	"semdoc/internal/diag"
)

// Parse converts a Markdown note into blocks in document order. It never
// fails: anything outside the supported subset degrades to literal text.
func Parse(src string) []Block {
	return ParseWithOptions(src, Options{})
}

// ParseWithOptions is Parse with a diagnostics sink. Reporting does not change
// the result.
func ParseWithOptions(src string, opts Options) []Block {
	p := &parser{opts: opts}
	return p.blocks(splitLines(src))
}

var knownAdmonitions = map[string]bool{
	"NOTE":      true,
	"TIP":       true,
	"IMPORTANT": true,
	"WARNING":   true,
	"CAUTION":   true,
}

type parser struct {
	opts Options
}

func (p *parser) blocks(lines []line) []Block {
	c := &cursor{lines: lines}
	var out []Block
	for {
		l, ok := c.peek()
		if !ok {
			return out
		}
		if l.blank() {
			c.bump()
			continue
		}
		// Admonitions are also quote lines, so they are checked first.
		switch {
		case isFence(l):
			out = append(out, p.fence(c))
		case isAdmonition(l):
			out = append(out, p.admonition(c))
		case isQuote(l):
			out = append(out, p.quote(c))
		case isHeading(l):
			out = append(out, p.heading(c))
		default:
			if m, ok := parseMarker(l); ok {
				out = append(out, p.list(c, m))
			} else {
				out = append(out, p.paragraph(c))
			}
		}
	}
}

func (p *parser) fence(c *cursor) Block {
	open := c.bump()
	n, info, _ := fenceOpen(open)
	m := c.mark()

	var body []string
	for !c.eof() {
		l := c.bump()
		if isFenceClose(l, n) {
			lang := ""
			if f := strings.Fields(info); len(f) > 0 {
				lang = f[0]
			}
			return CodeBlock{Language: lang, Text: strings.Join(body, "\n")}
		}
		body = append(body, l.verbatim(open.indent))
	}

	c.reset(m)
	p.opts.report(diag.DocUnterminatedFence, diag.SevWarning, diag.Pos{Line: open.num, Col: open.indent + 1},
		"code fence is never closed; the opening line is kept as text")
	return Paragraph{Spans: []Span{Text{Value: open.body}}}
}

func (p *parser) admonition(c *cursor) Block {
	head := c.bump()
	kind, rest, _ := admonitionHead(head.body)
	if !knownAdmonitions[kind] {
		p.opts.report(diag.DocUnknownAdmonition, diag.SevInfo, diag.Pos{Line: head.num, Col: head.indent + 1},
			"unknown admonition kind "+strconv.Quote(kind))
	}

	var parts []string
	if rest != "" {
		parts = append(parts, rest)
	}
loop:
	for {
		l, ok := c.peek()
		if !ok || l.blank() || isAdmonition(l) {
			break
		}
		switch {
		case isQuote(l):
			if s := strings.TrimSpace(stripQuote(l.body)); s != "" {
				parts = append(parts, s)
			}
		case isLazy(l):
			parts = append(parts, l.body)
		default:
			break loop
		}
		c.bump()
	}
	return Admonition{
		Kind:  kind,
		Spans: p.inline(strings.Join(parts, " "), diag.Pos{Line: head.num, Col: head.indent + 1}),
	}
}

func (p *parser) quote(c *cursor) Block {
	var inner []line
loop:
	for {
		l, ok := c.peek()
		if !ok || l.blank() {
			break
		}
		if len(inner) > 0 && isAdmonition(l) {
			break
		}
		switch {
		case isQuote(l):
			inner = append(inner, newLine(l.num, stripQuote(l.afterIndent())))
		case len(inner) > 0 && isLazy(l) && !inner[len(inner)-1].blank():
			inner = append(inner, l)
		default:
			break loop
		}
		c.bump()
	}
	return Blockquote{Blocks: p.blocks(inner)}
}

func (p *parser) heading(c *cursor) Block {
	l := c.bump()
	level, rest := headingParts(l.body)
	return Heading{
		Level: level,
		Spans: p.inline(rest, diag.Pos{Line: l.num, Col: l.indent + level + 2}),
	}
}

type listItem struct {
	pos   diag.Pos
	parts []string
}

func (p *parser) list(c *cursor, first marker) Block {
	base := c.lines[c.off].indent
	var items []*listItem

	for {
		l, ok := c.peek()
		if !ok {
			break
		}
		if l.blank() {
			next, at, ok := c.peekNonBlank()
			if !ok || !continuesList(next, first.kind, base) {
				break
			}
			c.reset(at)
			continue
		}
		if m, ok := parseMarker(l); ok {
			if m.kind != first.kind && l.indent <= base {
				break
			}
			c.bump()
			items = append(items, &listItem{pos: diag.Pos{Line: l.num, Col: l.indent + m.width + 1}})
			if m.content != "" {
				items[len(items)-1].parts = append(items[len(items)-1].parts, m.content)
			}
			continue
		}
		// Without a blank line in between, plain text continues the last
		// item even when it is not indented.
		if isFence(l) || isQuote(l) || isHeading(l) {
			break
		}
		c.bump()
		last := items[len(items)-1]
		last.parts = append(last.parts, strings.TrimSuffix(l.body, "\\"))
	}

	spans := make([][]Span, len(items))
	for i, it := range items {
		spans[i] = p.inline(strings.Join(it.parts, " "), it.pos)
	}
	if first.kind == orderedList {
		return OrderedList{Start: first.number, Items: spans}
	}
	return UnorderedList{Items: spans}
}

// continuesList reports whether next, seen after blank lines, keeps a list of
// kind open: either another marker of the same kind or an indented line.
func continuesList(next line, kind listKind, base int) bool {
	if m, ok := parseMarker(next); ok {
		return m.kind == kind || next.indent > base
	}
	return next.indent > base && !isFence(next) && !isQuote(next) && !isHeading(next)
}

func (p *parser) paragraph(c *cursor) Block {
	first, _ := c.peek()
	var parts []string
	for {
		l, ok := c.peek()
		if !ok || l.blank() {
			break
		}
		if len(parts) > 0 && interruptsParagraph(l) {
			break
		}
		if n := hashRun(l.body); n > 6 && (n == len(l.body) || l.body[n] == ' ') {
			p.opts.report(diag.DocHeadingTooDeep, diag.SevInfo, diag.Pos{Line: l.num, Col: l.indent + 1},
				"headings stop at level 6; the line is kept as text")
		}
		c.bump()
		parts = append(parts, strings.TrimSuffix(l.body, "\\"))
	}
	return Paragraph{Spans: p.inline(strings.Join(parts, " "), diag.Pos{Line: first.num, Col: first.indent + 1})}
}

func interruptsParagraph(l line) bool {
	if isFence(l) || isQuote(l) || isHeading(l) {
		return true
	}
	m, ok := parseMarker(l)
	if !ok || m.content == "" {
		return false
	}
	return m.kind == bulletList || m.number == 1
}

// isLazy reports whether l may continue an open list item or quote without
// its own marker: plain text that starts no other construct.
func isLazy(l line) bool {
	if l.blank() || isFence(l) || isQuote(l) || isHeading(l) {
		return false
	}
	_, marker := parseMarker(l)
	return !marker
}

func isQuote(l line) bool {
	return strings.HasPrefix(l.body, ">")
}

// stripQuote removes one '>' and one optional following space.
func stripQuote(body string) string {
	rest := strings.TrimPrefix(body, ">")
	if strings.HasPrefix(rest, " ") || strings.HasPrefix(rest, "\t") {
		rest = rest[1:]
	}
	return rest
}

func isAdmonition(l line) bool {
	_, _, ok := admonitionHead(l.body)
	return ok
}

// admonitionHead matches "> [!KIND] rest" with KIND made of ASCII letters.
func admonitionHead(body string) (kind, rest string, ok bool) {
	if !strings.HasPrefix(body, ">") {
		return "", "", false
	}
	s := strings.TrimLeft(body[1:], " \t")
	if !strings.HasPrefix(s, "[!") {
		return "", "", false
	}
	end := strings.IndexByte(s, ']')
	if end < 3 {
		return "", "", false
	}
	for i := 2; i < end; i++ {
		ch := s[i]
		if (ch < 'a' || ch > 'z') && (ch < 'A' || ch > 'Z') {
			return "", "", false
		}
	}
	return strings.ToUpper(s[2:end]), strings.TrimSpace(s[end+1:]), true
}

func hashRun(body string) int {
	n := 0
	for n < len(body) && body[n] == '#' {
		n++
	}
	return n
}

func isHeading(l line) bool {
	n := hashRun(l.body)
	if n == 0 || n > 6 {
		return false
	}
	return n == len(l.body) || l.body[n] == ' ' || l.body[n] == '\t'
}

// headingParts splits a valid heading line into its level and text, dropping
// an optional closing '#' sequence.
func headingParts(body string) (int, string) {
	n := hashRun(body)
	rest := strings.TrimSpace(body[n:])
	trimmed := strings.TrimRight(rest, "#")
	switch {
	case trimmed == "":
		rest = ""
	case strings.HasSuffix(trimmed, " ") || strings.HasSuffix(trimmed, "\t"):
		rest = strings.TrimSpace(trimmed)
	}
	return n, rest
}

func fenceOpen(l line) (n int, info string, ok bool) {
	for n < len(l.body) && l.body[n] == '`' {
		n++
	}
	if n < 3 {
		return 0, "", false
	}
	info = strings.TrimSpace(l.body[n:])
	if strings.Contains(info, "`") {
		return 0, "", false
	}
	return n, info, true
}

func isFence(l line) bool {
	_, _, ok := fenceOpen(l)
	return ok
}

func isFenceClose(l line, n int) bool {
	k := 0
	for k < len(l.body) && l.body[k] == '`' {
		k++
	}
	return k >= n && k == len(l.body)
}

type listKind uint8

const (
	bulletList listKind = iota + 1
	orderedList
)

type marker struct {
	kind    listKind
	number  int
	width   int // marker plus following space
	content string
}

const maxOrderedDigits = 9

func parseMarker(l line) (marker, bool) {
	b := l.body
	if b == "" {
		return marker{}, false
	}
	switch b[0] {
	case '-', '*', '+':
		if len(b) == 1 {
			return marker{kind: bulletList, width: 1}, true
		}
		if b[1] == ' ' || b[1] == '\t' {
			return marker{kind: bulletList, width: 2, content: strings.TrimSpace(b[2:])}, true
		}
		return marker{}, false
	}

	i := 0
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}
	if i == 0 || i > maxOrderedDigits || i >= len(b) || b[i] != '.' {
		return marker{}, false
	}
	rest := b[i+1:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return marker{}, false
	}
	v, err := strconv.ParseUint(b[:i], 10, 32)
	if err != nil {
		return marker{}, false
	}
	num, err := safecast.Conv[int](v)
	if err != nil {
		return marker{}, false
	}
	return marker{kind: orderedList, number: num, width: i + 2, content: strings.TrimSpace(rest)}, true
}
