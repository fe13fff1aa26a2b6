package markdown

import (
	"strings"
	"unicode/utf8"

	"semdoc/internal/diag"
)

func (p *parser) inline(s string, base diag.Pos) []Span {
	return parseInline(s, base, p.opts)
}

// inlineParser scans one block's joined text. Priority at any position is
// code span, link, bold, italic, then text.
type inlineParser struct {
	opts Options
	src  string
	base diag.Pos
	out  []Span
	text strings.Builder
}

func parseInline(s string, base diag.Pos, opts Options) []Span {
	ip := &inlineParser{opts: opts, src: s, base: base}
	ip.run()
	return ip.out
}

func (ip *inlineParser) run() {
	s := ip.src
	for i := 0; i < len(s); {
		switch c := s[i]; c {
		case '\\':
			if i+1 < len(s) && isASCIIPunct(s[i+1]) {
				ip.text.WriteByte(s[i+1])
				i += 2
				continue
			}
			ip.text.WriteByte(c)
			i++
		case '`':
			i = ip.codeSpan(i)
		case '[':
			i = ip.link(i)
		case '*', '_':
			i = ip.emphasis(i)
		default:
			ip.text.WriteByte(c)
			i++
		}
	}
	ip.flush()
}

func (ip *inlineParser) flush() {
	if ip.text.Len() == 0 {
		return
	}
	ip.out = append(ip.out, Text{Value: ip.text.String()})
	ip.text.Reset()
}

func (ip *inlineParser) emit(sp Span) {
	ip.flush()
	ip.out = append(ip.out, sp)
}

func (ip *inlineParser) posAt(i int) diag.Pos {
	return diag.Pos{Line: ip.base.Line, Col: ip.base.Col + utf8.RuneCountInString(ip.src[:i])}
}

func (ip *inlineParser) codeSpan(i int) int {
	s := ip.src
	n := runLen(s, i, '`')
	j := findCodeClose(s, i+n, n)
	if j < 0 {
		ip.opts.report(diag.DocUnmatchedCode, diag.SevInfo, ip.posAt(i), "backtick run has no closing run of the same length")
		ip.text.WriteString(s[i : i+n])
		return i + n
	}
	content := s[i+n : j]
	if len(content) >= 2 && content[0] == ' ' && content[len(content)-1] == ' ' && strings.Trim(content, " ") != "" {
		content = content[1 : len(content)-1]
	}
	ip.emit(Code{Value: content})
	return j + n
}

func (ip *inlineParser) link(i int) int {
	s := ip.src
	closeAt := matchBracket(s, i)
	if closeAt < 0 || closeAt+1 >= len(s) || s[closeAt+1] != '(' {
		ip.text.WriteByte('[')
		return i + 1
	}
	end := matchParen(s, closeAt+1)
	if end < 0 {
		ip.opts.report(diag.DocUnmatchedLink, diag.SevInfo, ip.posAt(i), "link destination is never closed with ')'")
		ip.text.WriteByte('[')
		return i + 1
	}
	ip.emit(Link{
		Label: parseInline(s[i+1:closeAt], ip.posAt(i+1), ip.opts),
		URL:   cleanURL(s[closeAt+2 : end]),
	})
	return end + 1
}

func (ip *inlineParser) emphasis(i int) int {
	s := ip.src
	c := s[i]
	if i+1 < len(s) && s[i+1] == c {
		if j := findEmphasisClose(s, i, 2); j >= 0 {
			ip.emit(Bold{Spans: parseInline(s[i+2:j], ip.posAt(i+2), ip.opts)})
			return j + 2
		}
		ip.text.WriteString(s[i : i+2])
		return i + 2
	}
	if j := findEmphasisClose(s, i, 1); j >= 0 {
		ip.emit(Italic{Spans: parseInline(s[i+1:j], ip.posAt(i+1), ip.opts)})
		return j + 1
	}
	ip.text.WriteByte(c)
	return i + 1
}

// findEmphasisClose returns the offset of the delimiter closing the n-char
// run opened at i, or -1. Code spans and escapes are skipped, so a closing
// delimiter inside backticks never counts.
func findEmphasisClose(s string, i, n int) int {
	c := s[i]
	start := i + n
	if start >= len(s) || isSpace(s[start]) {
		return -1
	}
	if c == '_' && i > 0 && isWordByte(s[i-1]) {
		return -1
	}

	for k := start; k < len(s); k++ {
		switch s[k] {
		case '\\':
			k++
			continue
		case '`':
			k = skipCode(s, k) - 1
			continue
		}
		if s[k] != c {
			continue
		}

		m := runLen(s, k, c)
		var at int
		switch {
		case n == 1 && m == 2, n == 2 && m == 1:
			k += m - 1
			continue
		case n == 1:
			at = k + m - 1
		default:
			at = k + m - 2
		}
		k += m - 1

		if at <= start || isSpace(s[at-1]) {
			continue
		}
		if c == '_' && at+n < len(s) && isWordByte(s[at+n]) {
			continue
		}
		return at
	}
	return -1
}

// skipCode returns the offset just past the code span starting at k, or past
// the backtick run when it is unmatched.
func skipCode(s string, k int) int {
	n := runLen(s, k, '`')
	if j := findCodeClose(s, k+n, n); j >= 0 {
		return j + n
	}
	return k + n
}

func findCodeClose(s string, from, n int) int {
	for k := from; k < len(s); {
		if s[k] != '`' {
			k++
			continue
		}
		m := runLen(s, k, '`')
		if m == n {
			return k
		}
		k += m
	}
	return -1
}

func matchBracket(s string, open int) int {
	depth := 0
	for k := open; k < len(s); k++ {
		switch s[k] {
		case '\\':
			k++
		case '`':
			k = skipCode(s, k) - 1
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return k
			}
		}
	}
	return -1
}

func matchParen(s string, open int) int {
	depth := 0
	for k := open; k < len(s); k++ {
		switch s[k] {
		case '\\':
			k++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return k
			}
		}
	}
	return -1
}

// cleanURL drops angle brackets and an optional link title.
func cleanURL(u string) string {
	u = strings.TrimSpace(u)
	if strings.HasPrefix(u, "<") {
		if end := strings.IndexByte(u, '>'); end > 0 {
			return u[1:end]
		}
	}
	if sp := strings.IndexAny(u, " \t"); sp >= 0 {
		u = u[:sp]
	}
	return u
}

func runLen(s string, i int, c byte) int {
	n := 0
	for i+n < len(s) && s[i+n] == c {
		n++
	}
	return n
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n'
}

// isWordByte treats every non-ASCII byte as part of a word.
func isWordByte(b byte) bool {
	return b >= utf8.RuneSelf || b == '_' ||
		(b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isASCIIPunct(b byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", b) >= 0
}
