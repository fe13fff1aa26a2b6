package comment

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark/util"

	"semdoc/internal/markdown"
)

// piece is a run of output. Text pieces hold raw literal text where
// whitespace may become a line break; atoms are final output that never
// breaks (code spans, link targets, markup).
type piece struct {
	s    string
	atom bool
}

func text(s string) piece { return piece{s: s} }
func atom(s string) piece { return piece{s: s, atom: true} }

// literal escapes s as literal text: HTML-escaped in HTML markup, then the
// escape rules. The close guard runs later on whole words.
func (r *renderer) literal(s string) string {
	if r.cfg.Markup == MarkupHTML {
		s = string(util.EscapeHTML([]byte(s)))
	}
	return r.d.esc.rulesOnly(s)
}

// escapeMarkdown backslash-escapes the characters that would start Markdown
// markup. An underscore inside a word never does, so snake_case stays as is.
func escapeMarkdown(s string) string {
	if !strings.ContainsAny(s, "\\`*_[]") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\', '`', '*', '[', ']':
			b.WriteByte('\\')
		case '_':
			if !wordByte(s, i-1) || !wordByte(s, i+1) {
				b.WriteByte('\\')
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

func wordByte(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	c := s[i]
	return c >= utf8.RuneSelf || c == '_' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// prose escapes text taken from the note. Targets that read the comment as
// Markdown get its metacharacters backslash-escaped first, so a literal star
// stays literal.
func (r *renderer) prose(s string) string {
	if r.markdownNative() {
		s = escapeMarkdown(s)
	}
	return r.literal(s)
}

func (r *renderer) markdownNative() bool {
	if r.cfg.Markup == MarkupHTML {
		return false
	}
	return r.cfg.KeepEmphasis || r.cfg.LinkStyle == LinkMarkdown || r.cfg.LinkStyle == LinkReference
}

func (r *renderer) pieces(spans []markdown.Span) []piece {
	var out []piece
	for _, sp := range spans {
		out = r.appendSpan(out, sp)
	}
	return out
}

func (r *renderer) appendSpan(out []piece, sp markdown.Span) []piece {
	html := r.cfg.Markup == MarkupHTML
	switch sp := sp.(type) {
	case markdown.Text:
		return append(out, text(sp.Value))
	case markdown.Code:
		return append(out, atom(r.codeSpan(sp.Value)))
	case markdown.Bold:
		switch {
		case html:
			return r.wrapPieces(out, "<strong>", sp.Spans, "</strong>")
		case r.cfg.KeepEmphasis:
			return r.wrapPieces(out, "**", sp.Spans, "**")
		}
		return append(out, r.pieces(sp.Spans)...)
	case markdown.Italic:
		switch {
		case html:
			return r.wrapPieces(out, "<em>", sp.Spans, "</em>")
		case r.cfg.KeepEmphasis:
			return r.wrapPieces(out, "*", sp.Spans, "*")
		}
		return append(out, r.pieces(sp.Spans)...)
	case markdown.Link:
		return r.appendLink(out, sp)
	default:
		panic("comment: unhandled span type")
	}
}

func (r *renderer) wrapPieces(out []piece, open string, spans []markdown.Span, close string) []piece {
	out = append(out, atom(open))
	out = append(out, r.pieces(spans)...)
	return append(out, atom(close))
}

func (r *renderer) appendLink(out []piece, l markdown.Link) []piece {
	label := l.Label
	if len(label) == 0 || markdown.PlainText(label) == "" {
		label = []markdown.Span{markdown.Text{Value: l.URL}}
	}
	url := r.literal(l.URL)

	if r.cfg.Markup == MarkupHTML {
		out = append(out, atom(`<a href="`+url+`">`))
		out = append(out, r.pieces(label)...)
		return append(out, atom("</a>"))
	}

	switch r.cfg.LinkStyle {
	case LinkMarkdown:
		out = append(out, atom("["))
		out = append(out, r.pieces(label)...)
		return append(out, atom("]("+url+")"))
	case LinkReference:
		out = append(out, atom("["))
		out = append(out, r.pieces(label)...)
		return append(out, atom("]["+strconv.Itoa(r.reference(l.URL))+"]"))
	case LinkColon:
		if markdown.PlainText(label) == l.URL {
			return append(out, atom(url))
		}
		out = append(out, r.pieces(label)...)
		return append(out, atom(":"), text(" "), atom(url))
	default:
		if markdown.PlainText(label) == l.URL {
			return append(out, atom(url))
		}
		out = append(out, r.pieces(label)...)
		return append(out, text(" "), atom("("+url+")"))
	}
}

// reference returns the 1-based number of url in the reference list.
func (r *renderer) reference(url string) int {
	for i, u := range r.refs {
		if u == url {
			return i + 1
		}
	}
	r.refs = append(r.refs, url)
	return len(r.refs)
}

func (r *renderer) codeSpan(content string) string {
	switch r.cfg.CodeStyle {
	case CodeHTML:
		return "<code>" + r.literal(content) + "</code>"
	case CodeJavadoc:
		return "{@code " + r.d.esc.rulesOnly(content) + "}"
	}

	fence := strings.Repeat("`", longestRun(content, '`')+1)
	pad := ""
	if strings.HasPrefix(content, "`") || strings.HasSuffix(content, "`") {
		pad = " "
	}
	return fence + pad + r.d.esc.rulesOnly(content) + pad + fence
}

func longestRun(s string, c byte) int {
	best, cur := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			cur++
			best = max(best, cur)
		} else {
			cur = 0
		}
	}
	return best
}

// words splits pieces at whitespace inside text pieces. Atoms glue to their
// neighbours. Every finished word passes the close guard.
func (r *renderer) words(pieces []piece) []word {
	var (
		out []word
		cur strings.Builder
	)
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		s := r.d.esc.guard(cur.String())
		out = append(out, word{text: s, width: r.d.Width(s)})
		cur.Reset()
	}

	for _, p := range pieces {
		if p.atom {
			cur.WriteString(p.s)
			continue
		}
		s := p.s
		for s != "" {
			i := strings.IndexFunc(s, unicode.IsSpace)
			if i < 0 {
				cur.WriteString(r.prose(s))
				break
			}
			cur.WriteString(r.prose(s[:i]))
			flush()
			_, size := utf8.DecodeRuneInString(s[i:])
			s = s[i+size:]
		}
	}
	flush()
	return out
}

func (r *renderer) spanWords(spans []markdown.Span) []word {
	return r.words(r.pieces(spans))
}
