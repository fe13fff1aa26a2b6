package comment

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark/util"

	"semdoc/internal/markdown"
)

// htmlBlock renders b as Javadoc-style HTML. Tags are atoms, so a tag with
// attributes is never split across lines.
func (r *renderer) htmlBlock(b markdown.Block, avail int) []bodyLine {
	switch b := b.(type) {
	case markdown.Paragraph:
		return asLines(append([]string{"<p>"}, wrap(r.spanWords(b.Spans), avail, avail)...), false)
	case markdown.Heading:
		tag := "h" + strconv.Itoa(b.Level)
		return asLines(wrap(r.tagged("<"+tag+">", b.Spans, "</"+tag+">"), avail, avail), false)
	case markdown.UnorderedList:
		return asLines(r.htmlList("<ul>", "</ul>", b.Items, avail), false)
	case markdown.OrderedList:
		open := "<ol>"
		if b.Start != 1 {
			open = `<ol start="` + strconv.Itoa(b.Start) + `">`
		}
		return asLines(r.htmlList(open, "</ol>", b.Items, avail), false)
	case markdown.Blockquote:
		out := []bodyLine{{text: "<blockquote>"}}
		out = append(out, r.blocks(b.Blocks, avail)...)
		return append(out, bodyLine{text: "</blockquote>"})
	case markdown.Admonition:
		label := "<strong>" + admonitionTitle(b.Kind) + ":</strong>"
		words := r.words(append([]piece{atom(label), text(" ")}, r.pieces(b.Spans)...))
		out := []string{"<blockquote>"}
		out = append(out, wrap(words, avail, avail)...)
		return asLines(append(out, "</blockquote>"), false)
	case markdown.CodeBlock:
		return asLines(r.htmlCode(b), true)
	default:
		panic("comment: unhandled block type")
	}
}

func (r *renderer) tagged(open string, spans []markdown.Span, close string) []word {
	pieces := append([]piece{atom(open)}, r.pieces(spans)...)
	return r.words(append(pieces, atom(close)))
}

func (r *renderer) htmlList(open, close string, items [][]markdown.Span, avail int) []string {
	first := strings.Repeat(" ", r.cfg.ListIndent) + "<li>"
	out := []string{open}
	for _, item := range items {
		out = append(out, r.lead(first, "", r.spanWords(item), avail)...)
	}
	return append(out, close)
}

func (r *renderer) htmlCode(b markdown.CodeBlock) []string {
	lang := b.Language
	if lang == "" {
		lang = r.cfg.CodeLanguage
	}
	open, close := "<pre>", "</pre>"
	if lang != "" {
		open = `<pre><code class="language-` + string(util.EscapeHTML([]byte(lang))) + `">`
		close = "</code></pre>"
	}
	out := []string{open}
	if b.Text != "" {
		for _, l := range strings.Split(b.Text, "\n") {
			out = append(out, r.d.esc.guard(string(util.EscapeHTML([]byte(l)))))
		}
	}
	return append(out, close)
}

func admonitionTitle(kind string) string {
	if kind == "" {
		return ""
	}
	return kind[:1] + strings.ToLower(kind[1:])
}
