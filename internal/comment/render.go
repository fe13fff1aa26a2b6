package comment

import (
	"strconv"
	"strings"

	"semdoc/internal/markdown"
)

type renderer struct {
	d    *Descriptor
	cfg  Config
	refs []string // reference link targets in first-use order
}

// Render formats brief and blocks as one comment in format d. It is a pure
// function of its arguments; d must not be nil.
//
// The result has no trailing newline. Lines are, in order: block_open, the
// brief, an optional separator, the body, reference definitions when
// link_style is "reference", and block_close.
func Render(brief string, blocks []markdown.Block, d *Descriptor) string {
	return Layout(brief, blocks, d).Text
}

// Rendered is a rendered comment with the lines that came from code blocks
// marked. Code lines are copied as written and may exceed max_width.
type Rendered struct {
	Text string
	// Code[i] reports whether line i+1 of Text belongs to a code block,
	// its fences included.
	Code []bool
}

// Layout renders like Render and also reports which lines hold code.
func Layout(brief string, blocks []markdown.Block, d *Descriptor) Rendered {
	r := &renderer{d: d, cfg: d.cfg}
	w := newLineWriter(d.cfg.LinePrefix, d.esc.guard)
	avail := d.cfg.MaxWidth - d.Width(d.cfg.LinePrefix)

	if d.cfg.BlockOpen != "" {
		w.Raw(d.cfg.BlockOpen)
	}
	w.Line(r.brief(brief))

	body := r.blocks(blocks, avail)
	if len(r.refs) > 0 {
		if r.cfg.AllowBlankLines {
			body = append(body, bodyLine{})
		}
		for i, url := range r.refs {
			body = append(body, bodyLine{text: d.esc.guard("[" + strconv.Itoa(i+1) + "]: " + r.literal(url))})
		}
	}
	if len(body) > 0 && r.cfg.AllowBlankLines {
		w.Line("")
	}
	for _, l := range body {
		if l.code {
			w.Code(l.text)
		} else {
			w.Line(l.text)
		}
	}

	if d.cfg.BlockClose != "" {
		w.Raw(d.cfg.BlockClose)
	}
	return Rendered{Text: w.String(), Code: w.code}
}

// bodyLine is one content line before the prefix is added.
type bodyLine struct {
	text string
	code bool
}

func asLines(ss []string, code bool) []bodyLine {
	out := make([]bodyLine, len(ss))
	for i, s := range ss {
		out[i] = bodyLine{text: s, code: code}
	}
	return out
}

// brief collapses whitespace, applies the trailing dot policy and escapes.
// It is never wrapped.
func (r *renderer) brief(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	last := len(fields) - 1
	switch r.cfg.TrailingDot {
	case DotRemove:
		fields[last] = strings.TrimRight(fields[last], ".")
		if fields[last] == "" {
			fields = fields[:last]
		}
	case DotEnforce:
		if !strings.HasSuffix(fields[last], ".") {
			fields[last] += "."
		}
	}
	for i, f := range fields {
		fields[i] = r.d.esc.guard(r.literal(f))
	}
	return strings.Join(fields, " ")
}

// blocks renders bs into content lines that fit avail columns, separated by
// empty lines when the format allows them.
func (r *renderer) blocks(bs []markdown.Block, avail int) []bodyLine {
	var out []bodyLine
	for _, b := range bs {
		var lines []bodyLine
		if r.cfg.Markup == MarkupHTML {
			lines = r.htmlBlock(b, avail)
		} else {
			lines = r.block(b, avail)
		}
		if len(lines) == 0 {
			continue
		}
		if len(out) > 0 && r.cfg.AllowBlankLines {
			out = append(out, bodyLine{})
		}
		out = append(out, lines...)
	}
	return out
}

func (r *renderer) block(b markdown.Block, avail int) []bodyLine {
	switch b := b.(type) {
	case markdown.Paragraph:
		return asLines(wrap(r.spanWords(b.Spans), avail, avail), false)
	case markdown.Heading:
		lead := strings.Repeat("#", b.Level) + " "
		return asLines(r.lead(lead, strings.Repeat(" ", len(lead)), r.spanWords(b.Spans), avail), false)
	case markdown.UnorderedList:
		return asLines(r.list(b.Items, avail, func(int) string { return "- " }), false)
	case markdown.OrderedList:
		return asLines(r.list(b.Items, avail, func(i int) string { return strconv.Itoa(b.Start+i) + ". " }), false)
	case markdown.Blockquote:
		return quote(r.blocks(b.Blocks, avail-2))
	case markdown.Admonition:
		return asLines(r.lead("> [!"+b.Kind+"] ", "> ", r.spanWords(b.Spans), avail), false)
	case markdown.CodeBlock:
		return asLines(r.codeBlock(b), true)
	default:
		panic("comment: unhandled block type")
	}
}

func (r *renderer) list(items [][]markdown.Span, avail int, marker func(int) string) []string {
	indent := strings.Repeat(" ", r.cfg.ListIndent)
	var out []string
	for i, item := range items {
		first := indent + marker(i)
		out = append(out, r.lead(first, strings.Repeat(" ", r.d.Width(first)), r.spanWords(item), avail)...)
	}
	return out
}

// lead wraps words behind first on the first line and cont on the others.
func (r *renderer) lead(first, cont string, words []word, avail int) []string {
	lines := wrap(words, avail-r.d.Width(first), avail-r.d.Width(cont))
	if len(lines) == 0 {
		return []string{strings.TrimRight(first, " ")}
	}
	for i := range lines {
		if i == 0 {
			lines[i] = first + lines[i]
		} else {
			lines[i] = cont + lines[i]
		}
	}
	return lines
}

func quote(lines []bodyLine) []bodyLine {
	out := make([]bodyLine, len(lines))
	for i, l := range lines {
		out[i] = l
		if l.text == "" {
			out[i].text = ">"
		} else {
			out[i].text = "> " + l.text
		}
	}
	return out
}

// codeBlock copies the content verbatim inside a fence long enough not to be
// closed by the content. Only the close guard applies.
func (r *renderer) codeBlock(b markdown.CodeBlock) []string {
	fence := strings.Repeat("`", max(3, longestRun(b.Text, '`')+1))
	lang := b.Language
	if lang == "" {
		lang = r.cfg.CodeLanguage
	}
	out := []string{r.d.esc.guard(fence + lang)}
	if b.Text != "" {
		for _, l := range strings.Split(b.Text, "\n") {
			out = append(out, r.d.esc.guard(l))
		}
	}
	return append(out, fence)
}
