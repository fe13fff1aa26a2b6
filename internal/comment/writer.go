package comment

import "strings"

// lineWriter accumulates comment lines. Content lines get the line prefix
// and pass through guard once more as a whole, since markers and words can
// meet to form the close delimiter; delimiter lines are written as given.
type lineWriter struct {
	prefix string
	guard  func(string) string
	buf    strings.Builder
	code   []bool // one entry per line written
}

func newLineWriter(prefix string, guard func(string) string) *lineWriter {
	return &lineWriter{prefix: prefix, guard: guard}
}

func (w *lineWriter) newline(code bool) {
	if len(w.code) > 0 {
		w.buf.WriteByte('\n')
	}
	w.code = append(w.code, code)
}

// Line writes prefix+content. An empty content line carries the prefix
// without its trailing whitespace.
func (w *lineWriter) Line(content string) {
	w.line(content, false)
}

// Code writes a line copied from a code block.
func (w *lineWriter) Code(content string) {
	w.line(content, true)
}

func (w *lineWriter) line(content string, code bool) {
	w.newline(code)
	if content == "" {
		w.buf.WriteString(strings.TrimRight(w.prefix, " \t"))
		return
	}
	w.buf.WriteString(w.prefix)
	w.buf.WriteString(w.guard(content))
}

// Raw writes s on its own line without the prefix.
func (w *lineWriter) Raw(s string) {
	w.newline(false)
	w.buf.WriteString(s)
}

func (w *lineWriter) String() string {
	return w.buf.String()
}
