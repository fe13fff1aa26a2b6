package markdown

import "strings"

// Block is a structural unit of a parsed note. The set of variants is closed:
// Paragraph, Heading, UnorderedList, OrderedList, Blockquote, Admonition and
// CodeBlock.
type Block interface {
	block()
}

// Span is an inline unit inside a block. The set of variants is closed: Text,
// Bold, Italic, Code and Link.
type Span interface {
	span()
}

type Paragraph struct {
	Spans []Span
}

type Heading struct {
	Level int // 1..6
	Spans []Span
}

type UnorderedList struct {
	Items [][]Span
}

type OrderedList struct {
	Start int // number of the first item
	Items [][]Span
}

// Blockquote holds the blocks parsed from the quoted lines.
type Blockquote struct {
	Blocks []Block
}

// Admonition is a "> [!KIND] text" callout. Kind is upper-case ASCII.
type Admonition struct {
	Kind  string
	Spans []Span
}

// CodeBlock holds fenced content verbatim. Lines are joined with "\n".
type CodeBlock struct {
	Language string
	Text     string
}

func (Paragraph) block()     {}
func (Heading) block()       {}
func (UnorderedList) block() {}
func (OrderedList) block()   {}
func (Blockquote) block()    {}
func (Admonition) block()    {}
func (CodeBlock) block()     {}

type Text struct {
	Value string
}

type Bold struct {
	Spans []Span
}

type Italic struct {
	Spans []Span
}

// Code is an inline code span; Value excludes the backticks.
type Code struct {
	Value string
}

type Link struct {
	Label []Span
	URL   string
}

func (Text) span()   {}
func (Bold) span()   {}
func (Italic) span() {}
func (Code) span()   {}
func (Link) span()   {}

// PlainText concatenates the literal text of spans, dropping all markup.
// Links contribute their label only.
func PlainText(spans []Span) string {
	var sb strings.Builder
	writePlain(&sb, spans)
	return sb.String()
}

func writePlain(sb *strings.Builder, spans []Span) {
	for _, s := range spans {
		switch s := s.(type) {
		case Text:
			sb.WriteString(s.Value)
		case Code:
			sb.WriteString(s.Value)
		case Bold:
			writePlain(sb, s.Spans)
		case Italic:
			writePlain(sb, s.Spans)
		case Link:
			writePlain(sb, s.Label)
		}
	}
}
