package comment

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MarkupMarkdown = "markdown"
	MarkupHTML     = "html"

	LinkInline    = "inline"    // label (url)
	LinkColon     = "colon"     // label: url
	LinkMarkdown  = "markdown"  // [label](url)
	LinkReference = "reference" // [label][n] plus "[n]: url" definitions

	CodeBacktick = "backtick" // `code`
	CodeHTML     = "html"     // <code>code</code>
	CodeJavadoc  = "javadoc"  // {@code code}

	WidthRunes = "runes"
	WidthCells = "cells"

	DotKeep    = "keep"
	DotRemove  = "remove"
	DotEnforce = "enforce"

	maxListIndent = 8
)

// Config is the decodable form of a comment format. Empty string options take
// their documented default when the Config becomes a Descriptor.
type Config struct {
	LinePrefix      string            `toml:"line_prefix" json:"line_prefix"`
	BlockOpen       string            `toml:"block_open" json:"block_open"`
	BlockClose      string            `toml:"block_close" json:"block_close"`
	CloseEscape     string            `toml:"close_escape" json:"close_escape"`
	MaxWidth        int               `toml:"max_width" json:"max_width"`
	Escapes         map[string]string `toml:"escapes" json:"escapes"`
	AllowBlankLines bool              `toml:"allow_blank_lines" json:"allow_blank_lines"`
	Markup          string            `toml:"markup" json:"markup"`
	LinkStyle       string            `toml:"link_style" json:"link_style"`
	CodeStyle       string            `toml:"code_style" json:"code_style"`
	KeepEmphasis    bool              `toml:"keep_emphasis" json:"keep_emphasis"`
	ListIndent      int               `toml:"list_indent" json:"list_indent"`
	WidthMode       string            `toml:"width_mode" json:"width_mode"`
	CodeLanguage    string            `toml:"code_language" json:"code_language"`
	TrailingDot     string            `toml:"trailing_dot" json:"trailing_dot"`
}

// Validate checks every option. It does not apply defaults.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MaxWidth, validation.Required, validation.Min(1)),
		validation.Field(&c.LinePrefix, validation.By(singleLine)),
		validation.Field(&c.BlockOpen, validation.By(singleLine)),
		validation.Field(&c.BlockClose, validation.By(delimiter)),
		validation.Field(&c.CloseEscape, validation.By(singleLine)),
		validation.Field(&c.Escapes, validation.By(validEscapes)),
		validation.Field(&c.Markup, validation.In(MarkupMarkdown, MarkupHTML)),
		validation.Field(&c.LinkStyle, validation.In(LinkInline, LinkColon, LinkMarkdown, LinkReference)),
		validation.Field(&c.CodeStyle, validation.In(CodeBacktick, CodeHTML, CodeJavadoc)),
		validation.Field(&c.ListIndent, validation.Min(0), validation.Max(maxListIndent)),
		validation.Field(&c.WidthMode, validation.In(WidthRunes, WidthCells)),
		validation.Field(&c.CodeLanguage, validation.By(noWhitespace)),
		validation.Field(&c.TrailingDot, validation.In(DotKeep, DotRemove, DotEnforce)),
	)
}

func (c Config) withDefaults() Config {
	if c.Markup == "" {
		c.Markup = MarkupMarkdown
	}
	if c.LinkStyle == "" {
		c.LinkStyle = LinkInline
	}
	if c.CodeStyle == "" {
		c.CodeStyle = CodeBacktick
		if c.Markup == MarkupHTML {
			c.CodeStyle = CodeHTML
		}
	}
	if c.WidthMode == "" {
		c.WidthMode = WidthRunes
	}
	if c.TrailingDot == "" {
		c.TrailingDot = DotKeep
	}
	if len(c.Escapes) > 0 {
		esc := make(map[string]string, len(c.Escapes))
		for k, v := range c.Escapes {
			esc[k] = v
		}
		c.Escapes = esc
	}
	return c
}

func singleLine(value any) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, "\r\n") {
		return validation.NewError("comment.single_line", "must not contain line breaks")
	}
	return nil
}

func noWhitespace(value any) error {
	s, _ := value.(string)
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return validation.NewError("comment.no_whitespace", "must not contain whitespace")
	}
	return nil
}

// delimiter allows surrounding spaces (" */") but no inner whitespace.
func delimiter(value any) error {
	s, _ := value.(string)
	if err := singleLine(s); err != nil {
		return err
	}
	if s != "" && strings.TrimSpace(s) == "" {
		return validation.NewError("comment.delimiter", "must not be blank")
	}
	return noWhitespace(strings.TrimSpace(s))
}

func validEscapes(value any) error {
	rules, _ := value.(map[string]string)
	for from, to := range rules {
		r, size := utf8.DecodeRuneInString(from)
		if from == "" || size != len(from) || r == utf8.RuneError {
			return validation.NewError("comment.escape_key", fmt.Sprintf("key %q must be a single character", from))
		}
		if unicode.IsSpace(r) {
			return validation.NewError("comment.escape_key", fmt.Sprintf("key %q must not be whitespace", from))
		}
		if to == "" {
			return validation.NewError("comment.escape_value", fmt.Sprintf("escape for %q must not be empty", from))
		}
		if strings.ContainsAny(to, "\r\n") {
			return validation.NewError("comment.escape_value", fmt.Sprintf("escape for %q must not contain line breaks", from))
		}
	}
	if cycle := escapeCycle(rules); cycle != "" {
		return validation.NewError("comment.escape_cycle", "escape rules form a cycle: "+cycle)
	}
	return nil
}
