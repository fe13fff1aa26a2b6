package comment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pythonConfig() Config {
	return Config{
		BlockOpen:       `"""`,
		BlockClose:      `"""`,
		MaxWidth:        120,
		Escapes:         map[string]string{`\`: `\\`, `"`: `\"`},
		AllowBlankLines: true,
	}
}

func TestNewDescriptorRejects(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		msg  string
	}{
		{name: "zero width", cfg: Config{}, msg: "max_width"},
		{name: "negative width", cfg: Config{MaxWidth: -4}, msg: "max_width"},
		{name: "escape cycle", cfg: Config{MaxWidth: 80, Escapes: map[string]string{"a": "b", "b": "a"}}, msg: "cycle"},
		{name: "self escape", cfg: Config{MaxWidth: 80, Escapes: map[string]string{"x": "x"}}, msg: "cycle"},
		{name: "multi-character key", cfg: Config{MaxWidth: 80, Escapes: map[string]string{"ab": "c"}}, msg: "single character"},
		{name: "whitespace key", cfg: Config{MaxWidth: 80, Escapes: map[string]string{" ": "_"}}, msg: "whitespace"},
		{name: "empty replacement", cfg: Config{MaxWidth: 80, Escapes: map[string]string{"x": ""}}, msg: "empty"},
		{name: "multi-line replacement", cfg: Config{MaxWidth: 80, Escapes: map[string]string{"x": "a\nb"}}, msg: "line breaks"},
		{name: "close not neutralised", cfg: Config{MaxWidth: 80, BlockClose: "*/"}, msg: "close_escape"},
		{name: "close escape contains close", cfg: Config{MaxWidth: 80, BlockClose: "*/", CloseEscape: "x*/"}, msg: "contains block_close"},
		{name: "close with inner space", cfg: Config{MaxWidth: 80, BlockClose: "* /", CloseEscape: "x"}, msg: "block_close"},
		{name: "multi-line prefix", cfg: Config{MaxWidth: 80, LinePrefix: "#\n"}, msg: "line_prefix"},
		{name: "prefix joins text into close", cfg: Config{MaxWidth: 80, BlockOpen: "/*", LinePrefix: "*", BlockClose: "*/", CloseEscape: "*\\/"}, msg: "can join with text"},
		{name: "prefix holds close", cfg: Config{MaxWidth: 80, BlockOpen: "/*", LinePrefix: " */ ", BlockClose: "*/", CloseEscape: "*\\/"}, msg: "contains block_close"},
		{name: "unknown markup", cfg: Config{MaxWidth: 80, Markup: "rst"}, msg: "markup"},
		{name: "unknown link style", cfg: Config{MaxWidth: 80, LinkStyle: "footnote"}, msg: "link_style"},
		{name: "list indent too deep", cfg: Config{MaxWidth: 80, ListIndent: 9}, msg: "list_indent"},
		{name: "negative list indent", cfg: Config{MaxWidth: 80, ListIndent: -1}, msg: "list_indent"},
		{name: "unknown width mode", cfg: Config{MaxWidth: 80, WidthMode: "bytes"}, msg: "width_mode"},
		{name: "unknown dot policy", cfg: Config{MaxWidth: 80, TrailingDot: "sometimes"}, msg: "trailing_dot"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := NewDescriptor("bad", tc.cfg)
			require.Error(t, err)
			assert.Nil(t, d)
			assert.True(t, errors.Is(err, ErrInvalidDescriptor), "error %v does not wrap ErrInvalidDescriptor", err)
			assert.Contains(t, err.Error(), tc.msg)
			assert.Contains(t, err.Error(), `"bad"`)
		})
	}
}

func TestNewDescriptorDefaults(t *testing.T) {
	d, err := NewDescriptor("python", pythonConfig())
	require.NoError(t, err)

	assert.Equal(t, "python", d.Name())
	assert.Equal(t, `\"\"\"`, d.CloseEscape())
	cfg := d.Config()
	assert.Equal(t, MarkupMarkdown, cfg.Markup)
	assert.Equal(t, LinkInline, cfg.LinkStyle)
	assert.Equal(t, CodeBacktick, cfg.CodeStyle)
	assert.Equal(t, WidthRunes, cfg.WidthMode)
	assert.Equal(t, DotKeep, cfg.TrailingDot)

	html := MustDescriptor("java", Config{MaxWidth: 80, Markup: MarkupHTML})
	assert.Equal(t, CodeHTML, html.Config().CodeStyle)
}

func TestDescriptorIsImmutable(t *testing.T) {
	cfg := pythonConfig()
	d := MustDescriptor("python", cfg)
	before := d.Fingerprint()

	cfg.Escapes["'"] = `\'`
	got := d.Config()
	got.Escapes["x"] = "y"
	got.MaxWidth = 1

	assert.Equal(t, before, d.Fingerprint())
	assert.Equal(t, 120, d.MaxWidth())
	assert.Len(t, d.Config().Escapes, 2)
	assert.Equal(t, `it\'s`, MustDescriptor("py2", cfg).Escape("it's"))
	assert.Equal(t, "it's", d.Escape("it's"))
}

func TestFingerprint(t *testing.T) {
	a := MustDescriptor("a", pythonConfig())
	b := MustDescriptor("b", pythonConfig())
	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "name must not affect the fingerprint")

	cfg := pythonConfig()
	cfg.MaxWidth = 100
	assert.NotEqual(t, a.Fingerprint(), MustDescriptor("a", cfg).Fingerprint())
}

func TestWidthModes(t *testing.T) {
	runes := MustDescriptor("r", Config{MaxWidth: 10})
	cells := MustDescriptor("c", Config{MaxWidth: 10, WidthMode: WidthCells})
	assert.Equal(t, 3, runes.Width("日本語"))
	assert.Equal(t, 6, cells.Width("日本語"))
	assert.Equal(t, 4, runes.Width("café"))
}

func TestEscapeGuard(t *testing.T) {
	d := MustDescriptor("c", Config{MaxWidth: 80, BlockOpen: "/*", BlockClose: " */", CloseEscape: "*&#47;"})
	assert.Equal(t, "a *&#47; b", d.Escape("a */ b"))
	assert.Equal(t, "*&#47;*&#47;", d.Escape("*/*/"))

	seam := MustDescriptor("seam", Config{MaxWidth: 80, BlockClose: "aa", CloseEscape: "ba"})
	assert.NotContains(t, seam.Escape("aaaa"), "aa")
}

func TestMustDescriptorPanics(t *testing.T) {
	assert.Panics(t, func() { MustDescriptor("bad", Config{}) })
}
