package comment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semdoc/internal/markdown"
)

func lineComment(width int) Config {
	return Config{LinePrefix: "// ", MaxWidth: width, AllowBlankLines: true}
}

func render(t *testing.T, cfg Config, brief, note string) string {
	t.Helper()
	d, err := NewDescriptor(t.Name(), cfg)
	require.NoError(t, err)
	return Render(brief, markdown.Parse(note), d)
}

func lines(s ...string) string { return strings.Join(s, "\n") }

func TestRenderErrorTypeScenario(t *testing.T) {
	note := "- Use a domain-specific attribute\n" +
		"- Set `error.type` to capture all errors, regardless of whether they are defined within the domain-specific set or not\n" +
		"\n" +
		"> Prefer low cardinality."
	got := render(t, pythonConfig(), "Describes a class of error the operation ended with.", note)

	want := lines(
		`"""`,
		"Describes a class of error the operation ended with.",
		"",
		"- Use a domain-specific attribute",
		"- Set `error.type` to capture all errors, regardless of whether they are defined within the domain-specific set or not",
		"",
		"> Prefer low cardinality.",
		`"""`,
	)
	assert.Equal(t, want, got)
}

func TestRenderWithoutNote(t *testing.T) {
	d := MustDescriptor("python", pythonConfig())
	want := lines(`"""`, "Just the brief.", `"""`)
	assert.Equal(t, want, Render("Just the brief.", nil, d))
	assert.Equal(t, want, Render("Just the brief.", markdown.Parse(""), d))
	assert.Equal(t, lines(`"""`, "", `"""`), Render("", nil, d))
}

func TestRenderWrapsParagraph(t *testing.T) {
	got := render(t, lineComment(30), "Brief.",
		"The quick brown fox jumps over the lazy dog and keeps running far away.")
	want := lines(
		"// Brief.",
		"//",
		"// The quick brown fox jumps",
		"// over the lazy dog and keeps",
		"// running far away.",
	)
	assert.Equal(t, want, got)
}

func TestRenderListContinuation(t *testing.T) {
	cfg := Config{MaxWidth: 14}
	got := render(t, cfg, "b", "9. alpha beta gamma\n10. delta")
	want := lines("b", "9. alpha beta", "   gamma", "10. delta")
	assert.Equal(t, want, got)

	cfg.ListIndent = 2
	got = render(t, cfg, "b", "- one\n- two")
	assert.Equal(t, lines("b", "  - one", "  - two"), got)
}

func TestRenderUnbreakableAtoms(t *testing.T) {
	cfg := Config{MaxWidth: 10}
	assert.Equal(t, lines("b", "a", "`x y z w`", "b"), render(t, cfg, "b", "a `x y z w` b"))
	assert.Equal(t, lines("b", "tiny", "supercalifragilistic", "end"), render(t, cfg, "b", "tiny supercalifragilistic end"))
}

func TestRenderCodeSpanWithBackticks(t *testing.T) {
	got := render(t, Config{MaxWidth: 80}, "b", "use ``a`b`` here")
	assert.Equal(t, lines("b", "use ``a`b`` here"), got)
}

func TestRenderBlocks(t *testing.T) {
	note := "## Title\n\n" +
		"> quoted text\n\n" +
		"> [!NOTE] be careful\n\n" +
		"```go\nfoo()\n\n  bar\n```"
	got := render(t, lineComment(80), "Brief", note)
	want := lines(
		"// Brief",
		"//",
		"// ## Title",
		"//",
		"// > quoted text",
		"//",
		"// > [!NOTE] be careful",
		"//",
		"// ```go",
		"// foo()",
		"//",
		"//   bar",
		"// ```",
	)
	assert.Equal(t, want, got)
}

func TestRenderAdmonitionWraps(t *testing.T) {
	got := render(t, Config{MaxWidth: 20}, "b", "> [!WARNING] one two three")
	assert.Equal(t, lines("b", "> [!WARNING] one two", "> three"), got)
}

func TestRenderNestedQuote(t *testing.T) {
	got := render(t, Config{MaxWidth: 40, AllowBlankLines: true}, "b", "> outer\n>\n> > inner")
	assert.Equal(t, lines("b", "", "> outer", ">", "> > inner"), got)
}

func TestRenderNoBlankLines(t *testing.T) {
	cfg := lineComment(80)
	cfg.AllowBlankLines = false
	got := render(t, cfg, "Brief", "First.\n\nSecond.\n\n```\nx\n\ny\n```")
	want := lines("// Brief", "// First.", "// Second.", "// ```", "// x", "//", "// y", "// ```")
	assert.Equal(t, want, got)
}

func TestRenderLinkStyles(t *testing.T) {
	note := "See [docs](https://d.io), [](https://e.io) and [https://f.io](https://f.io)."
	cases := []struct {
		style string
		want  string
	}{
		{LinkInline, "See docs (https://d.io), https://e.io and https://f.io."},
		{LinkColon, "See docs: https://d.io, https://e.io and https://f.io."},
		{LinkMarkdown, "See [docs](https://d.io), [https://e.io](https://e.io) and [https://f.io](https://f.io)."},
	}
	for _, tc := range cases {
		t.Run(tc.style, func(t *testing.T) {
			got := render(t, Config{MaxWidth: 200, LinkStyle: tc.style}, "b", note)
			assert.Equal(t, lines("b", tc.want), got)
		})
	}

	t.Run(LinkReference, func(t *testing.T) {
		got := render(t, Config{MaxWidth: 200, LinkStyle: LinkReference, AllowBlankLines: true}, "b",
			"[a](https://a.io) and [b](https://b.io), again [a](https://a.io)")
		want := lines(
			"b",
			"",
			"[a][1] and [b][2], again [a][1]",
			"",
			"[1]: https://a.io",
			"[2]: https://b.io",
		)
		assert.Equal(t, want, got)
	})
}

func TestRenderEmphasis(t *testing.T) {
	note := "a **bold** and *it* word"
	assert.Equal(t, lines("b", "a bold and it word"), render(t, Config{MaxWidth: 80}, "b", note))
	assert.Equal(t, lines("b", "a **bold** and *it* word"), render(t, Config{MaxWidth: 80, KeepEmphasis: true}, "b", note))
}

func TestRenderMarkdownTargetsKeepLiteralPunctuation(t *testing.T) {
	note := `a \*literal\* star and \[x\](y), snake_case`
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "rust style",
			cfg:  Config{LinePrefix: "/// ", MaxWidth: 100, LinkStyle: LinkMarkdown, KeepEmphasis: true},
			want: `/// a \*literal\* star and \[x\](y), snake_case`,
		},
		{
			name: "reference links",
			cfg:  Config{MaxWidth: 100, LinkStyle: LinkReference},
			want: `a \*literal\* star and \[x\](y), snake_case`,
		},
		{
			name: "plain text target",
			cfg:  Config{MaxWidth: 100},
			want: `a *literal* star and [x](y), snake_case`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := render(t, tc.cfg, "b", note)
			assert.Equal(t, lines(tc.cfg.LinePrefix+"b", tc.want), got)
		})
	}

	assert.Equal(t, `\_lead snake_case trail\_ \_\_`, escapeMarkdown("_lead snake_case trail_ __"))

	got := render(t, Config{MaxWidth: 80, KeepEmphasis: true}, "b", "*kept* and a \\\\ backslash")
	assert.Equal(t, lines("b", `*kept* and a \\ backslash`), got)
}

func TestRenderEscaping(t *testing.T) {
	got := render(t, pythonConfig(), `Say "hi"`, `Use """ and C:\temp carefully`)
	want := lines(
		`"""`,
		`Say \"hi\"`,
		"",
		`Use \"\"\" and C:\\temp carefully`,
		`"""`,
	)
	assert.Equal(t, want, got)
	assert.Equal(t, 2, strings.Count(got, `"""`))
}

func TestRenderCloseGuard(t *testing.T) {
	cfg := Config{
		BlockOpen:   "/*",
		LinePrefix:  " * ",
		BlockClose:  " */",
		CloseEscape: "*&#47;",
		MaxWidth:    80,
	}
	got := render(t, cfg, "Ends with */ inside", "text */ here\n\n```\ncode */\n```")
	want := lines(
		"/*",
		" * Ends with *&#47; inside",
		" * text *&#47; here",
		" * ```",
		" * code *&#47;",
		" * ```",
		" */",
	)
	assert.Equal(t, want, got)
}

func TestRenderTrailingDot(t *testing.T) {
	cfg := Config{MaxWidth: 80, TrailingDot: DotRemove}
	assert.Equal(t, "Brief", render(t, cfg, "Brief...", ""))
	cfg.TrailingDot = DotEnforce
	assert.Equal(t, "Brief.", render(t, cfg, "  Brief\n  ", ""))
	assert.Equal(t, "Brief.", render(t, cfg, "Brief.", ""))
}

func TestRenderWidthModes(t *testing.T) {
	note := "日本語 テキスト"
	assert.Equal(t, lines("b", "日本語 テキスト"), render(t, Config{MaxWidth: 8}, "b", note))
	assert.Equal(t, lines("b", "日本語", "テキスト"), render(t, Config{MaxWidth: 8, WidthMode: WidthCells}, "b", note))
}

func TestRenderCodeLanguageDefault(t *testing.T) {
	got := render(t, Config{MaxWidth: 80, CodeLanguage: "python"}, "b", "```\nx = 1\n```\n\n```sh\nls\n```")
	assert.Equal(t, lines("b", "```python", "x = 1", "```", "```sh", "ls", "```"), got)
}

func TestRenderHTML(t *testing.T) {
	cfg := Config{
		BlockOpen:   "/**",
		LinePrefix:  " * ",
		BlockClose:  " */",
		CloseEscape: "*&#47;",
		MaxWidth:    80,
		Markup:      MarkupHTML,
		CodeStyle:   CodeJavadoc,
		ListIndent:  2,
	}
	note := "This is `attr` & **bold**.\n\n" +
		"- item [x](http://a)\n\n" +
		"3. third\n\n" +
		"# Title\n\n" +
		"> [!NOTE] hi\n\n" +
		"```java\nif (a < b) {}\n```"
	got := render(t, cfg, "Brief <T>.", note)
	want := lines(
		"/**",
		" * Brief &lt;T&gt;.",
		" * <p>",
		" * This is {@code attr} &amp; <strong>bold</strong>.",
		" * <ul>",
		` *   <li>item <a href="http://a">x</a>`,
		" * </ul>",
		` * <ol start="3">`,
		" *   <li>third",
		" * </ol>",
		" * <h1>Title</h1>",
		" * <blockquote>",
		" * <strong>Note:</strong> hi",
		" * </blockquote>",
		` * <pre><code class="language-java">`,
		" * if (a &lt; b) {}",
		" * </code></pre>",
		" */",
	)
	assert.Equal(t, want, got)
}

func TestRenderHTMLTagsDoNotBreak(t *testing.T) {
	cfg := Config{MaxWidth: 12, Markup: MarkupHTML}
	got := render(t, cfg, "b", "[a b](http://example.com/x)")
	for _, l := range strings.Split(got, "\n") {
		if strings.Contains(l, "<a") {
			assert.Contains(t, l, `<a href="http://example.com/x">`)
		}
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	d := MustDescriptor("ref", Config{MaxWidth: 40, LinkStyle: LinkReference})
	blocks := markdown.Parse("[a](u1) [b](u2)\n\n- [c](u1)")
	first := Render("b", blocks, d)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Render("b", blocks, d))
	}
}
