package driver

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semdoc/internal/attrs"
	"semdoc/internal/comment"
	"semdoc/internal/diag"
	"semdoc/internal/testkit"
	"semdoc/internal/trace"
)

func python() *comment.Descriptor {
	return comment.MustDescriptor("python", comment.Config{
		BlockOpen:       `"""`,
		BlockClose:      `"""`,
		MaxWidth:        120,
		AllowBlankLines: true,
		Escapes:         map[string]string{`\`: `\\`, `"`: `\"`},
	})
}

func slashes(width int) *comment.Descriptor {
	return comment.MustDescriptor("slashes", comment.Config{LinePrefix: "// ", MaxWidth: width})
}

func errorType() attrs.AttributeDoc {
	return attrs.AttributeDoc{
		ID:    "error.type",
		Type:  "enum",
		Brief: "Describes a class of error the operation ended with.",
		Note:  "- Use a domain-specific attribute\n- Set `error.type` to capture all errors\n\n> Quoted remark",
	}
}

func TestRenderDocErrorType(t *testing.T) {
	res := RenderDoc(errorType(), python(), Options{})
	want := strings.Join([]string{
		`"""`,
		"Describes a class of error the operation ended with.",
		"",
		"- Use a domain-specific attribute",
		"- Set `error.type` to capture all errors",
		"",
		"> Quoted remark",
		`"""`,
	}, "\n")
	assert.Equal(t, want, res.Text)
	assert.Zero(t, res.Bag.Len())
	assert.False(t, res.Cached)
}

func TestRenderDocDiagnostics(t *testing.T) {
	doc := attrs.AttributeDoc{ID: "x.y", Note: "tiny supercalifragilistic\n\n```\nnever closed"}
	res := RenderDoc(doc, slashes(12), Options{})

	codes := make([]diag.Code, 0, res.Bag.Len())
	for _, d := range res.Bag.Items() {
		assert.Equal(t, "x.y", d.Subject)
		codes = append(codes, d.Code)
	}
	assert.ElementsMatch(t, []diag.Code{diag.RenEmptyBrief, diag.DocUnterminatedFence, diag.RenOverlongWord}, codes)

	for _, d := range res.Bag.Items() {
		if d.Code == diag.RenOverlongWord {
			assert.Equal(t, 3, d.Pos.Line)
			assert.Contains(t, d.Message, `"supercalifragilistic"`)
		}
	}
}

func TestRenderDocCodeIsNotOverlong(t *testing.T) {
	doc := attrs.AttributeDoc{ID: "c", Brief: "A brief line that is longer than twelve columns.", Note: "```\na long line of code\n```"}
	res := RenderDoc(doc, slashes(12), Options{})
	assert.Zero(t, res.Bag.Len())
}

func TestRenderDocFenceTextIsNotCode(t *testing.T) {
	doc := attrs.AttributeDoc{ID: "f", Brief: "b", Note: "```\n\nabcdefghijklmnopqrstuvwxyz0123"}
	res := RenderDoc(doc, slashes(20), Options{})

	codes := make([]diag.Code, 0, res.Bag.Len())
	for _, d := range res.Bag.Items() {
		codes = append(codes, d.Code)
	}
	assert.ElementsMatch(t, []diag.Code{diag.DocUnterminatedFence, diag.RenOverlongWord}, codes)
}

func docs(n int) []attrs.AttributeDoc {
	out := make([]attrs.AttributeDoc, n)
	for i := range out {
		out[i] = attrs.AttributeDoc{
			ID:    fmt.Sprintf("attr.%02d", i),
			Brief: fmt.Sprintf("Attribute number %d.", i),
			Note:  strings.Repeat("word ", i) + "end",
		}
	}
	return out
}

func TestRenderAllKeepsOrder(t *testing.T) {
	in := docs(25)
	d := slashes(30)
	results, err := RenderAll(context.Background(), in, d, Options{Jobs: 4})
	require.NoError(t, err)
	require.Len(t, results, len(in))
	for i, r := range results {
		assert.Equal(t, in[i].ID, r.Doc.ID)
		assert.Equal(t, RenderDoc(in[i], d, Options{}).Text, r.Text)
		require.NoError(t, testkit.CheckWidth(comment.Rendered{Text: r.Text}, d))
	}
}

func TestRenderAllEmpty(t *testing.T) {
	results, err := RenderAll(context.Background(), nil, python(), Options{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRenderAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RenderAll(ctx, docs(5), python(), Options{Jobs: 1})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRenderAllEvents(t *testing.T) {
	var (
		mu     sync.Mutex
		events = map[int][]Status{}
	)
	obs := func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		events[ev.Index] = append(events[ev.Index], ev.Status)
	}
	in := docs(6)
	_, err := RenderAll(context.Background(), in, python(), Options{Jobs: 2, Observer: obs})
	require.NoError(t, err)

	require.Len(t, events, len(in))
	for i := range in {
		assert.Equal(t, []Status{StatusQueued, StatusWorking, StatusDone}, events[i], "index %d", i)
	}
}

func TestRenderAllTraces(t *testing.T) {
	ring := trace.NewRingTracer(0, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	_, err := RenderAll(ctx, docs(3), python(), Options{Jobs: 1})
	require.NoError(t, err)

	var batchEnd *trace.Event
	attrSpans := 0
	for _, ev := range ring.Snapshot() {
		switch {
		case ev.Scope == trace.ScopeBatch && ev.Kind == trace.KindSpanEnd:
			batchEnd = &ev
		case ev.Scope == trace.ScopeAttribute && ev.Kind == trace.KindSpanBegin:
			attrSpans++
		}
	}
	assert.Equal(t, 3, attrSpans)
	require.NotNil(t, batchEnd)
	assert.Equal(t, "ok", batchEnd.Detail)
	assert.Equal(t, "python", batchEnd.Extra["format"])
	assert.Equal(t, "3", batchEnd.Extra["docs"])
}

func TestRenderAllUsesCache(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	require.NoError(t, err)
	in := []attrs.AttributeDoc{errorType(), {ID: "empty"}}
	opts := Options{Cache: cache, Jobs: 2}

	first, err := RenderAll(context.Background(), in, python(), opts)
	require.NoError(t, err)
	for _, r := range first {
		assert.False(t, r.Cached)
	}

	second, err := RenderAll(context.Background(), in, python(), opts)
	require.NoError(t, err)
	for i, r := range second {
		assert.True(t, r.Cached)
		assert.Equal(t, first[i].Text, r.Text)
		assert.Equal(t, first[i].Bag.Items(), r.Bag.Items())
	}

	other := comment.MustDescriptor("python80", comment.Config{BlockOpen: `"""`, BlockClose: `"""`, MaxWidth: 80, Escapes: map[string]string{`"`: `\"`}})
	third, err := RenderAll(context.Background(), in, other, opts)
	require.NoError(t, err)
	assert.False(t, third[0].Cached)
}

func TestDiagnosticsMerged(t *testing.T) {
	results := []Result{
		RenderDoc(attrs.AttributeDoc{ID: "b"}, python(), Options{}),
		RenderDoc(attrs.AttributeDoc{ID: "a"}, python(), Options{}),
	}
	all := Diagnostics(results)
	require.Equal(t, 2, all.Len())
	assert.Equal(t, "a", all.Items()[0].Subject)
	assert.Equal(t, "b", all.Items()[1].Subject)
}
