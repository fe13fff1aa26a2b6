package attrs

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semdoc/internal/diag"
)

func TestLoadDirectory(t *testing.T) {
	bag := diag.NewBag(0)
	docs, err := Load(bag, filepath.Join("testdata", "registry"))
	require.NoError(t, err)
	assert.Zero(t, bag.Len())

	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	assert.Equal(t, []string{"error.type", "error.message", "server.port"}, ids)

	et := docs[0]
	assert.Equal(t, "enum", et.Type)
	assert.Equal(t, "Describes a class of error the operation ended with.\n", et.Brief)
	assert.Equal(t, "- Use a domain-specific attribute\n- Set `error.type` to capture all errors\n\n> [!NOTE] Prefer low cardinality.\n", et.Note)
	assert.Equal(t, filepath.Join("testdata", "registry", "error.yaml"), et.File)
	assert.Equal(t, 6, et.Pos.Line)

	assert.Equal(t, "string", docs[1].Type)
	assert.Empty(t, docs[1].Note)
	assert.Equal(t, "int", docs[2].Type)
}

func TestParseMissingID(t *testing.T) {
	src := `
groups:
  - id: g
    attributes:
      - brief: no id here
      - id: ok
        type: boolean
`
	bag := diag.NewBag(0)
	docs, err := Parse("in.yaml", strings.NewReader(src), diag.BagReporter{Bag: bag, Subject: "in.yaml"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "ok", docs[0].ID)

	items := bag.Items()
	require.Len(t, items, 1)
	assert.Equal(t, diag.AtrMissingID, items[0].Code)
	assert.Equal(t, diag.SevError, items[0].Severity)
	assert.Equal(t, diag.Pos{Line: 5, Col: 9}, items[0].Pos)
	assert.Contains(t, items[0].Message, `"g"`)
}

func TestParseMultipleDocuments(t *testing.T) {
	src := "groups:\n  - attributes:\n      - id: a\n---\ngroups:\n  - attributes:\n      - id: b\n"
	docs, err := Parse("multi.yaml", strings.NewReader(src), nil)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "b", docs[1].ID)
}

func TestParseInvalid(t *testing.T) {
	for _, src := range []string{"groups: [", "just a string", "groups:\n  - attributes: 3\n"} {
		_, err := Parse("bad.yaml", strings.NewReader(src), nil)
		require.ErrorIs(t, err, ErrInvalidRegistry, src)
		assert.Contains(t, err.Error(), "bad.yaml")
	}
}

func TestDedup(t *testing.T) {
	docs := []AttributeDoc{
		{ID: "a", Brief: "first", File: "x.yaml", Pos: diag.Pos{Line: 1, Col: 1}},
		{ID: "b", File: "x.yaml"},
		{ID: "a", Brief: "second", File: "y.yaml", Pos: diag.Pos{Line: 4, Col: 3}},
	}
	bag := diag.NewBag(0)
	out := Dedup(docs, bag)
	require.Len(t, out, 2)
	assert.Equal(t, "first", out[0].Brief)
	assert.Equal(t, "second", docs[2].Brief)

	items := bag.Items()
	require.Len(t, items, 1)
	assert.Equal(t, diag.AtrDuplicateID, items[0].Code)
	assert.Equal(t, "y.yaml", items[0].Subject)
	assert.Contains(t, items[0].Message, "x.yaml:1:1")
}

func TestLoadMissingPath(t *testing.T) {
	_, err := Load(nil, filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}
