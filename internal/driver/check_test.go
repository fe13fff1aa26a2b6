package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semdoc/internal/attrs"
)

func TestFormatText(t *testing.T) {
	results := []Result{
		{Doc: attrs.AttributeDoc{ID: "a"}, Text: "// one"},
		{Doc: attrs.AttributeDoc{ID: "b"}, Text: "// two\n// lines"},
	}
	assert.Equal(t, "## a\n// one\n\n## b\n// two\n// lines\n", FormatText(results))
	assert.Empty(t, FormatText(nil))
}

func TestCheck(t *testing.T) {
	results := []Result{{Doc: attrs.AttributeDoc{ID: "a"}, Text: "// new"}}

	diff, err := Check(results, "## a\n// new\n", "golden.txt")
	require.NoError(t, err)
	assert.Empty(t, diff)

	diff, err = Check(results, "## a\n// old\n", "golden.txt")
	require.NoError(t, err)
	assert.Contains(t, diff, "--- golden.txt")
	assert.Contains(t, diff, "+++ rendered")
	assert.Contains(t, diff, "-// old")
	assert.Contains(t, diff, "+// new")
}
