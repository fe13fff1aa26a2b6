package driver

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// FormatText lays results out as one document: "## <id>", the comment, and a
// blank line between entries. The document ends with a newline.
func FormatText(results []Result) string {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("## ")
		b.WriteString(r.Doc.ID)
		b.WriteByte('\n')
		b.WriteString(r.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// Check compares the document for results with golden and returns a unified
// diff, or "" when they match.
func Check(results []Result, golden, goldenName string) (string, error) {
	got := FormatText(results)
	if got == golden {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(golden),
		B:        difflib.SplitLines(got),
		FromFile: goldenName,
		ToFile:   "rendered",
		Context:  3,
	})
}
