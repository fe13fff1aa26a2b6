package diag

import (
	"testing"
)

func TestFormatShort(t *testing.T) {
	diags := []Diagnostic{
		{Severity: SevInfo, Code: DocUnmatchedLink, Subject: "http.route", Pos: Pos{Line: 2, Col: 5}, Message: "literal '['"},
		{Severity: SevWarning, Code: DocUnterminatedFence, Subject: "error.type", Pos: Pos{Line: 3, Col: 1}, Message: "fence\nnever closed"},
		{Severity: SevWarning, Code: RenEmptyBrief, Subject: "error.type", Message: "brief is empty"},
	}

	want := "warning REN2002 error.type brief is empty\n" +
		"warning DOC1001 error.type:3:1 fence never closed\n" +
		"info DOC1002 http.route:2:5 literal '['"
	if got := FormatShort(diags); got != want {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}

func TestBagLimitAndMerge(t *testing.T) {
	b := NewBag(1)
	if !b.Add(New(SevInfo, DocInfo, Pos{}, "a")) {
		t.Fatalf("first add rejected")
	}
	if b.Add(New(SevInfo, DocInfo, Pos{}, "b")) {
		t.Fatalf("add past limit accepted")
	}

	other := NewBag(0)
	other.Add(New(SevError, AtrDuplicateID, Pos{}, "dup"))
	b.Merge(other)
	if b.Len() != 2 || !b.HasErrors() {
		t.Fatalf("merge: len=%d errors=%v", b.Len(), b.HasErrors())
	}
}

func TestBagDedup(t *testing.T) {
	b := NewBag(0)
	rep := BagReporter{Bag: b, Subject: "x"}
	rep.Report(DocUnmatchedCode, SevInfo, Pos{Line: 1, Col: 1}, "one")
	rep.Report(DocUnmatchedCode, SevInfo, Pos{Line: 1, Col: 1}, "two")
	rep.Report(DocUnmatchedCode, SevInfo, Pos{Line: 1, Col: 4}, "three")
	b.Dedup()
	if b.Len() != 2 {
		t.Fatalf("dedup kept %d items, want 2", b.Len())
	}
	if b.HasWarnings() {
		t.Fatalf("info diagnostics reported as warnings")
	}
}

func TestDedupReporter(t *testing.T) {
	var got []string
	next := ReporterFunc(func(code Code, _ Severity, _ Pos, msg string) {
		got = append(got, code.ID()+" "+msg)
	})
	r := NewDedupReporter(next)
	r.Report(DocHeadingTooDeep, SevInfo, Pos{Line: 1, Col: 1}, "deep")
	r.Report(DocHeadingTooDeep, SevInfo, Pos{Line: 1, Col: 1}, "deep")
	r.Report(DocHeadingTooDeep, SevInfo, Pos{Line: 2, Col: 1}, "deep")
	if len(got) != 2 {
		t.Fatalf("forwarded %d reports, want 2: %v", len(got), got)
	}
}

func TestCodeStrings(t *testing.T) {
	cases := map[Code]string{
		DocUnterminatedFence: "DOC1001",
		RenOverlongWord:      "REN2001",
		AtrMissingID:         "ATR3002",
		UnknownCode:          "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Fatalf("ID(%d) = %q, want %q", code, got, want)
		}
	}
	if got := Code(1999).Title(); got != "Unknown error" {
		t.Fatalf("unknown title = %q", got)
	}
	if got := DocUnknownAdmonition.String(); got != "[DOC1003]: Unknown admonition kind" {
		t.Fatalf("String() = %q", got)
	}
}
