package main

import (
	"strings"

	"github.com/fatih/color"
)

var (
	errorLabel   = color.New(color.FgRed, color.Bold).SprintFunc()
	warningLabel = color.New(color.FgYellow, color.Bold).SprintFunc()
	infoLabel    = color.New(color.FgCyan).SprintFunc()
)

// colorizeDiagnostics colours the leading severity word of each line from
// diag.FormatShort.
func colorizeDiagnostics(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		sev, rest, ok := strings.Cut(l, " ")
		if !ok {
			continue
		}
		switch sev {
		case "error":
			lines[i] = errorLabel(sev) + " " + rest
		case "warning":
			lines[i] = warningLabel(sev) + " " + rest
		case "info":
			lines[i] = infoLabel(sev) + " " + rest
		}
	}
	return strings.Join(lines, "\n")
}
