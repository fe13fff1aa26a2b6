package diag

import (
	"fmt"
	"strings"
)

// FormatShort renders diagnostics one per line as
// "severity CODE subject:line:col message", in Bag sort order.
// The input slice is not modified.
func FormatShort(diags []Diagnostic) string {
	if len(diags) == 0 {
		return ""
	}
	b := NewBag(0)
	for _, d := range diags {
		b.Add(d)
	}
	b.Sort()

	var sb strings.Builder
	for i, d := range b.Items() {
		subject := d.Subject
		if subject == "" {
			subject = "<input>"
		}
		if !d.Pos.IsZero() {
			subject += ":" + d.Pos.String()
		}
		fmt.Fprintf(&sb, "%s %s %s %s", d.Severity.label(), d.Code.ID(), subject, sanitizeMessage(d.Message))
		if i < b.Len()-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
