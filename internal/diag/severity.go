package diag

// Severity ranks a diagnostic. Only SevError makes a run fail.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]struct{ upper, lower string }{
	SevInfo:    {"INFO", "info"},
	SevWarning: {"WARNING", "warning"},
	SevError:   {"ERROR", "error"},
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s].upper
	}
	return "UNKNOWN"
}

// label is the lower-case form used in rendered diagnostic lines.
func (s Severity) label() string {
	if int(s) < len(severityNames) {
		return severityNames[s].lower
	}
	return "info"
}
