package diag

// Reporter receives diagnostics from the parser, renderer and loaders.
type Reporter interface {
	Report(code Code, sev Severity, pos Pos, msg string)
}

// BagReporter adds every report to Bag, attributed to Subject.
type BagReporter struct {
	Bag     *Bag
	Subject string
}

func (r BagReporter) Report(code Code, sev Severity, pos Pos, msg string) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{Severity: sev, Code: code, Subject: r.Subject, Pos: pos, Message: msg})
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(code Code, sev Severity, pos Pos, msg string)

func (f ReporterFunc) Report(code Code, sev Severity, pos Pos, msg string) {
	if f != nil {
		f(code, sev, pos, msg)
	}
}
