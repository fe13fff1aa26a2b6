package markdown

import "semdoc/internal/diag"

// Options configures ParseWithOptions.
type Options struct {
	// Reporter receives one diagnostic per fallback taken. Nil ignores them.
	Reporter diag.Reporter
}

func (o Options) report(code diag.Code, sev diag.Severity, pos diag.Pos, msg string) {
	if o.Reporter == nil {
		return
	}
	o.Reporter.Report(code, sev, pos, msg)
}
