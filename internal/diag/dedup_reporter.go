package diag

type dedupKey struct {
	code Code
	sev  Severity
	pos  Pos
	msg  string
}

// DedupReporter forwards each distinct (code, severity, position, message)
// only once. Not safe for concurrent use.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[dedupKey]struct{})}
}

func (r *DedupReporter) Report(code Code, sev Severity, pos Pos, msg string) {
	if r == nil {
		return
	}
	key := dedupKey{code: code, sev: sev, pos: pos, msg: msg}
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(code, sev, pos, msg)
	}
}
