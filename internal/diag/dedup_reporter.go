package diag

// DedupReporter forwards each distinct diagnostic once. Two reports are the
// same when code, severity, offset and message all match.
type DedupReporter struct {
	next Reporter
	seen map[reportKey]struct{}
}

type reportKey struct {
	code   Code
	sev    Severity
	offset int
	msg    string
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: map[reportKey]struct{}{}}
}

func (r *DedupReporter) Report(code Code, sev Severity, offset int, msg string) {
	k := reportKey{code, sev, offset, msg}
	if _, dup := r.seen[k]; dup || r.next == nil {
		return
	}
	r.seen[k] = struct{}{}
	r.next.Report(code, sev, offset, msg)
}
