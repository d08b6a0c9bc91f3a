package diag

import "kekpiler/internal/source"

// Reporter is the minimal contract for receiving diagnostics from compiler stages.
// Implementations: BagReporter (stores into a Bag), DedupReporter (filters repeats).
type Reporter interface {
	Report(code Code, sev Severity, offset int, msg string)
}

// BagReporter resolves offsets against File and writes into Bag.
type BagReporter struct {
	Bag  *Bag
	File *source.File
}

func (r BagReporter) Report(code Code, sev Severity, offset int, msg string) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(New(sev, code, offset, msg).At(r.File))
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(code Code, sev Severity, offset int, msg string)

func (f ReporterFunc) Report(code Code, sev Severity, offset int, msg string) {
	f(code, sev, offset, msg)
}
