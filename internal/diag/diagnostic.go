package diag

import (
	"fmt"

	"kekpiler/internal/source"
)

// Diagnostic is one finding about a document. Line, Column and Snippet are
// resolved from Offset by the reporter that stored it.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Path     string
	Offset   int
	Line     uint32
	Column   uint32
	Snippet  string
}

func New(sev Severity, code Code, offset int, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Offset:   offset,
		Message:  msg,
	}
}

// At resolves the offset of d against f. A nil file leaves d unchanged.
func (d Diagnostic) At(f *source.File) Diagnostic {
	if f == nil {
		return d
	}
	lc := f.LineCol(d.Offset)
	d.Path = f.Path
	d.Line = lc.Line
	d.Column = lc.Col
	d.Snippet = f.Snippet(d.Offset)
	return d
}

// Position formats the resolved location as path:line:col.
func (d Diagnostic) Position() string {
	if d.Path == "" {
		return fmt.Sprintf("%d:%d", d.Line, d.Column)
	}
	return fmt.Sprintf("%s:%d:%d", d.Path, d.Line, d.Column)
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s %s %s", d.Severity.Label(), d.Code.ID(), d.Position(), d.Message)
}
