package diag

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// FormatShortDiagnostics renders one diagnostic per line as
// "severity CODE path:line:col message", ordered by position, then by
// descending severity. Messages are folded onto one line.
func FormatShortDiagnostics(diags []Diagnostic) string {
	sorted := slices.Clone(diags)
	slices.SortStableFunc(sorted, func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.Path, b.Path),
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Column, b.Column),
			cmp.Compare(b.Severity, a.Severity),
			cmp.Compare(a.Code, b.Code),
		)
	})
	lines := make([]string, len(sorted))
	for i, d := range sorted {
		msg := strings.Join(strings.Fields(d.Message), " ")
		lines[i] = fmt.Sprintf("%s %s %s %s", d.Severity.Label(), d.Code.ID(), d.Position(), msg)
	}
	return strings.Join(lines, "\n")
}
