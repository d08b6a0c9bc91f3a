package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"kekpiler/internal/diag"
)

type palette struct {
	sev   map[diag.Severity]*color.Color
	code  *color.Color
	pos   *color.Color
	gut   *color.Color
	caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevInfo:    color.New(color.FgCyan, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevError:   color.New(color.FgRed, color.Bold),
		},
		code:  color.New(color.Faint),
		pos:   color.New(color.Bold),
		gut:   color.New(color.FgBlue),
		caret: color.New(color.FgGreen, color.Bold),
	}
	all := []*color.Color{p.code, p.pos, p.gut, p.caret}
	for _, c := range p.sev {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty форматирует диагностики в человекочитаемый вид:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//	   3 | ![](pic.png)
//	     | ^
//
// Порядок сохраняется, сортировка - забота вызывающего.
func Pretty(w io.Writer, diags []diag.Diagnostic, opts PrettyOpts) {
	p := newPalette(opts.Color)
	if opts.Max > 0 && len(diags) > opts.Max {
		diags = diags[:opts.Max]
	}
	for _, d := range diags {
		sev, ok := p.sev[d.Severity]
		if !ok {
			sev = p.sev[diag.SevError]
		}
		loc := fmt.Sprintf("%s:%d:%d", formatPath(d.Path, opts.PathMode, opts.BaseDir), d.Line, d.Column)
		fmt.Fprintf(w, "%s: %s %s: %s\n", p.pos.Sprint(loc), sev.Sprint(d.Severity.String()), p.code.Sprint(d.Code.ID()), d.Message)
		if opts.Snippet && d.Snippet != "" {
			writeSnippet(w, p, d)
		}
	}
}

func writeSnippet(w io.Writer, p palette, d diag.Diagnostic) {
	num := strconv.FormatUint(uint64(d.Line), 10)
	pad := strings.Repeat(" ", len(num))
	line := strings.ReplaceAll(d.Snippet, "\t", "    ")
	fmt.Fprintf(w, " %s %s %s\n", p.gut.Sprint(num), p.gut.Sprint("|"), line)
	fmt.Fprintf(w, " %s %s %s%s\n", pad, p.gut.Sprint("|"), strings.Repeat(" ", caretColumn(d.Snippet, d.Column)), p.caret.Sprint("^"))
}

// caretColumn returns the display width of the snippet before the 1-based
// rune column col, so wide runes keep the caret aligned.
func caretColumn(snippet string, col uint32) int {
	if col <= 1 {
		return 0
	}
	runes := []rune(snippet)
	prefix := string(runes[:min(int(col-1), len(runes))])
	return runewidth.StringWidth(strings.ReplaceAll(prefix, "\t", "    "))
}

// Summary returns "N error(s), M warning(s)" or an empty string.
func Summary(diags []diag.Diagnostic) string {
	var errs, warns int
	for _, d := range diags {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	var parts []string
	if errs > 0 {
		parts = append(parts, plural(errs, "error"))
	}
	if warns > 0 {
		parts = append(parts, plural(warns, "warning"))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}
