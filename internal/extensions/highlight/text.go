package highlight

import (
	"strings"
	"unicode"
)

// trimWhitespace drops leading blank lines, trailing whitespace and the
// trailing spaces of every line. Indentation of the first line is kept.
func trimWhitespace(s string) string {
	start := 0
	for i, r := range s {
		if !unicode.IsSpace(r) {
			break
		}
		if r == '\n' {
			start = i + 1
		}
	}
	lines := strings.Split(strings.TrimRightFunc(s[start:], unicode.IsSpace), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRightFunc(l, unicode.IsSpace)
	}
	return strings.Join(lines, "\n")
}

// removeIndent strips the indentation shared by every non-blank line.
// Nothing is removed when the lines disagree on the indent characters.
func removeIndent(s string) string {
	lines := strings.Split(s, "\n")
	prefix := ""
	for _, l := range lines {
		if l == "" {
			continue
		}
		ws := l[:len(l)-len(strings.TrimLeftFunc(l, unicode.IsSpace))]
		switch {
		case ws == "":
			return s
		case len(ws) == len(l):
			// blank lines carry no indent
		case prefix == "":
			prefix = ws
		case len(ws) < len(prefix):
			if !strings.HasPrefix(prefix, ws) {
				return s
			}
			prefix = ws
		case !strings.HasPrefix(ws, prefix):
			return s
		}
	}
	if prefix == "" {
		return s
	}
	for i, l := range lines {
		if strings.HasPrefix(l, prefix) {
			lines[i] = l[len(prefix):]
		} else {
			lines[i] = strings.TrimLeftFunc(l, unicode.IsSpace)
		}
	}
	return strings.Join(lines, "\n")
}

// splitLines splits highlighted markup into lines, ignoring one trailing
// blank line.
func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	if n := len(lines); n > 1 && strings.TrimSpace(lines[n-1]) == "" {
		lines = lines[:n-1]
	}
	return lines
}
