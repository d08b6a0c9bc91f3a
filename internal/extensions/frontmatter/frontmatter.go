// Package frontmatter strips a leading YAML block delimited by --- lines
// and keeps its values for the caller. The block is replaced by blank lines
// so diagnostics keep their line numbers.
package frontmatter

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"

	"kekpiler/internal/compiler"
	"kekpiler/internal/config"
	"kekpiler/internal/diag"
)

const (
	KeyBadFrontMatterSeverity = "badFrontMatterSeverity"
	KeyUnknownKeySeverity     = "unknownFrontMatterKeySeverity"
	KeyKnownFrontMatterKeys   = "knownFrontMatterKeys"
	delimiter                 = "---"
)

// Extension holds the front matter of the last compiled document.
type Extension struct {
	config *config.Config
	values map[string]any
}

func New() *Extension { return &Extension{values: map[string]any{}} }

func (e *Extension) Init(c *compiler.Compiler) (string, error) {
	e.config = c.Config()
	e.config.SetDefaults(map[string]any{
		KeyBadFrontMatterSeverity: diag.SevWarning,
		KeyUnknownKeySeverity:     diag.SevWarning,
		KeyKnownFrontMatterKeys:   []string{"title", "tags", "thumbnail"},
	})
	return "frontMatter", nil
}

// PreTokenize decodes and blanks out the front matter block.
func (e *Extension) PreTokenize(_ context.Context, c *compiler.Compiler, text string) (string, bool, error) {
	e.values = map[string]any{}
	end := blockEnd(text)
	if end < 0 {
		return text, false, nil
	}
	block := text[:end]

	values := map[string]any{}
	if _, err := frontmatter.Parse(strings.NewReader(block), &values); err != nil {
		c.Context().ReportConfigured(KeyBadFrontMatterSeverity, diag.ExtBadFrontMatter, 0,
			"invalid front matter: %v", err)
	} else {
		e.values = values
		e.checkKeys(c)
	}
	return strings.Repeat("\n", strings.Count(block, "\n")) + text[end:], true, nil
}

func (e *Extension) checkKeys(c *compiler.Compiler) {
	known := e.config.Strings(KeyKnownFrontMatterKeys)
	if len(known) == 0 {
		return
	}
	for _, k := range e.Keys() {
		if !slices.Contains(known, k) {
			c.Context().ReportConfigured(KeyUnknownKeySeverity, diag.ExtUnknownFrontMatterKey, 0,
				"unknown front matter key %q", k)
		}
	}
}

// blockEnd returns the offset just past the closing delimiter line, or -1
// when text does not start with a front matter block.
func blockEnd(text string) int {
	first, rest, ok := strings.Cut(text, "\n")
	if !ok || strings.TrimRight(first, " \t") != delimiter {
		return -1
	}
	off := len(first) + 1
	for rest != "" {
		line, tail, found := strings.Cut(rest, "\n")
		off += len(line)
		if found {
			off++
		}
		if strings.TrimRight(line, " \t") == delimiter {
			return off
		}
		rest = tail
	}
	return -1
}

// Values returns the decoded front matter of the last document.
func (e *Extension) Values() map[string]any { return e.values }

// Keys lists the front matter keys in sorted order.
func (e *Extension) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String returns a scalar value formatted as text.
func (e *Extension) String(key string) string {
	v, ok := e.values[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Strings returns a list value. A scalar value becomes a one-item list.
func (e *Extension) Strings(key string) []string {
	switch v := e.values[key].(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case []string:
		return v
	default:
		return []string{fmt.Sprint(v)}
	}
}
