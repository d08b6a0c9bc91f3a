package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// DumpOutput is the JSON form of a token and tree dump.
type DumpOutput struct {
	File   string   `json:"file"`
	Tokens []string `json:"tokens"`
	Tree   []string `json:"tree,omitempty"`
}

// FormatDumpPretty prints the dumps under a header per section.
func FormatDumpPretty(w io.Writer, path, tokens, tree string) error {
	if _, err := fmt.Fprintf(w, "== tokens: %s ==\n%s", displayName(path), withNewline(tokens)); err != nil {
		return err
	}
	if tree == "" {
		return nil
	}
	_, err := fmt.Fprintf(w, "== tree: %s ==\n%s", displayName(path), withNewline(tree))
	return err
}

// FormatDumpJSON prints the dumps as one JSON object, one array item per line.
func FormatDumpJSON(w io.Writer, path, tokens, tree string) error {
	out := DumpOutput{File: displayName(path), Tokens: lines(tokens), Tree: lines(tree)}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func displayName(path string) string {
	if path == "" {
		return "<input>"
	}
	return path
}

func lines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
