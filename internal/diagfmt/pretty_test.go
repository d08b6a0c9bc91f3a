package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"kekpiler/internal/diag"
	"kekpiler/internal/source"
)

func sample(path, content string, off int, sev diag.Severity, code diag.Code, msg string) diag.Diagnostic {
	return diag.New(sev, code, off, msg).At(source.NewFile(path, []byte(content)))
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	d := sample("/home/user/project/docs/test.md", "# T\n\n![](pic.png)\n", 5, diag.SevWarning, diag.MdImageMissingAlt, "image has no alt text")

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/docs/test.md:3:1"},
		{"Relative path", PathModeRelative, "docs/test.md:3:1"},
		{"Basename only", PathModeBasename, "test.md:3:1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, []diag.Diagnostic{d}, PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user/project"})
			output := buf.String()
			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "WARNING MD1002: image has no alt text") {
				t.Errorf("Expected severity, code and message, got:\n%s", output)
			}
		})
	}
}

// TestPathModeAuto проверяет авто-режим выбора пути
func TestPathModeAuto(t *testing.T) {
	tests := []struct{ path, expected string }{
		{"test.md", "test.md:"},
		{"/very/long/absolute/path/to/some/nested/directory/file.md", " file.md:"},
		{"", "<input>:"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		d := sample(tt.path, "x\n", 0, diag.SevInfo, diag.MdUnusedMetadata, "m")
		Pretty(&buf, []diag.Diagnostic{d}, PrettyOpts{PathMode: PathModeAuto})
		if out := " " + buf.String(); !strings.Contains(out, tt.expected) {
			t.Errorf("path %q: expected %q in %q", tt.path, tt.expected, out)
		}
	}
}

func TestSnippetCaret(t *testing.T) {
	// широкие символы сдвигают каретку на две колонки каждый
	content := "日本 ![](a.png)\n"
	d := sample("a.md", content, strings.Index(content, "!"), diag.SevWarning, diag.MdImageMissingAlt, "no alt")
	var buf bytes.Buffer
	Pretty(&buf, []diag.Diagnostic{d}, PrettyOpts{Snippet: true})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got:\n%s", buf.String())
	}
	if lines[1] != " 1 | 日本 ![](a.png)" {
		t.Errorf("snippet line = %q", lines[1])
	}
	if lines[2] != "   |      ^" {
		t.Errorf("caret line = %q", lines[2])
	}
}

func TestPrettyColorAndMax(t *testing.T) {
	diags := []diag.Diagnostic{
		sample("a.md", "x\n", 0, diag.SevError, diag.MdBadTableLayout, "first"),
		sample("a.md", "x\n", 0, diag.SevWarning, diag.MdBadTableLayout, "second"),
	}
	var buf bytes.Buffer
	Pretty(&buf, diags, PrettyOpts{Color: true, Max: 1})
	out := buf.String()
	if !strings.Contains(out, "\x1b[") {
		t.Errorf("expected ANSI escapes, got %q", out)
	}
	if strings.Contains(out, "second") {
		t.Errorf("Max must cut the output: %q", out)
	}
}

func TestSummary(t *testing.T) {
	diags := []diag.Diagnostic{
		{Severity: diag.SevError}, {Severity: diag.SevWarning}, {Severity: diag.SevWarning}, {Severity: diag.SevInfo},
	}
	if got := Summary(diags); got != "1 error, 2 warnings" {
		t.Errorf("Summary = %q", got)
	}
	if got := Summary(nil); got != "" {
		t.Errorf("empty Summary = %q", got)
	}
}

func TestCaretColumnCountsRunes(t *testing.T) {
	tests := []struct {
		snippet string
		col     uint32
		want    int
	}{
		{"abc", 1, 0},
		{"abc", 3, 2},
		{"日本 x", 4, 5},
		{"é!", 2, 1},
		{"\tx", 2, 4},
		{"ab", 10, 2}, // колонка за концом строки
	}
	for _, tt := range tests {
		if got := caretColumn(tt.snippet, tt.col); got != tt.want {
			t.Errorf("caretColumn(%q, %d) = %d, want %d", tt.snippet, tt.col, got, tt.want)
		}
	}
}
