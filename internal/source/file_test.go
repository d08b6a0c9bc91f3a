package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLazyLineIndex(t *testing.T) {
	f := NewFile("a.md", []byte("a\nb\n"))
	if f.indexed {
		t.Fatal("line index must not be built before the first position query")
	}

	expected := []uint32{1, 3}
	idx := f.LineIndex()
	if len(idx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(idx))
	}
	for i, val := range expected {
		if idx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, idx[i])
		}
	}
}

func TestNormalization(t *testing.T) {
	tests := []struct {
		name  string
		in    []byte
		want  string
		flags FileFlags
	}{
		{"crlf", []byte("a\r\nb\r\n"), "a\nb\n", FileNormalizedCRLF},
		{"bom", []byte{0xEF, 0xBB, 0xBF, 'x', '\n'}, "x\n", FileHadBOM},
		{"trailing newline", []byte("x"), "x\n", FileAddedTrailingNewline},
		{"lone cr kept", []byte("a\rb\n"), "a\rb\n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFile("t.md", tt.in)
			if f.Text() != tt.want {
				t.Errorf("content = %q, want %q", f.Text(), tt.want)
			}
			if f.Flags != tt.flags {
				t.Errorf("flags = %b, want %b", f.Flags, tt.flags)
			}
		})
	}
}

func TestNewFilePath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"docs/./a.md", "docs/a.md"},
		{"docs/sub/../b.md", "docs/b.md"},
	}
	for _, tt := range tests {
		if got := NewFile(tt.in, []byte("x\n")).Path; got != tt.want {
			t.Errorf("NewFile(%q).Path = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLineColUTF8(t *testing.T) {
	f := NewFile("t.md", []byte("αβ x\nsecond line\n"))

	tests := []struct {
		off  int
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{2, LineCol{Line: 1, Col: 2}}, // β начинается с байта 2
		{5, LineCol{Line: 1, Col: 4}},
		{6, LineCol{Line: 1, Col: 5}}, // сам '\n'
		{7, LineCol{Line: 2, Col: 1}},
		{13, LineCol{Line: 2, Col: 7}},
		{1000, LineCol{Line: 3, Col: 1}},
	}
	for _, tt := range tests {
		if got := f.LineCol(tt.off); got != tt.want {
			t.Errorf("LineCol(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
	}
}

func TestGetLineAndSnippet(t *testing.T) {
	long := make([]byte, 0, 120)
	for range 120 {
		long = append(long, 'x')
	}
	f := NewFile("t.md", append([]byte("first\n"), long...))

	if got := f.GetLine(1); got != "first" {
		t.Errorf("GetLine(1) = %q", got)
	}
	if got := f.GetLine(3); got != "" {
		t.Errorf("GetLine(3) = %q, want empty", got)
	}
	snippet := f.Snippet(10)
	if n := len([]rune(snippet)); n != SnippetWidth {
		t.Errorf("snippet has %d runes, want %d", n, SnippetWidth)
	}
}

func TestLoad(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "doc.md")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBF# title\r\n"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if f.Text() != "# title\n" {
		t.Errorf("content = %q", f.Text())
	}
	if f.Flags&(FileHadBOM|FileNormalizedCRLF) != FileHadBOM|FileNormalizedCRLF {
		t.Errorf("expected BOM and CRLF flags, got %b", f.Flags)
	}
	if _, err := Load(filepath.Join(tmp, "missing.md")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRelativePath(t *testing.T) {
	tmp := t.TempDir()
	base := filepath.Join(tmp, "base")

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"inside", filepath.Join(base, "nested", "file.md"), "nested/file.md"},
		{"base itself", base, "."},
		// снаружи базы - абсолютный путь
		{"outside", filepath.Join(tmp, "other", "file.md"), filepath.ToSlash(filepath.Join(tmp, "other", "file.md"))},
		{"dotdot prefix name", filepath.Join(tmp, "base..x", "f.md"), filepath.ToSlash(filepath.Join(tmp, "base..x", "f.md"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RelativePath(tt.target, base)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("RelativePath = %q, want %q", got, tt.want)
			}
		})
	}
}
