package source

import (
	"crypto/sha256"
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"
)

// SnippetWidth limits the length of a line excerpt attached to diagnostics.
const SnippetWidth = 80

// NewFile normalizes content (BOM, CRLF, trailing newline) and wraps it into a File.
// The line index is not built until a position is resolved.
func NewFile(path string, content []byte) *File {
	content, flags := normalize(content)
	return &File{
		Path:    slashPath(path),
		Content: content,
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}
}

// Text returns the normalized content as a string.
func (f *File) Text() string {
	return string(f.Content)
}

// Len returns the content length in bytes.
func (f *File) Len() int {
	return len(f.Content)
}

// LineIndex returns the offsets of all newline characters, building the index on first use.
func (f *File) LineIndex() []uint32 {
	if !f.indexed {
		f.lineIdx = newlineOffsets(f.Content)
		f.indexed = true
	}
	return f.lineIdx
}

// LineCol resolves a byte offset into a 1-based line and column.
// Columns count runes, not bytes. Offsets past the end clamp to the last position.
func (f *File) LineCol(off int) LineCol {
	if off < 0 {
		off = 0
	}
	if off > len(f.Content) {
		off = len(f.Content)
	}
	o, err := safecast.Conv[uint32](off)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	line := lineOf(f.LineIndex(), o)
	runes, err := safecast.Conv[uint32](utf8.RuneCount(f.Content[f.lineStart(line):off]))
	if err != nil {
		panic(fmt.Errorf("column overflow: %w", err))
	}
	return LineCol{Line: line, Col: runes + 1}
}

func (f *File) lineStart(line uint32) uint32 {
	if line <= 1 {
		return 0
	}
	return f.LineIndex()[line-2] + 1
}

// GetLine returns the line with the given 1-based number, without its newline.
// Missing lines yield an empty string.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	idx := f.LineIndex()
	lenLineIdx, err := safecast.Conv[uint32](len(idx))
	if err != nil {
		panic(fmt.Errorf("line index length overflow: %w", err))
	}
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}

	var start, end uint32
	switch {
	case lineNum == 1:
		start = 0
	case lineNum-2 < lenLineIdx:
		start = idx[lineNum-2] + 1
	default:
		return ""
	}
	if lineNum-1 < lenLineIdx {
		end = idx[lineNum-1]
	} else {
		end = lenContent
	}
	if start >= lenContent {
		return ""
	}
	return string(f.Content[start:end])
}

// Snippet returns the source line containing off, cut to SnippetWidth runes.
func (f *File) Snippet(off int) string {
	line := f.GetLine(f.LineCol(off).Line)
	if utf8.RuneCountInString(line) <= SnippetWidth {
		return line
	}
	runes := []rune(line)
	return string(runes[:SnippetWidth-1]) + "…"
}
