package source

import (
	"bytes"
	"path/filepath"
	"sort"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// normalize strips a UTF-8 BOM, folds CRLF into LF and terminates the last
// line. A lone CR is kept. The input slice is never written to.
func normalize(content []byte) ([]byte, FileFlags) {
	var flags FileFlags
	if rest, ok := bytes.CutPrefix(content, utf8BOM); ok {
		content = rest
		flags |= FileHadBOM
	}
	if bytes.Contains(content, []byte("\r\n")) {
		content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
		flags |= FileNormalizedCRLF
	}
	// строки таблиц и ограждения блоков кода требуют завершающего \n
	if n := len(content); n > 0 && content[n-1] != '\n' {
		content = append(content[:n:n], '\n')
		flags |= FileAddedTrailingNewline
	}
	return content, flags
}

// newlineOffsets lists the offset of every '\n' in content.
func newlineOffsets(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

// lineOf returns the 1-based line holding off: one more than the number of
// newlines strictly before it.
func lineOf(newlines []uint32, off uint32) uint32 {
	return uint32(sort.Search(len(newlines), func(i int) bool { return newlines[i] >= off })) + 1
}

// slashPath cleans p to forward slashes. An empty path stays empty so
// anonymous sources remain distinguishable.
func slashPath(p string) string {
	if p == "" {
		return ""
	}
	return filepath.ToSlash(filepath.Clean(p))
}
