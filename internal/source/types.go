package source

// FileFlags records the normalizations NewFile applied.
type FileFlags uint8

const (
	FileHadBOM FileFlags = 1 << iota
	FileNormalizedCRLF
	FileAddedTrailingNewline
)

// File is one normalized markdown document.
type File struct {
	Path    string
	Content []byte
	Hash    [32]byte // sha256 of the normalized content
	Flags   FileFlags

	lineIdx []uint32 // offsets of '\n', built on first position query
	indexed bool
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in runes
}
