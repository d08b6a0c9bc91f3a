package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto keeps short paths and cuts long absolute ones to the basename.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color    bool
	PathMode PathMode
	BaseDir  string // для PathModeRelative, пусто - рабочая директория
	Snippet  bool   // печатать строку исходника с кареткой
	Max      int    // обрезка вывода, 0 - без ограничений
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	PathMode       PathMode
	BaseDir        string
	Max            int
	IncludeSnippet bool
}
