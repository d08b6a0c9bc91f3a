package diagfmt

import (
	"os"
	"path/filepath"

	"kekpiler/internal/source"
)

const autoPathLimit = 40

func formatPath(path string, mode PathMode, baseDir string) string {
	if path == "" {
		return "<input>"
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeRelative:
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		if rel, err := source.RelativePath(path, baseDir); err == nil {
			return rel
		}
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeAuto:
		if filepath.IsAbs(path) && len(path) > autoPathLimit {
			return filepath.Base(path)
		}
	}
	return filepath.ToSlash(path)
}
