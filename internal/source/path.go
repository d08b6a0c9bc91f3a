package source

import (
	"os"
	"path/filepath"
	"strings"
)

// Load reads and normalizes the document at path.
func Load(path string) (*File, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewFile(path, content), nil
}

// RelativePath returns target relative to baseDir, with forward slashes.
// Targets outside baseDir are returned as cleaned absolute paths.
func RelativePath(target, baseDir string) (string, error) {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return slashPath(absTarget), nil
	}
	return slashPath(rel), nil
}
