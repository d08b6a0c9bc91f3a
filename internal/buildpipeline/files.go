package buildpipeline

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// DocumentExt is the extension of source documents.
const DocumentExt = ".md"

// ListDocuments returns the .md files under dir relative to dir, sorted.
// Hidden directories are skipped.
func ListDocuments(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), DocumentExt) {
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// OutputPath maps a document path relative to the source directory to its
// .html path under outputDir.
func OutputPath(outputDir, rel string) string {
	rel = filepath.FromSlash(rel)
	return filepath.Join(outputDir, strings.TrimSuffix(rel, filepath.Ext(rel))+".html")
}
