package finder

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// IsDotFile reports whether a path has a DOT file extension (.dot or .gv)
func IsDotFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dot", ".gv":
		return true
	}
	return false
}

// FindDotFiles walks root and returns all DOT files in walk order,
// skipping hidden directories such as .git.
func FindDotFiles(root string) ([]string, error) {
	var dotFiles []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if IsDotFile(path) {
			dotFiles = append(dotFiles, path)
		}

		return nil
	})

	return dotFiles, err
}
