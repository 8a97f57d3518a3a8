package pipeline

import (
	"os"
	"path/filepath"
	"strings"
)

// Discover lists inputDir (non-recursively) and returns the paths of regular
// files whose extension matches one of exts, compared case-insensitively.
// exts must be lowercase with a leading dot. Order follows the directory
// listing, which os.ReadDir returns sorted by name.
func Discover(inputDir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, err
	}

	want := make(map[string]bool, len(exts))
	for _, e := range exts {
		want[e] = true
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if want[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, filepath.Join(inputDir, e.Name()))
		}
	}
	return files, nil
}
