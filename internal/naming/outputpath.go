package naming

import "path/filepath"

// OutputPath returns <outputDir>/<prefix><base name of inputPath>. The
// extension is kept as-is, so a.MP4 becomes compressed_a.MP4.
func OutputPath(outputDir, prefix, inputPath string) string {
	return filepath.Join(outputDir, prefix+filepath.Base(inputPath))
}
