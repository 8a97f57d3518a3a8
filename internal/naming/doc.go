// Package naming maps input files to output paths.
package naming
