// Package display holds console formatting helpers shared by the pipeline
// and the check command.
package display

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

const bytesPerMB = 1024 * 1024

// FormatBytes returns a human-readable IEC size (B, KiB, MiB, GiB, ...).
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "-" + humanize.IBytes(uint64(-bytes))
	}
	return humanize.IBytes(uint64(bytes))
}

// FormatBytesWithSign prefixes with + or - for delta display (e.g. "- 1.2 GiB").
func FormatBytesWithSign(bytes int64) string {
	switch {
	case bytes > 0:
		return "+ " + FormatBytes(bytes)
	case bytes < 0:
		return "- " + FormatBytes(-bytes)
	}
	return FormatBytes(0)
}

// MB converts a byte count to binary megabytes.
func MB(bytes int64) float64 {
	return float64(bytes) / bytesPerMB
}

// FormatMB renders a byte count as binary megabytes with one decimal,
// e.g. "60.0MB".
func FormatMB(bytes int64) string {
	return fmt.Sprintf("%.1fMB", MB(bytes))
}
