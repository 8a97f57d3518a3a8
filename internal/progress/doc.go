// Package progress turns ffmpeg's "time=HH:MM:SS.ff" stats into a
// monotonically advancing position and a completion estimate, and renders
// it as a terminal progress bar.
//
// Estimates are derived from wall time and the fraction completed; they are
// informational only and never influence control flow.
package progress
