package pipeline

import "time"

// RunStats tracks aggregate counters, byte totals and timing across a batch run.
type RunStats struct {
	Total     int // files found
	Current   int // 1-based index of the file being handled
	Processed int // transcoded and reported
	Planned   int // dry-run only
	Skipped   int // unreadable duration or existing output
	Failed    int // transcoder exited non-zero or could not start

	TotalInputBytes  int64
	TotalOutputBytes int64

	JobTime time.Duration // sum of per-job transcode wall time
	Elapsed time.Duration // whole-run wall time
}

// SpaceSaved returns the aggregate byte difference between inputs and outputs.
// Positive means outputs are smaller; negative means they grew.
func (s *RunStats) SpaceSaved() int64 {
	return s.TotalInputBytes - s.TotalOutputBytes
}

// Reduction returns the aggregate size reduction percentage for processed files.
func (s *RunStats) Reduction() float64 {
	return Reduction(s.TotalInputBytes, s.TotalOutputBytes)
}
