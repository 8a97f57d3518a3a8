package progress

import (
	"math"
	"time"
)

// zeroPosition stands in for a position of exactly zero when estimating.
const zeroPosition = 1e-6

// Estimate is a point-in-time projection of a job's completion. All values
// are in seconds.
type Estimate struct {
	Elapsed   float64
	Total     float64
	Remaining float64
}

// Tracker holds the progress state of a single transcode job.
type Tracker struct {
	total float64
	start time.Time
	pos   float64
	now   func() time.Time
}

// NewTracker starts tracking a job whose media runs for total seconds.
func NewTracker(total float64) *Tracker {
	return newTrackerWithClock(total, time.Now)
}

func newTrackerWithClock(total float64, now func() time.Time) *Tracker {
	return &Tracker{total: total, start: now(), now: now}
}

// Position returns the furthest position observed so far.
func (t *Tracker) Position() float64 { return t.pos }

// Advance moves the position to pos and returns the increment. Positions at
// or behind the current one are ignored and yield 0.
func (t *Tracker) Advance(pos float64) float64 {
	if pos <= t.pos {
		return 0
	}
	delta := pos - t.pos
	t.pos = pos
	return delta
}

// Observe parses one diagnostic line and advances on a timestamp. It reports
// whether the position moved.
func (t *Tracker) Observe(line string) bool {
	pos, ok := ParseTimestamp(line)
	if !ok {
		return false
	}
	return t.Advance(pos) > 0
}

// Estimate recomputes elapsed, projected total, and remaining time.
func (t *Tracker) Estimate() Estimate {
	elapsed := t.now().Sub(t.start).Seconds()
	pos := t.pos
	if pos == 0 {
		pos = zeroPosition
	}
	var total float64
	if t.total > 0 {
		total = elapsed / (pos / t.total)
	}
	return Estimate{
		Elapsed:   elapsed,
		Total:     total,
		Remaining: math.Max(0, total-elapsed),
	}
}

// Watch returns a line handler that feeds tracker t and refreshes d whenever
// the position moves.
func Watch(t *Tracker, d Display) func(string) {
	return func(line string) {
		if !t.Observe(line) {
			return
		}
		d.Set(t.Position())
		e := t.Estimate()
		d.Describe(e.Elapsed, e.Remaining)
	}
}
