package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Display renders a job's progress. Positions and times are in seconds.
type Display interface {
	Set(pos float64)
	Describe(elapsed, remaining float64)
	Finish()
}

// Nop is a Display that renders nothing.
type Nop struct{}

func (Nop) Set(float64)               {}
func (Nop) Describe(float64, float64) {}
func (Nop) Finish()                   {}

// Bar is a Display backed by a terminal progress bar. The bar counts
// milliseconds of media so sub-second timestamps still move it.
type Bar struct {
	pb    *progressbar.ProgressBar
	max   int64
	label string
}

// NewBar creates a bar for a job of total seconds, writing to w.
func NewBar(w io.Writer, label string, total float64, color bool) *Bar {
	limit := int64(total * 1000)
	if limit < 1 {
		limit = 1
	}
	pb := progressbar.NewOptions64(limit,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionEnableColorCodes(color),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() { _, _ = fmt.Fprintln(w) }),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Bar{pb: pb, max: limit, label: label}
}

// Set moves the bar to pos seconds, clamped to the bar's range.
func (b *Bar) Set(pos float64) {
	v := int64(pos * 1000)
	if v < 0 {
		v = 0
	}
	if v > b.max {
		v = b.max
	}
	_ = b.pb.Set64(v)
}

// Describe shows the current elapsed and remaining estimate next to the label.
func (b *Bar) Describe(elapsed, remaining float64) {
	b.pb.Describe(fmt.Sprintf("%s elapsed=%.1fs remaining=%.1fs", b.label, elapsed, remaining))
}

// Finish completes the bar and moves to a fresh line.
func (b *Bar) Finish() {
	_ = b.pb.Finish()
}
