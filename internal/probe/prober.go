package probe

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrDurationUnknown wraps every probe failure. Callers treat it as "skip
// this file"; the underlying cause is kept only for logging.
var ErrDurationUnknown = errors.New("duration unknown")

// Prober runs ffprobe. Bin defaults to "ffprobe" when empty.
type Prober struct {
	Bin string
}

// NewProber returns a Prober for the given ffprobe executable.
func NewProber(bin string) *Prober {
	return &Prober{Bin: bin}
}

// Args returns the ffprobe arguments used to read the duration of path.
func Args(path string) []string {
	return []string{
		"-i", path,
		"-show_entries", "format=duration",
		"-v", "quiet",
		"-of", "csv=p=0",
	}
}

// Duration runs ffprobe against path and returns the container duration in
// seconds. The value itself is not range-checked.
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	bin := p.Bin
	if bin == "" {
		bin = "ffprobe"
	}

	out, err := exec.CommandContext(ctx, bin, Args(path)...).Output()
	if err != nil {
		return 0, fmt.Errorf("%w: ffprobe %q: %v", ErrDurationUnknown, path, err)
	}
	d, err := ParseDuration(out)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrDurationUnknown, path, err)
	}
	return d, nil
}

// ParseDuration parses ffprobe's value-only output. Only the first line is
// considered; surrounding whitespace is ignored.
func ParseDuration(out []byte) (float64, error) {
	s := strings.TrimSpace(string(out))
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if s == "" {
		return 0, errors.New("empty ffprobe output")
	}
	d, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return d, nil
}
