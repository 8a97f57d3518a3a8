package ffmpeg

import (
	"fmt"
	"regexp"
	"strings"
)

// ExitError reports a transcode that did not finish cleanly: either ffmpeg
// could not be started (Code -1) or it exited with a non-zero status.
type ExitError struct {
	Code int
	Tail []string // last diagnostic lines, oldest first
	Err  error
}

func (e *ExitError) Error() string {
	if e.Code < 0 {
		return fmt.Sprintf("ffmpeg failed to start: %v", e.Err)
	}
	if r := e.Reason(); r != "" {
		return fmt.Sprintf("ffmpeg exited with status %d (%s)", e.Code, r)
	}
	return fmt.Sprintf("ffmpeg exited with status %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Reason classifies the diagnostic tail into a short human-readable cause,
// or returns "" when nothing recognizable was printed.
func (e *ExitError) Reason() string {
	return Classify(strings.Join(e.Tail, "\n"))
}

// Pre-compiled patterns for common fatal ffmpeg messages, checked in order.
var failureReasons = []struct {
	re     *regexp.Regexp
	reason string
}{
	{regexp.MustCompile(`Unknown encoder|Encoder not found`), "encoder not available"},
	{regexp.MustCompile(`No space left on device`), "disk full"},
	{regexp.MustCompile(`(?i)Permission denied`), "permission denied"},
	{regexp.MustCompile(`already exists\. Exiting`), "output exists"},
	{regexp.MustCompile(`No such file or directory`), "file not found"},
	{regexp.MustCompile(`Invalid data found when processing input|moov atom not found`), "corrupt input"},
	{regexp.MustCompile(`(?i)Error (initializing|while opening) (output stream|encoder)`), "encoder setup failed"},
}

// Classify returns the first matching failure reason found in stderr.
func Classify(stderr string) string {
	for _, f := range failureReasons {
		if f.re.MatchString(stderr) {
			return f.reason
		}
	}
	return ""
}
