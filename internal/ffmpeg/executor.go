package ffmpeg

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

const (
	// tailLines is how many trailing diagnostic lines are kept for failure reports.
	tailLines = 20

	// maxLineBytes caps a single diagnostic line; ffmpeg metadata dumps can
	// exceed bufio's 64 KiB default. Longer lines are split into chunks.
	maxLineBytes = 1024 * 1024
)

// Result holds the outcome of a single ffmpeg invocation.
type Result struct {
	Lines int      // diagnostic lines read
	Tail  []string // last diagnostic lines, oldest first
}

// Execute starts args[0] with args[1:], reads its stderr incrementally and
// calls onLine for every non-empty line as it arrives. It returns once the
// stream is exhausted and the process has exited. A launch failure or
// non-zero exit is returned as *ExitError alongside the partial Result.
//
// The process is not bound to a context: once a transcode has
// started it runs to completion.
func Execute(args []string, onLine func(string)) (Result, error) {
	var res Result
	if len(args) == 0 {
		return res, &ExitError{Code: -1, Err: errors.New("empty command")}
	}

	cmd := exec.Command(args[0], args[1:]...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return res, &ExitError{Code: -1, Err: fmt.Errorf("stderr pipe: %w", err)}
	}
	if err := cmd.Start(); err != nil {
		return res, &ExitError{Code: -1, Err: err}
	}

	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	scanner.Split(capLines(ScanLines, maxLineBytes))

	tail := newTail(tailLines)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		res.Lines++
		tail.add(line)
		if onLine != nil {
			onLine(line)
		}
	}
	scanErr := scanner.Err()
	if scanErr != nil {
		// Keep the pipe empty so ffmpeg never blocks on a full buffer.
		_, _ = io.Copy(io.Discard, stderr)
	}

	waitErr := cmd.Wait()
	res.Tail = tail.lines()

	if waitErr != nil {
		code := -1
		var ee *exec.ExitError
		if errors.As(waitErr, &ee) {
			code = ee.ExitCode()
		}
		return res, &ExitError{Code: code, Tail: res.Tail, Err: waitErr}
	}
	if scanErr != nil {
		return res, fmt.Errorf("read ffmpeg output: %w", scanErr)
	}
	return res, nil
}

// ScanLines is a bufio.SplitFunc that ends a line at '\r' or '\n'. A "\r\n"
// pair yields an extra empty token, which callers skip.
func ScanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// capLines wraps split so that a line reaching limit bytes without a
// terminator is emitted as a chunk instead of failing with bufio.ErrTooLong.
func capLines(split bufio.SplitFunc, limit int) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (int, []byte, error) {
		advance, token, err := split(data, atEOF)
		if advance == 0 && token == nil && err == nil && len(data) >= limit {
			return limit, data[:limit], nil
		}
		return advance, token, err
	}
}

// tail keeps the last n lines in a fixed ring.
type tail struct {
	buf   []string
	next  int
	count int
}

func newTail(n int) *tail {
	return &tail{buf: make([]string, n)}
}

func (t *tail) add(line string) {
	t.buf[t.next] = line
	t.next = (t.next + 1) % len(t.buf)
	if t.count < len(t.buf) {
		t.count++
	}
}

func (t *tail) lines() []string {
	out := make([]string, 0, t.count)
	start := (t.next - t.count + len(t.buf)) % len(t.buf)
	for i := 0; i < t.count; i++ {
		out = append(out, t.buf[(start+i)%len(t.buf)])
	}
	return out
}

// Executor runs ffmpeg commands as child processes.
type Executor struct{}

// Run calls [Execute].
func (Executor) Run(args []string, onLine func(string)) (Result, error) {
	return Execute(args, onLine)
}
