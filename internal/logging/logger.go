// Package logging provides the leveled console logger used by every
// vidshrink package, with an optional structured JSON file sink.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/backmassage/vidshrink/internal/config"
	"github.com/backmassage/vidshrink/internal/term"
)

// Logger provides leveled, optionally colored console logging. When a log
// file is configured every line is also written there as a JSON record
// tagged with the run id and any fields attached through [Logger.With].
type Logger struct {
	mu     *sync.Mutex
	out    io.Writer
	errOut io.Writer

	file  *os.File
	sink  hclog.Logger
	runID string
}

// NewLogger configures terminal colors from cfg and optionally opens
// cfg.LogFile for appending. Call Close() when done.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)
	l := New(os.Stdout, os.Stderr)

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
		l.sink = newSink(f).With("run_id", l.runID)
	}
	return l, nil
}

// New returns a console-only logger writing to out (ERROR lines to errOut).
func New(out, errOut io.Writer) *Logger {
	return &Logger{
		mu:     &sync.Mutex{},
		out:    out,
		errOut: errOut,
		runID:  newID(),
	}
}

func newSink(w io.Writer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:       "vidshrink",
		Output:     w,
		Level:      hclog.Debug,
		JSONFormat: true,
		TimeFormat: time.RFC3339,
	})
}

// newID returns a time-ordered UUIDv7, falling back to a random v4.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// NewID returns a fresh time-ordered identifier for tagging jobs.
func NewID() string { return newID() }

// RunID returns the identifier attached to every file-sink record of this run.
func (l *Logger) RunID() string { return l.runID }

// With returns a logger that shares this logger's outputs and adds the given
// key/value pairs to file-sink records. Console output is unchanged.
func (l *Logger) With(args ...interface{}) *Logger {
	child := *l
	if l.sink != nil {
		child.sink = l.sink.With(args...)
	}
	return &child
}

// Close closes the log file if one was opened. Only the logger returned by
// NewLogger should be closed; children from With share its file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		l.sink = nil
		return err
	}
	return nil
}

func (l *Logger) line(level, color, text string) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.out
	if level == "ERROR" {
		out = l.errOut
	}
	if color != "" {
		_, _ = io.WriteString(out, ts+" "+color+"["+level+"]"+term.NC+" "+text+"\n")
	} else {
		_, _ = io.WriteString(out, ts+" ["+level+"] "+text+"\n")
	}
	if l.sink != nil {
		l.record(level, text)
	}
}

// record writes one JSON line to the file sink. SUCCESS has no hclog level,
// so it is logged at INFO with an outcome field.
func (l *Logger) record(level, text string) {
	switch level {
	case "ERROR":
		l.sink.Error(text)
	case "WARN":
		l.sink.Warn(text)
	case "DEBUG":
		l.sink.Debug(text)
	case "SUCCESS":
		l.sink.Info(text, "outcome", "success")
	default:
		l.sink.Info(text)
	}
}

// Blank writes an empty console line to separate per-file blocks.
func (l *Logger) Blank() {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, "\n")
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.line("INFO", term.Blue, fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.line("SUCCESS", term.Green, fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.line("WARN", term.Yellow, fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red) to the error writer.
func (l *Logger) Error(format string, args ...interface{}) {
	l.line("ERROR", term.Red, fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan) only when verbose; no-op otherwise.
func (l *Logger) Debug(verbose bool, format string, args ...interface{}) {
	if !verbose {
		return
	}
	l.line("DEBUG", term.Cyan, fmt.Sprintf(format, args...))
}
