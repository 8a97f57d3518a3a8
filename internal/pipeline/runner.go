package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/backmassage/vidshrink/internal/config"
	"github.com/backmassage/vidshrink/internal/display"
	"github.com/backmassage/vidshrink/internal/ffmpeg"
	"github.com/backmassage/vidshrink/internal/logging"
	"github.com/backmassage/vidshrink/internal/naming"
	"github.com/backmassage/vidshrink/internal/probe"
	"github.com/backmassage/vidshrink/internal/progress"
	"github.com/backmassage/vidshrink/internal/term"
)

// ErrNoInput is returned by [Runner.Run] when the input directory holds no
// matching files. It is a normal, unproductive outcome rather than a crash.
var ErrNoInput = errors.New("no input files found")

// DurationProber reports a media file's duration in seconds.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// Transcoder runs one ffmpeg command line, passing each diagnostic line to
// onLine as it is produced.
type Transcoder interface {
	Run(args []string, onLine func(string)) (ffmpeg.Result, error)
}

// DisplayFunc creates the progress display for one job.
type DisplayFunc func(name string, total float64) progress.Display

// Option customizes a Runner.
type Option func(*Runner)

// WithProber replaces the ffprobe-backed duration prober.
func WithProber(p DurationProber) Option { return func(r *Runner) { r.prober = p } }

// WithTranscoder replaces the ffmpeg process runner.
func WithTranscoder(t Transcoder) Option { return func(r *Runner) { r.transcoder = t } }

// WithDisplay replaces the progress display factory.
func WithDisplay(f DisplayFunc) Option { return func(r *Runner) { r.newDisplay = f } }

// WithPreflight sets a check run once input files have been found and before
// the first probe. Its error aborts the run.
func WithPreflight(f func() error) Option { return func(r *Runner) { r.preflight = f } }

// Runner executes one batch with a fixed configuration.
type Runner struct {
	cfg        config.Config
	log        *logging.Logger
	prober     DurationProber
	transcoder Transcoder
	newDisplay DisplayFunc
	preflight  func() error
}

// NewRunner returns a Runner that probes with cfg.FFprobeBin, transcodes with
// cfg.FFmpegBin and draws a progress bar on stderr when enabled and stderr is
// a terminal.
func NewRunner(cfg config.Config, log *logging.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:        cfg,
		log:        log,
		prober:     probe.NewProber(cfg.FFprobeBin),
		transcoder: ffmpeg.Executor{},
		newDisplay: defaultDisplay(cfg),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func defaultDisplay(cfg config.Config) DisplayFunc {
	if !cfg.ShowProgress || !term.IsTerminal(os.Stderr) {
		return func(string, float64) progress.Display { return progress.Nop{} }
	}
	return func(name string, total float64) progress.Display {
		return progress.NewBar(os.Stderr, name, total, term.Enabled())
	}
}

// Run discovers input files and processes them sequentially. It returns
// [ErrNoInput] when there is nothing to do, the context error when
// interrupted between files, or a fatal I/O error. Per-file failures are
// counted in the returned stats and do not stop the run.
func (r *Runner) Run(ctx context.Context) (RunStats, error) {
	start := time.Now()
	var stats RunStats
	label := r.cfg.ExtensionLabel()

	files, err := Discover(r.cfg.InputDir, r.cfg.Extensions)
	if err != nil {
		return stats, fmt.Errorf("list input directory: %w", err)
	}
	stats.Total = len(files)
	if stats.Total == 0 {
		r.log.Warn("No %s files found in the input folder.", label)
		return stats, ErrNoInput
	}

	if r.preflight != nil {
		if err := r.preflight(); err != nil {
			return stats, err
		}
	}

	r.log.Info("Found %d %s files. Starting compression...", stats.Total, label)
	r.logSettings()
	r.log.Blank()

	var runErr error
	for i, path := range files {
		if ctx.Err() != nil {
			r.log.Warn("Interrupted, %d file(s) not started", stats.Total-i)
			runErr = ctx.Err()
			break
		}
		stats.Current = i + 1

		if err := r.processFile(ctx, path, &stats); err != nil {
			stats.Elapsed = time.Since(start)
			return stats, err
		}
	}

	stats.Elapsed = time.Since(start)
	r.logSummary(&stats)
	return stats, runErr
}

func (r *Runner) logSettings() {
	c := r.cfg
	r.log.Info("Video: %s CRF %d preset %s | Audio: %s %s", c.VideoCodec, c.CRF, c.Preset, c.AudioCodec, c.AudioBitrate)
	r.log.Info("Output: %s/%s<name>", c.OutputDir, c.OutputPrefix)
	if c.SkipExisting {
		r.log.Info("Existing outputs: skip")
	} else if !c.Overwrite {
		r.log.Info("Existing outputs: keep (ffmpeg -n)")
	}
	if c.DryRun {
		r.log.Info("Dry run: no files will be written")
	}
}

// processFile handles one input: probe → skip checks → transcode → report.
// Only errors that should end the run are returned.
func (r *Runner) processFile(ctx context.Context, path string, stats *RunStats) error {
	name := logging.Sanitize(filepath.Base(path))
	log := r.log.With("job_id", logging.NewID(), "file", name)

	// --- Probe ---
	duration, err := r.prober.Duration(ctx, path)
	if err != nil {
		log.Warn("Skipping %s (unable to read duration)", name)
		log.Debug(r.cfg.Verbose, "  %v", err)
		stats.Skipped++
		return nil
	}

	log.Info("[%d/%d] Compressing: %s (Duration: %.2f sec)", stats.Current, stats.Total, name, duration)
	outputPath := naming.OutputPath(r.cfg.OutputDir, r.cfg.OutputPrefix, path)

	// --- Skip-existing check ---
	if r.cfg.SkipExisting {
		if _, err := os.Stat(outputPath); err == nil {
			log.Warn("Skip (exists): %s", logging.Sanitize(filepath.Base(outputPath)))
			stats.Skipped++
			log.Blank()
			return nil
		}
	}

	args := ffmpeg.Build(&r.cfg, path, outputPath)

	// --- Dry-run ---
	if r.cfg.DryRun {
		log.Success("[DRY] Would run: %s", logging.Sanitize(strings.Join(args, " ")))
		stats.Planned++
		log.Blank()
		return nil
	}
	log.Debug(r.cfg.Verbose, "  %s", logging.Sanitize(strings.Join(args, " ")))

	// --- Transcode ---
	jobStart := time.Now()
	tracker := progress.NewTracker(duration)
	bar := r.newDisplay(name, duration)
	watch := progress.Watch(tracker, bar)
	onLine := func(line string) {
		watch(line)
		log.Debug(r.cfg.Verbose && !progress.HasTimestamp(line), "  ffmpeg: %s", logging.Sanitize(line))
	}
	_, err = r.transcoder.Run(args, onLine)
	bar.Finish()
	jobTime := time.Since(jobStart)
	stats.JobTime += jobTime

	if err != nil {
		var ee *ffmpeg.ExitError
		if !errors.As(err, &ee) {
			return fmt.Errorf("transcode %s: %w", name, err)
		}
		log.Error("Compression failed: %s: %v", name, ee)
		logStderr(log, ee.Tail)
		if rmErr := os.Remove(outputPath); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Warn("Could not remove partial output: %v", rmErr)
		}
		stats.Failed++
		log.Blank()
		return nil
	}

	// --- Report ---
	inInfo, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat input %s: %w", name, err)
	}
	outInfo, err := os.Stat(outputPath)
	if err != nil {
		return fmt.Errorf("stat output %s: %w", filepath.Base(outputPath), err)
	}

	stats.TotalInputBytes += inInfo.Size()
	stats.TotalOutputBytes += outInfo.Size()
	stats.Processed++

	log.Success("%s", FileReport(name, inInfo.Size(), outInfo.Size()))
	log.Debug(r.cfg.Verbose, "  Compressed in %.1fs, size change %s",
		jobTime.Seconds(), display.FormatBytesWithSign(outInfo.Size()-inInfo.Size()))
	log.Blank()
	return nil
}

func logStderr(log *logging.Logger, tail []string) {
	if len(tail) == 0 {
		return
	}
	log.Error("Last ffmpeg output:")
	for _, l := range tail {
		log.Error("  %s", logging.Sanitize(l))
	}
}
