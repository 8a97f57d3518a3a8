package pipeline

import (
	"fmt"
	"time"

	"github.com/backmassage/vidshrink/internal/display"
)

// Reduction returns (1 - out/in) * 100. Growth yields a negative value; an
// empty input yields 0.
func Reduction(in, out int64) float64 {
	if in <= 0 {
		return 0
	}
	return (1 - float64(out)/float64(in)) * 100
}

// FileReport formats the one-line result for a transcoded file.
func FileReport(name string, in, out int64) string {
	return fmt.Sprintf("Done: %s | Size: %s -> %s (%.1f%% smaller)",
		name, display.FormatMB(in), display.FormatMB(out), Reduction(in, out))
}

// TotalTimeReport formats the end-of-run wall time line.
func TotalTimeReport(d time.Duration) string {
	s := d.Seconds()
	return fmt.Sprintf("Total time: %.2f seconds (%.2f minutes)", s, s/60)
}

func (r *Runner) logSummary(stats *RunStats) {
	log := r.log
	log.Info("==============================")
	if r.cfg.DryRun {
		log.Info("Finished: %d planned, %d skipped", stats.Planned, stats.Skipped)
	} else {
		log.Info("Finished: %d compressed, %d skipped, %d failed", stats.Processed, stats.Skipped, stats.Failed)
	}
	log.Info("Summary report:")
	log.Info("  Total files handled: %d of %d", stats.Current, stats.Total)

	switch {
	case r.cfg.DryRun:
		log.Info("  Total space saved: n/a (dry run)")
	case stats.Processed == 0:
		log.Info("  Total space saved: n/a (nothing compressed)")
	default:
		saved := stats.SpaceSaved()
		if saved >= 0 {
			log.Info("  Total space saved: %s (%.1f%% smaller)", display.FormatBytes(saved), stats.Reduction())
		} else {
			log.Warn("  Total size increase: %s (%.1f%% larger)", display.FormatBytes(-saved), -stats.Reduction())
		}
		log.Debug(r.cfg.Verbose, "  Time spent transcoding: %.2f seconds", stats.JobTime.Seconds())
	}
	log.Success("%s", TotalTimeReport(stats.Elapsed))
}
