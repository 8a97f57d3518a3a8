// Command vidshrink batch-compresses the videos in a directory with ffmpeg,
// showing per-file progress and the size reduction achieved.
//
// It loads configuration (defaults, YAML file, .env and VIDSHRINK_* vars,
// flags), validates paths, and either runs system diagnostics (--check) or
// the compression pipeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/vidshrink/internal/check"
	"github.com/backmassage/vidshrink/internal/config"
	"github.com/backmassage/vidshrink/internal/display"
	"github.com/backmassage/vidshrink/internal/logging"
	"github.com/backmassage/vidshrink/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

// Process exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitNoInput = 2
)

func main() {
	os.Exit(execute())
}

// execute parses the command line and returns the process exit code.
func execute() int {
	code := exitOK
	cmd := newRootCmd(&code)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "vidshrink: %v\n", err)
		return exitFailure
	}
	return code
}

func newRootCmd(code *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vidshrink [input_dir [output_dir]]",
		Short: "Batch-compress videos with ffmpeg",
		Long: "Compress every matching video in input_dir (default ./videos) into output_dir\n" +
			"(default ./compressed_videos) using libx265 CRF 28 and AAC 128k unless overridden.",
		Args:          cobra.MaximumNArgs(2),
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := config.BindFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Flags(), flags, args, os.LookupEnv)
		if err != nil {
			return err
		}
		*code = run(cfg)
		return nil
	}
	return cmd
}

func run(cfg config.Config) int {
	// Phase 1: Logger. Until it exists errors go straight to stderr.
	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vidshrink: %v\n", err)
		return exitFailure
	}
	defer log.Close()

	display.PrintBanner(os.Stdout)

	if cfg.CheckOnly {
		if !check.RunCheck(context.Background(), &cfg, log) {
			return exitFailure
		}
		return exitOK
	}

	// Phase 2: Paths. Input must exist, output is created if needed and
	// must not be inside input.
	inputAbs, err := absPath(cfg.InputDir)
	if err != nil {
		log.Error("Input not found: %s", cfg.InputDir)
		return exitFailure
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Error("Cannot create output directory: %s", cfg.OutputDir)
		return exitFailure
	}
	outputAbs, err := absPath(cfg.OutputDir)
	if err != nil {
		log.Error("Cannot resolve output path: %s", cfg.OutputDir)
		return exitFailure
	}
	if err := cfg.ValidatePaths(inputAbs, outputAbs); err != nil {
		log.Error("%v", err)
		log.Error("Choose an output path outside: %s", cfg.InputDir)
		return exitFailure
	}

	log.Info("=== vidshrink v%s (%s) run %s ===", version, commit, log.RunID())
	log.Info("In:  %s", cfg.InputDir)
	log.Info("Out: %s", cfg.OutputDir)
	if cfg.DryRun {
		log.Warn("DRY RUN: no files will be written")
	}
	log.Blank()

	// Phase 3: Signals. Cancellation is observed between files; the file in
	// progress always runs to completion.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, finishing current file...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Phase 4: Run the pipeline.
	// Fail fast if ffmpeg/ffprobe or the configured encoders are unavailable,
	// but only once there is something to compress.
	preflight := func() error {
		if cfg.DryRun {
			return nil
		}
		return check.CheckDeps(&cfg)
	}
	stats, err := pipeline.NewRunner(cfg, log, pipeline.WithPreflight(preflight)).Run(ctx)
	return exitCode(stats, err, log)
}

// exitCode maps the pipeline outcome to a process exit status.
func exitCode(stats pipeline.RunStats, err error, log *logging.Logger) int {
	switch {
	case errors.Is(err, pipeline.ErrNoInput):
		return exitNoInput
	case errors.Is(err, context.Canceled):
		log.Warn("Stopped before all files were processed")
		return exitFailure
	case err != nil:
		log.Error("%v", err)
		return exitFailure
	case stats.Failed > 0:
		return exitFailure
	}
	return exitOK
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of input vs output directory hierarchies.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
