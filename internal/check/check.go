// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for ffmpeg, ffprobe and the configured
// video and audio encoders.
package check

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/backmassage/vidshrink/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool or encoder is missing.
var (
	ErrFfmpegNotFound     = errors.New("ffmpeg not found")
	ErrFfprobeNotFound    = errors.New("ffprobe not found")
	ErrVideoEncoderFailed = errors.New("video encoder test encode failed")
	ErrAudioEncoderFailed = errors.New("audio encoder test encode failed")
)

// lowDiskBytes is the free-space threshold below which --check warns.
const lowDiskBytes = 2 << 30

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the interactive --check flow: ffmpeg and ffprobe versions,
// configured encoders, test encodes, and host resources. It reports whether
// every required check passed; host information is advisory only.
func RunCheck(ctx context.Context, cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkTool(log, "ffmpeg", cfg.FFmpegBin)
	ok = checkTool(log, "ffprobe", cfg.FFprobeBin) && ok
	if ok {
		checkEncoders(log, cfg)
		ok = checkTestEncodes(log, cfg) && ok
	}

	log.Info("=== Host ===")
	checkHost(ctx, log, cfg)
	return ok
}

// checkTool verifies bin resolves on PATH and logs its version line.
func checkTool(log Logger, label, bin string) bool {
	path, err := exec.LookPath(bin)
	if err != nil {
		log.Error("%s not found (%s)", label, bin)
		return false
	}
	out, err := exec.Command(path, "-version").Output()
	if err != nil {
		log.Warn("%s found at %s but -version failed: %v", label, path, err)
		return true
	}
	log.Success("%s: %s", label, firstLine(string(out)))
	return true
}

// checkEncoders lists the encoder lines ffmpeg reports for the configured codecs.
func checkEncoders(log Logger, cfg *config.Config) {
	out, err := exec.Command(cfg.FFmpegBin, "-hide_banner", "-encoders").Output()
	if err != nil {
		log.Warn("Could not list encoders: %v", err)
		return
	}
	for _, codec := range []string{cfg.VideoCodec, cfg.AudioCodec} {
		if line := findEncoder(string(out), codec); line != "" {
			log.Info("  %s", line)
		} else {
			log.Warn("Encoder %s not listed by ffmpeg", codec)
		}
	}
}

// findEncoder returns the -encoders line whose name column equals codec.
func findEncoder(listing, codec string) string {
	for _, line := range strings.Split(listing, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == codec {
			return strings.TrimSpace(line)
		}
	}
	return ""
}

func checkTestEncodes(log Logger, cfg *config.Config) bool {
	ok := true
	log.Info("Testing %s...", cfg.VideoCodec)
	if runSilent(cfg.FFmpegBin, videoTestArgs(cfg)...) {
		log.Success("%s works", cfg.VideoCodec)
	} else {
		log.Error("%s test encode failed", cfg.VideoCodec)
		ok = false
	}

	log.Info("Testing %s...", cfg.AudioCodec)
	if runSilent(cfg.FFmpegBin, audioTestArgs(cfg)...) {
		log.Success("%s works", cfg.AudioCodec)
	} else {
		log.Error("%s test encode failed", cfg.AudioCodec)
		ok = false
	}
	return ok
}

// CheckDeps is the pre-pipeline validation: it verifies that ffmpeg and
// ffprobe resolve and that the configured video and audio encoders can
// produce a short test encode. Returns a wrapped sentinel error on failure.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.FFmpegBin); err != nil {
		return fmt.Errorf("%w: %s", ErrFfmpegNotFound, cfg.FFmpegBin)
	}
	if _, err := exec.LookPath(cfg.FFprobeBin); err != nil {
		return fmt.Errorf("%w: %s", ErrFfprobeNotFound, cfg.FFprobeBin)
	}
	if !runSilent(cfg.FFmpegBin, videoTestArgs(cfg)...) {
		return fmt.Errorf("%w: %s", ErrVideoEncoderFailed, cfg.VideoCodec)
	}
	if !runSilent(cfg.FFmpegBin, audioTestArgs(cfg)...) {
		return fmt.Errorf("%w: %s", ErrAudioEncoderFailed, cfg.AudioCodec)
	}
	return nil
}

// --- internal helpers ---

// videoTestArgs returns the ffmpeg arguments for a minimal encode with the
// configured video codec.
func videoTestArgs(cfg *config.Config) []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", cfg.VideoCodec, "-crf", fmt.Sprint(cfg.CRF), "-preset", cfg.Preset,
		"-f", "null", "-",
	}
}

// audioTestArgs returns the ffmpeg arguments for a minimal encode with the
// configured audio codec.
func audioTestArgs(cfg *config.Config) []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", cfg.AudioCodec, "-b:a", cfg.AudioBitrate,
		"-f", "null", "-",
	}
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx > 0 {
		return s[:idx]
	}
	return s
}

// existingDir walks up from dir to the nearest directory that exists, so
// disk usage can be reported before the output directory is created.
func existingDir(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	for {
		if fi, err := os.Stat(abs); err == nil && fi.IsDir() {
			return abs
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return abs
		}
		abs = parent
	}
}
