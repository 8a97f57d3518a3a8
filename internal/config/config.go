// Package config holds runtime configuration: defaults, config file and
// environment layering, CLI flag binding, and validation. A bare invocation
// compresses ./videos/*.mp4 into ./compressed_videos with libx265 CRF 28.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is assembled once at startup by
// [DefaultConfig], [LoadFile], [LoadEnv] and the flag layer, then handed to
// the pipeline by value. Nothing mutates it after startup.
type Config struct {
	// Paths.
	InputDir     string   `yaml:"input_dir"`     // Default: "./videos".
	OutputDir    string   `yaml:"output_dir"`    // Default: "./compressed_videos".
	Extensions   []string `yaml:"extensions"`    // Default: [".mp4"]. Matched case-insensitively.
	OutputPrefix string   `yaml:"output_prefix"` // Default: "compressed_".

	// Encoder settings (passed through to ffmpeg unvalidated).
	VideoCodec   string `yaml:"video_codec"`   // Default: "libx265".
	CRF          int    `yaml:"crf"`           // Default: 28. Lower = better quality, larger file.
	Preset       string `yaml:"preset"`        // Default: "slow".
	AudioCodec   string `yaml:"audio_codec"`   // Default: "aac".
	AudioBitrate string `yaml:"audio_bitrate"` // Default: "128k".
	Overwrite    bool   `yaml:"overwrite"`     // Default: true (-y).

	// External tools.
	FFmpegBin  string `yaml:"ffmpeg"`  // Default: "ffmpeg".
	FFprobeBin string `yaml:"ffprobe"` // Default: "ffprobe".

	// Behavior flags.
	SkipExisting bool `yaml:"skip_existing"`
	DryRun       bool `yaml:"dry_run"`

	// Display and logging.
	Verbose      bool      `yaml:"verbose"`
	ShowProgress bool      `yaml:"show_progress"` // Default: true.
	ColorMode    ColorMode `yaml:"color"`         // Default: "auto".
	LogFile      string    `yaml:"log_file"`      // Optional JSON log sink.
	CheckOnly    bool      `yaml:"-"`             // Run --check diagnostics and exit.
}

// DefaultConfig returns the built-in settings: ./videos -> ./compressed_videos,
// libx265 CRF 28 slow, AAC 128k.
func DefaultConfig() Config {
	return Config{
		InputDir:     "./videos",
		OutputDir:    "./compressed_videos",
		Extensions:   []string{".mp4"},
		OutputPrefix: "compressed_",
		VideoCodec:   "libx265",
		CRF:          28,
		Preset:       "slow",
		AudioCodec:   "aac",
		AudioBitrate: "128k",
		Overwrite:    true,
		FFmpegBin:    "ffmpeg",
		FFprobeBin:   "ffprobe",
		ShowProgress: true,
		ColorMode:    ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum and required fields and canonicalizes the ones with
// several accepted spellings (extensions, audio bitrate). When not in
// CheckOnly mode it also requires both directory paths.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}

	if strings.TrimSpace(c.VideoCodec) == "" {
		return errors.New("video codec must not be empty")
	}
	if strings.TrimSpace(c.AudioCodec) == "" {
		return errors.New("audio codec must not be empty")
	}
	if strings.TrimSpace(c.Preset) == "" {
		return errors.New("preset must not be empty")
	}
	if c.FFmpegBin == "" || c.FFprobeBin == "" {
		return errors.New("ffmpeg and ffprobe paths must not be empty")
	}

	exts, err := normalizeExtensions(c.Extensions)
	if err != nil {
		return err
	}
	c.Extensions = exts

	normalizedBitrate, err := normalizeAudioBitrate(c.AudioBitrate)
	if err != nil {
		return err
	}
	c.AudioBitrate = normalizedBitrate

	if c.CheckOnly {
		return nil
	}
	if c.InputDir == "" || c.OutputDir == "" {
		return errors.New("input and output directories must not be empty")
	}
	return nil
}

// normalizeExtensions lowercases each entry and ensures a leading dot.
// "MP4", ".mp4" and "mp4" all become ".mp4"; duplicates are dropped.
func normalizeExtensions(raw []string) ([]string, error) {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" || e == "." {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil, errors.New("at least one input extension is required")
	}
	return out, nil
}

// normalizeAudioBitrate validates and canonicalizes user bitrate input.
// Accepted forms: "128", "128k", "128K", "128kbps". Output is "<n>k".
func normalizeAudioBitrate(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", errors.New("audio bitrate must not be empty")
	}
	if strings.HasSuffix(s, "kbps") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "kbps"))
	} else if strings.HasSuffix(s, "k") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "k"))
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return "", fmt.Errorf("invalid audio bitrate %q (use positive Kbps value, e.g. 128k)", raw)
	}
	return fmt.Sprintf("%dk", n), nil
}

// ValidatePaths ensures the resolved output directory is not inside (or equal
// to) the resolved input directory, so outputs never land among the inputs.
// Both arguments must be absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == inputAbs || strings.HasPrefix(outputAbs+sep, inputAbs+sep) {
		return errors.New("output directory must not be inside input directory")
	}
	return nil
}

// ExtensionLabel returns a short upper-case label for messages, e.g. "MP4"
// or "MP4/MKV".
func (c *Config) ExtensionLabel() string {
	labels := make([]string, 0, len(c.Extensions))
	for _, e := range c.Extensions {
		labels = append(labels, strings.ToUpper(strings.TrimPrefix(e, ".")))
	}
	return strings.Join(labels, "/")
}
