package config

// This file binds CLI flags and layers them over file/env settings.
// Flags are grouped into paths, encoding, behavior, display, and utility.
// Only flags the user actually set are applied, so values from the config
// file and environment survive unless overridden on the command line.

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Flags holds raw flag values until [Flags.Apply] copies the changed ones
// into a Config.
type Flags struct {
	values Config

	configPath string
	envFile    string

	noOverwrite bool
	noProgress  bool
	forceColor  bool
	noColor     bool
}

// BindFlags registers every vidshrink flag on fs. Defaults shown in help
// come from [DefaultConfig].
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{values: DefaultConfig()}

	defineSourceFlags(fs, f)
	definePathFlags(fs, f)
	defineEncodingFlags(fs, f)
	defineBehaviorFlags(fs, f)
	defineDisplayFlags(fs, f)
	return f
}

// ConfigPath returns the --config value (empty when unset).
func (f *Flags) ConfigPath() string { return f.configPath }

// EnvFile returns the --env-file value.
func (f *Flags) EnvFile() string { return f.envFile }

// defineSourceFlags registers --config and --env-file.
func defineSourceFlags(fs *pflag.FlagSet, f *Flags) {
	fs.StringVar(&f.configPath, "config", "", "YAML config file")
	fs.StringVar(&f.envFile, "env-file", ".env", "dotenv file with VIDSHRINK_* overrides (ignored if missing)")
}

// definePathFlags registers -e/--ext and --prefix.
func definePathFlags(fs *pflag.FlagSet, f *Flags) {
	fs.StringSliceVarP(&f.values.Extensions, "ext", "e", f.values.Extensions, "Input file extensions to process")
	fs.StringVar(&f.values.OutputPrefix, "prefix", f.values.OutputPrefix, "Output file name prefix")
}

// defineEncodingFlags registers codec, quality and tool-path flags.
func defineEncodingFlags(fs *pflag.FlagSet, f *Flags) {
	fs.StringVar(&f.values.VideoCodec, "video-codec", f.values.VideoCodec, "ffmpeg video encoder")
	fs.IntVarP(&f.values.CRF, "crf", "q", f.values.CRF, "Constant rate factor (lower = better quality, larger file)")
	fs.StringVarP(&f.values.Preset, "preset", "p", f.values.Preset, "Encoder speed/quality preset")
	fs.StringVar(&f.values.AudioCodec, "audio-codec", f.values.AudioCodec, "ffmpeg audio encoder")
	fs.StringVarP(&f.values.AudioBitrate, "audio-bitrate", "b", f.values.AudioBitrate, "Audio bitrate (e.g. 128k)")
	fs.BoolVar(&f.noOverwrite, "no-overwrite", false, "Never overwrite existing output files (ffmpeg -n)")
	fs.StringVar(&f.values.FFmpegBin, "ffmpeg", f.values.FFmpegBin, "Path to the ffmpeg executable")
	fs.StringVar(&f.values.FFprobeBin, "ffprobe", f.values.FFprobeBin, "Path to the ffprobe executable")
}

// defineBehaviorFlags registers --skip-existing and --dry-run.
func defineBehaviorFlags(fs *pflag.FlagSet, f *Flags) {
	fs.BoolVarP(&f.values.SkipExisting, "skip-existing", "s", false, "Skip inputs whose output file already exists")
	fs.BoolVarP(&f.values.DryRun, "dry-run", "d", false, "Probe and print commands only; do not transcode")
}

// defineDisplayFlags registers verbosity, progress, color, log and check flags.
func defineDisplayFlags(fs *pflag.FlagSet, f *Flags) {
	fs.BoolVarP(&f.values.Verbose, "verbose", "v", false, "Echo ffmpeg diagnostics")
	fs.BoolVar(&f.noProgress, "no-progress", false, "Disable the live progress bar")
	fs.BoolVar(&f.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable colored logs")
	fs.StringVarP(&f.values.LogFile, "log", "l", "", "Append structured JSON logs to file")
	fs.BoolVarP(&f.values.CheckOnly, "check", "c", false, "Run system diagnostics and exit")
}

// Apply copies every flag the user set into cfg, then applies the optional
// positional arguments [input_dir [output_dir]].
func (f *Flags) Apply(fs *pflag.FlagSet, cfg *Config, args []string) error {
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}

	set("ext", func() { cfg.Extensions = append([]string(nil), f.values.Extensions...) })
	set("prefix", func() { cfg.OutputPrefix = f.values.OutputPrefix })
	set("video-codec", func() { cfg.VideoCodec = f.values.VideoCodec })
	set("crf", func() { cfg.CRF = f.values.CRF })
	set("preset", func() { cfg.Preset = f.values.Preset })
	set("audio-codec", func() { cfg.AudioCodec = f.values.AudioCodec })
	set("audio-bitrate", func() { cfg.AudioBitrate = f.values.AudioBitrate })
	set("ffmpeg", func() { cfg.FFmpegBin = f.values.FFmpegBin })
	set("ffprobe", func() { cfg.FFprobeBin = f.values.FFprobeBin })
	set("skip-existing", func() { cfg.SkipExisting = f.values.SkipExisting })
	set("dry-run", func() { cfg.DryRun = f.values.DryRun })
	set("verbose", func() { cfg.Verbose = f.values.Verbose })
	set("log", func() { cfg.LogFile = f.values.LogFile })
	set("check", func() { cfg.CheckOnly = f.values.CheckOnly })

	if f.noOverwrite {
		cfg.Overwrite = false
	}
	if f.noProgress {
		cfg.ShowProgress = false
	}
	if f.noColor {
		cfg.ColorMode = ColorNever
	} else if f.forceColor {
		cfg.ColorMode = ColorAlways
	}

	return applyPositionalArgs(cfg, args)
}

// applyPositionalArgs sets InputDir and OutputDir from up to two positional args.
func applyPositionalArgs(cfg *Config, args []string) error {
	switch len(args) {
	case 0:
	case 1:
		cfg.InputDir = NormalizeDirArg(args[0])
	case 2:
		cfg.InputDir = NormalizeDirArg(args[0])
		cfg.OutputDir = NormalizeDirArg(args[1])
	default:
		return fmt.Errorf("expected at most input_dir and output_dir, got %d arguments", len(args))
	}
	return nil
}
