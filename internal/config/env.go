package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix is the prefix shared by all environment overrides.
const EnvPrefix = "VIDSHRINK_"

// LookupFunc matches os.LookupEnv so tests can supply a fixed environment.
type LookupFunc func(key string) (string, bool)

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadEnv overlays VIDSHRINK_* variables onto cfg. Extensions are given as a
// comma-separated list.
func LoadEnv(cfg *Config, lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}

	str("INPUT_DIR", &cfg.InputDir)
	str("OUTPUT_DIR", &cfg.OutputDir)
	str("OUTPUT_PREFIX", &cfg.OutputPrefix)
	str("VIDEO_CODEC", &cfg.VideoCodec)
	str("PRESET", &cfg.Preset)
	str("AUDIO_CODEC", &cfg.AudioCodec)
	str("AUDIO_BITRATE", &cfg.AudioBitrate)
	str("FFMPEG", &cfg.FFmpegBin)
	str("FFPROBE", &cfg.FFprobeBin)
	str("LOG_FILE", &cfg.LogFile)

	if v, ok := lookup(EnvPrefix + "EXTENSIONS"); ok && v != "" {
		cfg.Extensions = strings.Split(v, ",")
	}
	if v, ok := lookup(EnvPrefix + "CRF"); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sCRF must be a whole number (got %q)", EnvPrefix, v)
		}
		cfg.CRF = n
	}
	return nil
}
