package ffmpeg

import (
	"strconv"

	"github.com/backmassage/vidshrink/internal/config"
)

// Build constructs the complete ffmpeg argument slice (including the
// executable in args[0]) for transcoding in to out with the run's fixed
// encoder settings.
func Build(cfg *config.Config, in, out string) []string {
	bin := cfg.FFmpegBin
	if bin == "" {
		bin = "ffmpeg"
	}

	args := make([]string, 0, 20)

	// --- Preamble ---
	args = append(args, bin, "-hide_banner", "-nostdin")

	// --- Input ---
	args = append(args, "-i", in)

	// --- Video codec ---
	args = append(args,
		"-c:v", cfg.VideoCodec,
		"-crf", strconv.Itoa(cfg.CRF),
		"-preset", cfg.Preset,
	)

	// --- Audio codec ---
	args = append(args,
		"-c:a", cfg.AudioCodec,
		"-b:a", cfg.AudioBitrate,
	)

	// --- Output ---
	if cfg.Overwrite {
		args = append(args, "-y")
	} else {
		args = append(args, "-n")
	}
	return append(args, out)
}
