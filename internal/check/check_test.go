package check

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/vidshrink/internal/config"
)

// mockLogger records every message by level.
type mockLogger struct {
	lines []string
}

func (m *mockLogger) add(level, format string, args ...interface{}) {
	m.lines = append(m.lines, level+" "+fmt.Sprintf(format, args...))
}

func (m *mockLogger) Info(f string, a ...interface{})    { m.add("INFO", f, a...) }
func (m *mockLogger) Success(f string, a ...interface{}) { m.add("SUCCESS", f, a...) }
func (m *mockLogger) Warn(f string, a ...interface{})    { m.add("WARN", f, a...) }
func (m *mockLogger) Error(f string, a ...interface{})   { m.add("ERROR", f, a...) }
func (m *mockLogger) Debug(v bool, f string, a ...interface{}) {
	if v {
		m.add("DEBUG", f, a...)
	}
}

func (m *mockLogger) has(prefix string) bool {
	for _, l := range m.lines {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}

const encoderListing = `Encoders:
 V..... = Video
 ------
 V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC (codec h264)
 V....D libx265              libx265 H.265 / HEVC (codec hevc)
 A....D aac                  AAC (Advanced Audio Coding)
`

// fakeTools writes sh scripts standing in for ffmpeg and ffprobe. Test
// encodes exit with encodeStatus.
func fakeTools(t *testing.T, encodeStatus int) *config.Config {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not in PATH")
	}
	dir := t.TempDir()

	listing := filepath.Join(dir, "encoders.txt")
	require.NoError(t, os.WriteFile(listing, []byte(encoderListing), 0o644))

	ffmpeg := fmt.Sprintf(`#!/bin/sh
case "$1" in
  -version) echo "ffmpeg version 6.1-test Copyright (c) 2000-2023"; exit 0 ;;
esac
case "$2" in
  -encoders) cat %q; exit 0 ;;
esac
exit %d
`, listing, encodeStatus)
	ffprobe := "#!/bin/sh\necho \"ffprobe version 6.1-test\"\n"

	cfg := config.DefaultConfig()
	cfg.FFmpegBin = filepath.Join(dir, "ffmpeg")
	cfg.FFprobeBin = filepath.Join(dir, "ffprobe")
	cfg.OutputDir = filepath.Join(dir, "out", "not", "yet")
	require.NoError(t, os.WriteFile(cfg.FFmpegBin, []byte(ffmpeg), 0o755))
	require.NoError(t, os.WriteFile(cfg.FFprobeBin, []byte(ffprobe), 0o755))
	return &cfg
}

func TestCheckDeps_OK(t *testing.T) {
	cfg := fakeTools(t, 0)
	assert.NoError(t, CheckDeps(cfg))
}

func TestCheckDeps_EncodeFails(t *testing.T) {
	cfg := fakeTools(t, 1)
	err := CheckDeps(cfg)
	assert.True(t, errors.Is(err, ErrVideoEncoderFailed))
	assert.Contains(t, err.Error(), "libx265")
}

func TestCheckDeps_MissingTools(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FFmpegBin = filepath.Join(t.TempDir(), "no-ffmpeg")
	assert.ErrorIs(t, CheckDeps(&cfg), ErrFfmpegNotFound)

	cfg = *fakeTools(t, 0)
	cfg.FFprobeBin = filepath.Join(t.TempDir(), "no-ffprobe")
	assert.ErrorIs(t, CheckDeps(&cfg), ErrFfprobeNotFound)
}

func TestRunCheck_AllPass(t *testing.T) {
	cfg := fakeTools(t, 0)
	log := &mockLogger{}

	assert.True(t, RunCheck(context.Background(), cfg, log))
	assert.True(t, log.has("SUCCESS ffmpeg: ffmpeg version 6.1-test"))
	assert.True(t, log.has("SUCCESS ffprobe: ffprobe version 6.1-test"))
	assert.True(t, log.has("INFO   V....D libx265"))
	assert.True(t, log.has("INFO   A....D aac"))
	assert.True(t, log.has("SUCCESS libx265 works"))
	assert.True(t, log.has("INFO === Host ==="))
}

func TestRunCheck_EncoderFailure(t *testing.T) {
	cfg := fakeTools(t, 1)
	cfg.AudioCodec = "libfdk_aac"
	log := &mockLogger{}

	assert.False(t, RunCheck(context.Background(), cfg, log))
	assert.True(t, log.has("ERROR libx265 test encode failed"))
	assert.True(t, log.has("WARN Encoder libfdk_aac not listed"))
}

func TestRunCheck_MissingFfmpeg(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FFmpegBin = filepath.Join(t.TempDir(), "no-ffmpeg")
	cfg.FFprobeBin = cfg.FFmpegBin
	cfg.OutputDir = t.TempDir()
	log := &mockLogger{}

	assert.False(t, RunCheck(context.Background(), &cfg, log))
	assert.True(t, log.has("ERROR ffmpeg not found"))
	assert.False(t, log.has("INFO Testing"))
}

func TestFindEncoder(t *testing.T) {
	assert.Contains(t, findEncoder(encoderListing, "libx265"), "H.265")
	assert.Empty(t, findEncoder(encoderListing, "hevc"))
	assert.Empty(t, findEncoder(encoderListing, "libx26"))
}

func TestExistingDir(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, dir, existingDir(filepath.Join(dir, "a", "b")))
	assert.Equal(t, dir, existingDir(dir))
}
