package ffmpeg

import (
	"bufio"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/vidshrink/internal/config"
)

func TestBuild_Defaults(t *testing.T) {
	cfg := config.DefaultConfig()
	args := Build(&cfg, "/in/a.mp4", "/out/compressed_a.mp4")

	want := []string{
		"ffmpeg", "-hide_banner", "-nostdin",
		"-i", "/in/a.mp4",
		"-c:v", "libx265", "-crf", "28", "-preset", "slow",
		"-c:a", "aac", "-b:a", "128k",
		"-y", "/out/compressed_a.mp4",
	}
	assert.Equal(t, want, args)
}

func TestBuild_CustomSettings(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FFmpegBin = "/opt/ffmpeg/bin/ffmpeg"
	cfg.VideoCodec = "libx264"
	cfg.CRF = 23
	cfg.Preset = "fast"
	cfg.AudioCodec = "libopus"
	cfg.AudioBitrate = "96k"
	cfg.Overwrite = false

	args := Build(&cfg, "in.mp4", "out.mp4")

	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", args[0])
	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "-c:v libx264 -crf 23 -preset fast")
	assert.Contains(t, joined, "-c:a libopus -b:a 96k")
	assert.Equal(t, "-n", args[len(args)-2])
	assert.NotContains(t, args, "-y")
	assert.Equal(t, "out.mp4", args[len(args)-1])
}

func TestBuild_EmptyBinFallsBack(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FFmpegBin = ""
	assert.Equal(t, "ffmpeg", Build(&cfg, "a", "b")[0])
}

func scanAll(t *testing.T, input string) []string {
	t.Helper()
	sc := bufio.NewScanner(strings.NewReader(input))
	sc.Split(ScanLines)
	var out []string
	for sc.Scan() {
		if sc.Text() != "" {
			out = append(out, sc.Text())
		}
	}
	require.NoError(t, sc.Err())
	return out
}

func TestScanLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"newlines", "a\nb\n", []string{"a", "b"}},
		{"carriage returns", "frame=1 time=00:00:01.00\rframe=2 time=00:00:02.00\r", []string{"frame=1 time=00:00:01.00", "frame=2 time=00:00:02.00"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"mixed", "Input #0\nframe=1\rframe=2\rdone\n", []string{"Input #0", "frame=1", "frame=2", "done"}},
		{"no trailing terminator", "last", []string{"last"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scanAll(t, tt.input))
		})
	}
}

func TestTail_KeepsLastLines(t *testing.T) {
	tl := newTail(3)
	assert.Empty(t, tl.lines())
	for _, s := range []string{"1", "2"} {
		tl.add(s)
	}
	assert.Equal(t, []string{"1", "2"}, tl.lines())
	for _, s := range []string{"3", "4", "5"} {
		tl.add(s)
	}
	assert.Equal(t, []string{"3", "4", "5"}, tl.lines())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		stderr string
		want   string
	}{
		{"Unknown encoder 'libx265'", "encoder not available"},
		{"av_interleaved_write_frame(): No space left on device", "disk full"},
		{"/out/a.mp4: Permission denied", "permission denied"},
		{"File '/out/a.mp4' already exists. Exiting.", "output exists"},
		{"/in/a.mp4: Invalid data found when processing input", "corrupt input"},
		{"moov atom not found", "corrupt input"},
		{"frame=  10 fps=1.0", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.stderr), tt.stderr)
	}
}

// fakeFFmpeg writes an executable shell script standing in for ffmpeg.
func fakeFFmpeg(t *testing.T, body string) string {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not in PATH")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestExecute_StreamsCarriageReturnLines(t *testing.T) {
	bin := fakeFFmpeg(t, `printf 'Input #0\n' >&2
printf 'frame=1 time=00:00:01.00\r' >&2
printf 'frame=2 time=00:00:02.50\r' >&2
printf 'done\n' >&2
exit 0`)

	var got []string
	res, err := Execute([]string{bin}, func(line string) { got = append(got, line) })
	require.NoError(t, err)
	assert.Equal(t, []string{"Input #0", "frame=1 time=00:00:01.00", "frame=2 time=00:00:02.50", "done"}, got)
	assert.Equal(t, 4, res.Lines)
	assert.Equal(t, got, res.Tail)
}

func TestExecute_NonZeroExit(t *testing.T) {
	bin := fakeFFmpeg(t, `i=0
while [ $i -lt 25 ]; do echo "line $i" >&2; i=$((i+1)); done
echo "Unknown encoder 'libnope'" >&2
exit 3`)

	res, err := Execute([]string{bin, "-i", "x"}, nil)
	require.Error(t, err)

	var ee *ExitError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 3, ee.Code)
	assert.Len(t, ee.Tail, tailLines)
	assert.Equal(t, "Unknown encoder 'libnope'", ee.Tail[len(ee.Tail)-1])
	assert.Equal(t, "encoder not available", ee.Reason())
	assert.Contains(t, ee.Error(), "status 3")
	assert.Equal(t, 26, res.Lines)
}

func TestExecute_OversizedLineKeepsDraining(t *testing.T) {
	if _, err := exec.LookPath("head"); err != nil {
		t.Skip("head not in PATH")
	}
	bin := fakeFFmpeg(t, `head -c 2097152 /dev/zero | tr '\0' 'a' >&2
i=0
while [ $i -lt 20000 ]; do echo "frame=$i time=00:00:01.00" >&2; i=$((i+1)); done
exit 0`)

	type outcome struct {
		res Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := Execute([]string{bin}, nil)
		done <- outcome{res, err}
	}()

	select {
	case o := <-done:
		require.NoError(t, o.err)
		assert.GreaterOrEqual(t, o.res.Lines, 20000)
		assert.Equal(t, "frame=19999 time=00:00:01.00", o.res.Tail[len(o.res.Tail)-1])
	case <-time.After(60 * time.Second):
		t.Fatal("Execute did not return; stderr was not drained")
	}
}

func TestCapLines_ChunksLongLines(t *testing.T) {
	sc := bufio.NewScanner(strings.NewReader(strings.Repeat("x", 10) + "\nok\n"))
	sc.Buffer(make([]byte, 0, 4), 4)
	sc.Split(capLines(ScanLines, 4))

	var got []string
	for sc.Scan() {
		if sc.Text() != "" {
			got = append(got, sc.Text())
		}
	}
	require.NoError(t, sc.Err())
	assert.Equal(t, []string{"xxxx", "xxxx", "xx", "ok"}, got)
}

func TestExecute_MissingBinary(t *testing.T) {
	_, err := Execute([]string{filepath.Join(t.TempDir(), "missing-ffmpeg")}, nil)
	require.Error(t, err)

	var ee *ExitError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, -1, ee.Code)
	assert.Contains(t, ee.Error(), "failed to start")
}

func TestExecute_EmptyCommand(t *testing.T) {
	_, err := Execute(nil, nil)
	var ee *ExitError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, -1, ee.Code)
}
