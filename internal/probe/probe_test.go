package probe

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    float64
		wantErr bool
	}{
		{"plain", "1437.123000\n", 1437.123, false},
		{"surrounding whitespace", "  12.5  \r\n", 12.5, false},
		{"integer", "60", 60, false},
		{"first line only", "30.0\n31.0\n", 30, false},
		{"zero is accepted", "0.000000", 0, false},
		{"empty", "", 0, true},
		{"whitespace only", " \n", 0, true},
		{"not a number", "N/A", 0, true},
		{"csv leftovers", "12.5,extra", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration([]byte(tt.out))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestArgs(t *testing.T) {
	assert.Equal(t, []string{
		"-i", "/in/a.mp4",
		"-show_entries", "format=duration",
		"-v", "quiet",
		"-of", "csv=p=0",
	}, Args("/in/a.mp4"))
}

func TestProber_Duration(t *testing.T) {
	bin := fakeProbe(t, `echo "42.25"`)
	d, err := NewProber(bin).Duration(context.Background(), "clip.mp4")
	require.NoError(t, err)
	assert.InDelta(t, 42.25, d, 1e-9)
}

func TestProber_FailuresAreDurationUnknown(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"non-zero exit", `exit 1`},
		{"non-numeric output", `echo "N/A"`},
		{"no output", `true`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProber(fakeProbe(t, tt.script)).Duration(context.Background(), "clip.mp4")
			assert.ErrorIs(t, err, ErrDurationUnknown)
		})
	}
}

func TestProber_MissingBinary(t *testing.T) {
	p := NewProber(filepath.Join(t.TempDir(), "no-such-ffprobe"))
	_, err := p.Duration(context.Background(), "clip.mp4")
	assert.ErrorIs(t, err, ErrDurationUnknown)
}

// fakeProbe writes an executable shell script standing in for ffprobe.
func fakeProbe(t *testing.T, body string) string {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	path := filepath.Join(t.TempDir(), "ffprobe")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}
