// Package pipeline runs a batch: it enumerates inputs, and for each file
// probes its duration, transcodes it while feeding ffmpeg's output to a
// progress tracker, and reports the size reduction. Files are processed
// strictly one at a time.
//
// The runner talks to the outside world through two small interfaces,
// [DurationProber] and [Transcoder], so tests substitute fakes for ffprobe
// and ffmpeg.
package pipeline
