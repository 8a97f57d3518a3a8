// Package ffmpeg builds the fixed transcode command and runs it while
// streaming ffmpeg's diagnostic output line by line.
//
// ffmpeg writes its periodic stats line to stderr and rewrites it in place
// with carriage returns, so the executor treats both '\r' and '\n' as line
// terminators and hands each line to the caller as soon as it is read. The
// pipe is drained continuously so ffmpeg never blocks on a full buffer.
package ffmpeg
