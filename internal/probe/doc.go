// Package probe asks ffprobe for a media file's duration. Only the
// container-level duration is requested, in value-only CSV form, so the
// output is a single number per file.
package probe
