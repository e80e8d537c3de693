// Package media stages raw clip bytes on disk and turns them into
// analyzable signals: a canonical PCM audio clip and a stream of sampled
// video frames.
//
// Demuxing, decoding and transcoding are delegated to the ffmpeg and
// ffprobe executables; this package owns argument construction, output
// parsing, and the container-format hypothesis loop used when a clip's
// container cannot be auto-detected.
package media
