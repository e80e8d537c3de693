// Package pcm provides types for working with PCM (Pulse Code Modulation)
// audio data.
//
// All audio in the analysis pipeline is 16-bit signed little-endian PCM.
// A Format describes sample rate and channel layout; a Clip holds decoded,
// normalized samples in the canonical analysis format (16 kHz mono).
//
// Key types:
//   - Format: sample rate + channel layout of raw 16-bit PCM bytes
//   - Clip: decoded float32 samples used by all audio analyzers
package pcm
