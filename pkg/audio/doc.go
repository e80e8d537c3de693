// Package audio provides audio processing utilities.
//
// This package serves as an umbrella for audio-related sub-packages:
//
//   - pcm: PCM sample format handling and decoded clips
//   - wav: RIFF/WAVE encoding and decoding
//   - resampler: sample rate and channel conversion
//
// Example usage:
//
//	import (
//	    "github.com/talkgenius/inspiration/pkg/audio/pcm"
//	    "github.com/talkgenius/inspiration/pkg/audio/wav"
//	)
//
//	format, data, err := wav.Decode(r)
//	clip := pcm.DecodeClip(data, format.Rate)
package audio
