package pcm

import "time"

// Format describes raw 16-bit signed little-endian PCM audio.
type Format struct {
	// Rate is the sample rate in Hz (e.g., 16000, 44100, 48000).
	Rate int

	// Stereo indicates stereo (2 channels) if true, mono (1 channel) if false.
	Stereo bool
}

// Canonical is the format every analyzer consumes: 16 kHz mono.
var Canonical = Format{Rate: 16000}

// Channels returns the number of audio channels.
func (f Format) Channels() int {
	if f.Stereo {
		return 2
	}
	return 1
}

// SampleBytes returns the number of bytes per sample frame across all channels.
func (f Format) SampleBytes() int {
	return 2 * f.Channels()
}

// BytesRate returns the byte rate of the audio data.
func (f Format) BytesRate() int {
	return f.Rate * f.SampleBytes()
}

// Samples returns the number of per-channel samples in the given number of bytes.
func (f Format) Samples(bytes int64) int64 {
	return bytes / int64(f.SampleBytes())
}

// Duration returns the duration of the given number of bytes.
func (f Format) Duration(bytes int64) time.Duration {
	if f.Rate <= 0 {
		return 0
	}
	return time.Duration(f.Samples(bytes)) * time.Second / time.Duration(f.Rate)
}

// BytesInDuration returns the number of bytes in the given duration.
func (f Format) BytesInDuration(d time.Duration) int64 {
	return int64(time.Duration(f.Rate) * d / time.Second) * int64(f.SampleBytes())
}
