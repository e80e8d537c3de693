// Package resampler converts raw 16-bit PCM audio between formats.
//
// It supports sample rate conversion (via a pure Go SoX-style resampler,
// no CGO/FFI dependencies) and channel conversion (stereo↔mono). The
// pipeline uses it to normalize whatever ffmpeg decodes into the
// canonical 16 kHz mono analysis format.
package resampler

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"

	"github.com/talkgenius/inspiration/pkg/audio/pcm"
)

// Convert converts raw 16-bit signed little-endian PCM bytes from srcFmt
// to dstFmt. Channel conversion happens before rate conversion. The input
// slice is not modified.
func Convert(data []byte, srcFmt, dstFmt pcm.Format) ([]byte, error) {
	if srcFmt.Rate <= 0 || dstFmt.Rate <= 0 {
		return nil, fmt.Errorf("resampler: invalid sample rate %d -> %d", srcFmt.Rate, dstFmt.Rate)
	}

	// Align to whole sample frames.
	data = data[:len(data)/srcFmt.SampleBytes()*srcFmt.SampleBytes()]

	switch {
	case srcFmt.Stereo && !dstFmt.Stereo:
		data = stereoToMono(data)
	case !srcFmt.Stereo && dstFmt.Stereo:
		data = monoToStereo(data)
	default:
		data = append([]byte(nil), data...)
	}

	if srcFmt.Rate == dstFmt.Rate {
		return data, nil
	}

	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(srcFmt.Rate),
		OutputRate: float64(dstFmt.Rate),
		Channels:   dstFmt.Channels(),
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("resampler: %w", err)
	}

	// int16 -> normalized float64
	n := len(data) / 2
	input := make([]float64, n)
	for i := 0; i < n; i++ {
		s := int16(data[i*2]) | int16(data[i*2+1])<<8
		input[i] = float64(s) / 32768.0
	}

	output, err := rs.Process(input)
	if err != nil {
		return nil, fmt.Errorf("resampler: %w", err)
	}

	// float64 -> int16 with clamping
	out := make([]byte, len(output)*2)
	for i, s := range output {
		sample := int16(s * 32767.0)
		if s > 1.0 {
			sample = 32767
		} else if s < -1.0 {
			sample = -32768
		}
		out[i*2] = byte(sample)
		out[i*2+1] = byte(sample >> 8)
	}

	return out[:len(out)/dstFmt.SampleBytes()*dstFmt.SampleBytes()], nil
}

// stereoToMono averages L and R channels into a new mono buffer.
func stereoToMono(b []byte) []byte {
	frames := len(b) / 4
	out := make([]byte, frames*2)
	for i := 0; i < frames; i++ {
		j := i * 4
		l := int16(b[j]) | int16(b[j+1])<<8
		r := int16(b[j+2]) | int16(b[j+3])<<8
		m := int16((int32(l) + int32(r)) / 2)
		out[i*2] = byte(m)
		out[i*2+1] = byte(m >> 8)
	}
	return out
}

// monoToStereo duplicates each sample into a new stereo buffer.
func monoToStereo(b []byte) []byte {
	samples := len(b) / 2
	out := make([]byte, samples*4)
	for i := 0; i < samples; i++ {
		j := i * 4
		out[j], out[j+1] = b[i*2], b[i*2+1]
		out[j+2], out[j+3] = b[i*2], b[i*2+1]
	}
	return out
}
