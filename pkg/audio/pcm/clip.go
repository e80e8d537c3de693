package pcm

// Clip is a decoded audio clip in the canonical analysis format.
// Samples are normalized to [-1, 1]. Rate is the sample rate in Hz.
//
// A Clip is request-scoped: it is derived from one staged media file,
// consumed by the audio analyzers, and never shared across requests.
type Clip struct {
	Samples []float32
	Rate    int
}

// DecodeClip decodes raw 16-bit signed little-endian mono PCM bytes
// into a Clip at the given sample rate. A trailing odd byte is ignored.
func DecodeClip(data []byte, rate int) *Clip {
	n := len(data) / 2
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		s := int16(data[i*2]) | int16(data[i*2+1])<<8
		samples[i] = float32(s) / 32768.0
	}
	return &Clip{Samples: samples, Rate: rate}
}

// Encode converts the clip back to raw 16-bit signed little-endian mono
// PCM bytes, clamping samples outside [-1, 1].
func (c *Clip) Encode() []byte {
	out := make([]byte, len(c.Samples)*2)
	for i, v := range c.Samples {
		var s int16
		switch {
		case v >= 1.0:
			s = 32767
		case v <= -1.0:
			s = -32768
		default:
			s = int16(v * 32767.0)
		}
		out[i*2] = byte(s)
		out[i*2+1] = byte(s >> 8)
	}
	return out
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	if c == nil || c.Rate <= 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.Rate)
}

// Empty reports whether the clip carries no samples.
func (c *Clip) Empty() bool {
	return c == nil || len(c.Samples) == 0 || c.Rate <= 0
}
