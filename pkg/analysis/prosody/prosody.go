// Package prosody computes duration, pause count, and average voiced
// pitch from canonical PCM audio.
//
// Pauses come from energy-based silence segmentation: short-term RMS per
// frame, an adaptive per-clip silence threshold (25th percentile of the
// energy distribution), and a minimum run length. Pitch comes from an
// independent per-frame spectral peak pass filtered to the plausible
// human voice band.
//
// No error ever escapes this package; an empty or degenerate waveform
// degrades to all-zero Features.
package prosody

import (
	"math"
	"sort"
	"time"

	"github.com/talkgenius/inspiration/pkg/audio/pcm"
)

// Config controls framing and detection thresholds.
type Config struct {
	FrameLength int           // analysis window in samples (default 2048)
	HopLength   int           // hop between windows in samples (default 512)
	MinPause    time.Duration // minimum silent run counting as a pause (default 500ms)
	PitchLow    float64       // lowest plausible voice pitch in Hz (default 50)
	PitchHigh   float64       // highest plausible voice pitch in Hz (default 1000)
}

// DefaultConfig returns the standard analysis parameters.
func DefaultConfig() Config {
	return Config{
		FrameLength: 2048,
		HopLength:   512,
		MinPause:    500 * time.Millisecond,
		PitchLow:    50,
		PitchHigh:   1000,
	}
}

// silencePercentile is the point in the per-clip energy distribution
// used as the silence threshold. Adaptive per clip, not a fixed level.
const silencePercentile = 25

// Features are the prosodic measurements for one clip.
type Features struct {
	PauseCount int
	AvgPitch   float64 // Hz; 0 = undetected
	Duration   float64 // seconds
}

// Analyzer computes Features from canonical audio clips.
type Analyzer struct {
	cfg    Config
	window []float64
}

// New creates an Analyzer. Zero config fields fall back to defaults.
func New(cfg Config) *Analyzer {
	def := DefaultConfig()
	if cfg.FrameLength <= 0 {
		cfg.FrameLength = def.FrameLength
	}
	if cfg.HopLength <= 0 {
		cfg.HopLength = def.HopLength
	}
	if cfg.MinPause <= 0 {
		cfg.MinPause = def.MinPause
	}
	if cfg.PitchLow <= 0 {
		cfg.PitchLow = def.PitchLow
	}
	if cfg.PitchHigh <= 0 {
		cfg.PitchHigh = def.PitchHigh
	}
	return &Analyzer{cfg: cfg, window: hammingWindow(cfg.FrameLength)}
}

// Analyze measures the clip. It never fails: degenerate input yields
// zeroed Features (duration is preserved when the waveform itself is
// non-empty but too short to frame).
func (a *Analyzer) Analyze(clip *pcm.Clip) Features {
	if clip.Empty() {
		return Features{}
	}

	f := Features{Duration: clip.Duration()}

	energies := a.frameRMS(clip.Samples)
	if len(energies) == 0 {
		return f
	}

	threshold := percentile(energies, silencePercentile)
	f.PauseCount = a.countPauses(energies, threshold, clip.Rate)
	f.AvgPitch = a.averagePitch(clip)
	return f
}

// frameRMS computes root-mean-square energy per analysis frame.
func (a *Analyzer) frameRMS(samples []float32) []float64 {
	frame, hop := a.cfg.FrameLength, a.cfg.HopLength
	if len(samples) < frame {
		return nil
	}

	out := make([]float64, 0, (len(samples)-frame)/hop+1)
	for start := 0; start+frame <= len(samples); start += hop {
		var sum float64
		for _, s := range samples[start : start+frame] {
			sum += float64(s) * float64(s)
		}
		out = append(out, math.Sqrt(sum/float64(frame)))
	}
	return out
}

// countPauses scans frames left to right accumulating below-threshold
// runs. A run counts once it reaches the minimum length; a run still
// open at end-of-clip counts too.
func (a *Analyzer) countPauses(energies []float64, threshold float64, rate int) int {
	minFrames := int(a.cfg.MinPause.Seconds() * float64(rate) / float64(a.cfg.HopLength))
	if minFrames < 1 {
		minFrames = 1
	}

	pauses := 0
	run := 0
	for _, e := range energies {
		if e < threshold {
			run++
			continue
		}
		if run >= minFrames {
			pauses++
		}
		run = 0
	}
	if run >= minFrames {
		pauses++
	}
	return pauses
}

// averagePitch runs a per-frame spectral peak pass, keeps the
// highest-magnitude candidate per frame, discards candidates outside the
// voice band, and averages what survives.
func (a *Analyzer) averagePitch(clip *pcm.Clip) float64 {
	frame, hop := a.cfg.FrameLength, a.cfg.HopLength
	if len(clip.Samples) < frame {
		return 0
	}

	fftSize := nextPow2(frame)
	re := make([]float64, fftSize)
	im := make([]float64, fftSize)

	var sum float64
	var count int

	for start := 0; start+frame <= len(clip.Samples); start += hop {
		for i := 0; i < frame; i++ {
			re[i] = float64(clip.Samples[start+i]) * a.window[i]
			im[i] = 0
		}
		for i := frame; i < fftSize; i++ {
			re[i], im[i] = 0, 0
		}
		fft(re, im)

		// Highest-magnitude bin, excluding DC.
		best, bestMag := 0, 0.0
		for bin := 1; bin <= fftSize/2; bin++ {
			mag := re[bin]*re[bin] + im[bin]*im[bin]
			if mag > bestMag {
				best, bestMag = bin, mag
			}
		}
		if bestMag < 1e-12 {
			continue
		}

		freq := float64(best) * float64(clip.Rate) / float64(fftSize)
		if freq > a.cfg.PitchLow && freq < a.cfg.PitchHigh {
			sum += freq
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// percentile returns the q-th percentile of values using linear
// interpolation between closest ranks.
func percentile(values []float64, q float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	pos := q / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[lo+1]-sorted[lo])*frac
}

func hammingWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
