package prosody

import (
	"math"
	"testing"
	"time"

	"github.com/talkgenius/inspiration/pkg/audio/pcm"
)

const testRate = 16000

// testConfig uses non-overlapping frames so silent runs map exactly onto
// frame counts in synthetic waveforms.
func testConfig() Config {
	return Config{
		FrameLength: 512,
		HopLength:   512,
		MinPause:    500 * time.Millisecond,
		PitchLow:    50,
		PitchHigh:   1000,
	}
}

// speechGap builds loud 200 Hz tone with one silent gap of gapDur
// starting at 1.5s. Total length 4s.
func speechGap(gapDur time.Duration) *pcm.Clip {
	n := 4 * testRate
	gapStart := int(1.5 * testRate)
	gapLen := int(gapDur.Seconds() * testRate)

	samples := make([]float32, n)
	for i := range samples {
		if i >= gapStart && i < gapStart+gapLen {
			continue
		}
		samples[i] = 0.5 * float32(math.Sin(2*math.Pi*200*float64(i)/testRate))
	}
	return &pcm.Clip{Samples: samples, Rate: testRate}
}

func TestPauseCounting(t *testing.T) {
	tests := []struct {
		name string
		gap  time.Duration
		want int
	}{
		{name: "half second gap counts", gap: 512 * time.Millisecond, want: 1},
		{name: "short gap ignored", gap: 400 * time.Millisecond, want: 0},
		{name: "no gap", gap: 0, want: 0},
	}

	a := New(testConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Analyze(speechGap(tt.gap))
			if got.PauseCount != tt.want {
				t.Errorf("PauseCount = %d, want %d", got.PauseCount, tt.want)
			}
		})
	}
}

func TestPauseCountingIdempotent(t *testing.T) {
	a := New(testConfig())
	clip := speechGap(600 * time.Millisecond)

	first := a.Analyze(clip)
	second := a.Analyze(clip)
	if first != second {
		t.Errorf("repeated analysis differs: %+v vs %+v", first, second)
	}
}

func TestTrailingOpenRunCounts(t *testing.T) {
	// Loud signal followed by a 0.5s silent tail through end-of-clip.
	// The tail stays well under a quarter of the clip so the adaptive
	// threshold still lands in the loud energy cluster.
	n := 4*testRate + testRate/2
	samples := make([]float32, n)
	for i := 0; i < 4*testRate; i++ {
		samples[i] = 0.5 * float32(math.Sin(2*math.Pi*200*float64(i)/testRate))
	}

	a := New(testConfig())
	got := a.Analyze(&pcm.Clip{Samples: samples, Rate: testRate})
	if got.PauseCount != 1 {
		t.Errorf("PauseCount = %d, want 1 (trailing run)", got.PauseCount)
	}
}

func TestAveragePitch(t *testing.T) {
	n := 2 * testRate
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = 0.5 * float32(math.Sin(2*math.Pi*200*float64(i)/testRate))
	}

	a := New(testConfig())
	got := a.Analyze(&pcm.Clip{Samples: samples, Rate: testRate})

	// 512-point FFT at 16 kHz has 31.25 Hz bins; the 200 Hz tone should
	// land within one bin of the truth.
	if got.AvgPitch < 160 || got.AvgPitch > 240 {
		t.Errorf("AvgPitch = %.1f, want ~200", got.AvgPitch)
	}
}

func TestDegradedInputs(t *testing.T) {
	a := New(testConfig())

	tests := []struct {
		name string
		clip *pcm.Clip
		want Features
	}{
		{name: "nil clip", clip: nil, want: Features{}},
		{name: "empty clip", clip: &pcm.Clip{Rate: testRate}, want: Features{}},
		{
			name: "too short to frame keeps duration",
			clip: &pcm.Clip{Samples: make([]float32, 100), Rate: testRate},
			want: Features{Duration: 100.0 / testRate},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Analyze(tt.clip); got != tt.want {
				t.Errorf("Analyze() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSilentClipHasNoPitch(t *testing.T) {
	a := New(testConfig())
	got := a.Analyze(&pcm.Clip{Samples: make([]float32, 2*testRate), Rate: testRate})
	if got.AvgPitch != 0 {
		t.Errorf("AvgPitch = %f, want 0 for silence", got.AvgPitch)
	}
}

func TestPercentile(t *testing.T) {
	values := []float64{4, 1, 3, 2}
	if got := percentile(values, 25); got != 1.75 {
		t.Errorf("percentile(25) = %v, want 1.75", got)
	}
	if got := percentile(values, 100); got != 4 {
		t.Errorf("percentile(100) = %v, want 4", got)
	}
	if got := percentile([]float64{7}, 25); got != 7 {
		t.Errorf("percentile single = %v, want 7", got)
	}
}
