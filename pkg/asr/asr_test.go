package asr

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/talkgenius/inspiration/pkg/audio/pcm"
)

// toneClip returns a clip with a quiet lead-in followed by a loud tone,
// so calibration sees ambient noise first and speech energy after.
func toneClip(seconds float64) *pcm.Clip {
	rate := 16000
	n := int(seconds * float64(rate))
	samples := make([]float32, n)
	lead := rate / 2
	for i := lead; i < n; i++ {
		samples[i] = 0.5 * float32(math.Sin(2*math.Pi*200*float64(i)/float64(rate)))
	}
	return &pcm.Clip{Samples: samples, Rate: rate}
}

type backendFunc func(ctx context.Context, wavData []byte) (string, error)

func (f backendFunc) Transcribe(ctx context.Context, wavData []byte) (string, error) {
	return f(ctx, wavData)
}

func TestTranscribe(t *testing.T) {
	tests := []struct {
		name    string
		clip    *pcm.Clip
		backend backendFunc
		want    Transcript
	}{
		{
			name: "recognized speech",
			clip: toneClip(2),
			backend: func(ctx context.Context, wavData []byte) (string, error) {
				return "hello there everyone", nil
			},
			want: Transcript("hello there everyone"),
		},
		{
			name:    "nil clip",
			clip:    nil,
			backend: nil,
			want:    TranscriptEmpty,
		},
		{
			name:    "silent clip skips backend",
			clip:    &pcm.Clip{Samples: make([]float32, 32000), Rate: 16000},
			backend: nil,
			want:    TranscriptTooQuiet,
		},
		{
			name: "unintelligible",
			clip: toneClip(2),
			backend: func(ctx context.Context, wavData []byte) (string, error) {
				return "", ErrUnintelligible
			},
			want: TranscriptUnclear,
		},
		{
			name: "blank text treated as unclear",
			clip: toneClip(2),
			backend: func(ctx context.Context, wavData []byte) (string, error) {
				return "   ", nil
			},
			want: TranscriptUnclear,
		},
		{
			name: "unexpected error carries text",
			clip: toneClip(2),
			backend: func(ctx context.Context, wavData []byte) (string, error) {
				return "", errors.New("boom")
			},
			want: Transcript("Transcription failed: boom"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var backend Backend
			if tt.backend != nil {
				backend = tt.backend
			}
			tr := NewTranscriber(backend)
			if got := tr.Transcribe(context.Background(), tt.clip); got != tt.want {
				t.Errorf("Transcribe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTranscribeRetriesTransient(t *testing.T) {
	calls := 0
	backend := backendFunc(func(ctx context.Context, wavData []byte) (string, error) {
		calls++
		if calls < 3 {
			return "", fmt.Errorf("%w: connection refused", ErrUnavailable)
		}
		return "recovered", nil
	})

	tr := NewTranscriber(backend)
	tr.attempts = 5
	if got := tr.Transcribe(context.Background(), toneClip(2)); got != "recovered" {
		t.Errorf("Transcribe() = %q, want %q", got, "recovered")
	}
	if calls != 3 {
		t.Errorf("backend called %d times, want 3", calls)
	}
}

func TestTranscribeGivesUpWhenUnavailable(t *testing.T) {
	backend := backendFunc(func(ctx context.Context, wavData []byte) (string, error) {
		return "", ErrUnavailable
	})

	tr := NewTranscriber(backend)
	tr.attempts = 1
	if got := tr.Transcribe(context.Background(), toneClip(2)); got != TranscriptUnavailable {
		t.Errorf("Transcribe() = %q, want %q", got, TranscriptUnavailable)
	}
}

func TestTranscriptIsSentinel(t *testing.T) {
	tests := []struct {
		transcript Transcript
		want       bool
	}{
		{TranscriptNotFound, true},
		{TranscriptEmpty, true},
		{TranscriptNoSpeech, true},
		{TranscriptTooQuiet, true},
		{TranscriptUnclear, true},
		{TranscriptUnavailable, true},
		{TranscriptFailed(errors.New("x")), true},
		{Transcript("Analysis failed: Audio extraction failed"), true},
		{Transcript(""), true},
		{Transcript("I gave a talk about Go today"), false},
	}

	for _, tt := range tests {
		if got := tt.transcript.IsSentinel(); got != tt.want {
			t.Errorf("IsSentinel(%q) = %v, want %v", tt.transcript, got, tt.want)
		}
	}
}
