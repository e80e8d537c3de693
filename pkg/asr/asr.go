// Package asr converts canonical PCM audio into a text transcript.
//
// Backend failures never escape as errors: every recognized failure mode
// maps to a sentinel Transcript so the audio branch always completes with
// a structurally valid result.
package asr

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/googleapis/gax-go/v2"

	"github.com/talkgenius/inspiration/pkg/audio/pcm"
	"github.com/talkgenius/inspiration/pkg/audio/wav"
)

// Backend errors a Transcriber knows how to classify.
var (
	// ErrUnintelligible means the backend decoded audio but could not
	// recognize speech in it.
	ErrUnintelligible = errors.New("asr: unintelligible speech")

	// ErrUnavailable means the backend could not be reached or returned
	// a transient service error.
	ErrUnavailable = errors.New("asr: service unavailable")
)

// Backend is the black-box speech-to-text primitive: complete WAV bytes
// in, recognized text or a classified error out.
type Backend interface {
	Transcribe(ctx context.Context, wavData []byte) (string, error)
}

const (
	// calibrationWindow is the leading slice of audio used to estimate
	// the ambient noise floor before full-record capture.
	calibrationWindow = 500 * time.Millisecond

	// energyFrame is the frame size used when scanning for speech energy.
	energyFrame = 100 * time.Millisecond

	// ambientRatio is how far above the ambient floor a frame must rise
	// to count as speech.
	ambientRatio = 2.0

	// minSpeechRMS is an absolute floor below which a frame is never
	// considered speech, regardless of how quiet the calibration window was.
	minSpeechRMS = 1e-4
)

// Transcriber turns canonical audio into a Transcript. Failures are
// mapped to sentinel values, with transient backend errors retried under
// a bounded backoff first.
type Transcriber struct {
	backend  Backend
	attempts int
}

// NewTranscriber wraps the backend. A nil backend yields the
// service-unavailable sentinel on every call.
func NewTranscriber(backend Backend) *Transcriber {
	return &Transcriber{backend: backend, attempts: 3}
}

// Transcribe runs ambient-noise calibration, then full-record recognition.
// It never returns an error; every failure mode becomes a sentinel.
func (t *Transcriber) Transcribe(ctx context.Context, clip *pcm.Clip) Transcript {
	if clip.Empty() {
		return TranscriptEmpty
	}
	if !hasSpeechEnergy(clip) {
		return TranscriptTooQuiet
	}
	if t.backend == nil {
		return TranscriptUnavailable
	}

	var buf bytes.Buffer
	if err := wav.Encode(&buf, pcm.Format{Rate: clip.Rate}, clip.Encode()); err != nil {
		return TranscriptFailed(err)
	}

	backoff := gax.Backoff{
		Initial:    500 * time.Millisecond,
		Max:        5 * time.Second,
		Multiplier: 2,
	}

	for attempt := 1; ; attempt++ {
		text, err := t.backend.Transcribe(ctx, buf.Bytes())
		switch {
		case err == nil:
			text = strings.TrimSpace(text)
			if text == "" {
				return TranscriptUnclear
			}
			return Transcript(text)

		case errors.Is(err, ErrUnintelligible):
			return TranscriptUnclear

		case errors.Is(err, ErrUnavailable):
			if attempt >= t.attempts {
				return TranscriptUnavailable
			}
			slog.Warn("transcription backend unavailable, retrying",
				"attempt", attempt, "error", err)
			if err := gax.Sleep(ctx, backoff.Pause()); err != nil {
				return TranscriptUnavailable
			}

		default:
			return TranscriptFailed(err)
		}
	}
}

// hasSpeechEnergy calibrates an ambient noise floor over the leading
// window and reports whether any later frame rises clearly above it.
func hasSpeechEnergy(clip *pcm.Clip) bool {
	lead := int(calibrationWindow.Seconds() * float64(clip.Rate))
	if lead > len(clip.Samples)/2 {
		lead = len(clip.Samples) / 2
	}
	if lead < 1 {
		lead = len(clip.Samples)
	}

	ambient := rms(clip.Samples[:lead])
	if ambient > 0.01 {
		// The clip starts loud; speech is already underway.
		return true
	}
	threshold := math.Max(ambient*ambientRatio, minSpeechRMS)

	frame := int(energyFrame.Seconds() * float64(clip.Rate))
	if frame < 1 {
		frame = 1
	}
	for start := lead; start < len(clip.Samples); start += frame {
		end := start + frame
		if end > len(clip.Samples) {
			end = len(clip.Samples)
		}
		if rms(clip.Samples[start:end]) > threshold {
			return true
		}
	}
	return false
}

func rms(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}
