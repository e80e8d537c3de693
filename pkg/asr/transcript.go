package asr

import (
	"fmt"
	"strings"
)

// Transcript is either real recognized speech or one of a fixed set of
// sentinel strings standing in for a named transcription failure.
// Downstream numeric scoring must treat sentinels as zero-signal.
type Transcript string

// Sentinel transcripts. The exact strings are part of the report payload
// and must stay stable.
const (
	TranscriptNotFound    Transcript = "Audio file not found"
	TranscriptEmpty       Transcript = "Empty audio file"
	TranscriptNoSpeech    Transcript = "No speech detected in audio"
	TranscriptTooQuiet    Transcript = "Audio too quiet or no speech detected"
	TranscriptUnclear     Transcript = "Could not transcribe audio (unclear speech)"
	TranscriptUnavailable Transcript = "Speech recognition service unavailable"
)

// TranscriptFailed builds the generic failure sentinel carrying the
// underlying error text for diagnostics.
func TranscriptFailed(err error) Transcript {
	return Transcript(fmt.Sprintf("Transcription failed: %v", err))
}

// sentinelKeywords marks a transcript as a failure value. Matching is by
// case-insensitive substring so that wrapped diagnostics ("Analysis
// failed: ...") are recognized too.
var sentinelKeywords = []string{
	"could not transcribe",
	"unavailable",
	"failed",
	"no speech",
	"too quiet",
	"empty",
	"not found",
}

// IsSentinel reports whether the transcript is a failure value rather
// than recognized speech.
func (t Transcript) IsSentinel() bool {
	if t == "" {
		return true
	}
	lower := strings.ToLower(string(t))
	for _, kw := range sentinelKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// String returns the transcript text.
func (t Transcript) String() string { return string(t) }
