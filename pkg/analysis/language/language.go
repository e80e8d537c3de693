// Package language derives speech metrics from a transcript: speaking
// rate, filler word usage, and a lightweight grammar check.
//
// All functions treat transcription sentinels (service errors rendered
// as transcript text) as "no usable speech" and return zero values.
package language

import (
	"math"
	"strings"

	"github.com/talkgenius/inspiration/pkg/asr"
)

// fillerVocab is the set of hesitation and crutch words scanned for,
// in reporting order.
var fillerVocab = []string{
	"um", "uh", "er", "ah", "like", "you know",
	"so", "well", "actually", "basically", "literally", "right",
}

// WordsPerMinute computes the speaking rate from a transcript and the
// clip duration in seconds, rounded to the nearest integer.
func WordsPerMinute(transcript asr.Transcript, duration float64) int {
	if transcript.IsSentinel() || duration <= 0 {
		return 0
	}
	words := len(strings.Fields(string(transcript)))
	return int(math.Round(float64(words) / duration * 60))
}

// DetectFillers scans the transcript for filler words. It returns the
// distinct fillers found in vocabulary order, plus the total occurrence
// count across all of them. Matching is case-insensitive substring
// matching, so "so" also fires inside "sofa"; the coarseness is
// acceptable for coaching-level feedback.
func DetectFillers(transcript asr.Transcript) ([]string, int) {
	if transcript.IsSentinel() {
		return nil, 0
	}

	lower := strings.ToLower(string(transcript))
	var found []string
	total := 0
	for _, filler := range fillerVocab {
		if n := strings.Count(lower, filler); n > 0 {
			found = append(found, filler)
			total += n
		}
	}
	return found, total
}

// GrammarMistakes counts occurrences of the word "i" appearing
// mid-sentence, a crude proxy for capitalization slips in the
// transcript. Sentences split on periods.
func GrammarMistakes(transcript asr.Transcript) int {
	if transcript.IsSentinel() {
		return 0
	}

	mistakes := 0
	for _, sentence := range strings.Split(string(transcript), ".") {
		words := strings.Fields(sentence)
		for i, word := range words {
			if i > 0 && strings.ToLower(word) == "i" {
				mistakes++
			}
		}
	}
	return mistakes
}
