package cli

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/talkgenius/inspiration/pkg/report"
)

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	err := Output(map[string]int{"wpm": 150}, OutputOptions{Format: FormatJSON, Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"wpm": 150`) {
		t.Errorf("output = %q", buf.String())
	}
}

func TestOutputYAML(t *testing.T) {
	var buf bytes.Buffer
	err := Output(map[string]string{"posture": "Good"}, OutputOptions{Format: FormatYAML, Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "posture: Good") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestOutputQuery(t *testing.T) {
	result := report.Combined{
		Recommendations: report.Recommendations{
			Speech: []string{"slow down"},
		},
		OverallAssessment: "fine",
	}

	var buf bytes.Buffer
	err := Output(result, OutputOptions{
		Format: FormatRaw,
		Query:  ".recommendations.speech[0]",
		Writer: &buf,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "slow down" {
		t.Errorf("output = %q, want %q", got, "slow down")
	}
}

func TestOutputQueryBadFilter(t *testing.T) {
	err := Output(nil, OutputOptions{Query: "][", Writer: &bytes.Buffer{}})
	if err == nil {
		t.Error("Output() error = nil for invalid query")
	}
}

func TestOutputUnknownFormat(t *testing.T) {
	err := Output("x", OutputOptions{Format: "xml", Writer: &bytes.Buffer{}})
	if err == nil {
		t.Error("Output() error = nil for unknown format")
	}
}

func TestSummaryRendersAllSections(t *testing.T) {
	c := &report.Combined{
		UserAudio: &report.Audio{WPM: 150, Transcript: "hello", Duration: 12.5},
		UserBody: &report.Posture{
			ConfidenceScore:   8.2,
			Posture:           report.QualityExcellent,
			EyeContact:        report.QualityGood,
			Gestures:          []string{"Good shoulder posture"},
			FacialExpressions: []string{"Engaged expression"},
		},
		Recommendations: report.Recommendations{
			Speech:       []string{"keep it up"},
			BodyLanguage: []string{"nice posture"},
		},
		OverallAssessment: "Overall, you demonstrate good speaking pace.",
		ActionPlan:        []string{"Week 1: practice"},
	}

	out := Summary(c)
	for _, want := range []string{
		"Analysis Report", "Your Speech", "150 WPM", "Your Body Language",
		"8.2/10", "keep it up", "Week 1: practice", "good speaking pace",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q", want)
		}
	}
	if strings.Contains(out, "Role Model") {
		t.Error("summary should omit role model sections when absent")
	}
}

func TestSummaryTruncatesTranscriptOnRuneBoundary(t *testing.T) {
	// One ASCII byte followed by 3-byte runes puts byte 120 inside a
	// rune, so a byte-offset cut would emit invalid UTF-8.
	c := &report.Combined{
		UserAudio: &report.Audio{Transcript: "x" + strings.Repeat("あ", 50)},
	}

	out := Summary(c)
	if !utf8.ValidString(out) {
		t.Error("summary contains invalid UTF-8 after truncation")
	}
	if !strings.Contains(out, "…") {
		t.Error("long transcript not truncated")
	}
}
