// Package report defines the analysis result types exchanged between
// the pipeline, the recommendation engine, and clients. Field names
// follow the wire format the web client consumes.
package report

import "fmt"

// Quality labels shared by posture and eye contact grading.
const (
	QualityExcellent   = "Excellent"
	QualityGood        = "Good"
	QualityFair        = "Fair"
	QualityPoor        = "Poor"
	QualityUnavailable = "Analysis unavailable"
)

// Audio holds the speech metrics for one clip.
type Audio struct {
	WPM             int      `json:"wpm"`
	Fillers         []string `json:"fillers"`
	GrammarMistakes int      `json:"grammar_mistakes"`
	PauseCount      int      `json:"pause_count"`
	Transcript      string   `json:"transcript"`
	AvgPitch        float64  `json:"avg_pitch"`
	Duration        float64  `json:"duration"`

	// FillerTotal counts filler occurrences with multiplicity. It
	// drives the filler reduction advice but stays off the wire; the
	// wire carries only the distinct Fillers list.
	FillerTotal int `json:"-"`
}

// Posture holds the body language metrics for one clip.
type Posture struct {
	ConfidenceScore   float64  `json:"confidence_score"`
	Posture           string   `json:"posture"`
	Gestures          []string `json:"gestures"`
	EyeContact        string   `json:"eye_contact"`
	FacialExpressions []string `json:"facial_expressions"`
}

// Recommendations groups coaching advice by channel.
type Recommendations struct {
	Speech       []string `json:"speech"`
	BodyLanguage []string `json:"body_language"`
}

// Combined is the complete result for one analysis job. Role model
// sections are present only when a reference clip was provided.
type Combined struct {
	UserAudio *Audio   `json:"user_audio,omitempty"`
	UserBody  *Posture `json:"user_body,omitempty"`
	RoleAudio *Audio   `json:"role_audio,omitempty"`
	RoleBody  *Posture `json:"role_body,omitempty"`

	Recommendations   Recommendations `json:"recommendations"`
	OverallAssessment string          `json:"overall_assessment"`
	ActionPlan        []string        `json:"action_plan"`
}

// FallbackAudio is the audio result reported when the speech branch
// fails outright. The failure reason surfaces in the transcript field
// so clients always have something to show.
func FallbackAudio(reason string) *Audio {
	return &Audio{
		Fillers:    []string{},
		Transcript: fmt.Sprintf("Analysis failed: %s", reason),
	}
}

// FallbackPosture is the body language result reported when the vision
// branch fails outright. Confidence sits at the midpoint so a failed
// branch neither flatters nor punishes the overall assessment.
func FallbackPosture(reason string) *Posture {
	return &Posture{
		ConfidenceScore:   5,
		Posture:           QualityUnavailable,
		Gestures:          []string{fmt.Sprintf("Analysis failed: %s", reason)},
		EyeContact:        QualityUnavailable,
		FacialExpressions: []string{"Analysis failed"},
	}
}
