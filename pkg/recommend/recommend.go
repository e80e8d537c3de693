// Package recommend turns analysis results into coaching advice: per
// channel recommendations, an overall assessment sentence, and a
// four week action plan. The engine is pure; every function depends
// only on its inputs.
package recommend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/talkgenius/inspiration/pkg/report"
)

// Speaking pace bands in words per minute.
const (
	slowPace = 100
	fastPace = 200
)

// maxPerChannel caps how many recommendations each channel reports.
const maxPerChannel = 3

// Recommendations builds the per-channel advice lists. Role model
// inputs shift the speech advice from absolute pace bands to relative
// comparison against the reference speaker.
func Recommendations(userAudio, roleAudio *report.Audio, userBody *report.Posture) report.Recommendations {
	var speech, body []string

	switch {
	case userAudio != nil && roleAudio != nil:
		speech = compareSpeech(userAudio, roleAudio)
	case userAudio != nil:
		speech = soloSpeech(userAudio)
	}

	if userBody != nil {
		body = bodyAdvice(userBody)
	}

	if len(speech) == 0 {
		speech = append(speech, "Your speech patterns are good! Maintain your current pace and clarity.")
	}
	if len(body) == 0 {
		body = append(body, "Your body language is effective! Continue maintaining good posture.")
	}

	if len(speech) > maxPerChannel {
		speech = speech[:maxPerChannel]
	}
	if len(body) > maxPerChannel {
		body = body[:maxPerChannel]
	}
	return report.Recommendations{Speech: speech, BodyLanguage: body}
}

func compareSpeech(user, role *report.Audio) []string {
	var recs []string

	if user.WPM > 0 && role.WPM > 0 {
		switch diff := user.WPM - role.WPM; {
		case diff < -30:
			recs = append(recs, "Increase your speaking pace - you're speaking significantly slower than your role model")
		case diff < -15:
			recs = append(recs, "Try to speak a bit faster to match your role model's natural pace")
		case diff > 30:
			recs = append(recs, "Slow down your speaking pace - you're speaking much faster than your role model")
		case diff > 15:
			recs = append(recs, "Try to slow down slightly to match your role model's measured pace")
		}
	}

	// Filler volume compares total occurrences, not distinct words; a
	// speaker repeating one filler constantly still gets the advice.
	if user.FillerTotal > role.FillerTotal+2 && len(user.Fillers) > 0 {
		sample := user.Fillers
		if len(sample) > 3 {
			sample = sample[:3]
		}
		recs = append(recs, fmt.Sprintf("Reduce filler words like '%s' - practice pausing instead", strings.Join(sample, ", ")))
	}
	return recs
}

func soloSpeech(user *report.Audio) []string {
	var recs []string

	if user.WPM > 0 {
		if user.WPM < slowPace {
			recs = append(recs, "Your speaking pace is quite slow - try to speak more confidently")
		} else if user.WPM > fastPace {
			recs = append(recs, "You're speaking very fast - slow down for clarity")
		}
	}
	if user.FillerTotal > 5 {
		recs = append(recs, "You use many filler words - practice speaking with intentional pauses")
	}
	return recs
}

func bodyAdvice(body *report.Posture) []string {
	var recs []string

	if body.ConfidenceScore < 7 {
		recs = append(recs, fmt.Sprintf("Work on your confidence (current: %s/10) - practice in front of a mirror", formatConfidence(body.ConfidenceScore)))
	}
	if body.Posture == report.QualityPoor || body.Posture == report.QualityFair {
		recs = append(recs, fmt.Sprintf("Improve your posture (current: %s) - sit up straight with shoulders back", body.Posture))
	}
	if body.EyeContact == report.QualityPoor || body.EyeContact == report.QualityFair {
		recs = append(recs, fmt.Sprintf("Improve eye contact (current: %s) - look at the camera more", body.EyeContact))
	}
	return recs
}

// formatConfidence renders a 0-10 confidence with at least one decimal,
// so whole scores read as "6.0/10" rather than "6/10".
func formatConfidence(c float64) string {
	s := strconv.FormatFloat(c, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// OverallAssessment summarizes the analyzed aspects in one sentence.
func OverallAssessment(userAudio *report.Audio, userBody *report.Posture) string {
	if userAudio == nil && userBody == nil {
		return "Please upload at least one video for analysis"
	}

	var aspects []string

	if userAudio != nil {
		switch {
		case userAudio.WPM == 0:
			aspects = append(aspects, "no detectable speech")
		case userAudio.WPM < slowPace:
			aspects = append(aspects, "slow speaking pace")
		case userAudio.WPM > fastPace:
			aspects = append(aspects, "fast speaking pace")
		default:
			aspects = append(aspects, "good speaking pace")
		}
	}

	if userBody != nil {
		switch {
		case userBody.ConfidenceScore >= 8:
			aspects = append(aspects, "high confidence")
		case userBody.ConfidenceScore >= 5:
			aspects = append(aspects, "moderate confidence")
		default:
			aspects = append(aspects, "low confidence")
		}
	}

	if len(aspects) == 0 {
		return "Analysis completed. Review the detailed results below."
	}
	return fmt.Sprintf("Overall, you demonstrate %s. Focus on the recommendations below to improve.", strings.Join(aspects, ", "))
}

// ActionPlan expands the recommendations into a four week practice
// schedule, padding with generic drills when advice is thin.
func ActionPlan(recs report.Recommendations) []string {
	var plan []string

	speech := recs.Speech
	if len(speech) > 2 {
		speech = speech[:2]
	}
	for i, rec := range speech {
		plan = append(plan, fmt.Sprintf("Week %d: %s - Practice daily for 10 minutes", i+1, rec))
	}

	body := recs.BodyLanguage
	if len(body) > 2 {
		body = body[:2]
	}
	for i, rec := range body {
		plan = append(plan, fmt.Sprintf("Week %d: %s - Record yourself and review", i+2, rec))
	}

	if len(plan) < 4 {
		plan = append(plan,
			"Week 3: Practice speaking in front of a mirror for 15 minutes daily",
			"Week 4: Record a 5-minute speech and analyze your improvement",
		)
	}
	if len(plan) > 4 {
		plan = plan[:4]
	}
	return plan
}
