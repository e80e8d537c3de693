package cli

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/talkgenius/inspiration/pkg/report"
)

// Summary renders a combined report for terminal display.
func Summary(c *report.Combined) string {
	s := NewStyles(DefaultTheme)
	var b strings.Builder

	b.WriteString(s.Title.Render("Analysis Report"))
	b.WriteString("\n\n")

	if c.UserAudio != nil {
		writeAudioSection(&b, s, "Your Speech", c.UserAudio)
	}
	if c.UserBody != nil {
		writeBodySection(&b, s, "Your Body Language", c.UserBody)
	}
	if c.RoleAudio != nil {
		writeAudioSection(&b, s, "Role Model Speech", c.RoleAudio)
	}
	if c.RoleBody != nil {
		writeBodySection(&b, s, "Role Model Body Language", c.RoleBody)
	}

	b.WriteString(s.Label.Render("Recommendations"))
	b.WriteString("\n")
	for _, r := range c.Recommendations.Speech {
		fmt.Fprintf(&b, "  • %s\n", r)
	}
	for _, r := range c.Recommendations.BodyLanguage {
		fmt.Fprintf(&b, "  • %s\n", r)
	}
	b.WriteString("\n")

	b.WriteString(s.Label.Render("Action Plan"))
	b.WriteString("\n")
	for _, step := range c.ActionPlan {
		fmt.Fprintf(&b, "  • %s\n", step)
	}
	b.WriteString("\n")

	b.WriteString(s.Help.Render(c.OverallAssessment))
	b.WriteString("\n")

	return b.String()
}

func writeAudioSection(b *strings.Builder, s Styles, label string, a *report.Audio) {
	b.WriteString(s.Label.Render(label))
	b.WriteString("\n")
	fmt.Fprintf(b, "  Speaking rate    %d WPM\n", a.WPM)
	fmt.Fprintf(b, "  Duration         %.1fs\n", a.Duration)
	fmt.Fprintf(b, "  Pauses           %d\n", a.PauseCount)
	fmt.Fprintf(b, "  Average pitch    %.0f Hz\n", a.AvgPitch)
	fmt.Fprintf(b, "  Grammar slips    %d\n", a.GrammarMistakes)
	if len(a.Fillers) > 0 {
		fmt.Fprintf(b, "  Filler words     %s\n", strings.Join(a.Fillers, ", "))
	}
	transcript := a.Transcript
	if len(transcript) > 120 {
		cut := 120
		// Back up to a rune boundary so the cut never splits a
		// multi-byte character.
		for cut > 0 && !utf8.RuneStart(transcript[cut]) {
			cut--
		}
		transcript = transcript[:cut] + "…"
	}
	fmt.Fprintf(b, "  Transcript       %s\n\n", transcript)
}

func writeBodySection(b *strings.Builder, s Styles, label string, p *report.Posture) {
	b.WriteString(s.Label.Render(label))
	b.WriteString("\n")
	fmt.Fprintf(b, "  Confidence       %.1f/10\n", p.ConfidenceScore)
	fmt.Fprintf(b, "  Posture          %s\n", p.Posture)
	fmt.Fprintf(b, "  Eye contact      %s\n", p.EyeContact)
	fmt.Fprintf(b, "  Gestures         %s\n", strings.Join(p.Gestures, ", "))
	fmt.Fprintf(b, "  Expressions      %s\n\n", strings.Join(p.FacialExpressions, ", "))
}
