package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/talkgenius/inspiration/pkg/asr"
	"github.com/talkgenius/inspiration/pkg/audio/pcm"
	"github.com/talkgenius/inspiration/pkg/report"
)

type sttFunc func(ctx context.Context, clip *pcm.Clip) asr.Transcript

func (f sttFunc) Transcribe(ctx context.Context, clip *pcm.Clip) asr.Transcript {
	return f(ctx, clip)
}

// brokenTools points the pipeline at binaries that do not exist, so
// both branches exercise their fallback paths without external tools.
func brokenTools() Config {
	return Config{FFmpeg: "/nonexistent/ffmpeg", FFprobe: "/nonexistent/ffprobe"}
}

type progressLog struct {
	mu     sync.Mutex
	states []string
}

func (l *progressLog) record(status string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.states = append(l.states, status)
}

func (l *progressLog) has(status string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.states {
		if s == status {
			return true
		}
	}
	return false
}

func TestAnalyzeRejectsEmptyJob(t *testing.T) {
	p := New(brokenTools(), nil, nil, nil)
	if _, err := p.Analyze(context.Background(), Job{}, nil); !errors.Is(err, ErrNoInput) {
		t.Errorf("Analyze() error = %v, want ErrNoInput", err)
	}
}

func TestAnalyzeDegradesWithoutTools(t *testing.T) {
	p := New(brokenTools(), sttFunc(func(context.Context, *pcm.Clip) asr.Transcript {
		t.Error("stt should not run when extraction fails")
		return ""
	}), nil, nil)

	var log progressLog
	got, err := p.Analyze(context.Background(), Job{Subject: []byte("not a real video")}, log.record)
	if err != nil {
		t.Fatal(err)
	}

	if got.UserAudio == nil || !strings.HasPrefix(got.UserAudio.Transcript, "Analysis failed:") {
		t.Errorf("UserAudio = %+v, want fallback", got.UserAudio)
	}
	if got.UserBody == nil || got.UserBody.Posture != report.QualityUnavailable {
		t.Errorf("UserBody = %+v, want fallback", got.UserBody)
	}
	if got.RoleAudio != nil || got.RoleBody != nil {
		t.Error("role sections should be nil without a reference clip")
	}

	if len(got.Recommendations.Speech) == 0 || len(got.Recommendations.BodyLanguage) == 0 {
		t.Errorf("Recommendations incomplete: %+v", got.Recommendations)
	}
	if got.OverallAssessment == "" {
		t.Error("OverallAssessment empty")
	}
	if n := len(got.ActionPlan); n == 0 || n > 4 {
		t.Errorf("ActionPlan has %d entries", n)
	}

	for _, status := range []string{
		"Starting analysis...",
		"Analyzing your video...",
		"Analyzing your audio...",
		"Analyzing your body language...",
		"Generating recommendations...",
	} {
		if !log.has(status) {
			t.Errorf("progress %q not reported (got %v)", status, log.states)
		}
	}
}

func TestAnalyzeReferenceClip(t *testing.T) {
	p := New(brokenTools(), nil, nil, nil)

	var log progressLog
	got, err := p.Analyze(context.Background(), Job{
		Subject:   []byte("subject"),
		Reference: []byte("reference"),
	}, log.record)
	if err != nil {
		t.Fatal(err)
	}

	if got.RoleAudio == nil || got.RoleBody == nil {
		t.Error("role sections missing for reference clip")
	}
	if !log.has("Analyzing role model video...") {
		t.Errorf("role model progress not reported (got %v)", log.states)
	}
}

func TestAnalyzeEmptyClipReason(t *testing.T) {
	p := New(brokenTools(), nil, nil, nil)

	got, err := p.Analyze(context.Background(), Job{
		Subject:   []byte("data"),
		Reference: []byte("data"),
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	// Both clips fail identically; the report still carries all four
	// sections so the client comparison view renders.
	for _, a := range []*report.Audio{got.UserAudio, got.RoleAudio} {
		if a == nil || a.WPM != 0 {
			t.Errorf("audio section = %+v, want zeroed fallback", a)
		}
	}
	for _, b := range []*report.Posture{got.UserBody, got.RoleBody} {
		if b == nil || b.ConfidenceScore != 5 {
			t.Errorf("posture section = %+v, want fallback confidence 5", b)
		}
	}
}

func TestStageFailureReason(t *testing.T) {
	p := New(Config{MaxClipBytes: 4, FFmpeg: "/nonexistent/ffmpeg", FFprobe: "/nonexistent/ffprobe"}, nil, nil, nil)

	got, err := p.Analyze(context.Background(), Job{Subject: []byte("larger than four bytes")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := "Analysis failed: Video file too large"; got.UserAudio.Transcript != want {
		t.Errorf("Transcript = %q, want %q", got.UserAudio.Transcript, want)
	}
}
