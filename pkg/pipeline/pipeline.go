// Package pipeline orchestrates a full analysis job: stage the uploaded
// clips, run the speech and body language branches in parallel, and
// fold the results with coaching recommendations into one combined
// report.
//
// Branch failures never fail the job. Each branch degrades to a
// fallback section carrying the failure reason, so clients always
// receive a complete report shape.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/talkgenius/inspiration/pkg/analysis/language"
	"github.com/talkgenius/inspiration/pkg/analysis/posture"
	"github.com/talkgenius/inspiration/pkg/analysis/prosody"
	"github.com/talkgenius/inspiration/pkg/asr"
	"github.com/talkgenius/inspiration/pkg/audio/pcm"
	"github.com/talkgenius/inspiration/pkg/media"
	"github.com/talkgenius/inspiration/pkg/recommend"
	"github.com/talkgenius/inspiration/pkg/report"
	"github.com/talkgenius/inspiration/pkg/vision"
)

// ErrNoInput is returned when a job carries no clip data at all.
var ErrNoInput = errors.New("no video data provided")

// Config holds the external tool settings for the pipeline.
type Config struct {
	// MaxClipBytes caps the size of a single staged clip.
	// Zero means media.DefaultMaxClipBytes.
	MaxClipBytes int64

	// FFmpeg and FFprobe are the binaries used for demuxing.
	// Empty values resolve via PATH.
	FFmpeg  string
	FFprobe string
}

// DefaultConfig returns the standard pipeline settings.
func DefaultConfig() Config {
	return Config{
		MaxClipBytes: media.DefaultMaxClipBytes,
		FFmpeg:       "ffmpeg",
		FFprobe:      "ffprobe",
	}
}

// SpeechToText converts a canonical clip into a transcript. The
// returned transcript is never empty; failures surface as sentinel
// text.
type SpeechToText interface {
	Transcribe(ctx context.Context, clip *pcm.Clip) asr.Transcript
}

// Job is one analysis request. Subject is the presenter's clip;
// Reference optionally holds a role model clip to compare against.
type Job struct {
	Subject   []byte
	Reference []byte
}

// Progress receives status updates during a job. Implementations must
// be safe for concurrent use; branches report from separate goroutines.
type Progress func(status string)

// Pipeline runs analysis jobs.
type Pipeline struct {
	cfg     Config
	stt     SpeechToText
	poser   vision.PoseEstimator
	facer   vision.FaceEstimator
	prosody *prosody.Analyzer
	logger  *slog.Logger
}

// New creates a Pipeline. The estimators may be nil; posture grading
// then sees no detections. A nil stt yields unavailable transcripts.
func New(cfg Config, stt SpeechToText, poser vision.PoseEstimator, facer vision.FaceEstimator) *Pipeline {
	def := DefaultConfig()
	if cfg.MaxClipBytes <= 0 {
		cfg.MaxClipBytes = def.MaxClipBytes
	}
	if cfg.FFmpeg == "" {
		cfg.FFmpeg = def.FFmpeg
	}
	if cfg.FFprobe == "" {
		cfg.FFprobe = def.FFprobe
	}
	if stt == nil {
		stt = asr.NewTranscriber(nil)
	}
	return &Pipeline{
		cfg:     cfg,
		stt:     stt,
		poser:   poser,
		facer:   facer,
		prosody: prosody.New(prosody.DefaultConfig()),
		logger:  slog.Default().With("component", "pipeline"),
	}
}

// Analyze runs one job to completion and returns the combined report.
func (p *Pipeline) Analyze(ctx context.Context, job Job, progress Progress) (*report.Combined, error) {
	if progress == nil {
		progress = func(string) {}
	}
	if len(job.Subject) == 0 && len(job.Reference) == 0 {
		return nil, ErrNoInput
	}

	progress("Starting analysis...")
	result := &report.Combined{}

	if len(job.Subject) > 0 {
		progress("Analyzing your video...")
		result.UserAudio, result.UserBody = p.analyzeClip(ctx, job.Subject, progress,
			"Analyzing your audio...", "Analyzing your body language...")
	}

	if len(job.Reference) > 0 {
		progress("Analyzing role model video...")
		result.RoleAudio, result.RoleBody = p.analyzeClip(ctx, job.Reference, progress,
			"Analyzing role model audio...", "Analyzing role model body language...")
	}

	progress("Generating recommendations...")
	p.fillRecommendations(result)

	return result, nil
}

// fillRecommendations folds the advice engine output into the result.
// A panic in the engine degrades to a generic recommendation set so a
// finished analysis is never thrown away at the last step.
func (p *Pipeline) fillRecommendations(result *report.Combined) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("recommendation engine panicked", "panic", r)
			result.Recommendations = report.Recommendations{
				Speech:       []string{"Focus on clear speech and confident delivery"},
				BodyLanguage: []string{"Maintain good posture and eye contact"},
			}
			result.OverallAssessment = "Analysis completed. Review results for specific insights."
			result.ActionPlan = []string{
				"Week 1: Practice speaking clearly for 10 minutes daily",
				"Week 2: Work on maintaining good posture during conversations",
				"Week 3: Record and review your speaking practice sessions",
				"Week 4: Focus on implementing all improvements together",
			}
		}
	}()
	result.Recommendations = recommend.Recommendations(result.UserAudio, result.RoleAudio, result.UserBody)
	result.OverallAssessment = recommend.OverallAssessment(result.UserAudio, result.UserBody)
	result.ActionPlan = recommend.ActionPlan(result.Recommendations)
}

// analyzeClip stages one clip and runs its speech and body language
// branches in parallel. Either branch degrades to a fallback section
// on failure instead of propagating an error.
func (p *Pipeline) analyzeClip(ctx context.Context, data []byte, progress Progress, audioStatus, bodyStatus string) (*report.Audio, *report.Posture) {
	stage, err := media.StageClip(data, ".webm", p.cfg.MaxClipBytes)
	if err != nil {
		p.logger.Error("staging clip failed", "error", err)
		reason := stageFailureReason(err)
		return report.FallbackAudio(reason), report.FallbackPosture(reason)
	}
	defer stage.Close()

	var (
		wg    sync.WaitGroup
		audio *report.Audio
		body  *report.Posture
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("audio branch panicked", "panic", r)
				audio = report.FallbackAudio(fmt.Sprint(r))
			}
		}()
		progress(audioStatus)
		audio = p.analyzeAudio(ctx, stage.Path())
	}()
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("posture branch panicked", "panic", r)
				body = report.FallbackPosture(fmt.Sprint(r))
			}
		}()
		progress(bodyStatus)
		body = p.analyzePosture(ctx, stage.Path())
	}()
	wg.Wait()

	return audio, body
}

func stageFailureReason(err error) string {
	switch {
	case errors.Is(err, media.ErrEmptyInput):
		return "Empty video file"
	case errors.Is(err, media.ErrTooLarge):
		return "Video file too large"
	default:
		return "Video file not found"
	}
}

// analyzeAudio extracts the audio track and derives all speech metrics.
func (p *Pipeline) analyzeAudio(ctx context.Context, path string) *report.Audio {
	clip, err := media.ExtractAudio(ctx, p.cfg.FFmpeg, path)
	if err != nil {
		p.logger.Warn("audio extraction failed", "error", err)
		return report.FallbackAudio("Audio extraction failed")
	}

	features := p.prosody.Analyze(clip)
	transcript := p.stt.Transcribe(ctx, clip)

	fillers, fillerTotal := language.DetectFillers(transcript)
	if fillers == nil {
		fillers = []string{}
	}

	out := &report.Audio{
		WPM:             language.WordsPerMinute(transcript, features.Duration),
		Fillers:         fillers,
		GrammarMistakes: language.GrammarMistakes(transcript),
		PauseCount:      features.PauseCount,
		Transcript:      string(transcript),
		AvgPitch:        features.AvgPitch,
		Duration:        features.Duration,
		FillerTotal:     fillerTotal,
	}
	p.logger.Info("audio analysis complete",
		"wpm", out.WPM, "fillers", out.FillerTotal, "grammar", out.GrammarMistakes,
		"pauses", out.PauseCount, "duration", out.Duration)
	return out
}

// analyzePosture samples frames from the clip and grades body language.
func (p *Pipeline) analyzePosture(ctx context.Context, path string) *report.Posture {
	props, err := media.ProbeVideo(ctx, p.cfg.FFprobe, path)
	if err != nil {
		p.logger.Warn("probing video failed", "error", err)
		return report.FallbackPosture("Could not open video file")
	}
	if !props.Valid() {
		return report.FallbackPosture("Invalid video properties")
	}

	session := posture.NewSession(p.poser, p.facer)
	_, err = media.SampleFrames(ctx, p.cfg.FFmpeg, path, props, func(f media.Frame) error {
		return session.Observe(ctx, &f)
	})
	if err != nil {
		// A mid-clip estimator failure invalidates the whole grading
		// pass; a partial session must not read as a clean result.
		p.logger.Warn("frame sampling failed", "frames", session.Frames(), "error", err)
		return report.FallbackPosture(fmt.Sprintf("Analysis error: %v", err))
	}

	out := session.Report()
	p.logger.Info("posture analysis complete", "frames", session.Frames(),
		"posture", out.Posture, "eye_contact", out.EyeContact, "confidence", out.ConfidenceScore)
	return out
}
