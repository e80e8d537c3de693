// Package posture grades body language from per-frame pose and face
// landmarks: shoulder level, shoulder slope, head tilt, head drop, and
// gaze centering. Frames accumulate into a Session; Report folds the
// counters into a scored result.
package posture

import (
	"context"
	"fmt"
	"math"

	"github.com/talkgenius/inspiration/pkg/media"
	"github.com/talkgenius/inspiration/pkg/report"
	"github.com/talkgenius/inspiration/pkg/vision"
)

// Detection thresholds in normalized image coordinates.
const (
	shoulderLevelMax  = 0.05 // vertical shoulder offset before a frame counts as slouched
	shoulderMinSpan   = 0.01 // minimum horizontal shoulder separation for a usable slope
	shoulderSlopeMax  = 0.1
	earVisibilityMin  = 0.5
	earLevelMax       = 0.03
	gazeCenterOffset  = 0.05 // eye midpoint drift from face anchor before gaze counts as away
	slouchRatioNeeded = 0.3  // slouched frame share above which posture needs correction
)

// Session accumulates landmark observations for one clip.
type Session struct {
	poser vision.PoseEstimator
	facer vision.FaceEstimator

	frames         int
	slouched       int
	headPoseIssues int
	shoulderTilted int
	gazeAway       int
}

// NewSession creates a Session. Either estimator may be nil, in which
// case its signals are treated as undetected for every frame.
func NewSession(poser vision.PoseEstimator, facer vision.FaceEstimator) *Session {
	return &Session{poser: poser, facer: facer}
}

// Observe grades one sampled frame. Estimator transport errors abort
// the clip; a frame that errored is not counted, so the session never
// reports a partial frame as graded. Absent detections only move the
// counters.
func (s *Session) Observe(ctx context.Context, frame *media.Frame) error {
	var pose *vision.PoseLandmarks
	if s.poser != nil {
		p, err := s.poser.EstimatePose(ctx, frame)
		if err != nil {
			return fmt.Errorf("observe frame %d: %w", s.frames+1, err)
		}
		pose = p
	}

	var face *vision.FaceLandmarks
	if s.facer != nil {
		f, err := s.facer.EstimateFace(ctx, frame)
		if err != nil {
			return fmt.Errorf("observe frame %d: %w", s.frames+1, err)
		}
		face = f
	}

	s.frames++
	if pose != nil {
		s.gradePose(pose)
	}
	away := true
	if face != nil {
		away = gazeOffCenter(face)
	}
	if away {
		s.gazeAway++
	}
	return nil
}

func (s *Session) gradePose(p *vision.PoseLandmarks) {
	if math.Abs(p.LeftShoulder.Y-p.RightShoulder.Y) > shoulderLevelMax {
		s.slouched++
	}

	if span := p.LeftShoulder.X - p.RightShoulder.X; math.Abs(span) > shoulderMinSpan {
		slope := math.Abs((p.LeftShoulder.Y - p.RightShoulder.Y) / span)
		if slope > shoulderSlopeMax {
			s.shoulderTilted++
		}
	}

	if p.LeftEar.Visibility > earVisibilityMin && p.RightEar.Visibility > earVisibilityMin {
		if math.Abs(p.LeftEar.Y-p.RightEar.Y) > earLevelMax {
			s.headPoseIssues++
		}
	}

	// Nose below the shoulder line means the head has dropped.
	if p.Nose.Y > (p.LeftShoulder.Y+p.RightShoulder.Y)/2 {
		s.headPoseIssues++
	}
}

// gazeOffCenter reports whether the eye midpoint has drifted from the
// face anchor, reading as looking away from the camera.
func gazeOffCenter(f *vision.FaceLandmarks) bool {
	if len(f.LeftEye) == 0 || len(f.RightEye) == 0 {
		return false
	}
	eyeX := (meanX(f.LeftEye) + meanX(f.RightEye)) / 2
	return math.Abs(eyeX-f.Center.X) > gazeCenterOffset
}

func meanX(points []vision.Point) float64 {
	var sum float64
	for _, p := range points {
		sum += p.X
	}
	return sum / float64(len(points))
}

// Frames returns the number of frames observed so far.
func (s *Session) Frames() int { return s.frames }

// Report folds the accumulated counters into the final result. A clip
// with no observed frames scores a neutral 50 with eye contact Poor.
func (s *Session) Report() *report.Posture {
	score := s.score()

	var posture string
	switch {
	case score >= 80:
		posture = report.QualityExcellent
	case score >= 60:
		posture = report.QualityGood
	case score >= 40:
		posture = report.QualityFair
	default:
		posture = report.QualityPoor
	}

	gazeAwayPct := 100.0
	if s.frames > 0 {
		gazeAwayPct = float64(s.gazeAway) / float64(s.frames) * 100
	}
	var eyeContact string
	switch {
	case gazeAwayPct <= 20:
		eyeContact = report.QualityExcellent
	case gazeAwayPct <= 40:
		eyeContact = report.QualityGood
	case gazeAwayPct <= 60:
		eyeContact = report.QualityFair
	default:
		eyeContact = report.QualityPoor
	}

	var gestures []string
	if s.frames > 0 {
		if float64(s.slouched)/float64(s.frames) < slouchRatioNeeded {
			gestures = append(gestures, "Good shoulder posture")
		} else {
			gestures = append(gestures, "Needs posture correction")
		}
		if eyeContact == report.QualityExcellent || eyeContact == report.QualityGood {
			gestures = append(gestures, "Good eye contact")
		} else {
			gestures = append(gestures, "Limited eye contact")
		}
	}
	if len(gestures) == 0 {
		gestures = []string{"Basic posture detected"}
	}

	expressions := []string{"Engaged expression"}
	if s.frames == 0 {
		expressions = []string{"No expressions detected"}
	}

	return &report.Posture{
		ConfidenceScore:   score / 10,
		Posture:           posture,
		Gestures:          gestures,
		EyeContact:        eyeContact,
		FacialExpressions: expressions,
	}
}

// score converts issue ratios into a 0-100 posture score, one decimal.
func (s *Session) score() float64 {
	if s.frames == 0 {
		return 50
	}
	n := float64(s.frames)
	penalty := float64(s.slouched)/n*40 +
		float64(s.headPoseIssues)/n*30 +
		float64(s.shoulderTilted)/n*30
	score := math.Max(0, 100-penalty)
	return math.Round(score*10) / 10
}
