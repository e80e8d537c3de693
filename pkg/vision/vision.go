// Package vision defines landmark geometry for pose and face detection
// plus estimator interfaces the analysis layer consumes. The concrete
// implementation in this package talks to a detector sidecar over HTTP;
// tests substitute in-process estimators.
package vision

import (
	"context"

	"github.com/talkgenius/inspiration/pkg/media"
)

// Point is a detected landmark in normalized image coordinates.
// X and Y are in [0, 1] relative to frame width and height.
type Point struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Visibility float64 `json:"visibility"`
}

// PoseLandmarks are the upper-body keypoints used for posture grading.
type PoseLandmarks struct {
	Nose          Point `json:"nose"`
	LeftShoulder  Point `json:"left_shoulder"`
	RightShoulder Point `json:"right_shoulder"`
	LeftEar       Point `json:"left_ear"`
	RightEar      Point `json:"right_ear"`
}

// FaceLandmarks are the eye contours and face anchor used for gaze
// estimation.
type FaceLandmarks struct {
	LeftEye  []Point `json:"left_eye"`
	RightEye []Point `json:"right_eye"`
	Center   Point   `json:"center"`
}

// PoseEstimator detects body keypoints in a frame. A nil result with a
// nil error means no person was detected.
type PoseEstimator interface {
	EstimatePose(ctx context.Context, frame *media.Frame) (*PoseLandmarks, error)
}

// FaceEstimator detects face landmarks in a frame. A nil result with a
// nil error means no face was detected.
type FaceEstimator interface {
	EstimateFace(ctx context.Context, frame *media.Frame) (*FaceLandmarks, error)
}
