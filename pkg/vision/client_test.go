package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/talkgenius/inspiration/pkg/media"
)

func testFrame() *media.Frame {
	w, h := 8, 6
	return &media.Frame{Width: w, Height: h, Pix: make([]byte, w*h*3)}
}

func TestEstimatePose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "image/jpeg" {
			t.Errorf("Content-Type = %q", got)
		}
		if _, err := jpeg.Decode(r.Body); err != nil {
			t.Errorf("body is not a valid JPEG: %v", err)
		}
		json.NewEncoder(w).Encode(poseResponse{
			Detected: true,
			Landmarks: &PoseLandmarks{
				Nose:          Point{X: 0.5, Y: 0.2, Visibility: 0.9},
				LeftShoulder:  Point{X: 0.6, Y: 0.5, Visibility: 0.9},
				RightShoulder: Point{X: 0.4, Y: 0.5, Visibility: 0.9},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	got, err := c.EstimatePose(context.Background(), testFrame())
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Nose.X != 0.5 || got.LeftShoulder.Y != 0.5 {
		t.Errorf("EstimatePose() = %+v", got)
	}
}

func TestEstimateNoDetection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]bool{"detected": false})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL)
	pose, err := c.EstimatePose(context.Background(), testFrame())
	if err != nil || pose != nil {
		t.Errorf("EstimatePose() = %+v, %v; want nil, nil", pose, err)
	}
	face, err := c.EstimateFace(context.Background(), testFrame())
	if err != nil || face != nil {
		t.Errorf("EstimateFace() = %+v, %v; want nil, nil", face, err)
	}
}

func TestEstimateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if _, err := c.EstimatePose(context.Background(), testFrame()); err == nil {
		t.Error("EstimatePose() error = nil, want non-nil")
	}
}

func TestEmptyURLMeansNoDetection(t *testing.T) {
	c := NewClient("", "")
	pose, err := c.EstimatePose(context.Background(), testFrame())
	if err != nil || pose != nil {
		t.Errorf("EstimatePose() = %+v, %v; want nil, nil", pose, err)
	}
}

func TestEncodeJPEGRejectsShortBuffer(t *testing.T) {
	frame := &media.Frame{Width: 8, Height: 6, Pix: make([]byte, 10)}
	if _, err := encodeJPEG(frame); err == nil {
		t.Error("encodeJPEG() error = nil, want non-nil")
	}
}

func TestEncodeJPEGRoundTrip(t *testing.T) {
	frame := testFrame()
	data, err := encodeJPEG(frame)
	if err != nil {
		t.Fatal(err)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != frame.Width || b.Dy() != frame.Height {
		t.Errorf("decoded bounds = %v", b)
	}
}
