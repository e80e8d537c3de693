package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"time"

	"github.com/talkgenius/inspiration/pkg/media"
)

// Client calls a landmark detector sidecar over HTTP. The sidecar
// accepts JPEG frames on POST /pose and POST /face and answers with
// landmark JSON; a response with detected=false means the frame holds
// no usable subject.
type Client struct {
	poseURL string
	faceURL string
	hc      *http.Client
}

var (
	_ PoseEstimator = (*Client)(nil)
	_ FaceEstimator = (*Client)(nil)
)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client used for sidecar calls.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.hc = hc }
}

// NewClient creates a Client for the given sidecar endpoints. Either
// URL may be empty, in which case the corresponding estimator reports
// no detection for every frame.
func NewClient(poseURL, faceURL string, opts ...ClientOption) *Client {
	c := &Client{
		poseURL: poseURL,
		faceURL: faceURL,
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type poseResponse struct {
	Detected  bool           `json:"detected"`
	Landmarks *PoseLandmarks `json:"landmarks"`
}

type faceResponse struct {
	Detected  bool           `json:"detected"`
	Landmarks *FaceLandmarks `json:"landmarks"`
}

// EstimatePose implements PoseEstimator.
func (c *Client) EstimatePose(ctx context.Context, frame *media.Frame) (*PoseLandmarks, error) {
	if c.poseURL == "" {
		return nil, nil
	}
	var out poseResponse
	if err := c.post(ctx, c.poseURL, frame, &out); err != nil {
		return nil, fmt.Errorf("pose: %w", err)
	}
	if !out.Detected || out.Landmarks == nil {
		return nil, nil
	}
	return out.Landmarks, nil
}

// EstimateFace implements FaceEstimator.
func (c *Client) EstimateFace(ctx context.Context, frame *media.Frame) (*FaceLandmarks, error) {
	if c.faceURL == "" {
		return nil, nil
	}
	var out faceResponse
	if err := c.post(ctx, c.faceURL, frame, &out); err != nil {
		return nil, fmt.Errorf("face: %w", err)
	}
	if !out.Detected || out.Landmarks == nil {
		return nil, nil
	}
	return out.Landmarks, nil
}

func (c *Client) post(ctx context.Context, url string, frame *media.Frame, out any) error {
	body, err := encodeJPEG(frame)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s: %s", resp.Status, string(msg))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// encodeJPEG converts a raw RGB frame into JPEG bytes for transport.
func encodeJPEG(frame *media.Frame) ([]byte, error) {
	if frame == nil || frame.Width <= 0 || frame.Height <= 0 {
		return nil, fmt.Errorf("invalid frame")
	}
	if len(frame.Pix) < frame.Width*frame.Height*3 {
		return nil, fmt.Errorf("short pixel buffer: %d bytes for %dx%d", len(frame.Pix), frame.Width, frame.Height)
	}

	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for y := 0; y < frame.Height; y++ {
		src := frame.Pix[y*frame.Width*3:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < frame.Width; x++ {
			dst[x*4+0] = src[x*3+0]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+2]
			dst[x*4+3] = 0xff
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("jpeg encode: %w", err)
	}
	return buf.Bytes(), nil
}
