package media

import (
	"context"
	"fmt"
	"io"
	"math"
	"os/exec"
)

// Frame is one sampled video frame in packed RGB24. It is transient:
// the pixel buffer is reused between frames, so observers must not
// retain it past the callback.
type Frame struct {
	Width  int
	Height int
	Pix    []byte
}

// FrameSkip returns the sampling skip factor for the given frame rate:
// roughly 3 processed frames per second of source video, minimum 1.
func FrameSkip(fps float64) int {
	skip := int(math.Round(fps / 3))
	if skip < 1 {
		skip = 1
	}
	return skip
}

// SampleFrames decodes the staged clip at the reduced sampling rate and
// invokes fn for each sampled frame. It returns the number of frames
// delivered. A non-nil error from fn aborts decoding and is returned
// together with the count so far.
func SampleFrames(ctx context.Context, ffmpeg, path string, props VideoProps, fn func(Frame) error) (int, error) {
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	if !props.Valid() {
		return 0, fmt.Errorf("media: invalid video properties: %+v", props)
	}

	skip := FrameSkip(props.FPS)
	cmd := exec.CommandContext(ctx, ffmpeg,
		"-v", "error",
		"-i", path,
		"-vf", fmt.Sprintf(`select=not(mod(n\,%d))`, skip),
		"-vsync", "0",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"pipe:1",
	)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, fmt.Errorf("media: decode frames: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("media: decode frames: %w", err)
	}

	frame := Frame{
		Width:  props.Width,
		Height: props.Height,
		Pix:    make([]byte, props.Width*props.Height*3),
	}

	count := 0
	for {
		if _, err := io.ReadFull(stdout, frame.Pix); err != nil {
			// EOF on a frame boundary ends the stream; a partial
			// trailing frame is dropped.
			break
		}
		if err := fn(frame); err != nil {
			cmd.Process.Kill()
			cmd.Wait()
			return count, err
		}
		count++
	}

	if err := cmd.Wait(); err != nil && count == 0 {
		return 0, fmt.Errorf("media: decode frames: %w", err)
	}
	return count, nil
}
