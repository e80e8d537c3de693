package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrNoVideoStream is returned when ffprobe finds no video track.
var ErrNoVideoStream = errors.New("media: no video stream")

// VideoProps are the decoded properties of a clip's video track.
type VideoProps struct {
	FPS    float64
	Frames int
	Width  int
	Height int
}

// Valid reports whether the properties allow frame analysis. A zero or
// negative frame rate or frame count marks the clip as unanalyzable.
func (p VideoProps) Valid() bool {
	return p.FPS > 0 && p.Frames > 0 && p.Width > 0 && p.Height > 0
}

type probeOutput struct {
	Streams []struct {
		RFrameRate string `json:"r_frame_rate"`
		NbFrames   string `json:"nb_frames"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// ProbeVideo inspects the staged clip's first video stream with ffprobe.
// Containers like WebM often omit the frame count; it is then estimated
// from the container duration and frame rate.
func ProbeVideo(ctx context.Context, ffprobe, path string) (VideoProps, error) {
	if ffprobe == "" {
		ffprobe = "ffprobe"
	}

	cmd := exec.CommandContext(ctx, ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=r_frame_rate,nb_frames,width,height",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return VideoProps{}, fmt.Errorf("media: ffprobe: %w", err)
	}

	var probed probeOutput
	if err := json.Unmarshal(out, &probed); err != nil {
		return VideoProps{}, fmt.Errorf("media: parse ffprobe output: %w", err)
	}
	if len(probed.Streams) == 0 {
		return VideoProps{}, ErrNoVideoStream
	}

	s := probed.Streams[0]
	props := VideoProps{
		FPS:    parseRate(s.RFrameRate),
		Width:  s.Width,
		Height: s.Height,
	}
	props.Frames, _ = strconv.Atoi(s.NbFrames)
	if props.Frames <= 0 && props.FPS > 0 {
		if dur, err := strconv.ParseFloat(probed.Format.Duration, 64); err == nil {
			props.Frames = int(dur * props.FPS)
		}
	}
	return props, nil
}

// parseRate parses an ffprobe rational like "30000/1001" or "25/1".
func parseRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		v, _ := strconv.ParseFloat(s, 64)
		return v
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}
