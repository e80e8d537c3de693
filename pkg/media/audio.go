package media

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"

	"github.com/talkgenius/inspiration/pkg/audio/pcm"
	"github.com/talkgenius/inspiration/pkg/audio/resampler"
	"github.com/talkgenius/inspiration/pkg/audio/wav"
)

// ErrExtractionFailed is returned only after every container-format
// hypothesis has been exhausted. The orchestrator treats it as a
// degraded condition, not a request failure.
var ErrExtractionFailed = errors.New("media: audio extraction failed")

// audioFormats is the ordered list of container hypotheses tried when
// demuxing a clip's audio track. The empty hint lets ffmpeg auto-detect;
// the rest force a specific demuxer for clips with damaged headers.
var audioFormats = []string{"", "webm", "mp4", "avi", "mov", "matroska"}

// ExtractAudio demuxes and decodes the staged clip's audio track to the
// canonical 16 kHz mono PCM clip. Each container hypothesis is attempted
// in order; the first one producing non-empty audio wins.
func ExtractAudio(ctx context.Context, ffmpeg, path string) (*pcm.Clip, error) {
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}

	for _, hint := range audioFormats {
		args := []string{"-v", "error"}
		if hint != "" {
			args = append(args, "-f", hint)
		}
		args = append(args, "-i", path, "-vn", "-acodec", "pcm_s16le", "-f", "wav", "pipe:1")

		out, err := exec.CommandContext(ctx, ffmpeg, args...).Output()
		if err != nil {
			slog.Debug("audio extraction hypothesis failed", "format", orAuto(hint), "error", err)
			continue
		}

		format, data, err := wav.Decode(bytes.NewReader(out))
		if err != nil || len(data) == 0 {
			slog.Debug("audio extraction produced no samples", "format", orAuto(hint))
			continue
		}

		canonical, err := resampler.Convert(data, format, pcm.Canonical)
		if err != nil {
			slog.Debug("audio resample failed", "format", orAuto(hint), "error", err)
			continue
		}

		clip := pcm.DecodeClip(canonical, pcm.Canonical.Rate)
		if clip.Empty() {
			continue
		}
		slog.Info("extracted audio", "format", orAuto(hint), "rate", format.Rate,
			"stereo", format.Stereo, "duration", clip.Duration())
		return clip, nil
	}

	return nil, ErrExtractionFailed
}

func orAuto(hint string) string {
	if hint == "" {
		return "auto"
	}
	return hint
}
