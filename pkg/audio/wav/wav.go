// Package wav reads and writes RIFF/WAVE containers carrying 16-bit PCM.
//
// Only the subset needed by the pipeline is implemented: linear PCM
// (format tag 1), 16-bit samples, mono or stereo. Decode tolerates the
// streaming quirk where ffmpeg writes a zero or 0xFFFFFFFF data size on
// a non-seekable output and treats the rest of the input as sample data.
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/talkgenius/inspiration/pkg/audio/pcm"
)

var (
	// ErrNotWave is returned when the input is not a RIFF/WAVE stream.
	ErrNotWave = errors.New("wav: not a RIFF/WAVE stream")

	// ErrUnsupported is returned for WAVE streams the decoder cannot
	// handle (compressed formats, unusual bit depths).
	ErrUnsupported = errors.New("wav: unsupported encoding")
)

// Decode reads a WAVE stream and returns its format and raw PCM bytes.
func Decode(r io.Reader) (pcm.Format, []byte, error) {
	var hdr [12]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return pcm.Format{}, nil, ErrNotWave
	}
	if string(hdr[0:4]) != "RIFF" || string(hdr[8:12]) != "WAVE" {
		return pcm.Format{}, nil, ErrNotWave
	}

	var format pcm.Format
	haveFmt := false

	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return pcm.Format{}, nil, fmt.Errorf("wav: no data chunk: %w", ErrNotWave)
			}
			return pcm.Format{}, nil, err
		}
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return pcm.Format{}, nil, fmt.Errorf("wav: short fmt chunk: %w", err)
			}
			if len(body) < 16 {
				return pcm.Format{}, nil, ErrUnsupported
			}
			tag := binary.LittleEndian.Uint16(body[0:2])
			channels := binary.LittleEndian.Uint16(body[2:4])
			rate := binary.LittleEndian.Uint32(body[4:8])
			bits := binary.LittleEndian.Uint16(body[14:16])
			if tag != 1 || bits != 16 || channels < 1 || channels > 2 {
				return pcm.Format{}, nil, ErrUnsupported
			}
			format = pcm.Format{Rate: int(rate), Stereo: channels == 2}
			haveFmt = true

		case "data":
			if !haveFmt {
				return pcm.Format{}, nil, fmt.Errorf("wav: data before fmt: %w", ErrNotWave)
			}
			var data []byte
			var err error
			if size == 0 || size == 0xFFFFFFFF {
				// Unknown length (piped output): read to EOF.
				data, err = io.ReadAll(r)
			} else {
				data = make([]byte, size)
				var n int
				n, err = io.ReadFull(r, data)
				if err == io.ErrUnexpectedEOF {
					// Truncated writes still carry usable samples.
					data, err = data[:n], nil
				}
			}
			if err != nil {
				return pcm.Format{}, nil, err
			}
			return format, data[:len(data)/format.SampleBytes()*format.SampleBytes()], nil

		default:
			// Skip LIST, fact, and other metadata chunks. Chunks are
			// word-aligned, so an odd size carries one pad byte.
			if _, err := io.CopyN(io.Discard, r, int64(size)+int64(size%2)); err != nil {
				return pcm.Format{}, nil, fmt.Errorf("wav: short %s chunk: %w", id, err)
			}
		}
	}
}

// Encode writes the raw PCM bytes as a complete WAVE stream.
func Encode(w io.Writer, format pcm.Format, data []byte) error {
	var hdr [44]byte
	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(36+len(data)))
	copy(hdr[8:12], "WAVE")
	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16)
	binary.LittleEndian.PutUint16(hdr[20:22], 1)
	binary.LittleEndian.PutUint16(hdr[22:24], uint16(format.Channels()))
	binary.LittleEndian.PutUint32(hdr[24:28], uint32(format.Rate))
	binary.LittleEndian.PutUint32(hdr[28:32], uint32(format.BytesRate()))
	binary.LittleEndian.PutUint16(hdr[32:34], uint16(format.SampleBytes()))
	binary.LittleEndian.PutUint16(hdr[34:36], 16)
	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:44], uint32(len(data)))

	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}
