package media

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// DefaultMaxClipBytes is the upload cap applied when no limit is configured.
const DefaultMaxClipBytes = 100 << 20 // 100 MiB

var (
	// ErrEmptyInput is returned when a clip has no bytes at all.
	ErrEmptyInput = errors.New("media: empty file data received")

	// ErrTooLarge is returned when a clip exceeds the configured maximum.
	ErrTooLarge = errors.New("media: file too large")

	// ErrStageWrite is returned when the staged file's size does not match
	// the input, which signals a partial or corrupted write.
	ErrStageWrite = errors.New("media: staged file size mismatch")
)

// Stage is a clip staged as a temporary file. The caller owns the stage
// and must Close it on every exit path; Close removes the file and is
// safe to call more than once.
type Stage struct {
	path string
	size int64

	closeOnce sync.Once
	closeErr  error
}

// StageClip writes clip bytes to a scoped temporary file and verifies the
// persisted size. The suffix becomes the file name suffix so downstream
// tools can see the declared container type. maxBytes <= 0 selects
// DefaultMaxClipBytes.
func StageClip(data []byte, suffix string, maxBytes int64) (*Stage, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxClipBytes
	}
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds maximum %d", ErrTooLarge, len(data), maxBytes)
	}

	f, err := os.CreateTemp("", "clip-*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("media: create temp file: %w", err)
	}
	path := f.Name()

	_, werr := f.Write(data)
	cerr := f.Close()
	if werr != nil || cerr != nil {
		os.Remove(path)
		if werr == nil {
			werr = cerr
		}
		return nil, fmt.Errorf("media: write temp file: %w", werr)
	}

	info, err := os.Stat(path)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("media: verify temp file: %w", err)
	}
	if info.Size() != int64(len(data)) {
		os.Remove(path)
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrStageWrite, len(data), info.Size())
	}

	return &Stage{path: path, size: info.Size()}, nil
}

// Path returns the on-disk location of the staged clip.
func (s *Stage) Path() string { return s.path }

// Size returns the verified size of the staged clip in bytes.
func (s *Stage) Size() int64 { return s.size }

// Close removes the staged file.
func (s *Stage) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = os.Remove(s.path)
	})
	return s.closeErr
}
