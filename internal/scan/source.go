// Package scan turns a stream of camera frames into at most one validated
// VIN per scanning session. The capture device is abstracted behind
// FrameSource; the decode pipeline runs gozxing's multi-format reader over
// sampled frames and gates results with the VIN validator.
package scan

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Sentinel capture errors. A FrameSource's Open must return (or wrap) one of
// these when the condition applies, so the session can tell the user why the
// camera is unavailable and offer manual entry instead.
var (
	ErrPermissionDenied = errors.New("camera permission denied")
	ErrNoCamera         = errors.New("no camera available")
	ErrNoFrame          = errors.New("no frame available")
)

// FrameSource is a live source of video frames. Implementations must prefer
// the rear-facing camera where the platform offers a choice. Close must be
// safe to call more than once and must release the underlying device
// unconditionally.
type FrameSource interface {
	Open(ctx context.Context) error
	Grab(ctx context.Context) (image.Image, error)
	Close() error
}

// DirFrameSource replays image files (png/jpeg) from a directory in
// lexicographic order, cycling when exhausted. It backs offline scan
// sessions in fleetctl and tests.
type DirFrameSource struct {
	dir    string
	frames []string
	next   int
	open   bool
}

func NewDirFrameSource(dir string) *DirFrameSource {
	return &DirFrameSource{dir: dir}
}

func (s *DirFrameSource) Open(ctx context.Context) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNoCamera, s.dir)
		}
		if errors.Is(err, os.ErrPermission) {
			return fmt.Errorf("%w: %s", ErrPermissionDenied, s.dir)
		}
		return err
	}
	s.frames = s.frames[:0]
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg":
			s.frames = append(s.frames, filepath.Join(s.dir, e.Name()))
		}
	}
	if len(s.frames) == 0 {
		return fmt.Errorf("%w: no frames in %s", ErrNoCamera, s.dir)
	}
	sort.Strings(s.frames)
	s.next = 0
	s.open = true
	return nil
}

func (s *DirFrameSource) Grab(ctx context.Context) (image.Image, error) {
	if !s.open {
		return nil, ErrNoFrame
	}
	path := s.frames[s.next%len(s.frames)]
	s.next++

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Decode(f)
	default:
		return jpeg.Decode(f)
	}
}

func (s *DirFrameSource) Close() error {
	s.open = false
	return nil
}
