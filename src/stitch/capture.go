package stitch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"scrollsnap/src/screenshot"
)

// ErrImagePersist is returned when the captured canvas cannot be written out.
var ErrImagePersist = errors.New("failed to persist captured image")

// CaptureOptions configures one capture-to-file run.
type CaptureOptions struct {
	Scroll     bool
	MaxScrolls int
	Pause      time.Duration
	OutputDir  string
}

// CaptureToFile captures region (scrolling and stitching when enabled, a
// single shot otherwise) and writes the result under OutputDir. It returns
// the saved image path.
func CaptureToFile(ctx context.Context, region screenshot.Region, o CaptureOptions) (string, error) {
	if err := os.MkdirAll(o.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrImagePersist, err)
	}

	if !o.Scroll {
		frame, err := screenshot.CaptureRegion(region)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrCaptureEmpty, err)
		}
		path, err := SaveStitched(frame, o.OutputDir)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrImagePersist, err)
		}
		return path, nil
	}

	s := &Session{
		Frames:     screenshot.CaptureRegion,
		Input:      RobotScroller{},
		MaxScrolls: o.MaxScrolls,
		Pause:      o.Pause,
	}
	frames, err := s.Run(ctx, region)
	if err != nil {
		return "", err
	}
	log.Printf("Captured %d screen segments", len(frames))

	path, err := SaveStitched(Compose(frames), o.OutputDir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImagePersist, err)
	}
	return path, nil
}
