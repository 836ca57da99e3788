// Package session orchestrates one capture operation: capture and stitch the
// region, extract text under a deadline, fall back to OCR when enabled,
// normalize, store, and signal the outcome out-of-band.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scrollsnap/src/extract"
	"scrollsnap/src/logutil"
	"scrollsnap/src/store"
	"scrollsnap/src/textnorm"
)

// ErrNormalizationEmpty is returned when the trimming heuristics reduce the
// extracted text to nothing.
var ErrNormalizationEmpty = errors.New("captured text empty after normalization")

// CaptureFunc produces a captured image file and returns its path.
type CaptureFunc func(ctx context.Context) (string, error)

// OCRFunc recognizes text in the image at path. Nil disables the fallback.
type OCRFunc func(ctx context.Context, path string) (string, error)

// Options wires the capabilities one capture operation needs. Capture and
// Store are required; everything else is optional.
type Options struct {
	Capture    CaptureFunc
	Extractor  extract.Extractor
	OCR        OCRFunc
	Deadline   time.Duration
	AutoAnswer bool
	Store      *store.Store

	// Best-effort side operations; failures never abort the capture.
	Mirror   func(text string) error
	Indicate func(success bool)

	// AutoType, when set, is dispatched with the stored text after success.
	AutoType func(text string)
}

// ForSubmittedImage returns a copy of o that processes an already-saved
// image instead of capturing the screen. The submitter wants the answer
// back, so answer preference is forced on; auto-type stays as configured.
func (o Options) ForSubmittedImage(path string) Options {
	o.Capture = func(context.Context) (string, error) { return path, nil }
	o.AutoAnswer = true
	return o
}

// Execute runs the capture pipeline. On any failure the store is left
// untouched, the failure indicator fires, and the stage's error kind is
// returned.
func Execute(ctx context.Context, opts Options) (string, error) {
	if opts.Capture == nil {
		return "", errors.New("Capture is required")
	}
	if opts.Store == nil {
		return "", errors.New("Store is required")
	}

	indicate := opts.Indicate
	if indicate == nil {
		indicate = func(bool) {}
	}

	imagePath, err := opts.Capture(ctx)
	if err != nil {
		log.Printf("Capture failed: %v", err)
		indicate(false)
		return "", err
	}
	log.Printf("Image captured at: %s", imagePath)

	text, err := extractText(ctx, opts, imagePath)

	// The image never outlives the extraction attempts that consume it.
	if removeErr := os.Remove(imagePath); removeErr != nil && !os.IsNotExist(removeErr) {
		log.Printf("Failed to remove temp image %s: %v", imagePath, removeErr)
	}

	if err != nil {
		log.Printf("Extraction failed: %v", err)
		indicate(false)
		return "", err
	}

	normalized := textnorm.Normalize(text)
	if normalized == "" {
		indicate(false)
		return "", ErrNormalizationEmpty
	}

	if err := opts.Store.Set(normalized); err != nil {
		indicate(false)
		return "", fmt.Errorf("%w: %v", ErrNormalizationEmpty, err)
	}
	log.Printf("Stored captured text (%d chars): %q", len(normalized), logutil.Sanitize(normalized))

	if opts.Mirror != nil {
		_ = opts.Mirror(normalized)
	}

	indicate(true)

	if opts.AutoType != nil {
		opts.AutoType(normalized)
	}

	return normalized, nil
}

// extractText runs the primary extractor under the deadline, then the OCR
// fallback. The fallback only runs while the image file still exists.
func extractText(ctx context.Context, opts Options, imagePath string) (string, error) {
	deadline := opts.Deadline
	if deadline <= 0 {
		deadline = 90 * time.Second
	}

	var lastErr error

	if opts.Extractor != nil {
		jobCtx, cancel := context.WithTimeout(ctx, deadline)
		ex, err := opts.Extractor.Extract(jobCtx, imagePath)
		cancel()
		if err == nil {
			if text := ex.Pick(opts.AutoAnswer); text != "" {
				return text, nil
			}
			err = extract.ErrEmpty
		}
		lastErr = err
		log.Printf("Primary extractor unavailable: %v", err)
	}

	if opts.OCR != nil {
		text, err := opts.OCR(ctx, imagePath)
		if err == nil && text != "" {
			return text, nil
		}
		if err != nil {
			lastErr = err
		} else {
			lastErr = extract.ErrEmpty
		}
		log.Printf("OCR fallback unavailable: %v", lastErr)
	}

	if lastErr == nil {
		lastErr = extract.ErrEmpty
	}
	return "", lastErr
}

// CleanupTemp removes leftover capture files from previous runs. Best-effort.
func CleanupTemp(outputDir string) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "capture_image_") || strings.HasPrefix(name, "capture_chunk_") {
			_ = os.Remove(filepath.Join(outputDir, name))
		}
	}
}
