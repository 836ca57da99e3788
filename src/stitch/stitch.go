// Package stitch drives a scroll-capture session: it interleaves region
// screenshots with page-down input, drops frames whose top strip matches the
// previous frame's bottom strip, and pastes the survivors into one tall image.
package stitch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"path/filepath"
	"time"

	"scrollsnap/src/screenshot"
)

// ErrCaptureEmpty is returned when a session keeps zero frames.
var ErrCaptureEmpty = errors.New("no frames captured")

const (
	// SimilarityThreshold is the byte-identical fraction above which two
	// strips are considered the same content.
	SimilarityThreshold = 0.95

	// maxConsecutiveDupes stops the session once content stops changing.
	maxConsecutiveDupes = 2

	maxStripHeight = 300
	maxStripWidth  = 400
)

// FrameSource captures one frame of the region. screenshot.CaptureRegion is
// the production source; tests inject synthetic frames.
type FrameSource func(region screenshot.Region) (*image.RGBA, error)

// Scroller owns the input side of a session: moving focus into the surface
// and advancing it one page. Both are best-effort.
type Scroller interface {
	FocusAt(x, y int) error
	PageDown() error
}

// Session is one scroll-capture run. Zero-value Pause means no settle delay.
type Session struct {
	Frames     FrameSource
	Input      Scroller
	MaxScrolls int
	Pause      time.Duration
}

// Run captures up to MaxScrolls frames of region, filtering duplicates.
// A frame-capture failure mid-loop keeps the frames already collected.
func (s *Session) Run(ctx context.Context, region screenshot.Region) ([]*image.RGBA, error) {
	if s.Frames == nil {
		return nil, errors.New("frame source is required")
	}

	// Best-effort click into the capturable surface so page-down lands there.
	if s.Input != nil {
		cx, cy := region.Center()
		_ = s.Input.FocusAt(cx, cy)
	}

	var kept []*image.RGBA
	dupes := 0

	for i := 0; i < s.MaxScrolls; i++ {
		if err := ctx.Err(); err != nil {
			break
		}

		frame, err := s.Frames(region)
		if err != nil {
			break
		}

		if len(kept) > 0 && IsDuplicate(kept[len(kept)-1], frame) {
			dupes++
			if dupes >= maxConsecutiveDupes {
				break
			}
		} else {
			dupes = 0
			kept = append(kept, frame)
		}

		if s.Input != nil {
			if err := s.Input.PageDown(); err != nil {
				break
			}
		}
		if s.Pause > 0 {
			select {
			case <-time.After(s.Pause):
			case <-ctx.Done():
			}
		}
	}

	if len(kept) == 0 {
		return nil, ErrCaptureEmpty
	}
	return kept, nil
}

// IsDuplicate reports whether next shows the same content as the tail of prev.
// It compares prev's bottom strip against next's top strip of equal size.
func IsDuplicate(prev, next *image.RGBA) bool {
	h1 := prev.Bounds().Dy()
	h2 := next.Bounds().Dy()
	w := min(prev.Bounds().Dx(), next.Bounds().Dx())
	if w > maxStripWidth {
		w = maxStripWidth
	}
	cropH := min(maxStripHeight, h1/2)
	if cropH <= 0 || w <= 0 {
		return false
	}

	prevBottom := cropRGBA(prev, image.Rect(0, h1-cropH, w, h1))
	currTop := cropRGBA(next, image.Rect(0, 0, w, min(cropH, h2)))

	return StripSimilarity(prevBottom, currTop) > SimilarityThreshold
}

// StripSimilarity returns the fraction of byte-identical pixel bytes between
// two strips. Strips of unequal size compare as 0 (never similar).
func StripSimilarity(a, b *image.RGBA) float64 {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() || ab.Dx() == 0 || ab.Dy() == 0 {
		return 0
	}

	rowLen := ab.Dx() * 4
	equal, total := 0, 0
	for y := 0; y < ab.Dy(); y++ {
		ao := a.PixOffset(ab.Min.X, ab.Min.Y+y)
		bo := b.PixOffset(bb.Min.X, bb.Min.Y+y)
		for i := 0; i < rowLen; i++ {
			if a.Pix[ao+i] == b.Pix[bo+i] {
				equal++
			}
			total++
		}
	}
	return float64(equal) / float64(total)
}

// Compose pastes frames top to bottom, left aligned, into one canvas of
// width max(frame widths) and height sum(frame heights). Uncovered canvas
// area is filled white.
func Compose(frames []*image.RGBA) *image.RGBA {
	maxW, totalH := 0, 0
	for _, f := range frames {
		if w := f.Bounds().Dx(); w > maxW {
			maxW = w
		}
		totalH += f.Bounds().Dy()
	}

	canvas := image.NewRGBA(image.Rect(0, 0, maxW, totalH))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	y := 0
	for _, f := range frames {
		r := image.Rect(0, y, f.Bounds().Dx(), y+f.Bounds().Dy())
		draw.Draw(canvas, r, f, f.Bounds().Min, draw.Src)
		y += f.Bounds().Dy()
	}
	return canvas
}

// SaveStitched writes the canvas to a timestamp-named file under outputDir
// and returns its path.
func SaveStitched(img image.Image, outputDir string) (string, error) {
	path := filepath.Join(outputDir, fmt.Sprintf("capture_image_%d.png", time.Now().Unix()))
	if err := screenshot.SavePNG(img, path); err != nil {
		return "", err
	}
	return path, nil
}

func cropRGBA(img *image.RGBA, r image.Rectangle) *image.RGBA {
	return img.SubImage(r.Add(img.Bounds().Min)).(*image.RGBA)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
