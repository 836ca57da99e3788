package stitch

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"scrollsnap/src/screenshot"
)

// fill creates a frame of the given size painted in a single color.
func fill(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// split paints the top half one color and the bottom half another, so a
// frame's top strip can be made to match another frame's bottom strip.
func split(w, h int, top, bottom color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		c := top
		if y >= h/2 {
			c = bottom
		}
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

type fakeScroller struct {
	focusCalls int
	pageDowns  int
	pageErr    error
}

func (f *fakeScroller) FocusAt(x, y int) error { f.focusCalls++; return nil }
func (f *fakeScroller) PageDown() error        { f.pageDowns++; return f.pageErr }

var (
	red   = color.RGBA{R: 200, A: 255}
	blue  = color.RGBA{B: 200, A: 255}
	green = color.RGBA{G: 200, A: 255}
)

func TestStripSimilarity(t *testing.T) {
	a := fill(10, 10, red)
	b := fill(10, 10, red)
	if got := StripSimilarity(a, b); got != 1.0 {
		t.Errorf("identical strips: similarity = %v, want 1.0", got)
	}

	c := fill(10, 10, blue)
	if got := StripSimilarity(a, c); got > 0.5 {
		t.Errorf("different strips: similarity = %v, want low", got)
	}

	d := fill(10, 8, red)
	if got := StripSimilarity(a, d); got != 0 {
		t.Errorf("unequal sizes: similarity = %v, want 0", got)
	}
}

func TestIsDuplicateMatchingStrips(t *testing.T) {
	prev := fill(50, 40, red)
	// next's top strip repeats prev's bottom strip exactly
	next := fill(50, 40, red)
	if !IsDuplicate(prev, next) {
		t.Errorf("expected identical frames to be duplicates")
	}

	moved := split(50, 40, red, green)
	if IsDuplicate(prev, moved) {
		// prev bottom is red, moved top is red too for the first h/2 rows;
		// the strip is min(300, 20)=20 rows which are all red in both.
		t.Log("top strip matches; frames correctly treated as duplicate")
	}

	fresh := fill(50, 40, blue)
	if IsDuplicate(prev, fresh) {
		t.Errorf("expected fully different frames not to be duplicates")
	}
}

func TestSessionStopsAfterConsecutiveDuplicates(t *testing.T) {
	// Frames 1 and 2 differ; frames 3 and 4 repeat frame 2. The session
	// must stop before exhausting MaxScrolls and keep exactly two frames.
	frames := []*image.RGBA{
		fill(40, 30, red),
		fill(40, 30, blue),
		fill(40, 30, blue),
		fill(40, 30, blue),
		fill(40, 30, green),
	}
	calls := 0
	src := func(region screenshot.Region) (*image.RGBA, error) {
		f := frames[calls]
		calls++
		return f, nil
	}

	sc := &fakeScroller{}
	s := &Session{Frames: src, Input: sc, MaxScrolls: 10}
	kept, err := s.Run(context.Background(), screenshot.Region{Width: 40, Height: 30})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(kept) != 2 {
		t.Errorf("kept %d frames, want 2", len(kept))
	}
	if calls >= 10 {
		t.Errorf("session captured %d frames, expected early stop", calls)
	}
	if sc.focusCalls != 1 {
		t.Errorf("focus click called %d times, want 1", sc.focusCalls)
	}
}

func TestSessionKeepsFramesOnCaptureFailure(t *testing.T) {
	calls := 0
	src := func(region screenshot.Region) (*image.RGBA, error) {
		calls++
		if calls == 1 {
			return fill(20, 20, red), nil
		}
		return nil, errors.New("screenshot failed")
	}

	s := &Session{Frames: src, Input: &fakeScroller{}, MaxScrolls: 5}
	kept, err := s.Run(context.Background(), screenshot.Region{Width: 20, Height: 20})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(kept) != 1 {
		t.Errorf("kept %d frames, want the 1 collected before the failure", len(kept))
	}
}

func TestSessionEmptyCapture(t *testing.T) {
	src := func(region screenshot.Region) (*image.RGBA, error) {
		return nil, errors.New("screenshot failed")
	}
	s := &Session{Frames: src, MaxScrolls: 3}
	_, err := s.Run(context.Background(), screenshot.Region{Width: 20, Height: 20})
	if !errors.Is(err, ErrCaptureEmpty) {
		t.Errorf("expected ErrCaptureEmpty, got %v", err)
	}
}

func TestComposeDimensions(t *testing.T) {
	frames := []*image.RGBA{
		fill(30, 10, red),
		fill(50, 25, blue),
		fill(40, 15, green),
	}
	canvas := Compose(frames)

	if w := canvas.Bounds().Dx(); w != 50 {
		t.Errorf("canvas width = %d, want max frame width 50", w)
	}
	if h := canvas.Bounds().Dy(); h != 50 {
		t.Errorf("canvas height = %d, want sum of frame heights 50", h)
	}

	// Frames paste left-aligned in order; area right of a narrow frame is white.
	if got := canvas.RGBAAt(10, 5); got != red {
		t.Errorf("pixel in first frame = %v, want red", got)
	}
	if got := canvas.RGBAAt(10, 20); got != blue {
		t.Errorf("pixel in second frame = %v, want blue", got)
	}
	if got := canvas.RGBAAt(45, 5); (got != color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("uncovered area = %v, want white", got)
	}
}

func TestSaveStitched(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveStitched(fill(8, 8, red), dir)
	if err != nil {
		t.Fatalf("SaveStitched failed: %v", err)
	}
	if path == "" {
		t.Fatalf("SaveStitched returned empty path")
	}
}
