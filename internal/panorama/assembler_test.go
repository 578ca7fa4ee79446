package panorama

import (
	"image"
	"image/color"
	"testing"

	"github.com/ovasilenko/roomproof/internal/capture"
)

func solidFrame(index, w, h int, c color.NRGBA) capture.Frame {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return capture.Frame{Image: img, Index: index}
}

func TestAssembleZeroFramesIsNoOp(t *testing.T) {
	if got := Assemble(nil); got != nil {
		t.Errorf("Expected nil composite for zero frames, got %v", got.Bounds())
	}
	if got := Assemble([]capture.Frame{}); got != nil {
		t.Errorf("Expected nil composite for empty slice, got %v", got.Bounds())
	}
}

func TestAssembleAspectRatio(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}

	for _, n := range []int{1, 2, 3, 7, 24} {
		frames := make([]capture.Frame, n)
		for i := range frames {
			// Varying dimensions: the device may deliver lower
			// resolutions than requested.
			frames[i] = solidFrame(i, 40+i, 30, red)
		}

		composite := Assemble(frames)
		if composite == nil {
			t.Fatalf("N=%d: expected a composite", n)
		}

		b := composite.Bounds()
		if b.Dx() != Width || b.Dy() != Height {
			t.Errorf("N=%d: composite is %dx%d, want %dx%d", n, b.Dx(), b.Dy(), Width, Height)
		}
		if ratio := float64(b.Dx()) / float64(b.Dy()); ratio != 2.0 {
			t.Errorf("N=%d: aspect ratio %f, want 2.0", n, ratio)
		}
	}
}

func TestAssemblePlacesFramesAtAngularOffsets(t *testing.T) {
	colors := []color.NRGBA{
		{R: 255, A: 255},
		{G: 255, A: 255},
		{B: 255, A: 255},
		{R: 255, G: 255, A: 255},
	}

	// 100x100 frames scale to 2048x2048, wider than the 1024px angular
	// slot, so each frame overdraws its predecessor's tail.
	frames := make([]capture.Frame, len(colors))
	for i, c := range colors {
		frames[i] = solidFrame(i, 100, 100, c)
	}

	composite := Assemble(frames)
	if composite == nil {
		t.Fatal("Expected a composite")
	}

	n := len(frames)
	for i, want := range colors {
		x := i*Width/n + 2
		got := composite.NRGBAAt(x, Height/2)
		if got != want {
			t.Errorf("Pixel at x=%d: got %v, want frame %d color %v", x, got, i, want)
		}
	}
}

func TestAssembleLastDrawnWins(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	green := color.NRGBA{G: 255, A: 255}

	// Both frames scale to 4096px wide, so frame 1 fully overdraws
	// frame 0 from its own offset onward.
	frames := []capture.Frame{
		solidFrame(0, 200, 100, red),
		solidFrame(1, 200, 100, green),
	}

	composite := Assemble(frames)
	if composite == nil {
		t.Fatal("Expected a composite")
	}

	if got := composite.NRGBAAt(Width/2+1, Height/2); got != green {
		t.Errorf("Overlap pixel should belong to the later frame, got %v", got)
	}
	if got := composite.NRGBAAt(10, Height/2); got != red {
		t.Errorf("Pixel before the overlap should belong to the first frame, got %v", got)
	}
}
