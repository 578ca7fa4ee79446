package panorama

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ovasilenko/roomproof/internal/capture"
)

// Composite dimensions. Equirectangular viewers require a 2:1 ratio;
// longitude maps linearly to x.
const (
	Width  = 4096
	Height = 2048
)

// Assemble maps an ordered frame sequence captured over one ~360°
// rotation onto a single equirectangular canvas. Placement assumes
// uniform angular velocity: frame i lands at x = i*Width/N. Scaled frame
// widths generally exceed the angular slot, so later frames overwrite
// earlier pixels at the same x (last-drawn-wins, not blended). Frames
// extending past the right edge are clipped, not wrapped.
//
// Zero frames is a no-op: no composite is produced and nil is returned.
func Assemble(frames []capture.Frame) *image.NRGBA {
	if len(frames) == 0 {
		return nil
	}

	canvas := imaging.New(Width, Height, color.NRGBA{A: 255})
	n := len(frames)

	for i, frame := range frames {
		// Height-fit scaling tolerates variable per-frame dimensions.
		scaled := imaging.Resize(frame.Image, 0, Height, imaging.Lanczos)
		x := i * Width / n
		canvas = imaging.Paste(canvas, scaled, image.Pt(x, 0))
	}

	return canvas
}
