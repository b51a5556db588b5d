package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// ThresholdOptions controls how a photographed sheet is reduced to a BinaryMask.
type ThresholdOptions struct {
	// BlurRadius is the Gaussian smoothing radius. 2 approximates a 5x5 kernel.
	BlurRadius float64

	// BlockRadius is the radius of the Gaussian-weighted local mean. 5 gives an
	// 11x11 window.
	BlockRadius float64

	// Offset is subtracted from the local mean. A pixel must be at least this
	// much darker than its surroundings to become foreground.
	Offset float64
}

// DefaultThresholdOptions returns the 5x5 blur, 11x11 window, C=2 settings.
func DefaultThresholdOptions() ThresholdOptions {
	return ThresholdOptions{BlurRadius: 2, BlockRadius: 5, Offset: 2}
}

// Binarize converts a sheet image into a mask isolating marked regions.
//
// # Algorithm
//
//  1. Grayscale conversion to a single intensity channel
//  2. Gaussian blur to suppress sensor and print noise
//  3. Inverted adaptive threshold: a pixel is foreground when its smoothed
//     intensity is <= (Gaussian-weighted local mean - Offset). Comparing
//     against the local mean keeps uneven paper shading from biasing detection.
//  4. One morphological closing pass (fill small gaps inside a mark)
//  5. One opening pass (drop isolated speckles)
//
// Both morphology passes use a 3x3 square structuring element.
//
// Closing must run before opening; the other order erases thin pencil strokes
// before they can be joined.
//
// A solid dark disk larger than the threshold block comes out as a thick ring:
// its interior matches its own local mean. Fill ratios are computed on this
// mask, so a filled bubble still scores far above a printed outline.
func Binarize(img image.Image, opts ThresholdOptions) *BinaryMask {
	gray := effect.Grayscale(img)
	smoothed := blur.Gaussian(gray, opts.BlurRadius)
	local := blur.Gaussian(smoothed, opts.BlockRadius)

	bounds := smoothed.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	mask := NewBinaryMask(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := intensity(smoothed, x, y)
			mean := intensity(local, x, y)
			if v <= mean-opts.Offset {
				mask.pix[y*width+x] = true
			}
		}
	}

	return mask.Close().Open()
}

// intensity returns the red channel of a grayscale RGBA image at (x, y)
// relative to its bounds origin. Red, green and blue are equal after Grayscale.
func intensity(img *image.RGBA, x, y int) float64 {
	b := img.Bounds()
	return float64(img.Pix[img.PixOffset(b.Min.X+x, b.Min.Y+y)])
}
