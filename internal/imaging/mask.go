package imaging

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/effect"
)

// BinaryMask is a width×height grid of foreground/background cells.
//
// Foreground marks ink: printed bubble outlines and pencil fills. A mask is
// produced once by Binarize and then only read; the morphology operations
// return new masks instead of editing in place.
type BinaryMask struct {
	Width  int
	Height int
	pix    []bool
}

// NewBinaryMask returns an all-background mask.
func NewBinaryMask(width, height int) *BinaryMask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &BinaryMask{
		Width:  width,
		Height: height,
		pix:    make([]bool, width*height),
	}
}

// In reports whether (x, y) lies inside the mask.
func (m *BinaryMask) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// At reports whether (x, y) is foreground. Points outside the mask are background.
func (m *BinaryMask) At(x, y int) bool {
	if !m.In(x, y) {
		return false
	}
	return m.pix[y*m.Width+x]
}

// Set marks (x, y) as foreground or background. Points outside are ignored.
func (m *BinaryMask) Set(x, y int, v bool) {
	if m.In(x, y) {
		m.pix[y*m.Width+x] = v
	}
}

// Count returns the number of foreground cells.
func (m *BinaryMask) Count() int {
	n := 0
	for _, v := range m.pix {
		if v {
			n++
		}
	}
	return n
}

// IsBoundary reports whether (x, y) is a foreground cell touching background
// (or the mask border) through one of its 4-connected neighbours.
func (m *BinaryMask) IsBoundary(x, y int) bool {
	if !m.At(x, y) {
		return false
	}
	return !m.At(x-1, y) || !m.At(x+1, y) || !m.At(x, y-1) || !m.At(x, y+1)
}

// DiskCoverage counts the cells inside the disk of radius r around (cx, cy).
// The disk is clipped to the mask; total counts only in-bounds cells.
func (m *BinaryMask) DiskCoverage(cx, cy, r int) (foreground, total int) {
	r2 := r * r
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			x, y := cx+dx, cy+dy
			if !m.In(x, y) {
				continue
			}
			total++
			if m.pix[y*m.Width+x] {
				foreground++
			}
		}
	}
	return foreground, total
}

// Dilate grows foreground by one cell using a 3x3 square structuring element.
func (m *BinaryMask) Dilate() *BinaryMask {
	return m.morph(func(img image.Image) *image.RGBA { return effect.Dilate(img, 1) })
}

// Erode shrinks foreground by one cell using a 3x3 square structuring element.
// The border is extended outward, so shapes touching it keep it.
func (m *BinaryMask) Erode() *BinaryMask {
	return m.morph(func(img image.Image) *image.RGBA { return effect.Erode(img, 1) })
}

// Close fills gaps narrower than the structuring element: dilate then erode.
func (m *BinaryMask) Close() *BinaryMask {
	return m.morph(func(img image.Image) *image.RGBA {
		return effect.Erode(effect.Dilate(img, 1), 1)
	})
}

// Open removes specks smaller than the structuring element: erode then dilate.
func (m *BinaryMask) Open() *BinaryMask {
	return m.morph(func(img image.Image) *image.RGBA {
		return effect.Dilate(effect.Erode(img, 1), 1)
	})
}

// morph runs a grayscale filter over the rendered mask and thresholds the
// result back into a new mask.
func (m *BinaryMask) morph(filter func(image.Image) *image.RGBA) *BinaryMask {
	if m.Width == 0 || m.Height == 0 {
		return NewBinaryMask(m.Width, m.Height)
	}
	return maskFromImage(filter(m.ToImage()))
}

// maskFromImage marks every pixel whose red channel is above mid-grey as
// foreground. The filters keep the rendered mask grey, so red is enough.
func maskFromImage(img *image.RGBA) *BinaryMask {
	b := img.Bounds()
	out := NewBinaryMask(b.Dx(), b.Dy())
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			if img.Pix[img.PixOffset(b.Min.X+x, b.Min.Y+y)] >= 128 {
				out.pix[y*out.Width+x] = true
			}
		}
	}
	return out
}

// ToImage renders the mask as grayscale: foreground white (255), background black.
func (m *BinaryMask) ToImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.pix[y*m.Width+x] {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}
