package imaging

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// Load reads and decodes an image file in a single blocking read.
//
// Phone photos usually carry an EXIF orientation tag; the decoded image is
// rotated accordingly so rows of bubbles stay horizontal.
//
// # Errors
//
// Every failure, whether the file is missing, unreadable or not an image, is
// returned as *ImageReadError.
func Load(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ImageReadError{Source: path, Err: err}
	}
	return Decode(data, path)
}

// Decode decodes an in-memory image. source labels the input in errors.
//
// Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP.
func Decode(data []byte, source string) (image.Image, error) {
	if source == "" {
		source = "<buffer>"
	}
	if len(data) == 0 {
		return nil, &ImageReadError{Source: source, Err: errors.New("empty input")}
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &ImageReadError{Source: source, Err: err}
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, &ImageReadError{Source: source, Err: errors.New("image has no pixels")}
	}
	return img, nil
}

// Normalize downscales img so it is at most width pixels wide, keeping the
// aspect ratio. Images already narrow enough, or width <= 0, are returned as is.
func Normalize(img image.Image, width int) image.Image {
	if width <= 0 || img.Bounds().Dx() <= width {
		return img
	}
	return imaging.Resize(img, width, 0, imaging.Lanczos)
}
