package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// DefaultWhitelist limits recognition to the characters sheet identifiers use.
const DefaultWhitelist = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-/"

// TextReader recognizes a single line of text in an image.
type TextReader interface {
	ReadText(img image.Image) (string, error)
}

// Region is a rectangle in image pixels: (X1, Y1) inclusive, (X2, Y2) exclusive.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// Tesseract is a TextReader backed by the Tesseract engine.
//
// A new engine client is created per call, so one Tesseract value may be
// shared by concurrent pipelines.
type Tesseract struct {
	// Language is the Tesseract language code, e.g. "eng".
	Language string

	// Whitelist restricts recognized characters. Empty allows everything.
	Whitelist string
}

// NewTesseract returns a single-line reader for language using DefaultWhitelist.
func NewTesseract(language string) *Tesseract {
	if language == "" {
		language = "eng"
	}
	return &Tesseract{Language: language, Whitelist: DefaultWhitelist}
}

// ReadText recognizes the text in img and returns it trimmed of whitespace.
func (t *Tesseract) ReadText(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image for OCR: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.Language); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if t.Whitelist != "" {
		if err := client.SetWhitelist(t.Whitelist); err != nil {
			return "", fmt.Errorf("failed to set whitelist: %w", err)
		}
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Version returns the linked Tesseract version.
func Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}

// ReadRegion crops region out of img and reads it with r.
//
// The region is given relative to the image origin and clipped to the image.
// An empty intersection is an error.
func ReadRegion(r TextReader, img image.Image, region Region) (string, error) {
	bounds := img.Bounds()
	rect := region.Rect().Add(bounds.Min).Intersect(bounds)
	if rect.Empty() {
		return "", fmt.Errorf("region (%d,%d)-(%d,%d) lies outside the %dx%d image",
			region.X1, region.Y1, region.X2, region.Y2, bounds.Dx(), bounds.Dy())
	}

	cropped := imaging.Crop(img, rect)
	text, err := r.ReadText(cropped)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
