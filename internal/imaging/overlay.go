package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

// Marker is one detected bubble to draw on an annotated sheet.
type Marker struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Radius int `json:"radius"`

	// Option is the 0-based option index the bubble was selected as, or -1
	// when the bubble was detected but not chosen.
	Option int `json:"option"`

	// Question is the 1-based question number, drawn next to selected bubbles.
	// Zero draws no label.
	Question int `json:"question,omitempty"`
}

// AnnotateResult contains the annotated sheet encoded as base64 PNG.
type AnnotateResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Markers     int    `json:"markers"`
}

// unselectedColor outlines bubbles that were detected but not chosen.
var unselectedColor = color.RGBA{160, 160, 160, 255}

// OptionColor returns the overlay colour for an option index. Options are
// spread evenly around the hue wheel so A-D stay distinguishable on paper.
func OptionColor(option, options int) color.RGBA {
	if option < 0 || options <= 0 {
		return unselectedColor
	}
	hue := 360 * float64(option%options) / float64(options)
	r, g, b := colorful.Hsv(hue, 0.9, 0.85).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Annotate draws the markers on top of a copy of img.
//
// Unselected bubbles get a thin grey outline; selected bubbles get a thick
// outline in their option colour plus a "question:option" label.
func Annotate(img image.Image, markers []Marker, options int) (*AnnotateResult, error) {
	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	for _, m := range markers {
		c := OptionColor(m.Option, options)
		thickness := 1
		if m.Option >= 0 {
			thickness = 2
		}
		drawRing(result, m.X+bounds.Min.X, m.Y+bounds.Min.Y, m.Radius, thickness, c)

		if m.Option >= 0 && m.Question > 0 {
			label := strconv.Itoa(m.Question) + ":" + string(rune('A'+m.Option))
			drawLabel(result, m.X+bounds.Min.X+m.Radius+3, m.Y+bounds.Min.Y-3, label,
				color.RGBA{255, 255, 255, 255}, color.RGBA{c.R, c.G, c.B, 200})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, result); err != nil {
		return nil, fmt.Errorf("failed to encode annotated image: %w", err)
	}

	return &AnnotateResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Markers:     len(markers),
	}, nil
}

// drawRing paints the cells whose distance from (cx, cy) lies within
// [r, r+thickness).
func drawRing(img *image.RGBA, cx, cy, r, thickness int, c color.RGBA) {
	bounds := img.Bounds()
	outer := r + thickness
	for dy := -outer; dy <= outer; dy++ {
		for dx := -outer; dx <= outer; dx++ {
			d := math.Hypot(float64(dx), float64(dy))
			if d < float64(r) || d >= float64(outer) {
				continue
			}
			px, py := cx+dx, cy+dy
			if image.Pt(px, py).In(bounds) {
				img.SetRGBA(px, py, c)
			}
		}
	}
}

// drawLabel draws a label with a tiny 3x5 pixel font (digits, A-D and ':').
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		'A': {"010", "101", "111", "101", "101"},
		'B': {"110", "101", "110", "101", "110"},
		'C': {"011", "100", "100", "100", "011"},
		'D': {"110", "101", "101", "101", "110"},
		':': {"000", "010", "000", "010", "000"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			if p := image.Pt(x+dx, y+dy); p.In(bounds) {
				img.SetRGBA(p.X, p.Y, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		for row, line := range glyphs[ch] {
			for col, pixel := range line {
				if pixel != '1' {
					continue
				}
				if p := image.Pt(cx+col, y+row); p.In(bounds) {
					img.SetRGBA(p.X, p.Y, fg)
				}
			}
		}
		cx += charWidth
	}
}
