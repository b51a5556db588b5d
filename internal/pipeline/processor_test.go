package pipeline

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/omr-grader-mcp/internal/config"
	"github.com/ironsheep/omr-grader-mcp/internal/imaging"
	"github.com/ironsheep/omr-grader-mcp/internal/scoring"
	"github.com/ironsheep/omr-grader-mcp/internal/sheet"
)

// renderSheet draws rows of four bubbles (radius 11, 40px apart, first at
// 40,40) on white paper. marks[r] is the filled option of row r, or -1.
func renderSheet(marks []int) *image.RGBA {
	width, height := 40+40*4, 40+40*len(marks)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	black := color.RGBA{0, 0, 0, 255}
	for r, mark := range marks {
		for c := 0; c < 4; c++ {
			cx, cy := 40+40*c, 40+40*r
			for dy := -12; dy <= 12; dy++ {
				for dx := -12; dx <= 12; dx++ {
					d := math.Hypot(float64(dx), float64(dy))
					if (c == mark && d <= 11) || (c != mark && d >= 9 && d <= 11) {
						img.SetRGBA(cx+dx, cy+dy, black)
					}
				}
			}
		}
	}
	return img
}

func blankSheet(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sheet.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, img), 0o644))
	return path
}

func smallConfig() config.Config {
	cfg := config.Default()
	cfg.TotalQuestions = 5
	return cfg
}

func newProcessor(t *testing.T, cfg config.Config, opts ...Option) *Processor {
	t.Helper()
	p, err := New(cfg, opts...)
	require.NoError(t, err)
	return p
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.TotalQuestions = 0

	_, err := New(cfg)

	assert.ErrorContains(t, err, "total_questions")
}

func TestProcessDetectsMarks(t *testing.T) {
	p := newProcessor(t, smallConfig())

	res, err := p.Process(renderSheet([]int{2, 0, 1}))

	require.NoError(t, err)
	assert.Equal(t, sheet.AnswerSheet{sheet.C, sheet.A, sheet.B, sheet.None, sheet.None}, res.Answers)
	assert.Equal(t, sheet.ProvenanceDetected, res.Provenance)
	assert.False(t, res.FallbackUsed)
	assert.Equal(t, 12, res.CirclesDetected)
	assert.Equal(t, 3, res.RowsDetected)
	assert.Equal(t, 200, res.Width)
	assert.Equal(t, 160, res.Height)
	assert.NotEmpty(t, res.RunID)
}

func TestProcessIgnoresSpeckles(t *testing.T) {
	cfg := smallConfig()
	cfg.TotalQuestions = 8
	p := newProcessor(t, cfg)

	img := renderSheet([]int{0, 3, 1, 2, 2, 0, 1, 0})
	black := color.RGBA{0, 0, 0, 255}
	for i := 0; i < 90; i++ {
		x, y := (i*7919+44)%200, (i*104729+24)%360
		for dy := 0; dy < 2; dy++ {
			for dx := 0; dx < 2; dx++ {
				img.SetRGBA(x+dx, y+dy, black)
			}
		}
	}

	res, err := p.Process(img)

	require.NoError(t, err)
	assert.Equal(t, "ADBCCABA", res.Answers.String())
	assert.Equal(t, 32, res.CirclesDetected)
	assert.Equal(t, 8, res.RowsDetected)
}

func TestProcessTruncatesExtraRows(t *testing.T) {
	cfg := smallConfig()
	cfg.TotalQuestions = 2
	p := newProcessor(t, cfg)

	res, err := p.Process(renderSheet([]int{2, 0, 1}))

	require.NoError(t, err)
	assert.Equal(t, sheet.AnswerSheet{sheet.C, sheet.A}, res.Answers)
}

func TestProcessBytes(t *testing.T) {
	p := newProcessor(t, smallConfig())

	res, err := p.ProcessBytes(encodePNG(t, renderSheet([]int{3, 1})), "upload.png")

	require.NoError(t, err)
	assert.Equal(t, sheet.AnswerSheet{sheet.D, sheet.B, sheet.None, sheet.None, sheet.None}, res.Answers)
}

func TestProcessBlankSheetFallsBack(t *testing.T) {
	p := newProcessor(t, smallConfig(), WithRandomSource(sheet.NewRandomSource(7)))

	res, err := p.Process(blankSheet(120, 120))

	require.NoError(t, err)
	assert.Equal(t, sheet.ProvenanceFallback, res.Provenance)
	assert.True(t, res.FallbackUsed)
	assert.Zero(t, res.CirclesDetected)
	assert.Equal(t, sheet.Fallback(5, 0.8, 4, sheet.NewRandomSource(7)), res.Answers)
}

func TestProcessFallbackSeedIsDeterministic(t *testing.T) {
	cfg := config.Default()
	cfg.FallbackSeed = 99
	p := newProcessor(t, cfg)

	first, err := p.Process(blankSheet(80, 80))
	require.NoError(t, err)
	second, err := p.Process(blankSheet(80, 80))
	require.NoError(t, err)

	assert.Equal(t, first.Answers, second.Answers)
	assert.Len(t, first.Answers, 200)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestProcessFallbackDisabled(t *testing.T) {
	cfg := smallConfig()
	cfg.DisableFallback = true
	p := newProcessor(t, cfg)

	res, err := p.Process(blankSheet(80, 80))

	require.NoError(t, err)
	assert.Equal(t, sheet.Build(nil, 5), res.Answers)
	assert.Equal(t, sheet.ProvenanceDetected, res.Provenance)
	assert.False(t, res.FallbackUsed)
}

func TestProcessUndecodableInput(t *testing.T) {
	p := newProcessor(t, smallConfig())

	_, err := p.ProcessBytes([]byte("not an image"), "junk.bin")

	var readErr *imaging.ImageReadError
	require.True(t, errors.As(err, &readErr))
	assert.Equal(t, "junk.bin", readErr.Source)
}

func TestProcessFileMissing(t *testing.T) {
	p := newProcessor(t, smallConfig())

	_, err := p.ProcessFile(filepath.Join(t.TempDir(), "missing.png"))

	var readErr *imaging.ImageReadError
	require.True(t, errors.As(err, &readErr))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestProcessNormalizesWidth(t *testing.T) {
	cfg := smallConfig()
	cfg.NormalizeWidth = 100
	p := newProcessor(t, cfg)

	res, err := p.Process(blankSheet(400, 200))

	require.NoError(t, err)
	assert.Equal(t, 100, res.Width)
	assert.Equal(t, 50, res.Height)
}

type fakeReader struct {
	text string
	err  error
}

func (f fakeReader) ReadText(image.Image) (string, error) { return f.text, f.err }

func TestProcessReadsHeader(t *testing.T) {
	cfg := smallConfig()
	cfg.Header = config.HeaderConfig{X1: 0, Y1: 0, X2: 100, Y2: 20, Language: "eng"}
	p := newProcessor(t, cfg, WithTextReader(fakeReader{text: " ROLL-42 "}))

	res, err := p.Process(renderSheet([]int{0}))

	require.NoError(t, err)
	assert.Equal(t, "ROLL-42", res.SheetID)
}

func TestProcessHeaderFailureIsNotFatal(t *testing.T) {
	cfg := smallConfig()
	cfg.Header = config.HeaderConfig{X1: 0, Y1: 0, X2: 100, Y2: 20}
	p := newProcessor(t, cfg, WithTextReader(fakeReader{err: errors.New("engine missing")}))

	res, err := p.Process(renderSheet([]int{0}))

	require.NoError(t, err)
	assert.Empty(t, res.SheetID)
	assert.Equal(t, sheet.A, res.Answers[0])
}

func TestGrade(t *testing.T) {
	p := newProcessor(t, smallConfig())
	path := writePNG(t, renderSheet([]int{0, 1, 3}))

	graded, err := p.Grade(path, scoring.DemoKey(5))

	require.NoError(t, err)
	assert.Equal(t, scoring.Result{
		TotalScore:     3 + 3 - 1,
		Correct:        2,
		Incorrect:      1,
		Unattempted:    2,
		TotalQuestions: 5,
		MaxScore:       15,
	}, graded.Score)
	assert.Equal(t, sheet.ProvenanceDetected, graded.Provenance)
}

func TestGradeKeyLengthMismatch(t *testing.T) {
	p := newProcessor(t, smallConfig())
	path := writePNG(t, blankSheet(60, 60))

	_, err := p.Grade(path, scoring.DemoKey(4))

	var klErr *scoring.KeyLengthError
	assert.True(t, errors.As(err, &klErr))
}
