package pipeline

import (
	"image"

	"github.com/ironsheep/omr-grader-mcp/internal/detection"
	"github.com/ironsheep/omr-grader-mcp/internal/imaging"
	"github.com/ironsheep/omr-grader-mcp/internal/logger"
	"github.com/ironsheep/omr-grader-mcp/internal/sheet"
)

// Analysis holds the intermediate output of every detection stage.
type Analysis struct {
	// Image is the decoded image after width normalization.
	Image image.Image

	Mask    *imaging.BinaryMask
	Circles []detection.Circle
	Rows    []sheet.Row

	// Codes holds one decision per question slot, in sheet order, before
	// padding or truncation.
	Codes []sheet.OptionCode

	Grid *detection.Bounds
}

// Analyze normalizes and binarizes img, then detects, groups and classifies
// its bubbles. It never falls back; an empty Circles slice is a valid result.
func (p *Processor) Analyze(img image.Image) (*Analysis, error) {
	img = imaging.Normalize(img, p.cfg.NormalizeWidth)
	mask := imaging.Binarize(img, imaging.ThresholdOptions{
		BlurRadius:  p.cfg.BlurRadius,
		BlockRadius: p.cfg.ThresholdBlockRadius,
		Offset:      p.cfg.ThresholdOffset,
	})
	logger.Debug("binarized %dx%d image, %d foreground pixels", mask.Width, mask.Height, mask.Count())

	a, err := p.analyzeMask(mask)
	if err != nil {
		return nil, err
	}
	a.Image = img
	return a, nil
}

// analyzeMask runs every stage after binarization.
func (p *Processor) analyzeMask(mask *imaging.BinaryMask) (*Analysis, error) {
	found, err := detection.DetectCircles(mask, detection.CircleParams{
		MinRadius:     p.cfg.MinRadius,
		MaxRadius:     p.cfg.MaxRadius,
		MinSeparation: p.cfg.MinCircleSeparation,
		Threshold:     p.cfg.AccumulatorThreshold,
	})
	if err != nil {
		return nil, err
	}

	a := &Analysis{Mask: mask, Circles: found.Circles}
	if p.cfg.LocateGrid {
		if box, ok := detection.LocateGrid(mask, detection.DefaultGridParams()); ok {
			a.Grid = &box
			a.Circles = detection.FilterInside(a.Circles, box)
			logger.Debug("answer grid at (%d,%d)-(%d,%d), %d of %d circles inside",
				box.X1, box.Y1, box.X2, box.Y2, len(a.Circles), found.Count)
		} else {
			logger.Debug("no answer grid frame found, using the whole sheet")
		}
	}

	a.Rows = sheet.GroupRows(a.Circles, p.cfg.RowToleranceY)
	a.Codes = sheet.ClassifyRows(a.Rows, mask, p.cfg.OptionsPerQuestion, p.cfg.QuestionsPerRow)
	logger.Debug("%d circles in %d rows", len(a.Circles), len(a.Rows))
	return a, nil
}

// Markers lists every detected circle for drawing. Bubbles chosen as a
// question's answer carry their option index and 1-based question number;
// all others are marked unselected.
func (p *Processor) Markers(a *Analysis) []imaging.Marker {
	options, perRow := p.cfg.OptionsPerQuestion, p.cfg.QuestionsPerRow
	markers := make([]imaging.Marker, 0, len(a.Circles))

	for r, row := range a.Rows {
		chosen := make(map[int]imaging.Marker)
		for k, block := range row.Questions(options, perRow) {
			q := r*perRow + k
			if q >= len(a.Codes) || q >= p.cfg.TotalQuestions {
				continue
			}
			idx := a.Codes[q].Index()
			if idx < 0 || idx >= len(block) {
				continue
			}
			chosen[k*options+idx] = imaging.Marker{Option: idx, Question: q + 1}
		}

		for i, c := range row {
			m := imaging.Marker{X: c.CenterX, Y: c.CenterY, Radius: c.Radius, Option: -1}
			if sel, ok := chosen[i]; ok {
				m.Option = sel.Option
				m.Question = sel.Question
			}
			markers = append(markers, m)
		}
	}
	return markers
}

// AnnotateFile processes the image at path and draws the detected bubbles
// and chosen answers on it.
func (p *Processor) AnnotateFile(path string) (*imaging.AnnotateResult, *Analysis, error) {
	img, err := imaging.Load(path)
	if err != nil {
		return nil, nil, err
	}
	a, err := p.Analyze(img)
	if err != nil {
		return nil, nil, err
	}
	out, err := imaging.Annotate(a.Image, p.Markers(a), p.cfg.OptionsPerQuestion)
	if err != nil {
		return nil, nil, err
	}
	return out, a, nil
}
