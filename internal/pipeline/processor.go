package pipeline

import (
	"fmt"
	"image"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/omr-grader-mcp/internal/config"
	"github.com/ironsheep/omr-grader-mcp/internal/detection"
	"github.com/ironsheep/omr-grader-mcp/internal/imaging"
	"github.com/ironsheep/omr-grader-mcp/internal/logger"
	"github.com/ironsheep/omr-grader-mcp/internal/ocr"
	"github.com/ironsheep/omr-grader-mcp/internal/scoring"
	"github.com/ironsheep/omr-grader-mcp/internal/sheet"
)

// Processor grades answer sheets with one fixed configuration.
type Processor struct {
	cfg    config.Config
	rng    sheet.RandomSource
	reader ocr.TextReader
}

// Option customizes a Processor.
type Option func(*Processor)

// WithRandomSource makes the fallback draw from src instead of a per-sheet
// generator. The source is used as is; it must not be shared between
// concurrently running sheets.
func WithRandomSource(src sheet.RandomSource) Option {
	return func(p *Processor) { p.rng = src }
}

// WithTextReader replaces the Tesseract header reader.
func WithTextReader(r ocr.TextReader) Option {
	return func(p *Processor) { p.reader = r }
}

// New validates cfg and returns a Processor.
//
// When a header region is configured and no reader was injected, headers are
// read with Tesseract in the configured language.
func New(cfg config.Config, opts ...Option) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	p := &Processor{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}
	if p.reader == nil && cfg.Header.Enabled() {
		p.reader = ocr.NewTesseract(cfg.Header.Language)
	}
	return p, nil
}

// Config returns the processor's configuration.
func (p *Processor) Config() config.Config {
	return p.cfg
}

// Result is the outcome of processing one sheet.
type Result struct {
	// RunID identifies this processing run in logs and responses.
	RunID string `json:"run_id"`

	Answers    sheet.AnswerSheet `json:"answers"`
	Provenance sheet.Provenance  `json:"provenance"`

	// FallbackUsed is true when Answers were guessed rather than read.
	FallbackUsed bool `json:"fallback_used"`

	CirclesDetected int `json:"circles_detected"`
	RowsDetected    int `json:"rows_detected"`

	// SheetID is the header text, empty when header OCR is off or failed.
	SheetID string `json:"sheet_id,omitempty"`

	// Grid is the located answer grid, nil when grid location is off or failed.
	Grid *detection.Bounds `json:"grid,omitempty"`

	Width  int `json:"width"`
	Height int `json:"height"`
}

// Graded is a processed sheet together with its score.
type Graded struct {
	*Result
	Score scoring.Result `json:"score"`
}

// ProcessFile loads the image at path and processes it.
func (p *Processor) ProcessFile(path string) (*Result, error) {
	img, err := imaging.Load(path)
	if err != nil {
		return nil, err
	}
	return p.Process(img)
}

// ProcessBytes decodes an in-memory image and processes it. source labels
// the input in errors and logs.
func (p *Processor) ProcessBytes(data []byte, source string) (*Result, error) {
	img, err := imaging.Decode(data, source)
	if err != nil {
		return nil, err
	}
	return p.Process(img)
}

// Process runs detection, classification, fallback and validation on img.
//
// Zero detected circles is not an error: the sheet is guessed by the
// fallback generator (or left all None when fallback is disabled) and the
// Provenance says so. A ValidationError means a pipeline defect.
func (p *Processor) Process(img image.Image) (*Result, error) {
	runID := uuid.NewString()
	start := time.Now()

	analysis, err := p.Analyze(img)
	if err != nil {
		return nil, err
	}

	res := p.assemble(runID, analysis)
	if err := sheet.Validate(res.Answers, p.cfg.TotalQuestions); err != nil {
		return nil, err
	}

	if p.reader != nil && p.cfg.Header.Enabled() {
		res.SheetID = p.readHeader(runID, analysis.Image)
	}

	logger.Info("run %s: %d circles, %d rows, %d/%d attempted, provenance=%s (%s)",
		runID, res.CirclesDetected, res.RowsDetected, res.Answers.Attempted(),
		len(res.Answers), res.Provenance, time.Since(start).Round(time.Millisecond))
	return res, nil
}

// Grade processes the image at path and scores it against key.
func (p *Processor) Grade(path string, key sheet.AnswerSheet) (*Graded, error) {
	res, err := p.ProcessFile(path)
	if err != nil {
		return nil, err
	}
	score, err := scoring.Score(res.Answers, key)
	if err != nil {
		return nil, err
	}
	return &Graded{Result: res, Score: score}, nil
}

// assemble turns an analysis into an answer sheet, falling back when no
// circle was found.
func (p *Processor) assemble(runID string, a *Analysis) *Result {
	res := &Result{
		RunID:           runID,
		Provenance:      sheet.ProvenanceDetected,
		CirclesDetected: len(a.Circles),
		RowsDetected:    len(a.Rows),
		Grid:            a.Grid,
		Width:           a.Image.Bounds().Dx(),
		Height:          a.Image.Bounds().Dy(),
	}

	switch {
	case len(a.Circles) > 0:
		res.Answers = sheet.Build(a.Codes, p.cfg.TotalQuestions)
	case p.cfg.DisableFallback:
		logger.Warn("run %s: no bubbles detected, returning an empty sheet", runID)
		res.Answers = sheet.Build(nil, p.cfg.TotalQuestions)
	default:
		logger.Warn("run %s: no bubbles detected, answers are guessed", runID)
		res.Answers = sheet.Fallback(p.cfg.TotalQuestions, p.cfg.FallbackAttemptProbability,
			p.cfg.OptionsPerQuestion, p.randomSource())
		res.Provenance = sheet.ProvenanceFallback
		res.FallbackUsed = true
	}
	return res
}

// randomSource returns the injected source, or a fresh generator seeded from
// the configuration (or randomly when no seed is configured).
func (p *Processor) randomSource() sheet.RandomSource {
	if p.rng != nil {
		return p.rng
	}
	seed := p.cfg.FallbackSeed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return sheet.NewRandomSource(seed)
}

func (p *Processor) readHeader(runID string, img image.Image) string {
	h := p.cfg.Header
	text, err := ocr.ReadRegion(p.reader, img, ocr.Region{X1: h.X1, Y1: h.Y1, X2: h.X2, Y2: h.Y2})
	if err != nil {
		logger.Warn("run %s: header OCR failed: %v", runID, err)
		return ""
	}
	logger.Debug("run %s: header read as %q", runID, text)
	return text
}
