// Package config holds the tunable parameters of the OMR pipeline.
//
// Every geometric constant the detector and grouper rely on (bubble radius range,
// row tolerance, separation) assumes a fixed sheet layout and print resolution,
// so they are named fields here rather than literals in the algorithms. A Config
// can be loaded from a TOML file; fields missing from the file keep their defaults.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// EnvConfigPath names the environment variable consulted when no config path is given.
const EnvConfigPath = "OMR_MCP_CONFIG"

// Config is the full set of pipeline options.
type Config struct {
	// TotalQuestions is the fixed length of every answer sheet.
	TotalQuestions int `toml:"total_questions" json:"total_questions"`

	// OptionsPerQuestion is the number of bubbles (A, B, C, D) per question.
	OptionsPerQuestion int `toml:"options_per_question" json:"options_per_question"`

	// QuestionsPerRow splits a detected row into this many question blocks.
	QuestionsPerRow int `toml:"questions_per_row" json:"questions_per_row"`

	// RowToleranceY is the maximum vertical distance, in pixels, between
	// consecutive circles of the same row.
	RowToleranceY int `toml:"row_tolerance_y" json:"row_tolerance_y"`

	MinRadius int `toml:"min_radius" json:"min_radius"`
	MaxRadius int `toml:"max_radius" json:"max_radius"`

	// MinCircleSeparation is the minimum distance between two accepted circle centers.
	MinCircleSeparation int `toml:"min_circle_separation" json:"min_circle_separation"`

	// AccumulatorThreshold is the fraction of a circle's circumference that must
	// vote for a center before it becomes a candidate.
	AccumulatorThreshold float64 `toml:"accumulator_threshold" json:"accumulator_threshold"`

	// FallbackAttemptProbability is the chance a guessed question gets an option.
	FallbackAttemptProbability float64 `toml:"fallback_attempt_probability" json:"fallback_attempt_probability"`

	// FallbackSeed seeds the fallback generator. Zero means a fresh seed per sheet.
	FallbackSeed uint64 `toml:"fallback_seed" json:"fallback_seed"`

	// DisableFallback makes an undetectable sheet come back all-None instead of guessed.
	DisableFallback bool `toml:"disable_fallback" json:"disable_fallback"`

	// BlurRadius is the Gaussian blur radius; 2 gives a 5x5 kernel.
	BlurRadius float64 `toml:"blur_radius" json:"blur_radius"`

	// ThresholdBlockRadius is the half-size of the adaptive threshold window; 5 gives 11x11.
	ThresholdBlockRadius float64 `toml:"threshold_block_radius" json:"threshold_block_radius"`

	// ThresholdOffset is subtracted from the local mean before comparison.
	ThresholdOffset float64 `toml:"threshold_offset" json:"threshold_offset"`

	// NormalizeWidth downscales wider images to this width. Zero disables it.
	NormalizeWidth int `toml:"normalize_width" json:"normalize_width"`

	// LocateGrid restricts detection to the largest rectangular frame on the sheet.
	LocateGrid bool `toml:"locate_grid" json:"locate_grid"`

	Header HeaderConfig `toml:"header" json:"header"`
}

// HeaderConfig describes where the sheet identifier is printed or written.
// An empty region disables header OCR.
type HeaderConfig struct {
	X1       int    `toml:"x1" json:"x1"`
	Y1       int    `toml:"y1" json:"y1"`
	X2       int    `toml:"x2" json:"x2"`
	Y2       int    `toml:"y2" json:"y2"`
	Language string `toml:"language" json:"language"`
}

// Enabled reports whether a header region has been configured.
func (h HeaderConfig) Enabled() bool {
	return h.X2 > h.X1 && h.Y2 > h.Y1
}

// Default returns the configuration matching the standard 200-question sheet.
func Default() Config {
	return Config{
		TotalQuestions:             200,
		OptionsPerQuestion:         4,
		QuestionsPerRow:            1,
		RowToleranceY:              20,
		MinRadius:                  8,
		MaxRadius:                  15,
		MinCircleSeparation:        20,
		AccumulatorThreshold:       0.6,
		FallbackAttemptProbability: 0.8,
		BlurRadius:                 2,
		ThresholdBlockRadius:       5,
		ThresholdOffset:            2,
		Header:                     HeaderConfig{Language: "eng"},
	}
}

// Load reads a TOML file on top of the defaults and validates the result.
//
// An empty path falls back to $OMR_MCP_CONFIG; if that is empty too the
// defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every field is usable by the pipeline.
func (c Config) Validate() error {
	var errs []error
	if c.TotalQuestions <= 0 {
		errs = append(errs, fmt.Errorf("total_questions must be positive, got %d", c.TotalQuestions))
	}
	if c.OptionsPerQuestion < 1 || c.OptionsPerQuestion > 4 {
		errs = append(errs, fmt.Errorf("options_per_question must be 1-4, got %d", c.OptionsPerQuestion))
	}
	if c.QuestionsPerRow < 1 {
		errs = append(errs, fmt.Errorf("questions_per_row must be at least 1, got %d", c.QuestionsPerRow))
	}
	if c.RowToleranceY <= 0 {
		errs = append(errs, fmt.Errorf("row_tolerance_y must be positive, got %d", c.RowToleranceY))
	}
	if c.MinRadius <= 0 || c.MaxRadius < c.MinRadius {
		errs = append(errs, fmt.Errorf("radius range %d-%d is invalid", c.MinRadius, c.MaxRadius))
	}
	if c.MinCircleSeparation < 0 {
		errs = append(errs, fmt.Errorf("min_circle_separation must not be negative, got %d", c.MinCircleSeparation))
	}
	if c.AccumulatorThreshold <= 0 {
		errs = append(errs, fmt.Errorf("accumulator_threshold must be positive, got %g", c.AccumulatorThreshold))
	}
	if c.FallbackAttemptProbability < 0 || c.FallbackAttemptProbability > 1 {
		errs = append(errs, fmt.Errorf("fallback_attempt_probability must be in [0,1], got %g", c.FallbackAttemptProbability))
	}
	if c.BlurRadius < 0 || c.ThresholdBlockRadius <= 0 {
		errs = append(errs, fmt.Errorf("blur_radius %g / threshold_block_radius %g are invalid", c.BlurRadius, c.ThresholdBlockRadius))
	}
	if c.NormalizeWidth < 0 {
		errs = append(errs, fmt.Errorf("normalize_width must not be negative, got %d", c.NormalizeWidth))
	}
	return errors.Join(errs...)
}
