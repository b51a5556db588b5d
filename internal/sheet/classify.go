package sheet

import (
	"github.com/ironsheep/omr-grader-mcp/internal/detection"
	"github.com/ironsheep/omr-grader-mcp/internal/imaging"
)

// FillRatio returns the share of foreground cells inside the circle's disk.
// A disk entirely outside the mask has ratio 0.
func FillRatio(mask *imaging.BinaryMask, c detection.Circle) float64 {
	fg, total := mask.DiskCoverage(c.CenterX, c.CenterY, c.Radius)
	if total == 0 {
		return 0
	}
	return float64(fg) / float64(total)
}

// Classify picks the marked option of one question's bubbles.
//
// The bubble with the highest fill ratio wins and its left-to-right index maps
// to A-D. On an exact tie the leftmost bubble wins. A row with fewer than
// options bubbles is incomplete and yields None; extra bubbles past options
// are ignored.
func Classify(row Row, mask *imaging.BinaryMask, options int) OptionCode {
	if options < 1 || options > MaxOptions || len(row) < options {
		return None
	}

	best := 0
	bestRatio := -1.0
	for i, c := range row[:options] {
		ratio := FillRatio(mask, c)
		if ratio > bestRatio {
			best = i
			bestRatio = ratio
		}
	}
	return OptionFromIndex(best)
}

// ClassifyRows classifies every question of every row in sheet order.
//
// Each row yields perRow decisions, so row i covers questions
// i*perRow .. i*perRow+perRow-1.
func ClassifyRows(rows []Row, mask *imaging.BinaryMask, options, perRow int) []OptionCode {
	if perRow < 1 {
		perRow = 1
	}
	codes := make([]OptionCode, 0, len(rows)*perRow)
	for _, row := range rows {
		for _, block := range row.Questions(options, perRow) {
			codes = append(codes, Classify(block, mask, options))
		}
	}
	return codes
}
