package sheet

import (
	"sort"

	"github.com/ironsheep/omr-grader-mcp/internal/detection"
)

// Row is one printed row of bubbles, ordered left to right.
type Row []detection.Circle

// GroupRows clusters circles into rows by vertical proximity.
//
// Circles are swept top to bottom. A circle joins the current row while its Y
// differs from the previous circle's Y by less than toleranceY; otherwise the
// row is closed and a new one starts. Each closed row is sorted by X.
//
// Comparing against the previous circle rather than the first one lets a
// slightly rotated row stay together. The input slice is not modified.
func GroupRows(circles []detection.Circle, toleranceY int) []Row {
	if len(circles) == 0 {
		return []Row{}
	}

	sorted := make([]detection.Circle, len(circles))
	copy(sorted, circles)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CenterY != sorted[j].CenterY {
			return sorted[i].CenterY < sorted[j].CenterY
		}
		return sorted[i].CenterX < sorted[j].CenterX
	})

	rows := make([]Row, 0)
	current := Row{sorted[0]}
	for _, c := range sorted[1:] {
		if abs(c.CenterY-current[len(current)-1].CenterY) < toleranceY {
			current = append(current, c)
			continue
		}
		rows = append(rows, closeRow(current))
		current = Row{c}
	}
	rows = append(rows, closeRow(current))
	return rows
}

func closeRow(r Row) Row {
	sort.SliceStable(r, func(i, j int) bool {
		return r[i].CenterX < r[j].CenterX
	})
	return r
}

// Questions splits a row into per-question bubble blocks.
//
// A printed row may hold several questions side by side. The row is cut into
// perRow consecutive blocks of options bubbles each; blocks past the end of
// the row come back empty so every question keeps its slot.
func (r Row) Questions(options, perRow int) []Row {
	if perRow < 1 {
		perRow = 1
	}
	blocks := make([]Row, perRow)
	for q := 0; q < perRow; q++ {
		start := q * options
		if start >= len(r) {
			blocks[q] = Row{}
			continue
		}
		end := start + options
		if end > len(r) {
			end = len(r)
		}
		blocks[q] = r[start:end]
	}
	return blocks
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
