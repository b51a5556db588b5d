package detection

import "github.com/ironsheep/omr-grader-mcp/internal/imaging"

// Bounds represents a rectangular bounding box in pixel coordinates.
//
// (X1, Y1) is the top-left corner and (X2, Y2) the bottom-right corner, both inclusive.
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Contains reports whether (x, y) lies inside the box.
func (b Bounds) Contains(x, y int) bool {
	return x >= b.X1 && x <= b.X2 && y >= b.Y1 && y <= b.Y2
}

// Area returns the box area in square pixels.
func (b Bounds) Area() int {
	return (b.X2 - b.X1 + 1) * (b.Y2 - b.Y1 + 1)
}

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// GridParams controls answer grid localization.
type GridParams struct {
	// MinAreaFraction is the smallest grid, as a fraction of the mask area.
	MinAreaFraction float64

	// Rectangularity is the fraction of the bounding box perimeter that the
	// frame must actually cover (0.0 to 1.0).
	Rectangularity float64

	// Band is how far inward from the bounding box a frame pixel may sit and
	// still count as covering the perimeter.
	Band int
}

// DefaultGridParams accepts frames covering at least 5% of the sheet whose
// outline is 90% complete.
func DefaultGridParams() GridParams {
	return GridParams{MinAreaFraction: 0.05, Rectangularity: 0.9, Band: 3}
}

// LocateGrid finds the answer grid: the largest rectangular frame in the mask.
//
// Returns the frame's bounding box and true, or false when no connected
// component is both large and rectangular enough.
//
// # Algorithm
//
//  1. Component labelling: flood-fill groups 8-connected foreground cells
//  2. Bounding box per component
//  3. Rectangularity: the share of bounding box perimeter positions where the
//     component has a cell within Band pixels inward. A printed frame scores
//     close to 1.0; bubble rings and text score much lower.
//  4. The largest box passing MinAreaFraction and Rectangularity wins
//
// # Limitations
//
//   - Only axis-aligned frames are found
//   - A frame broken by a fold or shadow splits into several components and
//     is usually rejected
func LocateGrid(mask *imaging.BinaryMask, params GridParams) (Bounds, bool) {
	labels, boxes := labelComponents(mask)
	minArea := int(params.MinAreaFraction * float64(mask.Width*mask.Height))

	best := Bounds{}
	found := false
	for i, box := range boxes {
		area := box.Area()
		if area < minArea || (found && area <= best.Area()) {
			continue
		}
		if frameCoverage(labels, mask.Width, int32(i+1), box, params.Band) < params.Rectangularity {
			continue
		}
		best = box
		found = true
	}
	return best, found
}

// FilterInside returns the circles whose whole disk lies strictly inside the
// box. Circles touching the frame are dropped; frame corners otherwise vote
// for small phantom circles.
func FilterInside(circles []Circle, box Bounds) []Circle {
	kept := make([]Circle, 0, len(circles))
	for _, c := range circles {
		inner := Bounds{
			X1: box.X1 + c.Radius + 1,
			Y1: box.Y1 + c.Radius + 1,
			X2: box.X2 - c.Radius - 1,
			Y2: box.Y2 - c.Radius - 1,
		}
		if inner.Contains(c.CenterX, c.CenterY) {
			kept = append(kept, c)
		}
	}
	return kept
}

// labelComponents assigns a 1-based label to every 8-connected foreground
// component and returns the label grid and each component's bounding box
// (boxes[label-1]).
func labelComponents(mask *imaging.BinaryMask) ([]int32, []Bounds) {
	width, height := mask.Width, mask.Height
	labels := make([]int32, width*height)
	boxes := make([]Bounds, 0)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !mask.At(x, y) || labels[y*width+x] != 0 {
				continue
			}
			id := int32(len(boxes) + 1)
			boxes = append(boxes, floodFill(mask, labels, x, y, id))
		}
	}
	return labels, boxes
}

// floodFill performs iterative flood-fill from a starting point.
//
// Uses a stack-based approach (not recursive) to avoid stack overflow
// on large components such as the grid frame. Uses 8-connectivity.
func floodFill(mask *imaging.BinaryMask, labels []int32, startX, startY int, id int32) Bounds {
	width := mask.Width
	box := Bounds{X1: startX, Y1: startY, X2: startX, Y2: startY}
	stack := []Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !mask.At(p.X, p.Y) || labels[p.Y*width+p.X] != 0 {
			continue
		}
		labels[p.Y*width+p.X] = id

		box.X1 = min(box.X1, p.X)
		box.Y1 = min(box.Y1, p.Y)
		box.X2 = max(box.X2, p.X)
		box.Y2 = max(box.Y2, p.Y)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}
	return box
}

// frameCoverage measures how much of box's perimeter the component traces.
func frameCoverage(labels []int32, width int, id int32, box Bounds, band int) float64 {
	has := func(x, y int) bool { return labels[y*width+x] == id }

	covered, total := 0, 0
	for x := box.X1; x <= box.X2; x++ {
		total += 2
		for d := 0; d < band && box.Y1+d <= box.Y2; d++ {
			if has(x, box.Y1+d) {
				covered++
				break
			}
		}
		for d := 0; d < band && box.Y2-d >= box.Y1; d++ {
			if has(x, box.Y2-d) {
				covered++
				break
			}
		}
	}
	for y := box.Y1; y <= box.Y2; y++ {
		total += 2
		for d := 0; d < band && box.X1+d <= box.X2; d++ {
			if has(box.X1+d, y) {
				covered++
				break
			}
		}
		for d := 0; d < band && box.X2-d >= box.X1; d++ {
			if has(box.X2-d, y) {
				covered++
				break
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(covered) / float64(total)
}
