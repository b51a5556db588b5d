package detection

import (
	"fmt"
	"math"
	"sort"

	"github.com/ironsheep/omr-grader-mcp/internal/imaging"
)

// Circle is a detected bubble: its center and radius in mask pixels.
//
// Circle is a plain value; two circles with the same geometry are the same bubble.
type Circle struct {
	CenterX int `json:"center_x"`
	CenterY int `json:"center_y"`
	Radius  int `json:"radius"`
}

// CircleParams tunes the circle search for one sheet layout.
type CircleParams struct {
	// MinRadius and MaxRadius bound the searched radii, inclusive.
	MinRadius int
	MaxRadius int

	// MinSeparation is the minimum distance between two accepted centers.
	MinSeparation int

	// Threshold is the fraction of the circumference (2πr) that must be covered
	// by boundary pixels for a center to become a candidate.
	Threshold float64
}

// DefaultCircleParams returns the parameters for bubbles of radius 8-15px
// printed at least 20px apart.
func DefaultCircleParams() CircleParams {
	return CircleParams{MinRadius: 8, MaxRadius: 15, MinSeparation: 20, Threshold: 0.6}
}

// CirclesResult contains all circles detected in a mask.
type CirclesResult struct {
	// Circles is sorted top to bottom, then left to right.
	Circles []Circle `json:"circles"`

	// Count is the number of circles detected.
	Count int `json:"count"`
}

// candidate is a scored center before separation filtering.
type candidate struct {
	circle Circle
	votes  int     // 3x3 vote sum
	score  float64 // votes / circumference
}

// DetectCircles finds bubble outlines in a binary mask using a circular Hough transform.
//
// An empty result is not an error: the caller decides what an undetectable
// sheet means.
//
// # Algorithm (Hough Circle Transform)
//
//  1. Edge Extraction: boundary pixels of the mask (foreground cells touching
//     background) are the edge set.
//  2. Accumulator Voting: for each radius r in [MinRadius, MaxRadius], every
//     edge pixel votes once for every cell whose distance from it lies in
//     [r-1, r+1). A cell's votes therefore count distinct edge pixels lying on
//     a 2px-wide circle around it.
//  3. Scoring: a cell's score is the vote sum over its 3x3 neighbourhood.
//  4. Candidates: cells with votes >= Threshold × 2πr whose score is a local
//     maximum (no 8-neighbour scores higher). Isolated spikes sitting on the
//     shoulder of a stronger peak are dropped here.
//  5. Duplicate Removal: candidates are taken in order of score / 2πr and
//     rejected when closer than MinSeparation to an already accepted center.
//     This also picks one radius per bubble, since the inner and outer edge of
//     a thick outline both vote for the same center.
//
// # Performance
//
// Time complexity is O(edges × Σ 4πr) over the radius range. Crop or
// downscale large photos first.
func DetectCircles(mask *imaging.BinaryMask, params CircleParams) (*CirclesResult, error) {
	if params.MinRadius <= 0 || params.MaxRadius < params.MinRadius {
		return nil, fmt.Errorf("invalid radius range %d-%d", params.MinRadius, params.MaxRadius)
	}
	if params.Threshold <= 0 {
		return nil, fmt.Errorf("threshold must be positive, got %g", params.Threshold)
	}

	width, height := mask.Width, mask.Height
	edges := boundaryPoints(mask)
	if len(edges) == 0 {
		return &CirclesResult{Circles: []Circle{}, Count: 0}, nil
	}

	candidates := make([]candidate, 0)
	accumulator := make([]int32, width*height)

	for radius := params.MinRadius; radius <= params.MaxRadius; radius++ {
		for i := range accumulator {
			accumulator[i] = 0
		}

		offsets := annulusOffsets(radius)
		for _, p := range edges {
			for _, o := range offsets {
				cx, cy := p.X-o.X, p.Y-o.Y
				if cx >= 0 && cx < width && cy >= 0 && cy < height {
					accumulator[cy*width+cx]++
				}
			}
		}

		circumference := 2 * math.Pi * float64(radius)
		threshold := int32(math.Ceil(params.Threshold * circumference))
		sums := neighbourhoodSums(accumulator, width, height)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if accumulator[y*width+x] < threshold || !isPeak(sums, width, height, x, y) {
					continue
				}
				sum := sums[y*width+x]
				candidates = append(candidates, candidate{
					circle: Circle{CenterX: x, CenterY: y, Radius: radius},
					votes:  int(sum),
					score:  float64(sum) / circumference,
				})
			}
		}
	}

	circles := filterDuplicateCircles(candidates, params.MinSeparation)
	SortCircles(circles)

	return &CirclesResult{
		Circles: circles,
		Count:   len(circles),
	}, nil
}

// SortCircles orders circles top to bottom, then left to right.
func SortCircles(circles []Circle) {
	sort.SliceStable(circles, func(i, j int) bool {
		if circles[i].CenterY != circles[j].CenterY {
			return circles[i].CenterY < circles[j].CenterY
		}
		return circles[i].CenterX < circles[j].CenterX
	})
}

// boundaryPoints collects the mask's edge pixels in scan order.
func boundaryPoints(mask *imaging.BinaryMask) []Point {
	points := make([]Point, 0)
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if mask.IsBoundary(x, y) {
				points = append(points, Point{X: x, Y: y})
			}
		}
	}
	return points
}

// annulusOffsets returns every integer offset whose length lies in [r-1, r+1).
func annulusOffsets(r int) []Point {
	inner := float64(r - 1)
	outer := float64(r + 1)
	offsets := make([]Point, 0, int(4*math.Pi*float64(r))+8)
	for dy := -r - 1; dy <= r+1; dy++ {
		for dx := -r - 1; dx <= r+1; dx++ {
			d := math.Hypot(float64(dx), float64(dy))
			if d >= inner && d < outer {
				offsets = append(offsets, Point{X: dx, Y: dy})
			}
		}
	}
	return offsets
}

// neighbourhoodSums returns, for every cell, the sum of acc over its 3x3
// neighbourhood clipped to the grid.
func neighbourhoodSums(acc []int32, width, height int) []int32 {
	rows := make([]int32, len(acc))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := acc[y*width+x]
			if x > 0 {
				v += acc[y*width+x-1]
			}
			if x < width-1 {
				v += acc[y*width+x+1]
			}
			rows[y*width+x] = v
		}
	}

	sums := make([]int32, len(acc))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := rows[y*width+x]
			if y > 0 {
				v += rows[(y-1)*width+x]
			}
			if y < height-1 {
				v += rows[(y+1)*width+x]
			}
			sums[y*width+x] = v
		}
	}
	return sums
}

// isPeak reports whether no 8-neighbour of (x, y) has a higher sum. Plateaus
// count as peaks; separation filtering keeps one cell of each.
func isPeak(sums []int32, width, height, x, y int) bool {
	v := sums[y*width+x]
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx, ny := x+dx, y+dy
			if (dx == 0 && dy == 0) || nx < 0 || ny < 0 || nx >= width || ny >= height {
				continue
			}
			if sums[ny*width+nx] > v {
				return false
			}
		}
	}
	return true
}

// filterDuplicateCircles keeps the best-covered candidate of every cluster.
//
// Candidates are ranked by coverage, then vote sum, then position and radius
// so the outcome never depends on map or scan order. A candidate closer than
// minSeparation to an accepted circle is dropped.
func filterDuplicateCircles(candidates []candidate, minSeparation int) []Circle {
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.votes != b.votes {
			return a.votes > b.votes
		}
		if a.circle.CenterY != b.circle.CenterY {
			return a.circle.CenterY < b.circle.CenterY
		}
		if a.circle.CenterX != b.circle.CenterX {
			return a.circle.CenterX < b.circle.CenterX
		}
		return a.circle.Radius < b.circle.Radius
	})

	minDist2 := minSeparation * minSeparation
	filtered := make([]Circle, 0)
	for _, c := range candidates {
		isDuplicate := false
		for _, f := range filtered {
			dx := c.circle.CenterX - f.CenterX
			dy := c.circle.CenterY - f.CenterY
			if dx*dx+dy*dy < minDist2 {
				isDuplicate = true
				break
			}
		}
		if !isDuplicate {
			filtered = append(filtered, c.circle)
		}
	}
	return filtered
}
