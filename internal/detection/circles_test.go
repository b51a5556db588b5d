package detection

import (
	"math"
	"testing"

	"github.com/ironsheep/omr-grader-mcp/internal/imaging"
)

// drawRing marks cells whose distance from (cx, cy) lies in [inner, outer].
func drawRing(m *imaging.BinaryMask, cx, cy int, inner, outer float64) {
	r := int(math.Ceil(outer))
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			d := math.Hypot(float64(dx), float64(dy))
			if d >= inner && d <= outer {
				m.Set(cx+dx, cy+dy, true)
			}
		}
	}
}

// bubbleMask draws rows×cols rings of radius 10 spaced 40px apart,
// starting at (30, 30).
func bubbleMask(rows, cols int) *imaging.BinaryMask {
	m := imaging.NewBinaryMask(40*cols+20, 40*rows+20)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			drawRing(m, 30+40*c, 30+40*r, 9, 11)
		}
	}
	return m
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestDetectCircles_SingleRing(t *testing.T) {
	m := imaging.NewBinaryMask(80, 80)
	drawRing(m, 40, 40, 9, 11)

	result, err := DetectCircles(m, DefaultCircleParams())
	if err != nil {
		t.Fatalf("DetectCircles failed: %v", err)
	}
	if result.Count != 1 {
		t.Fatalf("expected 1 circle, got %d: %+v", result.Count, result.Circles)
	}

	c := result.Circles[0]
	if abs(c.CenterX-40) > 1 || abs(c.CenterY-40) > 1 {
		t.Errorf("center: got (%d,%d), want (40,40)", c.CenterX, c.CenterY)
	}
	if c.Radius < 8 || c.Radius > 12 {
		t.Errorf("radius: got %d, want about 10", c.Radius)
	}
}

func TestDetectCircles_Grid(t *testing.T) {
	m := bubbleMask(3, 4)

	result, err := DetectCircles(m, DefaultCircleParams())
	if err != nil {
		t.Fatalf("DetectCircles failed: %v", err)
	}
	if result.Count != 12 {
		t.Fatalf("expected 12 circles, got %d: %+v", result.Count, result.Circles)
	}

	// Results are sorted top to bottom, then left to right.
	for i, c := range result.Circles {
		wantX := 30 + 40*(i%4)
		wantY := 30 + 40*(i/4)
		if abs(c.CenterX-wantX) > 1 || abs(c.CenterY-wantY) > 1 {
			t.Errorf("circle %d: got (%d,%d), want (%d,%d)", i, c.CenterX, c.CenterY, wantX, wantY)
		}
	}
}

func TestDetectCircles_FilledBubble(t *testing.T) {
	// A filled bubble after adaptive thresholding is a thick ring.
	m := imaging.NewBinaryMask(80, 80)
	drawRing(m, 40, 40, 5, 11)

	result, err := DetectCircles(m, DefaultCircleParams())
	if err != nil {
		t.Fatalf("DetectCircles failed: %v", err)
	}
	if result.Count != 1 {
		t.Fatalf("expected 1 circle, got %d", result.Count)
	}
}

func TestDetectCircles_SpeckledMask(t *testing.T) {
	m := bubbleMask(3, 4)
	for i := 0; i < 400; i++ {
		m.Set((i*97+7)%m.Width, (i*61+3)%m.Height, true)
	}

	result, err := DetectCircles(m, DefaultCircleParams())
	if err != nil {
		t.Fatalf("DetectCircles failed: %v", err)
	}
	if result.Count != 12 {
		t.Fatalf("speckles should not add circles: got %d: %+v", result.Count, result.Circles)
	}
	for i, c := range result.Circles {
		wantX := 30 + 40*(i%4)
		wantY := 30 + 40*(i/4)
		if abs(c.CenterX-wantX) > 1 || abs(c.CenterY-wantY) > 1 {
			t.Errorf("circle %d: got (%d,%d), want (%d,%d)", i, c.CenterX, c.CenterY, wantX, wantY)
		}
	}
}

func TestDetectCircles_EmptyMask(t *testing.T) {
	m := imaging.NewBinaryMask(100, 100)

	result, err := DetectCircles(m, DefaultCircleParams())
	if err != nil {
		t.Fatalf("DetectCircles failed: %v", err)
	}
	if result.Count != 0 || len(result.Circles) != 0 {
		t.Errorf("expected 0 circles in empty mask, got %d", result.Count)
	}
	if result.Circles == nil {
		t.Error("Circles should be an empty slice, not nil")
	}
}

func TestDetectCircles_RadiusOutOfRange(t *testing.T) {
	m := imaging.NewBinaryMask(120, 120)
	drawRing(m, 60, 60, 39, 41)

	result, err := DetectCircles(m, DefaultCircleParams())
	if err != nil {
		t.Fatalf("DetectCircles failed: %v", err)
	}
	if result.Count != 0 {
		t.Errorf("ring of radius 40 is outside 8-15, got %d circles: %+v", result.Count, result.Circles)
	}
}

func TestDetectCircles_SolidBlock(t *testing.T) {
	// Straight edges never cover enough of a circumference.
	m := imaging.NewBinaryMask(100, 100)
	for y := 20; y < 80; y++ {
		for x := 20; x < 80; x++ {
			m.Set(x, y, true)
		}
	}

	result, err := DetectCircles(m, DefaultCircleParams())
	if err != nil {
		t.Fatalf("DetectCircles failed: %v", err)
	}
	if result.Count != 0 {
		t.Errorf("expected no circles on a square, got %d", result.Count)
	}
}

func TestDetectCircles_InvalidParams(t *testing.T) {
	m := imaging.NewBinaryMask(10, 10)

	tests := []struct {
		name   string
		params CircleParams
	}{
		{"zero radius", CircleParams{MinRadius: 0, MaxRadius: 5, Threshold: 0.5}},
		{"inverted range", CircleParams{MinRadius: 10, MaxRadius: 5, Threshold: 0.5}},
		{"zero threshold", CircleParams{MinRadius: 5, MaxRadius: 10, Threshold: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DetectCircles(m, tt.params); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestNeighbourhoodSums(t *testing.T) {
	acc := []int32{
		1, 0, 0, 0,
		0, 2, 0, 0,
		0, 0, 0, 3,
	}

	sums := neighbourhoodSums(acc, 4, 3)

	want := []int32{
		3, 3, 2, 0,
		3, 3, 5, 3,
		2, 2, 5, 3,
	}
	for i := range want {
		if sums[i] != want[i] {
			t.Fatalf("sums: got %v, want %v", sums, want)
		}
	}
}

func TestIsPeak(t *testing.T) {
	sums := []int32{
		1, 2, 1,
		2, 5, 2,
		1, 5, 1,
	}

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"strict maximum", 1, 1, true},
		{"plateau neighbour", 1, 2, true},
		{"shoulder", 0, 1, false},
		{"corner", 2, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isPeak(sums, 3, 3, tt.x, tt.y); got != tt.want {
				t.Errorf("isPeak(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestFilterDuplicateCircles(t *testing.T) {
	candidates := []candidate{
		{circle: Circle{CenterX: 10, CenterY: 10, Radius: 9}, votes: 50, score: 0.9},
		{circle: Circle{CenterX: 11, CenterY: 10, Radius: 10}, votes: 60, score: 0.95},
		{circle: Circle{CenterX: 50, CenterY: 10, Radius: 10}, votes: 40, score: 0.7},
	}

	got := filterDuplicateCircles(candidates, 20)
	if len(got) != 2 {
		t.Fatalf("expected 2 circles, got %d: %+v", len(got), got)
	}
	if got[0] != (Circle{CenterX: 11, CenterY: 10, Radius: 10}) {
		t.Errorf("best-covered candidate should win, got %+v", got[0])
	}
}

func TestSortCircles(t *testing.T) {
	circles := []Circle{{CenterX: 50, CenterY: 10}, {CenterX: 10, CenterY: 30}, {CenterX: 10, CenterY: 10}}
	SortCircles(circles)

	if circles[0].CenterX != 10 || circles[0].CenterY != 10 ||
		circles[1].CenterX != 50 || circles[2].CenterY != 30 {
		t.Errorf("unexpected order: %+v", circles)
	}
}
