package detection

import (
	"testing"

	"github.com/ironsheep/omr-grader-mcp/internal/imaging"
)

// drawFrame draws a rectangle outline of the given thickness.
func drawFrame(m *imaging.BinaryMask, x1, y1, x2, y2, thickness int) {
	for t := 0; t < thickness; t++ {
		for x := x1; x <= x2; x++ {
			m.Set(x, y1+t, true)
			m.Set(x, y2-t, true)
		}
		for y := y1; y <= y2; y++ {
			m.Set(x1+t, y, true)
			m.Set(x2-t, y, true)
		}
	}
}

func TestLocateGrid(t *testing.T) {
	m := imaging.NewBinaryMask(200, 160)
	drawFrame(m, 10, 20, 190, 150, 2)
	drawRing(m, 60, 80, 9, 11)
	drawRing(m, 100, 80, 9, 11)

	box, ok := LocateGrid(m, DefaultGridParams())
	if !ok {
		t.Fatal("expected the frame to be found")
	}
	want := Bounds{X1: 10, Y1: 20, X2: 190, Y2: 150}
	if box != want {
		t.Errorf("bounds: got %+v, want %+v", box, want)
	}
}

func TestLocateGrid_PicksLargestFrame(t *testing.T) {
	m := imaging.NewBinaryMask(300, 200)
	drawFrame(m, 5, 5, 80, 60, 2)
	drawFrame(m, 100, 10, 290, 190, 2)

	box, ok := LocateGrid(m, DefaultGridParams())
	if !ok {
		t.Fatal("expected a frame")
	}
	if box.X1 != 100 || box.Y2 != 190 {
		t.Errorf("expected the larger frame, got %+v", box)
	}
}

func TestLocateGrid_NoFrame(t *testing.T) {
	m := imaging.NewBinaryMask(200, 160)
	drawRing(m, 60, 80, 9, 11)

	if _, ok := LocateGrid(m, DefaultGridParams()); ok {
		t.Error("a lone bubble is not a grid")
	}
}

func TestLocateGrid_BrokenFrame(t *testing.T) {
	m := imaging.NewBinaryMask(200, 160)
	drawFrame(m, 10, 20, 190, 150, 2)
	// Erase most of the right side
	for y := 25; y <= 145; y++ {
		m.Set(189, y, false)
		m.Set(190, y, false)
	}

	if _, ok := LocateGrid(m, DefaultGridParams()); ok {
		t.Error("a frame missing a side should fail the rectangularity test")
	}
}

func TestFilterInside(t *testing.T) {
	circles := []Circle{
		{CenterX: 50, CenterY: 50, Radius: 10},
		{CenterX: 5, CenterY: 50, Radius: 10},
		{CenterX: 10, CenterY: 50, Radius: 10}, // on the frame line
		{CenterX: 18, CenterY: 18, Radius: 8},  // corner phantom touching the frame
		{CenterX: 90, CenterY: 90, Radius: 10}, // touches the far edge
	}

	kept := FilterInside(circles, Bounds{X1: 10, Y1: 10, X2: 100, Y2: 100})
	if len(kept) != 1 || kept[0].CenterX != 50 {
		t.Errorf("expected only the inner circle, got %+v", kept)
	}
	if got := FilterInside(circles[:1], Bounds{X1: 39, Y1: 39, X2: 61, Y2: 61}); len(got) != 1 {
		t.Errorf("a disk one pixel clear of the frame should be kept, got %+v", got)
	}
}

func TestBounds(t *testing.T) {
	b := Bounds{X1: 0, Y1: 0, X2: 9, Y2: 4}
	if b.Area() != 50 {
		t.Errorf("Area: got %d, want 50", b.Area())
	}
	if !b.Contains(9, 4) || b.Contains(10, 4) {
		t.Error("Contains should be inclusive of X2/Y2 only")
	}
}
