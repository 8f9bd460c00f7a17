package gopresentation

import (
	"math"
	"testing"
)

// TestTransformChildToParent_Identity covers spec.md §8 invariant 6: when
// chOff==gOff and chExt==gExt, mapping a child transform into the group's
// space is the identity.
func TestTransformChildToParent_Identity(t *testing.T) {
	group := ShapeTransform{OffX: 100, OffY: 200, ExtCx: 500, ExtCy: 300, RotationDeg: 10}
	box := ChildCoordBox{OffX: 100, OffY: 200, ExtCx: 500, ExtCy: 300}
	child := ShapeTransform{OffX: 150, OffY: 220, ExtCx: 80, ExtCy: 40, RotationDeg: 5}

	got := TransformChildToParent(child, group, box)
	if got.OffX != child.OffX || got.OffY != child.OffY {
		t.Errorf("offset not preserved: got (%d,%d), want (%d,%d)", got.OffX, got.OffY, child.OffX, child.OffY)
	}
	if got.ExtCx != child.ExtCx || got.ExtCy != child.ExtCy {
		t.Errorf("extent not preserved: got (%d,%d), want (%d,%d)", got.ExtCx, got.ExtCy, child.ExtCx, child.ExtCy)
	}
	if got.RotationDeg != child.RotationDeg+group.RotationDeg {
		t.Errorf("rotation: got %v, want %v", got.RotationDeg, child.RotationDeg+group.RotationDeg)
	}
}

func TestTransformChildToParent_ScalesIntoGroupSpace(t *testing.T) {
	group := ShapeTransform{OffX: 0, OffY: 0, ExtCx: 1000, ExtCy: 1000}
	box := ChildCoordBox{OffX: 0, OffY: 0, ExtCx: 500, ExtCy: 500}
	child := ShapeTransform{OffX: 100, OffY: 100, ExtCx: 100, ExtCy: 100}

	got := TransformChildToParent(child, group, box)
	// box is half the group's extent, so every child length doubles.
	if got.OffX != 200 || got.OffY != 200 {
		t.Errorf("offset: got (%d,%d), want (200,200)", got.OffX, got.OffY)
	}
	if got.ExtCx != 200 || got.ExtCy != 200 {
		t.Errorf("extent: got (%d,%d), want (200,200)", got.ExtCx, got.ExtCy)
	}
}

// TestSVGArcRoundTrip covers spec.md §8's SVG-arc <-> center-arc round
// trip: re-parameterizing a center arc back to endpoints must reproduce the
// original start/end within tolerance.
func TestSVGArcRoundTrip(t *testing.T) {
	start := Point{X: 0, Y: 0}
	end := Point{X: 100, Y: 0}
	rx, ry := 60.0, 60.0

	c, ok := svgArcToCenter(start, end, rx, ry, 0, false, true)
	if !ok {
		t.Fatal("svgArcToCenter: degenerate arc")
	}
	gotStart := c.pointAt(c.StartAngle)
	gotEnd := c.pointAt(c.StartAngle + c.DeltaAngle)

	const tol = 1e-6 * 100 // relative to the 100-unit chord
	if dist(gotStart, start) > tol {
		t.Errorf("start point drifted: got %+v, want %+v", gotStart, start)
	}
	if dist(gotEnd, end) > tol {
		t.Errorf("end point drifted: got %+v, want %+v", gotEnd, end)
	}
}

func dist(a, b Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
