package gopresentation

import "testing"

// segmentPoints collects every control/end point referenced by segs. Cubic
// and quad control points are included, which makes the resulting bounding
// box a conservative (equal-or-larger) superset of the curve's true bbox.
func segmentPoints(segs []PathSegment) []Point {
	var pts []Point
	for _, s := range segs {
		switch s.Kind {
		case SegMoveTo, SegLineTo:
			pts = append(pts, s.P)
		case SegCubicTo:
			pts = append(pts, s.C1, s.C2, s.P)
		case SegQuadTo:
			pts = append(pts, s.Q, s.P)
		}
	}
	return pts
}

func boundsOf(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// TestCreatePath_AllPresetsWithinMargin covers spec.md §8 invariant 5: every
// supported preset geometry produces a non-empty path whose bounding box
// stays within a generous margin of the requested bounds (some presets, e.g.
// heart and wedgeRectCallout, intentionally overshoot the box by design).
func TestCreatePath_AllPresetsWithinMargin(t *testing.T) {
	const margin = 0.3
	bounds := Rect{X: 10, Y: 10, W: 200, H: 120}
	adj := AdjustValues{}

	for name := range presetShapes {
		segs, ok := CreatePath(name, bounds, adj)
		if !ok {
			t.Errorf("CreatePath(%q): expected ok=true", name)
			continue
		}
		if len(segs) == 0 {
			t.Errorf("CreatePath(%q): expected non-empty path", name)
			continue
		}
		got := boundsOf(segmentPoints(segs))
		minX := bounds.X - margin*bounds.W
		maxX := bounds.X + bounds.W + margin*bounds.W
		minY := bounds.Y - margin*bounds.H
		maxY := bounds.Y + bounds.H + margin*bounds.H
		if got.X < minX || got.X+got.W > maxX {
			t.Errorf("CreatePath(%q): x range [%v,%v] outside margin [%v,%v]", name, got.X, got.X+got.W, minX, maxX)
		}
		if got.Y < minY || got.Y+got.H > maxY {
			t.Errorf("CreatePath(%q): y range [%v,%v] outside margin [%v,%v]", name, got.Y, got.Y+got.H, minY, maxY)
		}
	}
}

func TestCreatePath_UnknownPresetFallsBack(t *testing.T) {
	_, ok := CreatePath("notARealPreset", Rect{X: 0, Y: 0, W: 10, H: 10}, AdjustValues{})
	if ok {
		t.Error("expected ok=false for unknown preset name")
	}
}

func TestCreatePath_ZeroBoundsRejected(t *testing.T) {
	_, ok := CreatePath("rect", Rect{X: 0, Y: 0, W: 0, H: 10}, AdjustValues{})
	if ok {
		t.Error("expected ok=false for zero-width bounds")
	}
}
