package gopresentation

import "testing"

// TestFillSource_GradientScenario covers spec.md §8 scenario (f): a linear
// gradient from black to white at angle 5400000 (90 degrees) over a 100x100
// px box at the origin. The left edge is black, the right edge is white, and
// the midpoint is mid-gray.
func TestFillSource_GradientScenario(t *testing.T) {
	f := &Fill{
		Kind:     FillKindGradient,
		GradKind: GradientLinear,
		AngleDeg: angleUnitsToDegrees(5400000),
		Stops: []GradientStop{
			{Pos: 0, Color: RGBA{R: 0, G: 0, B: 0, A: 255}},
			{Pos: 1, Color: RGBA{R: 255, G: 255, B: 255, A: 255}},
		},
	}
	box := Rect{X: 0, Y: 0, W: 100, H: 100}
	src := newFillSource(f, box)

	// Sampled at pixel centers, as the canvas's scanline fill does
	// (ColorAt(x+0.5, y+0.5)), so pixel column 0/99/50 map to 0.5/99.5/50.5.
	black := src.ColorAt(0.5, 50.5)
	if black.R > 3 || black.G > 3 || black.B > 3 {
		t.Errorf("pixel (0,50) = %v, want ≈ black", black)
	}

	white := src.ColorAt(99.5, 50.5)
	if white.R < 252 || white.G < 252 || white.B < 252 {
		t.Errorf("pixel (99,50) = %v, want ≈ white", white)
	}

	mid := src.ColorAt(50.5, 50.5)
	const wantMid = 127
	if absDiff(mid.R, wantMid) > 3 || absDiff(mid.G, wantMid) > 3 || absDiff(mid.B, wantMid) > 3 {
		t.Errorf("(50,50) = %v, want ≈ (127,127,127) ±3/channel", mid)
	}
}
