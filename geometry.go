package gopresentation

import "math"

// ShapeTransform is a:xfrm in EMU space: offset, extent, optional rotation
// (degrees, already converted from 60000ths), and flip flags.
type ShapeTransform struct {
	OffX, OffY   int64
	ExtCx, ExtCy int64
	RotationDeg  float64
	FlipH, FlipV bool
}

// PixelTransform is a ShapeTransform after DPI/scale application: the same
// shape, expressed as a pixel-space box plus rotation/flip.
type PixelTransform struct {
	X, Y, W, H   float64
	RotationDeg  float64
	FlipH, FlipV bool
}

// ToPixels applies scale to t, producing the pixel-space box the rest of
// the pipeline paints into.
func (t ShapeTransform) ToPixels(scale Scale) PixelTransform {
	return PixelTransform{
		X:           float64(t.OffX) * scale.X / emuPerInch * defaultDPI,
		Y:           float64(t.OffY) * scale.Y / emuPerInch * defaultDPI,
		W:           float64(t.ExtCx) * scale.X / emuPerInch * defaultDPI,
		H:           float64(t.ExtCy) * scale.Y / emuPerInch * defaultDPI,
		RotationDeg: t.RotationDeg,
		FlipH:       t.FlipH,
		FlipV:       t.FlipV,
	}
}

// Rect returns the pixel-space bounding box (ignoring rotation, which the
// canvas applies around the center separately).
func (t PixelTransform) Rect() Rect { return Rect{X: t.X, Y: t.Y, W: t.W, H: t.H} }

// parseXfrm reads an a:xfrm node into a ShapeTransform. Missing a:off/a:ext
// yield zero offset/extent; missing rot/flip attributes are the identity.
func parseXfrm(n *Node) ShapeTransform {
	var t ShapeTransform
	if off := n.Child("a:off"); off != nil {
		t.OffX = int64(atoiOr(off.AttrOr("x", "0"), 0))
		t.OffY = int64(atoiOr(off.AttrOr("y", "0"), 0))
	}
	if ext := n.Child("a:ext"); ext != nil {
		t.ExtCx = int64(atoiOr(ext.AttrOr("cx", "0"), 0))
		t.ExtCy = int64(atoiOr(ext.AttrOr("cy", "0"), 0))
	}
	if rot, ok := n.Attr("rot"); ok {
		t.RotationDeg = angleUnitsToDegrees(atoiOr(rot, 0))
	}
	t.FlipH = n.AttrOr("flipH", "") == "1"
	t.FlipV = n.AttrOr("flipV", "") == "1"
	return t
}

// ChildCoordBox is a group's inner coordinate space (chOff/chExt), which
// every direct child transform is expressed in.
type ChildCoordBox struct {
	OffX, OffY   int64
	ExtCx, ExtCy int64
}

// parseChildCoordBox reads chOff/chExt from a group's a:xfrm node.
func parseChildCoordBox(n *Node) ChildCoordBox {
	var b ChildCoordBox
	if off := n.Child("a:chOff"); off != nil {
		b.OffX = int64(atoiOr(off.AttrOr("x", "0"), 0))
		b.OffY = int64(atoiOr(off.AttrOr("y", "0"), 0))
	}
	if ext := n.Child("a:chExt"); ext != nil {
		b.ExtCx = int64(atoiOr(ext.AttrOr("cx", "0"), 0))
		b.ExtCy = int64(atoiOr(ext.AttrOr("cy", "0"), 0))
	}
	return b
}

// TransformChildToParent maps a child transform expressed in a group's
// child coordinate space into the group's own (parent) EMU space, per
// spec.md §4.7:
//
//	t' = ((t.off - chOff) * gExt/chExt + gOff,
//	      t.ext * gExt/chExt,
//	      t.rot + g.rot,
//	      flipH XOR, flipV XOR)
//
// When chOff == gOff and chExt == gExt this is the identity mapping
// (testable property 6, spec.md §8).
func TransformChildToParent(child ShapeTransform, group ShapeTransform, box ChildCoordBox) ShapeTransform {
	sx := ratio(group.ExtCx, box.ExtCx)
	sy := ratio(group.ExtCy, box.ExtCy)
	return ShapeTransform{
		OffX:        group.OffX + int64(math.Round(float64(child.OffX-box.OffX)*sx)),
		OffY:        group.OffY + int64(math.Round(float64(child.OffY-box.OffY)*sy)),
		ExtCx:       int64(math.Round(float64(child.ExtCx) * sx)),
		ExtCy:       int64(math.Round(float64(child.ExtCy) * sy)),
		RotationDeg: child.RotationDeg + group.RotationDeg,
		FlipH:       child.FlipH != group.FlipH,
		FlipV:       child.FlipV != group.FlipV,
	}
}

func ratio(num, den int64) float64 {
	if den == 0 {
		return 1
	}
	return float64(num) / float64(den)
}

// --- SVG-style arc <-> center parameterization (C8 rasterizer adapter) ---

// centerArc is the center-parameterized form of an elliptical arc: center,
// radii, start angle and angular sweep (radians), both possibly negative
// (sweep flag encodes direction).
type centerArc struct {
	CX, CY     float64
	RX, RY     float64
	XRot       float64 // radians
	StartAngle float64 // radians
	DeltaAngle float64 // radians, signed
}

// svgArcToCenter converts an SVG-style endpoint-parameterized arc to center
// parameterization, following the W3C SVG 1.1 implementation note,
// including the radius correction (scale both radii by sqrt(lambda) when
// lambda > 1). Degenerate inputs (identical endpoints, zero radius) are
// reported via ok=false so callers can substitute a straight line / no-op
// per spec.md §4.8.
func svgArcToCenter(start, end Point, rx, ry, xRotDeg float64, largeArc, sweep bool) (centerArc, bool) {
	if start == end {
		return centerArc{}, false
	}
	if rx == 0 || ry == 0 {
		return centerArc{}, false
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	phi := xRotDeg * math.Pi / 180

	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)
	dx2 := (start.X - end.X) / 2
	dy2 := (start.Y - end.Y) / 2
	x1p := cosPhi*dx2 + sinPhi*dy2
	y1p := -sinPhi*dx2 + cosPhi*dy2

	lambda := (x1p*x1p)/(rx*rx) + (y1p*y1p)/(ry*ry)
	if lambda > 1 {
		scale := math.Sqrt(lambda)
		rx *= scale
		ry *= scale
	}

	sign := 1.0
	if largeArc == sweep {
		sign = -1.0
	}
	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	co := 0.0
	if den != 0 && num/den > 0 {
		co = sign * math.Sqrt(num/den)
	}
	cxp := co * (rx * y1p / ry)
	cyp := co * -(ry * x1p / rx)

	cx := cosPhi*cxp - sinPhi*cyp + (start.X+end.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (start.Y+end.Y)/2

	angle := func(ux, uy, vx, vy float64) float64 {
		dot := ux*vx + uy*vy
		lenProd := math.Hypot(ux, uy) * math.Hypot(vx, vy)
		if lenProd == 0 {
			return 0
		}
		a := math.Acos(clampf(dot/lenProd, -1, 1))
		if ux*vy-uy*vx < 0 {
			a = -a
		}
		return a
	}

	theta1 := angle(1, 0, (x1p-cxp)/rx, (y1p-cyp)/ry)
	dtheta := angle((x1p-cxp)/rx, (y1p-cyp)/ry, (-x1p-cxp)/rx, (-y1p-cyp)/ry)
	if !sweep && dtheta > 0 {
		dtheta -= 2 * math.Pi
	} else if sweep && dtheta < 0 {
		dtheta += 2 * math.Pi
	}

	return centerArc{CX: cx, CY: cy, RX: rx, RY: ry, XRot: phi, StartAngle: theta1, DeltaAngle: dtheta}, true
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// pointAt evaluates a center-parameterized arc at parameter angle theta
// (radians, absolute, not relative to start).
func (a centerArc) pointAt(theta float64) Point {
	cosPhi, sinPhi := math.Cos(a.XRot), math.Sin(a.XRot)
	x := a.CX + a.RX*math.Cos(theta)*cosPhi - a.RY*math.Sin(theta)*sinPhi
	y := a.CY + a.RX*math.Cos(theta)*sinPhi + a.RY*math.Sin(theta)*cosPhi
	return Point{x, y}
}

// legacyArcToCenter derives a center-parameterized arc from the legacy
// OOXML representation, per spec.md §4.8: center is placed so that the
// start point lies on the ellipse at startAngle; direction is clockwise
// iff swingAngle > 0.
func legacyArcToCenter(start Point, rx, ry, startAngleDeg, swingAngleDeg float64) centerArc {
	theta0 := startAngleDeg * math.Pi / 180
	cx := start.X - rx*math.Cos(theta0)
	cy := start.Y - ry*math.Sin(theta0)
	delta := swingAngleDeg * math.Pi / 180
	return centerArc{CX: cx, CY: cy, RX: rx, RY: ry, StartAngle: theta0, DeltaAngle: delta}
}
