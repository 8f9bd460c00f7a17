package gopresentation

// Point is a 2-D point in whatever coordinate space the caller is working
// in (EMU before scaling, pixels after).
type Point struct{ X, Y float64 }

// Rect is an axis-aligned box; W/H are always non-negative by convention.
type Rect struct{ X, Y, W, H float64 }

// Center returns the midpoint of r.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Inset shrinks r by l/t/r/b on each side (never producing negative W/H).
func (r Rect) Inset(left, top, right, bottom float64) Rect {
	w := r.W - left - right
	h := r.H - top - bottom
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Rect{X: r.X + left, Y: r.Y + top, W: w, H: h}
}

// SegmentKind tags which variant a PathSegment holds.
type SegmentKind int

const (
	SegMoveTo SegmentKind = iota
	SegLineTo
	SegCubicTo
	SegQuadTo
	SegArcSVG
	SegArcLegacy
	SegClose
)

// PathSegment is a tagged variant over the six path operators spec.md §3
// requires: MoveTo, LineTo, CubicBezierTo, QuadBezierTo, ArcTo (SVG or
// legacy OOXML style), Close.
type PathSegment struct {
	Kind SegmentKind

	// MoveTo / LineTo
	P Point

	// CubicBezierTo
	C1, C2 Point

	// QuadBezierTo
	Q Point

	// ArcTo (SVG style): radii, x-axis rotation in degrees, flags, endpoint.
	RX, RY      float64
	XRotDeg     float64
	LargeArc    bool
	Sweep       bool
	End         Point

	// ArcTo (legacy OOXML style): radii, start angle, sweep angle, both in
	// degrees (already converted from 60000ths).
	StartAngleDeg float64
	SwingAngleDeg float64
}

func MoveTo(p Point) PathSegment                         { return PathSegment{Kind: SegMoveTo, P: p} }
func LineTo(p Point) PathSegment                         { return PathSegment{Kind: SegLineTo, P: p} }
func CubicBezierTo(c1, c2, p Point) PathSegment          { return PathSegment{Kind: SegCubicTo, C1: c1, C2: c2, P: p} }
func QuadBezierTo(c Point, p Point) PathSegment          { return PathSegment{Kind: SegQuadTo, Q: c, P: p} }
func Close() PathSegment                                { return PathSegment{Kind: SegClose} }

// ArcToSVG builds an SVG-style elliptical arc segment ending at end.
func ArcToSVG(rx, ry, xRotDeg float64, largeArc, sweep bool, end Point) PathSegment {
	return PathSegment{Kind: SegArcSVG, RX: rx, RY: ry, XRotDeg: xRotDeg, LargeArc: largeArc, Sweep: sweep, End: end}
}

// ArcToLegacy builds a legacy OOXML arc segment: radii plus start/swing
// angle in degrees, relative to the current point as the arc's start.
func ArcToLegacy(rx, ry, startAngleDeg, swingAngleDeg float64) PathSegment {
	return PathSegment{Kind: SegArcLegacy, RX: rx, RY: ry, StartAngleDeg: startAngleDeg, SwingAngleDeg: swingAngleDeg}
}

// Path is an ordered sequence of segments plus the fill/stroke it should be
// painted with. Fill/Stroke are *Fill/*Stroke (defined in fill.go); nil
// means "none" for that concern.
type Path struct {
	Segments []PathSegment
	Fill     *Fill
	Stroke   *Stroke
}
