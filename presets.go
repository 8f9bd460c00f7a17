package gopresentation

import "math"

// kappa is the cubic-Bezier control-point ratio that best approximates a
// quarter circle (0.5522847498), used by every preset built from
// elliptical arcs.
const kappa = 0.5522847498

// AdjustValues holds the avLst/gd adjustment parameters for a preset shape,
// each an int in 100000ths of a percent, keyed by name ("adj", "adj1",
// "adj2", ...). Missing keys fall back to the shape's documented default.
type AdjustValues map[string]int

func (a AdjustValues) get(name string, def int) float64 {
	if v, ok := a[name]; ok {
		return percentToDecimal(v)
	}
	return percentToDecimal(def)
}

// presetShapeFunc synthesizes a Path for a preset geometry name given its
// pixel bounds and adjustment values. Bounds are always in the shape's own
// local box, origin (0,0), per spec.md §4.7 "Application order".
type presetShapeFunc func(bounds Rect, adj AdjustValues) []PathSegment

var presetShapes map[string]presetShapeFunc

func init() {
	presetShapes = map[string]presetShapeFunc{
		"rect":               rectPath,
		"roundRect":          roundRectPath,
		"ellipse":            ellipsePath,
		"triangle":           trianglePath,
		"rtTriangle":         rtTrianglePath,
		"diamond":            diamondPath,
		"parallelogram":      parallelogramPath,
		"trapezoid":          trapezoidPath,
		"pentagon":           regularPolygonPath(5),
		"hexagon":            regularPolygonPath(6),
		"octagon":            regularPolygonPath(8),
		"line":               linePath,
		"rightArrow":         rightArrowPath,
		"leftArrow":          leftArrowPath,
		"upArrow":            upArrowPath,
		"downArrow":          downArrowPath,
		"chevron":            chevronPath,
		"homePlate":          homePlatePath,
		"star5":              star5Path,
		"plus":               plusPath,
		"heart":              heartPath,
		"wedgeRectCallout":   wedgeRectCalloutPath,
		"flowChartProcess":   rectPath,
		"flowChartDecision":  diamondPath,
		"flowChartTerminator": flowChartTerminatorPath,
		"cube":               cubePath,
		"can":                canPath,
		"donut":              donutPath,
		"bevel":              bevelPath,
		"foldedCorner":       foldedCornerPath,
	}
}

// CreatePath synthesizes the path for preset geometry name. Unknown names
// return (nil, false) so callers fall back to rect per spec.md §7
// ErrUnsupportedGeometry policy.
func CreatePath(name string, bounds Rect, adj AdjustValues) ([]PathSegment, bool) {
	if bounds.W <= 0 || bounds.H <= 0 {
		return nil, false
	}
	fn, ok := presetShapes[name]
	if !ok {
		return nil, false
	}
	return fn(bounds, adj), true
}

func rectPath(b Rect, _ AdjustValues) []PathSegment {
	x, y, w, h := b.X, b.Y, b.W, b.H
	return []PathSegment{
		MoveTo(Point{x, y}),
		LineTo(Point{x + w, y}),
		LineTo(Point{x + w, y + h}),
		LineTo(Point{x, y + h}),
		Close(),
	}
}

func roundRectPath(b Rect, adj AdjustValues) []PathSegment {
	x, y, w, h := b.X, b.Y, b.W, b.H
	// corner radius = min(w,h) * adj/100000, clamped to min(w,h)/2.
	pct := adj.get("adj", 16667)
	m := math.Min(w, h)
	r := m * pct
	if r > m/2 {
		r = m / 2
	}
	k := r * kappa
	return []PathSegment{
		MoveTo(Point{x + r, y}),
		LineTo(Point{x + w - r, y}),
		CubicBezierTo(Point{x + w - r + k, y}, Point{x + w, y + r - k}, Point{x + w, y + r}),
		LineTo(Point{x + w, y + h - r}),
		CubicBezierTo(Point{x + w, y + h - r + k}, Point{x + w - r + k, y + h}, Point{x + w - r, y + h}),
		LineTo(Point{x + r, y + h}),
		CubicBezierTo(Point{x + r - k, y + h}, Point{x, y + h - r + k}, Point{x, y + h - r}),
		LineTo(Point{x, y + r}),
		CubicBezierTo(Point{x, y + r - k}, Point{x + r - k, y}, Point{x + r, y}),
		Close(),
	}
}

// ellipsePath draws the ellipse inscribed in bounds with four cubic Bezier
// segments using kappa, per spec.md §4.7.
func ellipsePath(b Rect, _ AdjustValues) []PathSegment {
	cx, cy := b.X+b.W/2, b.Y+b.H/2
	rx, ry := b.W/2, b.H/2
	kx, ky := rx*kappa, ry*kappa
	return []PathSegment{
		MoveTo(Point{cx + rx, cy}),
		CubicBezierTo(Point{cx + rx, cy + ky}, Point{cx + kx, cy + ry}, Point{cx, cy + ry}),
		CubicBezierTo(Point{cx - kx, cy + ry}, Point{cx - rx, cy + ky}, Point{cx - rx, cy}),
		CubicBezierTo(Point{cx - rx, cy - ky}, Point{cx - kx, cy - ry}, Point{cx, cy - ry}),
		CubicBezierTo(Point{cx + kx, cy - ry}, Point{cx + rx, cy - ky}, Point{cx + rx, cy}),
		Close(),
	}
}

func trianglePath(b Rect, _ AdjustValues) []PathSegment {
	return []PathSegment{
		MoveTo(Point{b.X + b.W/2, b.Y}),
		LineTo(Point{b.X + b.W, b.Y + b.H}),
		LineTo(Point{b.X, b.Y + b.H}),
		Close(),
	}
}

func rtTrianglePath(b Rect, _ AdjustValues) []PathSegment {
	return []PathSegment{
		MoveTo(Point{b.X, b.Y}),
		LineTo(Point{b.X, b.Y + b.H}),
		LineTo(Point{b.X + b.W, b.Y + b.H}),
		Close(),
	}
}

func diamondPath(b Rect, _ AdjustValues) []PathSegment {
	cx, cy := b.X+b.W/2, b.Y+b.H/2
	return []PathSegment{
		MoveTo(Point{cx, b.Y}),
		LineTo(Point{b.X + b.W, cy}),
		LineTo(Point{cx, b.Y + b.H}),
		LineTo(Point{b.X, cy}),
		Close(),
	}
}

func parallelogramPath(b Rect, adj AdjustValues) []PathSegment {
	pct := adj.get("adj", 25000)
	slant := b.W * pct
	return []PathSegment{
		MoveTo(Point{b.X + slant, b.Y}),
		LineTo(Point{b.X + b.W, b.Y}),
		LineTo(Point{b.X + b.W - slant, b.Y + b.H}),
		LineTo(Point{b.X, b.Y + b.H}),
		Close(),
	}
}

func trapezoidPath(b Rect, adj AdjustValues) []PathSegment {
	pct := adj.get("adj", 25000)
	inset := b.W * pct / 2
	return []PathSegment{
		MoveTo(Point{b.X + inset, b.Y}),
		LineTo(Point{b.X + b.W - inset, b.Y}),
		LineTo(Point{b.X + b.W, b.Y + b.H}),
		LineTo(Point{b.X, b.Y + b.H}),
		Close(),
	}
}

// regularPolygonPath returns a presetShapeFunc for an n-sided regular
// polygon with vertices at (cx + rx cos theta, cy + ry sin theta), start
// angle -90 degrees ("top vertex" shapes), per spec.md §4.7.
func regularPolygonPath(sides int) presetShapeFunc {
	return func(b Rect, _ AdjustValues) []PathSegment {
		cx, cy := b.X+b.W/2, b.Y+b.H/2
		rx, ry := b.W/2, b.H/2
		start := -math.Pi / 2
		segs := make([]PathSegment, 0, sides+1)
		for i := 0; i < sides; i++ {
			theta := start + 2*math.Pi*float64(i)/float64(sides)
			p := Point{cx + rx*math.Cos(theta), cy + ry*math.Sin(theta)}
			if i == 0 {
				segs = append(segs, MoveTo(p))
			} else {
				segs = append(segs, LineTo(p))
			}
		}
		segs = append(segs, Close())
		return segs
	}
}

func linePath(b Rect, _ AdjustValues) []PathSegment {
	return []PathSegment{MoveTo(Point{b.X, b.Y}), LineTo(Point{b.X + b.W, b.Y + b.H})}
}

// rightArrowPath accepts adj1 (head length ratio) and adj2 (shaft inverse-
// thickness ratio), per spec.md §4.7.
func rightArrowPath(b Rect, adj AdjustValues) []PathSegment {
	headLen := adj.get("adj1", 50000) * b.W
	shaftH := adj.get("adj2", 50000) * b.H
	shaftY0 := b.Y + (b.H-shaftH)/2
	shaftY1 := shaftY0 + shaftH
	shaftRight := b.X + b.W - headLen
	return []PathSegment{
		MoveTo(Point{b.X, shaftY0}),
		LineTo(Point{shaftRight, shaftY0}),
		LineTo(Point{shaftRight, b.Y}),
		LineTo(Point{b.X + b.W, b.Y + b.H/2}),
		LineTo(Point{shaftRight, b.Y + b.H}),
		LineTo(Point{shaftRight, shaftY1}),
		LineTo(Point{b.X, shaftY1}),
		Close(),
	}
}

func leftArrowPath(b Rect, adj AdjustValues) []PathSegment {
	mirrored := mirrorHorizontal(rightArrowPath(b, adj), b)
	return mirrored
}

func upArrowPath(b Rect, adj AdjustValues) []PathSegment {
	return rotate90(rightArrowPath(rotateBoundsSwap(b), adj), b)
}

func downArrowPath(b Rect, adj AdjustValues) []PathSegment {
	return mirrorVertical(upArrowPath(b, adj), b)
}

// mirrorHorizontal flips segs' X coordinates across bounds' vertical
// center line.
func mirrorHorizontal(segs []PathSegment, b Rect) []PathSegment {
	flip := func(p Point) Point { return Point{2*(b.X+b.W/2) - p.X, p.Y} }
	return mapSegmentPoints(segs, flip)
}

func mirrorVertical(segs []PathSegment, b Rect) []PathSegment {
	flip := func(p Point) Point { return Point{p.X, 2*(b.Y+b.H/2) - p.Y} }
	return mapSegmentPoints(segs, flip)
}

// rotateBoundsSwap returns a bounds box with W/H swapped around the same
// center, used to synthesize a path in "rotated" local space before
// rotating the resulting points back -90 degrees into the real bounds.
func rotateBoundsSwap(b Rect) Rect {
	cx, cy := b.X+b.W/2, b.Y+b.H/2
	return Rect{X: cx - b.H/2, Y: cy - b.W/2, W: b.H, H: b.W}
}

// rotate90 rotates segs -90 degrees (so a rightArrow becomes an upArrow)
// around bounds' center.
func rotate90(segs []PathSegment, b Rect) []PathSegment {
	cx, cy := b.X+b.W/2, b.Y+b.H/2
	rot := func(p Point) Point {
		dx, dy := p.X-cx, p.Y-cy
		// -90 degrees: (x,y) -> (y,-x)
		return Point{cx + dy, cy - dx}
	}
	return mapSegmentPoints(segs, rot)
}

func mapSegmentPoints(segs []PathSegment, f func(Point) Point) []PathSegment {
	out := make([]PathSegment, len(segs))
	for i, s := range segs {
		n := s
		switch s.Kind {
		case SegMoveTo, SegLineTo:
			n.P = f(s.P)
		case SegCubicTo:
			n.C1, n.C2, n.P = f(s.C1), f(s.C2), f(s.P)
		case SegQuadTo:
			n.Q, n.P = f(s.Q), f(s.P)
		}
		out[i] = n
	}
	return out
}

// chevronPath: the chevron's indent is a fraction of HEIGHT, not width, per
// spec.md §4.7 "for aspect consistency".
func chevronPath(b Rect, adj AdjustValues) []PathSegment {
	pct := adj.get("adj", 50000)
	indent := b.H * pct
	midY := b.Y + b.H/2
	return []PathSegment{
		MoveTo(Point{b.X, b.Y}),
		LineTo(Point{b.X + b.W - indent, b.Y}),
		LineTo(Point{b.X + b.W, midY}),
		LineTo(Point{b.X + b.W - indent, b.Y + b.H}),
		LineTo(Point{b.X, b.Y + b.H}),
		LineTo(Point{b.X + indent, midY}),
		Close(),
	}
}

func homePlatePath(b Rect, adj AdjustValues) []PathSegment {
	pct := adj.get("adj", 50000)
	point := b.W * pct
	midY := b.Y + b.H/2
	return []PathSegment{
		MoveTo(Point{b.X, b.Y}),
		LineTo(Point{b.X + b.W - point, b.Y}),
		LineTo(Point{b.X + b.W, midY}),
		LineTo(Point{b.X + b.W - point, b.Y + b.H}),
		LineTo(Point{b.X, b.Y + b.H}),
		Close(),
	}
}

func star5Path(b Rect, adj AdjustValues) []PathSegment {
	innerPct := adj.get("adj", 38000)
	cx, cy := b.X+b.W/2, b.Y+b.H/2
	rx, ry := b.W/2, b.H/2
	irx, iry := rx*innerPct, ry*innerPct
	segs := make([]PathSegment, 0, 11)
	for i := 0; i < 10; i++ {
		theta := -math.Pi/2 + float64(i)*math.Pi/5
		var p Point
		if i%2 == 0 {
			p = Point{cx + rx*math.Cos(theta), cy + ry*math.Sin(theta)}
		} else {
			p = Point{cx + irx*math.Cos(theta), cy + iry*math.Sin(theta)}
		}
		if i == 0 {
			segs = append(segs, MoveTo(p))
		} else {
			segs = append(segs, LineTo(p))
		}
	}
	segs = append(segs, Close())
	return segs
}

func plusPath(b Rect, adj AdjustValues) []PathSegment {
	pct := adj.get("adj", 25000)
	armW := b.W * pct
	armH := b.H * pct
	x0, x1, x2, x3 := b.X, b.X+(b.W-armW)/2, b.X+(b.W+armW)/2, b.X+b.W
	y0, y1, y2, y3 := b.Y, b.Y+(b.H-armH)/2, b.Y+(b.H+armH)/2, b.Y+b.H
	return []PathSegment{
		MoveTo(Point{x1, y0}), LineTo(Point{x2, y0}), LineTo(Point{x2, y1}),
		LineTo(Point{x3, y1}), LineTo(Point{x3, y2}), LineTo(Point{x2, y2}),
		LineTo(Point{x2, y3}), LineTo(Point{x1, y3}), LineTo(Point{x1, y2}),
		LineTo(Point{x0, y2}), LineTo(Point{x0, y1}), LineTo(Point{x1, y1}),
		Close(),
	}
}

// heartPath approximates the classic heart outline with two lobes (cubic
// beziers) meeting at a bottom point.
func heartPath(b Rect, _ AdjustValues) []PathSegment {
	x, y, w, h := b.X, b.Y, b.W, b.H
	topY := y + h*0.3
	bottomPoint := Point{x + w/2, y + h}
	return []PathSegment{
		MoveTo(Point{x + w/2, topY}),
		CubicBezierTo(Point{x + w*0.1, y - h*0.1}, Point{x - w*0.05, y + h*0.5}, bottomPoint),
		CubicBezierTo(Point{x + w*1.05, y + h*0.5}, Point{x + w*0.9, y - h*0.1}, Point{x + w/2, topY}),
		Close(),
	}
}

func wedgeRectCalloutPath(b Rect, _ AdjustValues) []PathSegment {
	x, y, w, h := b.X, b.Y, b.W, b.H
	tailW := w * 0.15
	return []PathSegment{
		MoveTo(Point{x, y}),
		LineTo(Point{x + w, y}),
		LineTo(Point{x + w, y + h}),
		LineTo(Point{x + w*0.4 + tailW, y + h}),
		LineTo(Point{x + w*0.25, y + h + h*0.2}),
		LineTo(Point{x + w*0.4, y + h}),
		LineTo(Point{x, y + h}),
		Close(),
	}
}

func flowChartTerminatorPath(b Rect, _ AdjustValues) []PathSegment {
	return roundRectPath(b, AdjustValues{"adj": 50000})
}

func cubePath(b Rect, adj AdjustValues) []PathSegment {
	d := adj.get("adj", 25000) * math.Min(b.W, b.H)
	x, y, w, h := b.X, b.Y, b.W, b.H
	return []PathSegment{
		MoveTo(Point{x, y + d}), LineTo(Point{x + d, y}), LineTo(Point{x + w, y}),
		LineTo(Point{x + w, y + h - d}), LineTo(Point{x + w - d, y + h}), LineTo(Point{x, y + h}),
		Close(),
		MoveTo(Point{x, y + d}), LineTo(Point{x + w - d, y + d}), LineTo(Point{x + w, y}),
		MoveTo(Point{x + w - d, y + d}), LineTo(Point{x + w - d, y + h}),
	}
}

func canPath(b Rect, adj AdjustValues) []PathSegment {
	d := adj.get("adj", 12500) * b.H
	x, y, w, h := b.X, b.Y, b.W, b.H
	k := (w / 2) * kappa
	kd := d * kappa
	return []PathSegment{
		MoveTo(Point{x, y + d/2}),
		LineTo(Point{x, y + h - d/2}),
		CubicBezierTo(Point{x, y + h - d/2 + kd}, Point{x + w/2 - k, y + h}, Point{x + w/2, y + h}),
		CubicBezierTo(Point{x + w/2 + k, y + h}, Point{x + w, y + h - d/2 + kd}, Point{x + w, y + h - d/2}),
		LineTo(Point{x + w, y + d/2}),
		CubicBezierTo(Point{x + w, y + d/2 - kd}, Point{x + w/2 + k, y}, Point{x + w/2, y}),
		CubicBezierTo(Point{x + w/2 - k, y}, Point{x, y + d/2 - kd}, Point{x, y + d/2}),
		Close(),
	}
}

func donutPath(b Rect, adj AdjustValues) []PathSegment {
	pct := adj.get("adj", 25000)
	outer := ellipsePath(b, nil)
	inner := b.Inset(b.W*(1-pct)/2, b.H*(1-pct)/2, b.W*(1-pct)/2, b.H*(1-pct)/2)
	return append(outer, ellipsePath(inner, nil)...)
}

func bevelPath(b Rect, adj AdjustValues) []PathSegment {
	d := adj.get("adj", 12500) * math.Min(b.W, b.H)
	x, y, w, h := b.X, b.Y, b.W, b.H
	segs := rectPath(b, nil)
	inner := []PathSegment{
		MoveTo(Point{x + d, y + d}), LineTo(Point{x + w - d, y + d}),
		LineTo(Point{x + w - d, y + h - d}), LineTo(Point{x + d, y + h - d}), Close(),
	}
	return append(segs, inner...)
}

func foldedCornerPath(b Rect, adj AdjustValues) []PathSegment {
	d := adj.get("adj", 16667) * math.Min(b.W, b.H)
	x, y, w, h := b.X, b.Y, b.W, b.H
	return []PathSegment{
		MoveTo(Point{x, y}), LineTo(Point{x + w, y}), LineTo(Point{x + w, y + h - d}),
		LineTo(Point{x + w - d, y + h}), LineTo(Point{x, y + h}), Close(),
		MoveTo(Point{x + w - d, y + h}), LineTo(Point{x + w - d, y + h - d}), LineTo(Point{x + w, y + h - d}), Close(),
	}
}

// textBoundsFor maps a shape's full pixel bounds to the usable text box for
// preset name, per spec.md §4.7: chevron subtracts height-scaled indent
// from both sides; homePlate subtracts the point width from the right;
// arrows reduce to the shaft rectangle. Unknown/rectangular presets return
// bounds unchanged.
func textBoundsFor(name string, bounds Rect, adj AdjustValues) Rect {
	switch name {
	case "chevron":
		indent := bounds.H * adj.get("adj", 50000)
		return bounds.Inset(indent, 0, indent, 0)
	case "homePlate":
		point := bounds.W * adj.get("adj", 50000)
		return bounds.Inset(0, 0, point, 0)
	case "rightArrow":
		headLen := bounds.W * adj.get("adj1", 50000)
		shaftH := bounds.H * adj.get("adj2", 50000)
		return Rect{X: bounds.X, Y: bounds.Y + (bounds.H-shaftH)/2, W: bounds.W - headLen, H: shaftH}
	case "leftArrow":
		headLen := bounds.W * adj.get("adj1", 50000)
		shaftH := bounds.H * adj.get("adj2", 50000)
		return Rect{X: bounds.X + headLen, Y: bounds.Y + (bounds.H-shaftH)/2, W: bounds.W - headLen, H: shaftH}
	case "upArrow":
		headLen := bounds.H * adj.get("adj1", 50000)
		shaftW := bounds.W * adj.get("adj2", 50000)
		return Rect{X: bounds.X + (bounds.W-shaftW)/2, Y: bounds.Y + headLen, W: shaftW, H: bounds.H - headLen}
	case "downArrow":
		headLen := bounds.H * adj.get("adj1", 50000)
		shaftW := bounds.W * adj.get("adj2", 50000)
		return Rect{X: bounds.X + (bounds.W-shaftW)/2, Y: bounds.Y, W: shaftW, H: bounds.H - headLen}
	case "ellipse":
		// inscribe a rectangle: inset ~0.1464 ((1 - 1/sqrt2)/2) of the
		// smaller dimension on each side.
		inset := 0.1464 * math.Min(bounds.W, bounds.H)
		return bounds.Inset(inset, inset, inset, inset)
	default:
		return bounds
	}
}
