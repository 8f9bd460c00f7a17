package gopresentation

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"
)

// Canvas is the abstract 2-D drawing surface the core pipeline paints
// through, per the design note in spec.md §9: any 2-D backend that offers
// save/restore, affine transforms, path construction, fill/stroke,
// gradients, drawImage, and text metrics can sit behind it. Solid-color
// fills and all strokes (the common case — every stroke in the corpus's
// decks is a single color) are rasterized by draw2d/draw2dimg, a pure-Go
// 2-D graphics library retrieved alongside this pack (see DESIGN.md).
// Canvas keeps its own affine stack rather than draw2d's, since geometry
// is flattened to device-space polylines (via flattenPath) before it ever
// reaches draw2d — this keeps gradient ColorAt sampling, clip
// intersection, and DrawImage's inverse-transform sampling all working
// from the one transform representation. The one thing draw2d's
// GraphicContext does not offer is a per-pixel fill color callback, so
// gradient fills (the only FillColorSource other than solidSource; a
// pattern fill arrives as its solid foreground color) still rasterize
// through this file's own nonzero-winding scanline fill.
type Canvas struct {
	img   *image.RGBA
	stack []affine
	cur   affine
	clip  []Rect // clip rectangle stack, intersected
}

// affine is a 2x3 affine matrix: [a c e; b d f].
type affine struct{ a, b, c, d, e, f float64 }

func identity() affine { return affine{a: 1, d: 1} }

func (m affine) mul(n affine) affine {
	return affine{
		a: m.a*n.a + m.c*n.b,
		b: m.b*n.a + m.d*n.b,
		c: m.a*n.c + m.c*n.d,
		d: m.b*n.c + m.d*n.d,
		e: m.a*n.e + m.c*n.f + m.e,
		f: m.b*n.e + m.d*n.f + m.f,
	}
}

func (m affine) apply(p Point) Point {
	return Point{m.a*p.X + m.c*p.Y + m.e, m.b*p.X + m.d*p.Y + m.f}
}

// NewCanvas allocates a W x H RGBA surface, initially transparent.
func NewCanvas(w, h int) *Canvas {
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, w, h)), cur: identity()}
}

// Image returns the backing image.RGBA (for PNG/JPEG export).
func (c *Canvas) Image() *image.RGBA { return c.img }

// Save pushes the current transform.
func (c *Canvas) Save() { c.stack = append(c.stack, c.cur) }

// Restore pops the transform stack; a no-op when already empty.
func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.cur = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *Canvas) Translate(dx, dy float64) { c.cur = c.cur.mul(affine{a: 1, d: 1, e: dx, f: dy}) }
func (c *Canvas) Scale(sx, sy float64)     { c.cur = c.cur.mul(affine{a: sx, d: sy}) }
func (c *Canvas) Rotate(rad float64) {
	s, co := math.Sin(rad), math.Cos(rad)
	c.cur = c.cur.mul(affine{a: co, b: s, c: -s, d: co})
}

// Clip pushes a clip rectangle in the current local coordinate space,
// intersected with any existing clip.
func (c *Canvas) Clip(r Rect) {
	tl := c.cur.apply(Point{r.X, r.Y})
	br := c.cur.apply(Point{r.X + r.W, r.Y + r.H})
	nr := Rect{X: math.Min(tl.X, br.X), Y: math.Min(tl.Y, br.Y), W: math.Abs(br.X - tl.X), H: math.Abs(br.Y - tl.Y)}
	c.clip = append(c.clip, nr)
}

func (c *Canvas) clipRect() (Rect, bool) {
	if len(c.clip) == 0 {
		return Rect{}, false
	}
	r := c.clip[0]
	for _, o := range c.clip[1:] {
		r = intersectRect(r, o)
	}
	return r, true
}

func intersectRect(a, b Rect) Rect {
	x0 := math.Max(a.X, b.X)
	y0 := math.Max(a.Y, b.Y)
	x1 := math.Min(a.X+a.W, b.X+b.W)
	y1 := math.Min(a.Y+a.H, b.Y+b.H)
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// --- path flattening (includes the C8 SVG-arc -> center-arc conversion) ---

// flattenSegmentTolerance controls bezier/arc subdivision density.
const flattenSegmentTolerance = 1.0

// flattenPath converts Path segments (already in local shape space) into
// one or more closed/open polylines in the canvas's current transformed
// space, ready for scanline fill or stroke.
func (c *Canvas) flattenPath(segs []PathSegment) [][]Point {
	var polys [][]Point
	var cur []Point
	var curPt, start Point
	emit := func(p Point) { cur = append(cur, c.cur.apply(p)) }
	for _, s := range segs {
		switch s.Kind {
		case SegMoveTo:
			if len(cur) > 0 {
				polys = append(polys, cur)
			}
			cur = nil
			emit(s.P)
			curPt, start = s.P, s.P
		case SegLineTo:
			emit(s.P)
			curPt = s.P
		case SegCubicTo:
			flattenCubic(curPt, s.C1, s.C2, s.P, func(p Point) { emit(p) })
			curPt = s.P
		case SegQuadTo:
			flattenQuad(curPt, s.Q, s.P, func(p Point) { emit(p) })
			curPt = s.P
		case SegArcSVG:
			arc, ok := svgArcToCenter(curPt, s.End, s.RX, s.RY, s.XRotDeg, s.LargeArc, s.Sweep)
			if !ok {
				if curPt != s.End {
					emit(s.End)
				}
			} else {
				flattenArc(arc, func(p Point) { emit(p) })
			}
			curPt = s.End
		case SegArcLegacy:
			arc := legacyArcToCenter(curPt, s.RX, s.RY, s.StartAngleDeg, s.SwingAngleDeg)
			flattenArc(arc, func(p Point) { emit(p) })
			curPt = arc.pointAt(arc.StartAngle + arc.DeltaAngle)
		case SegClose:
			if curPt != start {
				emit(start)
			}
			curPt = start
		}
	}
	if len(cur) > 0 {
		polys = append(polys, cur)
	}
	return polys
}

func flattenCubic(p0, p1, p2, p3 Point, emit func(Point)) {
	const n = 16
	for i := 1; i <= n; i++ {
		t := float64(i) / n
		mt := 1 - t
		x := mt*mt*mt*p0.X + 3*mt*mt*t*p1.X + 3*mt*t*t*p2.X + t*t*t*p3.X
		y := mt*mt*mt*p0.Y + 3*mt*mt*t*p1.Y + 3*mt*t*t*p2.Y + t*t*t*p3.Y
		emit(Point{x, y})
	}
}

func flattenQuad(p0, p1, p2 Point, emit func(Point)) {
	const n = 12
	for i := 1; i <= n; i++ {
		t := float64(i) / n
		mt := 1 - t
		x := mt*mt*p0.X + 2*mt*t*p1.X + t*t*p2.X
		y := mt*mt*p0.Y + 2*mt*t*p1.Y + t*t*p2.Y
		emit(Point{x, y})
	}
}

func flattenArc(a centerArc, emit func(Point)) {
	steps := int(math.Max(8, math.Abs(a.DeltaAngle)/0.1))
	for i := 1; i <= steps; i++ {
		t := a.StartAngle + a.DeltaAngle*float64(i)/float64(steps)
		emit(a.pointAt(t))
	}
}

// --- fill / stroke ---

// FillColorSource yields a color for a pixel, used for both solid and
// gradient fills (see fill.go).
type FillColorSource interface {
	ColorAt(x, y float64) RGBA
}

type solidSource RGBA

func (s solidSource) ColorAt(x, y float64) RGBA { return RGBA(s) }

// FillPath fills segs (local space) with src. Solid (and pattern, which
// newFillSource already reduces to a flat color) fills rasterize through
// draw2d; gradients — the one case draw2d's GraphicContext cannot express,
// since it takes a single fill color rather than a per-pixel source — keep
// using this file's own nonzero-winding scanline fill.
func (c *Canvas) FillPath(segs []PathSegment, src FillColorSource) {
	polys := c.flattenPath(segs)
	if len(polys) == 0 {
		return
	}
	if solid, ok := src.(solidSource); ok {
		c.fillPolysDraw2d(polys, RGBA(solid), draw2d.FillRuleWinding)
		return
	}
	c.scanFill(polys, src)
}

// StrokePath strokes segs with the given width (pixels, already scaled),
// color, and dash pattern through draw2d, which natively supports line
// width, round caps/joins, and dashing — the whole feature surface this
// method needs. Width is floored to 0.5px per spec.md §4.9.
func (c *Canvas) StrokePath(segs []PathSegment, col RGBA, width float64, dash []float64) {
	if width < 0.5 {
		width = 0.5
	}
	polys := c.flattenPath(segs)
	if len(polys) == 0 {
		return
	}
	scratch := image.NewRGBA(c.img.Bounds())
	gc := draw2dimg.NewGraphicContext(scratch)
	gc.SetStrokeColor(color.RGBA{col.R, col.G, col.B, col.A})
	gc.SetLineWidth(width)
	gc.SetLineCap(draw2d.RoundCap)
	gc.SetLineJoin(draw2d.RoundJoin)
	if len(dash) > 0 {
		gc.SetLineDash(dash, 0)
	}
	for _, poly := range polys {
		if len(poly) == 0 {
			continue
		}
		gc.MoveTo(poly[0].X, poly[0].Y)
		for _, p := range poly[1:] {
			gc.LineTo(p.X, p.Y)
		}
	}
	gc.Stroke()
	c.compositeScratch(scratch)
}

// fillPolysDraw2d rasterizes closed polys as a single filled path through a
// scratch draw2d GraphicContext, then composites the result onto c.img
// clipped to the active clip rect.
func (c *Canvas) fillPolysDraw2d(polys [][]Point, col RGBA, rule draw2d.FillRule) {
	scratch := image.NewRGBA(c.img.Bounds())
	gc := draw2dimg.NewGraphicContext(scratch)
	gc.SetFillColor(color.RGBA{col.R, col.G, col.B, col.A})
	gc.SetFillRule(rule)
	for _, poly := range polys {
		if len(poly) == 0 {
			continue
		}
		gc.MoveTo(poly[0].X, poly[0].Y)
		for _, p := range poly[1:] {
			gc.LineTo(p.X, p.Y)
		}
	}
	gc.Fill()
	c.compositeScratch(scratch)
}

// compositeScratch alpha-composites a scratch image.RGBA (the same size as
// c.img, drawn in device space by draw2d) onto c.img, restricted to the
// active clip rectangle.
func (c *Canvas) compositeScratch(scratch *image.RGBA) {
	b := c.img.Bounds()
	if clip, ok := c.clipRect(); ok {
		cb := image.Rect(int(math.Floor(clip.X)), int(math.Floor(clip.Y)), int(math.Ceil(clip.X+clip.W)), int(math.Ceil(clip.Y+clip.H)))
		b = b.Intersect(cb)
	}
	if b.Empty() {
		return
	}
	draw.Draw(c.img, b, scratch, b.Min, draw.Over)
}

// scanFill rasterizes polys with the nonzero winding rule using a scanline
// active-edge algorithm with 4x vertical supersampling for edge
// antialiasing, then blends src's color per covered pixel.
func (c *Canvas) scanFill(polys [][]Point, src FillColorSource) {
	bounds := c.img.Bounds()
	clip, hasClip := c.clipRect()
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, poly := range polys {
		for _, p := range poly {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	x0 := maxInt(bounds.Min.X, int(math.Floor(minX)))
	x1 := minInt(bounds.Max.X, int(math.Ceil(maxX))+1)
	y0 := maxInt(bounds.Min.Y, int(math.Floor(minY)))
	y1 := minInt(bounds.Max.Y, int(math.Ceil(maxY))+1)
	if hasClip {
		x0 = maxInt(x0, int(math.Floor(clip.X)))
		x1 = minInt(x1, int(math.Ceil(clip.X+clip.W)))
		y0 = maxInt(y0, int(math.Floor(clip.Y)))
		y1 = minInt(y1, int(math.Ceil(clip.Y+clip.H)))
	}
	if x0 >= x1 || y0 >= y1 {
		return
	}
	const sub = 4
	coverage := make([]float64, x1-x0)
	for y := y0; y < y1; y++ {
		for i := range coverage {
			coverage[i] = 0
		}
		for s := 0; s < sub; s++ {
			sy := float64(y) + (float64(s)+0.5)/sub
			xs := scanlineCrossings(polys, sy)
			addCoverage(coverage, x0, x1, xs, 1.0/sub)
		}
		for x := x0; x < x1; x++ {
			cov := coverage[x-x0]
			if cov <= 0 {
				continue
			}
			if cov > 1 {
				cov = 1
			}
			col := src.ColorAt(float64(x)+0.5, float64(y)+0.5)
			c.blendPixel(x, y, col, cov)
		}
	}
}

// scanlineCrossings returns the sorted X crossings (with winding direction
// sign) of polys at height sy.
type crossing struct {
	x   float64
	dir int
}

func scanlineCrossings(polys [][]Point, sy float64) []crossing {
	var xs []crossing
	for _, poly := range polys {
		n := len(poly)
		for i := 0; i < n; i++ {
			a := poly[i]
			b := poly[(i+1)%n]
			if a.Y == b.Y {
				continue
			}
			if (sy >= a.Y && sy < b.Y) || (sy >= b.Y && sy < a.Y) {
				t := (sy - a.Y) / (b.Y - a.Y)
				x := a.X + t*(b.X-a.X)
				dir := 1
				if b.Y < a.Y {
					dir = -1
				}
				xs = append(xs, crossing{x: x, dir: dir})
			}
		}
	}
	sortCrossings(xs)
	return xs
}

func sortCrossings(xs []crossing) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1].x > xs[j].x; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}

// addCoverage adds weight to coverage[x0:x1) for every x inside a nonzero-
// winding span among xs.
func addCoverage(coverage []float64, x0, x1 int, xs []crossing, weight float64) {
	winding := 0
	for i := 0; i < len(xs); i++ {
		prevWinding := winding
		winding += xs[i].dir
		if prevWinding == 0 && winding != 0 {
			// span starts here; find where it ends
			spanStart := xs[i].x
			j := i + 1
			w := winding
			for j < len(xs) && w != 0 {
				w += xs[j].dir
				j++
			}
			spanEnd := xs[len(xs)-1].x
			if j-1 < len(xs) {
				spanEnd = xs[j-1].x
			}
			addSpanCoverage(coverage, x0, x1, spanStart, spanEnd, weight)
			i = j - 1
			winding = 0
		}
	}
}

func addSpanCoverage(coverage []float64, x0, x1 int, sx, ex float64, weight float64) {
	if ex < sx {
		sx, ex = ex, sx
	}
	startPx := maxInt(x0, int(math.Floor(sx)))
	endPx := minInt(x1, int(math.Ceil(ex)))
	for x := startPx; x < endPx; x++ {
		left := math.Max(float64(x), sx)
		right := math.Min(float64(x+1), ex)
		if right > left {
			coverage[x-x0] += (right - left) * weight
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// blendPixel alpha-blends col over the existing pixel with fractional
// coverage, using direct Pix slice access for performance (the teacher's
// renderer.go does the same for its hot path).
func (c *Canvas) blendPixel(x, y int, col RGBA, coverage float64) {
	b := c.img.Bounds()
	if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
		return
	}
	a := float64(col.A) / 255 * coverage
	if a <= 0 {
		return
	}
	off := (y-b.Min.Y)*c.img.Stride + (x-b.Min.X)*4
	pix := c.img.Pix
	if a >= 1 {
		pix[off], pix[off+1], pix[off+2], pix[off+3] = col.R, col.G, col.B, 255
		return
	}
	ia := 1 - a
	pix[off] = uint8(float64(col.R)*a + float64(pix[off])*ia)
	pix[off+1] = uint8(float64(col.G)*a + float64(pix[off+1])*ia)
	pix[off+2] = uint8(float64(col.B)*a + float64(pix[off+2])*ia)
	pix[off+3] = uint8(float64(255)*a + float64(pix[off+3])*ia)
}

// FillRect fills an axis-aligned pixel rect (already in device space,
// bypassing the transform stack) with an opaque or blended color. Used for
// background fills before any shape transform is pushed.
func (c *Canvas) FillRect(r image.Rectangle, col color.RGBA) {
	b := c.img.Bounds().Intersect(r)
	if b.Empty() {
		return
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c.blendPixel(x, y, RGBA(col), 1.0)
		}
	}
}

// DrawImage composites src into dest (device-space pixel rect, current
// transform applied to its corners) using nearest-neighbor sampling — the
// image engine (C15) pre-crops/tiles so this stays a simple affine blit.
func (c *Canvas) DrawImage(src image.Image, dest Rect) {
	corners := [4]Point{
		c.cur.apply(Point{dest.X, dest.Y}),
		c.cur.apply(Point{dest.X + dest.W, dest.Y}),
		c.cur.apply(Point{dest.X + dest.W, dest.Y + dest.H}),
		c.cur.apply(Point{dest.X, dest.Y + dest.H}),
	}
	minX, minY := corners[0].X, corners[0].Y
	maxX, maxY := corners[0].X, corners[0].Y
	for _, p := range corners[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	b := c.img.Bounds()
	x0 := maxInt(b.Min.X, int(math.Floor(minX)))
	x1 := minInt(b.Max.X, int(math.Ceil(maxX)))
	y0 := maxInt(b.Min.Y, int(math.Floor(minY)))
	y1 := minInt(b.Max.Y, int(math.Ceil(maxY)))
	srcB := src.Bounds()
	inv, ok := c.cur.invert()
	if !ok {
		return
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			local := inv.apply(Point{float64(x) + 0.5, float64(y) + 0.5})
			u := (local.X - dest.X) / dest.W
			v := (local.Y - dest.Y) / dest.H
			if u < 0 || u >= 1 || v < 0 || v >= 1 {
				continue
			}
			sx := srcB.Min.X + int(u*float64(srcB.Dx()))
			sy := srcB.Min.Y + int(v*float64(srcB.Dy()))
			r, g, bl, a := src.At(sx, sy).RGBA()
			col := RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8), A: uint8(a >> 8)}
			c.blendPixel(x, y, col, 1.0)
		}
	}
}

func (m affine) invert() (affine, bool) {
	det := m.a*m.d - m.b*m.c
	if det == 0 {
		return affine{}, false
	}
	inv := 1 / det
	return affine{
		a: m.d * inv, b: -m.b * inv, c: -m.c * inv, d: m.a * inv,
		e: (m.c*m.f - m.d*m.e) * inv,
		f: (m.b*m.e - m.a*m.f) * inv,
	}, true
}
