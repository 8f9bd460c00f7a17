package gopresentation

import "regexp"

// ShapeContext carries the state every shape in the tree needs to resolve
// placeholders, geometry, and text against: the current theme, the
// layout/master placeholder lookup chain, font resources, and the active
// pixel scale.
type ShapeContext struct {
	Theme       *ColorScheme
	Fonts       *FontScheme
	FontCache   *FontCache
	Wrapper     *WordWrapper
	Scale       Scale
	Archive     *Archive
	Images      *ImageEngine
	Rels        *relResolver
	SlideMember string

	// Layout/master placeholder lookup, by (type, idx) pairs; an empty type
	// or HasIdx false (no idx) means "don't match on this key".
	LayoutPlaceholders []PlaceholderShape
	MasterPlaceholders []PlaceholderShape

	LstStyle *Node
}

// PlaceholderShape is a layout/master shape indexed for placeholder
// inheritance lookup.
type PlaceholderShape struct {
	Type      string
	Idx       int
	HasIdx    bool
	Transform ShapeTransform
	HasXfrm   bool
	Geometry  *Node // prstGeom or custGeom
	SpPr      *Node
	TxBody    *Node
}

var adjFmlaRe = regexp.MustCompile(`^val\s+(-?\d+)$`)

// RenderShapeTree walks an ordered p:spTree (or p:grpSp child tree) and
// paints every element in document order.
func RenderShapeTree(canvas *Canvas, tree *Node, ctx *ShapeContext, parentTransform ShapeTransform, parentBox ChildCoordBox, isGroup bool) {
	for _, el := range tree.Children {
		renderTreeElement(canvas, el, ctx, parentTransform, parentBox, isGroup)
	}
}

func renderTreeElement(canvas *Canvas, el *Node, ctx *ShapeContext, parentTransform ShapeTransform, parentBox ChildCoordBox, isGroup bool) {
	switch el.Name {
	case "p:sp":
		renderShape(canvas, el, ctx, parentTransform, parentBox, isGroup)
	case "p:cxnSp":
		renderConnector(canvas, el, ctx, parentTransform, parentBox, isGroup)
	case "p:pic":
		renderPicture(canvas, el, ctx, parentTransform, parentBox, isGroup)
	case "p:grpSp":
		renderGroup(canvas, el, ctx, parentTransform, parentBox, isGroup)
	case "p:graphicFrame":
		renderGraphicFrame(canvas, el, ctx, parentTransform, parentBox, isGroup)
	case "mc:AlternateContent":
		renderAlternateContent(canvas, el, ctx, parentTransform, parentBox, isGroup)
	}
}

func renderAlternateContent(canvas *Canvas, el *Node, ctx *ShapeContext, parentTransform ShapeTransform, parentBox ChildCoordBox, isGroup bool) {
	var chosen *Node
	if choice := el.Child("mc:Choice"); choice != nil && requiresSupported(choice.AttrOr("Requires", "")) {
		chosen = choice
	} else if fb := el.Child("mc:Fallback"); fb != nil {
		chosen = fb
	}
	if chosen == nil {
		return
	}
	for _, child := range chosen.Children {
		if child.Name == "mc:AlternateContent" {
			continue
		}
		renderTreeElement(canvas, child, ctx, parentTransform, parentBox, isGroup)
	}
}

var knownAlternateContentNamespaces = map[string]bool{
	"a": true, "p": true, "mc": true,
}

func requiresSupported(requires string) bool {
	if requires == "" {
		return true
	}
	return knownAlternateContentNamespaces[requires]
}

func cNvPrHidden(nv *Node) bool {
	if nv == nil {
		return false
	}
	cNvPr := nv.Child("p:cNvPr")
	if cNvPr == nil {
		return false
	}
	return cNvPr.AttrOr("hidden", "0") == "1"
}

func resolveTransform(spPr *Node, nvSpPr *Node, ctx *ShapeContext, parentTransform ShapeTransform, parentBox ChildCoordBox, isGroup bool) (ShapeTransform, bool) {
	var local ShapeTransform
	var has bool
	if spPr != nil {
		if xfrm := spPr.Child("a:xfrm"); xfrm != nil {
			local = parseXfrm(xfrm)
			has = true
		}
	}
	if !has {
		if ph, ok := placeholderKey(nvSpPr); ok {
			if p, found := lookupPlaceholder(ctx.LayoutPlaceholders, ph); found && p.HasXfrm {
				local, has = p.Transform, true
			} else if p, found := lookupPlaceholder(ctx.MasterPlaceholders, ph); found && p.HasXfrm {
				local, has = p.Transform, true
			}
		}
	}
	if !has {
		return ShapeTransform{}, false
	}
	if isGroup {
		return TransformChildToParent(local, parentTransform, parentBox), true
	}
	return local, true
}

type phKey struct {
	Type   string
	Idx    int
	HasIdx bool
}

func placeholderKey(nvSpPr *Node) (phKey, bool) {
	if nvSpPr == nil {
		return phKey{}, false
	}
	nvPr := nvSpPr.Child("p:nvPr")
	if nvPr == nil {
		return phKey{}, false
	}
	ph := nvPr.Child("p:ph")
	if ph == nil {
		return phKey{}, false
	}
	k := phKey{Type: ph.AttrOr("type", "body")}
	if idx, ok := ph.Attr("idx"); ok {
		k.Idx = atoiOr(idx, 0)
		k.HasIdx = true
	}
	return k, true
}

// lookupPlaceholder matches by type OR idx, either accepted, per spec.md
// §4.18.
func lookupPlaceholder(candidates []PlaceholderShape, key phKey) (PlaceholderShape, bool) {
	for _, c := range candidates {
		if key.Type != "" && c.Type == key.Type {
			return c, true
		}
		if key.HasIdx && c.HasIdx && c.Idx == key.Idx {
			return c, true
		}
	}
	return PlaceholderShape{}, false
}

func resolveGeometry(spPr *Node, nvSpPr *Node, ctx *ShapeContext) *Node {
	if spPr != nil {
		if g := spPr.Child("a:prstGeom"); g != nil {
			return g
		}
		if g := spPr.Child("a:custGeom"); g != nil {
			return g
		}
	}
	if ph, ok := placeholderKey(nvSpPr); ok {
		if p, found := lookupPlaceholder(ctx.LayoutPlaceholders, ph); found && p.Geometry != nil {
			return p.Geometry
		}
		if p, found := lookupPlaceholder(ctx.MasterPlaceholders, ph); found && p.Geometry != nil {
			return p.Geometry
		}
	}
	return nil
}

func parseAdjustValues(geom *Node) AdjustValues {
	av := AdjustValues{}
	if geom == nil {
		return av
	}
	lst := geom.Child("a:avLst")
	if lst == nil {
		return av
	}
	for _, gd := range lst.ChildrenNamed("a:gd") {
		name := gd.AttrOr("name", "")
		fmla := gd.AttrOr("fmla", "")
		if m := adjFmlaRe.FindStringSubmatch(fmla); m != nil {
			av[name] = atoiOr(m[1], 0)
		}
	}
	return av
}

func buildPathForGeometry(geom *Node, box Rect) []PathSegment {
	if geom == nil {
		return rectPath(box, AdjustValues{})
	}
	switch geom.Name {
	case "a:prstGeom":
		prst := geom.AttrOr("prst", "rect")
		av := parseAdjustValues(geom)
		if segs, ok := CreatePath(prst, box, av); ok {
			return segs
		}
		return rectPath(box, AdjustValues{})
	case "a:custGeom":
		return parseCustomGeometry(geom, box)
	default:
		return rectPath(box, AdjustValues{})
	}
}

// parseCustomGeometry reads a:custGeom/a:pathLst/a:path into path
// segments, scaling the path's own w/h coordinate space onto box.
func parseCustomGeometry(geom *Node, box Rect) []PathSegment {
	pathLst := geom.Child("a:pathLst")
	if pathLst == nil {
		return rectPath(box, AdjustValues{})
	}
	p := pathLst.Child("a:path")
	if p == nil {
		return rectPath(box, AdjustValues{})
	}
	w := float64(atoiOr(p.AttrOr("w", "1"), 1))
	h := float64(atoiOr(p.AttrOr("h", "1"), 1))
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}
	sx, sy := box.W/w, box.H/h
	mapPt := func(x, y float64) Point { return Point{box.X + x*sx, box.Y + y*sy} }

	var segs []PathSegment
	for _, child := range p.Children {
		switch child.Name {
		case "a:moveTo":
			if pt := firstPt(child); pt != nil {
				segs = append(segs, MoveTo(mapPt(pt[0], pt[1])))
			}
		case "a:lnTo":
			if pt := firstPt(child); pt != nil {
				segs = append(segs, LineTo(mapPt(pt[0], pt[1])))
			}
		case "a:cubicBezTo":
			pts := allPts(child)
			if len(pts) == 3 {
				segs = append(segs, CubicBezierTo(mapPt(pts[0][0], pts[0][1]), mapPt(pts[1][0], pts[1][1]), mapPt(pts[2][0], pts[2][1])))
			}
		case "a:quadBezTo":
			pts := allPts(child)
			if len(pts) == 2 {
				segs = append(segs, QuadBezierTo(mapPt(pts[0][0], pts[0][1]), mapPt(pts[1][0], pts[1][1])))
			}
		case "a:arcTo":
			wr := float64(atoiOr(child.AttrOr("wR", "0"), 0)) * sx
			hr := float64(atoiOr(child.AttrOr("hR", "0"), 0)) * sy
			stAng := angleUnitsToDegrees(atoiOr(child.AttrOr("stAng", "0"), 0))
			swAng := angleUnitsToDegrees(atoiOr(child.AttrOr("swAng", "0"), 0))
			segs = append(segs, ArcToLegacy(wr, hr, stAng, swAng))
		case "a:close":
			segs = append(segs, Close())
		}
	}
	return segs
}

func firstPt(n *Node) []float64 {
	pt := n.Child("a:pt")
	if pt == nil {
		return nil
	}
	return []float64{float64(atoiOr(pt.AttrOr("x", "0"), 0)), float64(atoiOr(pt.AttrOr("y", "0"), 0))}
}

func allPts(n *Node) [][]float64 {
	var out [][]float64
	for _, pt := range n.ChildrenNamed("a:pt") {
		out = append(out, []float64{float64(atoiOr(pt.AttrOr("x", "0"), 0)), float64(atoiOr(pt.AttrOr("y", "0"), 0))})
	}
	return out
}

func renderShape(canvas *Canvas, el *Node, ctx *ShapeContext, parentTransform ShapeTransform, parentBox ChildCoordBox, isGroup bool) {
	nvSpPr := el.Child("p:nvSpPr")
	if cNvPrHidden(nvSpPr) {
		return
	}
	spPr := el.Child("p:spPr")
	transform, ok := resolveTransform(spPr, nvSpPr, ctx, parentTransform, parentBox, isGroup)
	if !ok {
		return
	}
	px := transform.ToPixels(ctx.Scale)
	box := px.Rect()

	geomNode := resolveGeometry(spPr, nvSpPr, ctx)
	segs := buildPathForGeometry(geomNode, Rect{W: box.W, H: box.H})

	var fill *Fill
	var stroke *Stroke
	if spPr != nil {
		fill, _ = parseFill(spPr, ctx.Theme, nil)
		if ln := spPr.Child("a:ln"); ln != nil {
			stroke, _ = parseStroke(ln, ctx.Theme, ctx.Scale)
		}
	}

	var tb *TextBody
	if txBody := el.Child("p:txBody"); txBody != nil {
		tb = parseTextBody(txBody, ctx.Theme, ctx.LstStyle)
	}

	canvas.Save()
	applyShapeTransform(canvas, px)
	paintShape(canvas, segs, fill, stroke)
	if tb != nil {
		defaultColor := contrastingTextColor(fill)
		result := LayoutTextBody(tb, box, ctx.Scale, ctx.FontCache, ctx.Fonts, ctx.Wrapper, defaultColor)
		for _, r := range result.Runs {
			canvas.DrawRun(r)
		}
	}
	canvas.Restore()
}

func renderConnector(canvas *Canvas, el *Node, ctx *ShapeContext, parentTransform ShapeTransform, parentBox ChildCoordBox, isGroup bool) {
	nvCxnSpPr := el.Child("p:nvCxnSpPr")
	if cNvPrHidden(nvCxnSpPr) {
		return
	}
	spPr := el.Child("p:spPr")
	transform, ok := resolveTransform(spPr, nvCxnSpPr, ctx, parentTransform, parentBox, isGroup)
	if !ok {
		return
	}
	px := transform.ToPixels(ctx.Scale)
	box := px.Rect()
	segs := linePath(Rect{W: box.W, H: box.H}, AdjustValues{})

	var stroke *Stroke
	if spPr != nil {
		if ln := spPr.Child("a:ln"); ln != nil {
			stroke, _ = parseStroke(ln, ctx.Theme, ctx.Scale)
		}
	}
	canvas.Save()
	applyShapeTransform(canvas, px)
	if stroke != nil {
		canvas.StrokePath(segs, stroke.Color, stroke.WidthPx, stroke.Dash)
	}
	canvas.Restore()
}

func renderPicture(canvas *Canvas, el *Node, ctx *ShapeContext, parentTransform ShapeTransform, parentBox ChildCoordBox, isGroup bool) {
	nvPicPr := el.Child("p:nvPicPr")
	if cNvPrHidden(nvPicPr) {
		return
	}
	spPr := el.Child("p:spPr")
	transform, ok := resolveTransform(spPr, nvPicPr, ctx, parentTransform, parentBox, isGroup)
	if !ok {
		return
	}
	px := transform.ToPixels(ctx.Scale)
	box := px.Rect()

	blipFill := el.Child("p:blipFill")
	if blipFill == nil {
		return
	}
	fill := parseBlipFill(blipFill)
	if fill.PictureRelID == "" {
		return
	}
	target, err := ctx.Rels.Resolve(ctx.SlideMember, fill.PictureRelID)
	if err != nil {
		return
	}
	bmp, err := ctx.Images.Load(ctx.Archive, target, ctx.SlideMember+"#"+fill.PictureRelID)
	if err != nil {
		return
	}
	canvas.Save()
	applyShapeTransform(canvas, px)
	fill.Stretch = true
	ctx.Images.Render(canvas, bmp, fill, Rect{W: box.W, H: box.H})
	canvas.Restore()
}

func renderGroup(canvas *Canvas, el *Node, ctx *ShapeContext, parentTransform ShapeTransform, parentBox ChildCoordBox, isGroup bool) {
	nvGrpSpPr := el.Child("p:nvGrpSpPr")
	if cNvPrHidden(nvGrpSpPr) {
		return
	}
	grpSpPr := el.Child("p:grpSpPr")
	if grpSpPr == nil {
		return
	}
	xfrm := grpSpPr.Child("a:xfrm")
	if xfrm == nil {
		return
	}
	local := parseXfrm(xfrm)
	var transform ShapeTransform
	if isGroup {
		transform = TransformChildToParent(local, parentTransform, parentBox)
	} else {
		transform = local
	}
	childBox := parseChildCoordBox(xfrm)
	RenderShapeTree(canvas, el, ctx, transform, childBox, true)
}

func renderGraphicFrame(canvas *Canvas, el *Node, ctx *ShapeContext, parentTransform ShapeTransform, parentBox ChildCoordBox, isGroup bool) {
	nvGraphicFramePr := el.Child("p:nvGraphicFramePr")
	if cNvPrHidden(nvGraphicFramePr) {
		return
	}
	xfrm := el.Child("p:xfrm")
	if xfrm == nil {
		return
	}
	local := parseXfrm(xfrm)
	var transform ShapeTransform
	if isGroup {
		transform = TransformChildToParent(local, parentTransform, parentBox)
	} else {
		transform = local
	}
	px := transform.ToPixels(ctx.Scale)
	box := px.Rect()

	graphic := el.Child("a:graphic")
	if graphic == nil {
		return
	}
	graphicData := graphic.Child("a:graphicData")
	if graphicData == nil {
		return
	}
	uri := graphicData.AttrOr("uri", "")
	switch {
	case containsSuffix(uri, "/chart"):
		renderChartFrame(canvas, graphicData, ctx, box)
	case containsSuffix(uri, "/table"):
		renderTableFrame(canvas, graphicData, ctx, box)
	default:
		// Unsupported graphicData URI: documented no-op.
	}
}

func containsSuffix(uri, suffix string) bool {
	if len(uri) < len(suffix) {
		return false
	}
	return uri[len(uri)-len(suffix):] == suffix
}

func renderChartFrame(canvas *Canvas, graphicData *Node, ctx *ShapeContext, box Rect) {
	chartRef := graphicData.Child("c:chart")
	if chartRef == nil {
		return
	}
	rid := chartRef.AttrOr("r:id", "")
	if rid == "" {
		return
	}
	target, err := ctx.Rels.Resolve(ctx.SlideMember, rid)
	if err != nil {
		return
	}
	text, err := ctx.Archive.ReadText(target)
	if err != nil {
		return
	}
	root, err := ParseOrdered(text)
	if err != nil {
		return
	}
	data, err := parseChartSpace(root, ctx.Theme)
	if err != nil {
		return
	}
	canvas.Save()
	RenderChart(canvas, data, box, ctx.FontCache)
	canvas.Restore()
}

func renderTableFrame(canvas *Canvas, graphicData *Node, ctx *ShapeContext, box Rect) {
	tbl := graphicData.Child("a:tbl")
	if tbl == nil {
		return
	}
	td := parseTable(tbl, box, ctx.Scale, ctx.Theme, ctx.LstStyle)
	canvas.Save()
	RenderTable(canvas, td, ctx.Scale, ctx.FontCache, ctx.Fonts, ctx.Wrapper, RGBA{A: 255})
	canvas.Restore()
}

func applyShapeTransform(canvas *Canvas, px PixelTransform) {
	cx, cy := px.X+px.W/2, px.Y+px.H/2
	canvas.Translate(cx, cy)
	if px.RotationDeg != 0 {
		canvas.Rotate(px.RotationDeg * 3.141592653589793 / 180)
	}
	sx, sy := 1.0, 1.0
	if px.FlipH {
		sx = -1
	}
	if px.FlipV {
		sy = -1
	}
	if sx != 1 || sy != 1 {
		canvas.Scale(sx, sy)
	}
	canvas.Translate(-px.W/2, -px.H/2)
}

func paintShape(canvas *Canvas, segs []PathSegment, fill *Fill, stroke *Stroke) {
	if fill != nil && fill.Kind != FillKindNone {
		box := pathBounds(segs)
		// scanFill samples ColorAt in device space: use the device-space
		// bounding box of the path's local bounds.
		minX, minY, maxX, maxY := 1e18, 1e18, -1e18, -1e18
		for _, p := range []Point{{box.X, box.Y}, {box.X + box.W, box.Y}, {box.X, box.Y + box.H}, {box.X + box.W, box.Y + box.H}} {
			d := canvas.cur.apply(p)
			minX, minY = min(minX, d.X), min(minY, d.Y)
			maxX, maxY = max(maxX, d.X), max(maxY, d.Y)
		}
		box = Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
		canvas.FillPath(segs, newFillSource(fill, box))
	}
	if stroke != nil {
		canvas.StrokePath(segs, stroke.Color, stroke.WidthPx, stroke.Dash)
	}
}

func pathBounds(segs []PathSegment) Rect {
	minX, minY := 1e18, 1e18
	maxX, maxY := -1e18, -1e18
	consider := func(p Point) {
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	for _, s := range segs {
		switch s.Kind {
		case SegMoveTo, SegLineTo:
			consider(s.P)
		case SegCubicTo:
			consider(s.C1)
			consider(s.C2)
			consider(s.P)
		case SegQuadTo:
			consider(s.Q)
			consider(s.P)
		case SegArcSVG:
			consider(s.End)
		}
	}
	if maxX < minX {
		return Rect{}
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// contrastingTextColor picks black or white based on the fill's isDark,
// defaulting to black on no fill, per spec.md §4.18.
func contrastingTextColor(fill *Fill) RGBA {
	if fill == nil || fill.Kind != FillKindSolid {
		return RGBA{A: 255}
	}
	if IsDark(fill.Solid) {
		return RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return RGBA{A: 255}
}
