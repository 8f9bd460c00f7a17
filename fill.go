package gopresentation

import "math"

// FillKind tags the Fill variant: None | Solid | Gradient | Pattern |
// Picture, per spec.md §4.9.
type FillKind int

const (
	FillKindNone FillKind = iota
	FillKindSolid
	FillKindGradient
	FillKindPattern
	FillKindPicture
)

// GradientKind distinguishes linear (angle) from radial (center + fillToRect
// midpoint) gradients.
type GradientKind int

const (
	GradientLinear GradientKind = iota
	GradientRadial
)

// GradientStop is one color stop at position (0..1).
type GradientStop struct {
	Pos   float64
	Color RGBA
}

// Fill is the tagged fill value a shape or run of text paints with.
type Fill struct {
	Kind FillKind

	Solid RGBA

	GradKind  GradientKind
	Stops     []GradientStop
	AngleDeg  float64 // linear
	RadialCX  float64 // radial fillToRect midpoint, 0..1 of box
	RadialCY  float64

	PatternFg, PatternBg RGBA // pattern fallback renders PatternFg solid

	PictureRelID string
	SrcRectL, SrcRectT, SrcRectR, SrcRectB float64 // 0..1, crop percentages
	Stretch                                          bool
	FillRectL, FillRectT, FillRectR, FillRectB float64
	Tile                                              bool
	TileSX, TileSY                                    float64 // 0..1 scale of source
	TileAlign                                        string // tl,tr,bl,br,ctr
	TileFlip                                         string // "", x, y, xy
}

// Stroke is the parsed a:ln: width (pixels, pre-scaled), color, cap/join,
// dash pattern (pixels), and optional line-end markers.
type Stroke struct {
	Color      RGBA
	WidthPx    float64
	Cap        string // "flat", "round", "square"
	Join       string // "round", "bevel", "miter"
	Dash       []float64
	HeadEnd    *LineEndMarker
	TailEnd    *LineEndMarker
}

// LineEndMarker describes an arrowhead/oval cap at a line endpoint.
type LineEndMarker struct {
	Type string // "none","triangle","stealth","oval","diamond","arrow"
	Len  string // "sm","med","lg"
	Wid  string
}

// parseFill parses a shape-properties node's fill child (solidFill,
// gradFill, pattFill, blipFill, noFill) into a Fill, resolving scheme
// colors against theme and substituting phClr when a group fill is
// inherited by a:grpFill (groupFill carries the already-resolved color).
func parseFill(spPr *Node, theme *ColorScheme, groupFill *Fill) (*Fill, bool) {
	if spPr == nil {
		return nil, false
	}
	if spPr.Child("a:noFill") != nil {
		return &Fill{Kind: FillKindNone}, true
	}
	if c := spPr.Child("a:solidFill"); c != nil {
		if v, ok := resolveColorNode(c, theme, nil); ok {
			return &Fill{Kind: FillKindSolid, Solid: v}, true
		}
	}
	if c := spPr.Child("a:gradFill"); c != nil {
		return parseGradFill(c, theme), true
	}
	if c := spPr.Child("a:pattFill"); c != nil {
		fg, _ := resolveColorNode(c.Child("a:fgClr"), theme, nil)
		bg, _ := resolveColorNode(c.Child("a:bgClr"), theme, nil)
		return &Fill{Kind: FillKindPattern, PatternFg: fg, PatternBg: bg}, true
	}
	if c := spPr.Child("a:blipFill"); c != nil {
		return parseBlipFill(c), true
	}
	if spPr.Child("a:grpFill") != nil && groupFill != nil {
		return groupFill, true
	}
	return nil, false
}

func parseGradFill(n *Node, theme *ColorScheme) *Fill {
	f := &Fill{Kind: FillKindGradient}
	var stops []GradientStop
	if gsLst := n.Child("a:gsLst"); gsLst != nil {
		for _, gs := range gsLst.ChildrenNamed("a:gs") {
			pos := percentStrToDecimal(gs.AttrOr("pos", "0"))
			if v, ok := resolveColorNode(gs, theme, nil); ok {
				stops = append(stops, GradientStop{Pos: pos, Color: v})
			}
		}
	}
	sortStopsByPos(stops)
	if lin := n.Child("a:lin"); lin != nil {
		f.GradKind = GradientLinear
		f.AngleDeg = angleUnitsToDegrees(atoiOr(lin.AttrOr("ang", "0"), 0))
	} else if path := n.Child("a:path"); path != nil {
		f.GradKind = GradientRadial
		// Radial stops are reversed (1 - pos) per OOXML's edge-to-center
		// convention, spec.md §4.9.
		stops = reverseStops(stops)
		f.RadialCX, f.RadialCY = 0.5, 0.5
		if rect := path.Child("a:fillToRect"); rect != nil {
			l := percentStrToDecimal(rect.AttrOr("l", "0"))
			t := percentStrToDecimal(rect.AttrOr("t", "0"))
			r := percentStrToDecimal(rect.AttrOr("r", "0"))
			b := percentStrToDecimal(rect.AttrOr("b", "0"))
			f.RadialCX = (1 + l - r) / 2
			f.RadialCY = (1 + t - b) / 2
		}
	}
	f.Stops = stops
	return f
}

func sortStopsByPos(stops []GradientStop) {
	for i := 1; i < len(stops); i++ {
		for j := i; j > 0 && stops[j-1].Pos > stops[j].Pos; j-- {
			stops[j-1], stops[j] = stops[j], stops[j-1]
		}
	}
}

func reverseStops(stops []GradientStop) []GradientStop {
	out := make([]GradientStop, len(stops))
	for i, s := range stops {
		out[len(stops)-1-i] = GradientStop{Pos: 1 - s.Pos, Color: s.Color}
	}
	sortStopsByPos(out)
	return out
}

func parseBlipFill(n *Node) *Fill {
	f := &Fill{Kind: FillKindPicture}
	if blip := n.Child("a:blip"); blip != nil {
		f.PictureRelID = blip.AttrOr("r:embed", blip.AttrOr("r:link", ""))
	}
	if sr := n.Child("a:srcRect"); sr != nil {
		f.SrcRectL = percentStrToDecimal(sr.AttrOr("l", "0"))
		f.SrcRectT = percentStrToDecimal(sr.AttrOr("t", "0"))
		f.SrcRectR = percentStrToDecimal(sr.AttrOr("r", "0"))
		f.SrcRectB = percentStrToDecimal(sr.AttrOr("b", "0"))
	}
	if st := n.Child("a:stretch"); st != nil {
		f.Stretch = true
		if fr := st.Child("a:fillRect"); fr != nil {
			f.FillRectL = percentStrToDecimal(fr.AttrOr("l", "0"))
			f.FillRectT = percentStrToDecimal(fr.AttrOr("t", "0"))
			f.FillRectR = percentStrToDecimal(fr.AttrOr("r", "0"))
			f.FillRectB = percentStrToDecimal(fr.AttrOr("b", "0"))
		}
	}
	if tile := n.Child("a:tile"); tile != nil {
		f.Tile = true
		f.TileSX = percentStrToDecimal(tile.AttrOr("sx", "100000"))
		f.TileSY = percentStrToDecimal(tile.AttrOr("sy", "100000"))
		f.TileAlign = tile.AttrOr("algn", "tl")
		f.TileFlip = tile.AttrOr("flip", "")
	}
	return f
}

// ColorAt implements FillColorSource for a resolved Fill over a device-
// space rect (box is in the space scanFill samples ColorAt in; for a
// rotated shape paintShape passes the axis-aligned device bounding box, so
// the gradient axis does not turn with the shape).
type fillSource struct {
	fill *Fill
	box  Rect
}

func newFillSource(f *Fill, box Rect) FillColorSource {
	switch f.Kind {
	case FillKindSolid:
		return solidSource(f.Solid)
	case FillKindPattern:
		return solidSource(f.PatternFg)
	case FillKindGradient:
		return fillSource{fill: f, box: box}
	default:
		return solidSource(RGBA{})
	}
}

func (s fillSource) ColorAt(x, y float64) RGBA {
	f := s.fill
	if len(f.Stops) == 0 {
		return RGBA{}
	}
	var t float64
	switch f.GradKind {
	case GradientLinear:
		t = linearGradientT(s.box, f.AngleDeg, x, y)
	case GradientRadial:
		t = radialGradientT(s.box, f.RadialCX, f.RadialCY, x, y)
	}
	return sampleStops(f.Stops, t)
}

// linearGradientT computes the gradient parameter for point (x,y) within
// box at angle angleDeg, per spec.md §4.9. In the canvas's y-down pixel
// space 0deg runs top-to-bottom and 90deg runs left-to-right. The gradient
// line direction is (cos phi, sin phi)
// with phi = 90-angle; t is the box's four corners projected onto that
// direction and normalized to their min/max, so the gradient spans exactly
// the box's width for an axis-aligned horizontal angle, its height for a
// vertical one, and the full diagonal only when the angle actually runs
// corner-to-corner — not a fixed diagonal length regardless of angle.
func linearGradientT(box Rect, angleDeg float64, x, y float64) float64 {
	phi := (90 - angleDeg) * math.Pi / 180
	dirX, dirY := math.Cos(phi), math.Sin(phi)
	corners := [4]Point{
		{box.X, box.Y}, {box.X + box.W, box.Y},
		{box.X, box.Y + box.H}, {box.X + box.W, box.Y + box.H},
	}
	minP, maxP := math.Inf(1), math.Inf(-1)
	for _, p := range corners {
		proj := p.X*dirX + p.Y*dirY
		minP = math.Min(minP, proj)
		maxP = math.Max(maxP, proj)
	}
	if maxP == minP {
		return 0
	}
	proj := x*dirX + y*dirY
	return clamp01((proj - minP) / (maxP - minP))
}

func radialGradientT(box Rect, cxFrac, cyFrac float64, x, y float64) float64 {
	cx := box.X + box.W*cxFrac
	cy := box.Y + box.H*cyFrac
	maxR := math.Hypot(math.Max(cx-box.X, box.X+box.W-cx), math.Max(cy-box.Y, box.Y+box.H-cy))
	if maxR == 0 {
		return 0
	}
	r := math.Hypot(x-cx, y-cy)
	return clamp01(r / maxR)
}

func sampleStops(stops []GradientStop, t float64) RGBA {
	if t <= stops[0].Pos {
		return stops[0].Color
	}
	last := stops[len(stops)-1]
	if t >= last.Pos {
		return last.Color
	}
	for i := 0; i+1 < len(stops); i++ {
		a, b := stops[i], stops[i+1]
		if t >= a.Pos && t <= b.Pos {
			span := b.Pos - a.Pos
			if span == 0 {
				return a.Color
			}
			f := (t - a.Pos) / span
			return RGBA{
				R: lerpByte(a.Color.R, b.Color.R, f),
				G: lerpByte(a.Color.G, b.Color.G, f),
				B: lerpByte(a.Color.B, b.Color.B, f),
				A: lerpByte(a.Color.A, b.Color.A, f),
			}
		}
	}
	return last.Color
}

func lerpByte(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

// parseStroke parses a:ln into a Stroke, converting width from EMU through
// scale (spec.md §4.9 picks X for horizontal-dominant, Y for
// vertical-dominant shapes; we use the average of X/Y scale, which matches
// uniform-scale renders and degrades gracefully otherwise) and floors the
// result to 0.5px.
func parseStroke(ln *Node, theme *ColorScheme, scale Scale) (*Stroke, bool) {
	if ln == nil {
		return nil, false
	}
	if ln.Child("a:noFill") != nil {
		return nil, false
	}
	s := &Stroke{Cap: "flat", Join: "round"}
	widthEMU := int64(atoiOr(ln.AttrOr("w", "12700"), 12700))
	avgScale := (scale.X + scale.Y) / 2
	s.WidthPx = math.Max(0.5, float64(widthEMU)/emuPerInch*defaultDPI*avgScale)
	if c := ln.Child("a:solidFill"); c != nil {
		if v, ok := resolveColorNode(c, theme, nil); ok {
			s.Color = v
		}
	} else {
		s.Color = RGBA{A: 255}
	}
	switch ln.AttrOr("cap", "flat") {
	case "rnd":
		s.Cap = "round"
	case "sq":
		s.Cap = "square"
	default:
		s.Cap = "flat"
	}
	if join := ln.Child("a:round"); join != nil {
		s.Join = "round"
		_ = join
	} else if join := ln.Child("a:bevel"); join != nil {
		s.Join = "bevel"
		_ = join
	} else if join := ln.Child("a:miter"); join != nil {
		s.Join = "miter"
		_ = join
	}
	if pd := ln.Child("a:prstDash"); pd != nil {
		s.Dash = dashPatternFor(pd.AttrOr("val", "solid"), s.WidthPx)
	}
	if he := ln.Child("a:headEnd"); he != nil {
		s.HeadEnd = &LineEndMarker{Type: he.AttrOr("type", "none"), Len: he.AttrOr("len", "med"), Wid: he.AttrOr("w", "med")}
	}
	if te := ln.Child("a:tailEnd"); te != nil {
		s.TailEnd = &LineEndMarker{Type: te.AttrOr("type", "none"), Len: te.AttrOr("len", "med"), Wid: te.AttrOr("w", "med")}
	}
	return s, true
}

func dashPatternFor(preset string, widthPx float64) []float64 {
	w := widthPx
	switch preset {
	case "dash":
		return []float64{4 * w, 3 * w}
	case "dashDot":
		return []float64{4 * w, 3 * w, w, 3 * w}
	case "dot":
		return []float64{w, 3 * w}
	case "lgDash":
		return []float64{8 * w, 3 * w}
	case "lgDashDot":
		return []float64{8 * w, 3 * w, w, 3 * w}
	case "lgDashDotDot":
		return []float64{8 * w, 3 * w, w, 3 * w, w, 3 * w}
	case "sysDash":
		return []float64{2 * w, 2 * w}
	case "sysDot":
		return []float64{w, 2 * w}
	default:
		return nil
	}
}
