package gopresentation

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
)

// VAnchor is the vertical text anchor within a shape's text box.
type VAnchor int

const (
	AnchorTop VAnchor = iota
	AnchorMiddle
	AnchorBottom
)

// Align is paragraph horizontal alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
	AlignJustify
	AlignDistributed
)

// BulletKind tags which bullet variant a paragraph carries.
type BulletKind int

const (
	BulletNone BulletKind = iota
	BulletChar
	BulletAuto
	BulletPicture
)

// Bullet is the resolved bullet for one paragraph.
type Bullet struct {
	Kind        BulletKind
	Char        string
	AutoType    string // "arabicPeriod", "romanUcPeriod", "alphaLcParenR", ...
	StartAt     int
	Color       *RGBA
	SizePercent float64 // 100 == inherit run size
	Font        string
	PictureRelID string
}

// RunProps is the resolved, field-by-field-merged set of run properties.
type RunProps struct {
	FontLatin, FontEA, FontCS string
	SizePt                    float64
	Bold, Italic              bool
	Underline                 bool
	Strike                    bool
	Color                     RGBA
	BaselineOffset            float64 // fraction of font size, sub/superscript
}

// runPropsSetMask tracks which fields of a RunProps were explicitly set by
// the XML node that produced it, so a later cascade step (paragraph
// defaults over list-style, run over paragraph defaults) only overrides
// fields the more specific level actually specified (spec.md §4.10
// "field-by-field override of optional values").
type runPropsSetMask struct {
	latin, ea, cs, size, bold, italic, underline, strike, color, baseline bool
}

// RunKind tags Run variants: literal text, field code, or explicit break.
type RunKind int

const (
	RunText RunKind = iota
	RunField
	RunBreak
)

// Run is one a:r / a:fld / a:br with its merged effective properties.
type Run struct {
	Kind  RunKind
	Text  string
	Props RunProps
}

// Paragraph is one a:p: its bullet, effective default run props, alignment,
// spacing, indent, and ordered runs.
type Paragraph struct {
	Level         int
	Align         Align
	Bullet        Bullet
	DefaultProps  RunProps
	Runs          []Run
	MarginLeftEMU int64
	IndentEMU     int64 // first-line indent, relative to MarginLeftEMU
	SpaceBeforePt float64
	SpaceAfterPt  float64
	LineSpacePct  float64 // >0 => percent of baseLH; <0 => -value is fixed points
}

// TextBody is a parsed a:txBody.
type TextBody struct {
	Anchor       VAnchor
	InsetL, InsetT, InsetR, InsetB int64
	RotationDeg  float64
	Paragraphs   []Paragraph
	AutoFit      bool    // normAutofit present
	NoAutofit    bool    // explicit noAutofit present
	FontScale    float64 // 1.0 == no shrink
	LnSpcReduction float64
	WrapNone     bool
}

const defaultInsetEMU = 91440

// parseTextBody parses a p:txBody or a:txBody node, merging list-style
// defaults (lstStyle at level+1) into each paragraph's defRPr, then each
// run's rPr over that.
func parseTextBody(txBody *Node, theme *ColorScheme, lstStyle *Node) *TextBody {
	if txBody == nil {
		return nil
	}
	tb := &TextBody{
		Anchor: AnchorTop,
		InsetL: defaultInsetEMU, InsetT: defaultInsetEMU / 2,
		InsetR: defaultInsetEMU, InsetB: defaultInsetEMU / 2,
		FontScale: 1.0,
	}
	if bodyPr := txBody.Child("a:bodyPr"); bodyPr != nil {
		switch bodyPr.AttrOr("anchor", "t") {
		case "ctr":
			tb.Anchor = AnchorMiddle
		case "b":
			tb.Anchor = AnchorBottom
		default:
			tb.Anchor = AnchorTop
		}
		tb.InsetL = emuAttrOr(bodyPr, "lIns", defaultInsetEMU)
		tb.InsetT = emuAttrOr(bodyPr, "tIns", defaultInsetEMU/2)
		tb.InsetR = emuAttrOr(bodyPr, "rIns", defaultInsetEMU)
		tb.InsetB = emuAttrOr(bodyPr, "bIns", defaultInsetEMU/2)
		if rot, ok := bodyPr.Attr("rot"); ok {
			tb.RotationDeg = angleUnitsToDegrees(atoiOr(rot, 0))
		}
		if bodyPr.Child("a:noAutofit") != nil {
			tb.NoAutofit = true
		} else if na := bodyPr.Child("a:normAutofit"); na != nil {
			tb.AutoFit = true
			tb.FontScale = percentStrToDecimal(na.AttrOr("fontScale", "100000"))
			if tb.FontScale <= 0 {
				tb.FontScale = 1.0
			}
			tb.LnSpcReduction = percentStrToDecimal(na.AttrOr("lnSpcReduction", "0"))
		}
		tb.WrapNone = bodyPr.AttrOr("wrap", "square") == "none"
	}
	for _, p := range txBody.ChildrenNamed("a:p") {
		tb.Paragraphs = append(tb.Paragraphs, parseParagraph(p, theme, lstStyle))
	}
	return tb
}

func emuAttrOr(n *Node, attr string, def int64) int64 {
	v, ok := n.Attr(attr)
	if !ok {
		return def
	}
	return int64(atoiOr(v, int(def)))
}

func parseParagraph(p *Node, theme *ColorScheme, lstStyle *Node) Paragraph {
	para := Paragraph{Align: AlignLeft, LineSpacePct: 100}
	pPr := p.Child("a:pPr")
	if pPr != nil {
		if lvl, ok := pPr.Attr("lvl"); ok {
			para.Level = atoiOr(lvl, 0)
		}
		switch pPr.AttrOr("algn", "") {
		case "ctr":
			para.Align = AlignCenter
		case "r":
			para.Align = AlignRight
		case "just":
			para.Align = AlignJustify
		case "dist":
			para.Align = AlignDistributed
		}
		para.MarginLeftEMU = emuAttrOr(pPr, "marL", 0)
		para.IndentEMU = emuAttrOr(pPr, "indent", 0)
		if spc := pPr.Child("a:lnSpc"); spc != nil {
			para.LineSpacePct = parseSpacing(spc)
		}
		if spc := pPr.Child("a:spcBef"); spc != nil {
			para.SpaceBeforePt = spacingToPoints(spc)
		}
		if spc := pPr.Child("a:spcAft"); spc != nil {
			para.SpaceAfterPt = spacingToPoints(spc)
		}
	}

	levelDefaults := lstStyleLevel(lstStyle, para.Level)
	base, baseSet := parseRunProps(levelDefaults, theme, RunProps{SizePt: 18}, runPropsSetMask{})
	var defSet runPropsSetMask
	if pPr != nil {
		if defRPr := pPr.Child("a:defRPr"); defRPr != nil {
			base, defSet = parseRunProps(defRPr, theme, base, baseSet)
		}
	}
	para.DefaultProps = base

	para.Bullet = parseBulletProps(pPr, theme, para.DefaultProps)

	for _, child := range p.Children {
		switch child.Name {
		case "a:r":
			rPr := child.Child("a:rPr")
			props, _ := parseRunProps(rPr, theme, para.DefaultProps, defSet)
			text := ""
			if t := child.Child("a:t"); t != nil {
				text = t.Text
			}
			para.Runs = append(para.Runs, Run{Kind: RunText, Text: text, Props: props})
		case "a:fld":
			rPr := child.Child("a:rPr")
			props, _ := parseRunProps(rPr, theme, para.DefaultProps, defSet)
			text := ""
			if t := child.Child("a:t"); t != nil {
				text = decodeLegacyFieldText(t.Text)
			}
			para.Runs = append(para.Runs, Run{Kind: RunField, Text: text, Props: props})
		case "a:br":
			rPr := child.Child("a:rPr")
			props, _ := parseRunProps(rPr, theme, para.DefaultProps, defSet)
			para.Runs = append(para.Runs, Run{Kind: RunBreak, Text: "\n", Props: props})
		}
	}
	return para
}

// lstStyleLevel returns the a:lvlNpPr (1-based, N = level+1) child of
// lstStyle for the given 0-based level, or nil.
func lstStyleLevel(lstStyle *Node, level int) *Node {
	if lstStyle == nil {
		return nil
	}
	tag := []string{"a:lvl1pPr", "a:lvl2pPr", "a:lvl3pPr", "a:lvl4pPr", "a:lvl5pPr",
		"a:lvl6pPr", "a:lvl7pPr", "a:lvl8pPr", "a:lvl9pPr"}
	if level < 0 || level >= len(tag) {
		return nil
	}
	n := lstStyle.Child(tag[level])
	if n == nil {
		return nil
	}
	return n.Child("a:defRPr")
}

// parseRunProps parses an a:rPr/a:defRPr node, merging over base using
// baseSet to track which fields base already had explicitly set so
// cascaded merges compose correctly.
func parseRunProps(n *Node, theme *ColorScheme, base RunProps, baseSet runPropsSetMask) (RunProps, runPropsSetMask) {
	if n == nil {
		return base, baseSet
	}
	out := base
	set := baseSet
	if sz, ok := n.Attr("sz"); ok {
		out.SizePt = centipointsToPoints(atoiOr(sz, int(base.SizePt*100)))
		set.size = true
	}
	if b, ok := n.Attr("b"); ok {
		out.Bold = b == "1"
		set.bold = true
	}
	if i, ok := n.Attr("i"); ok {
		out.Italic = i == "1"
		set.italic = true
	}
	if u, ok := n.Attr("u"); ok {
		out.Underline = u != "none" && u != ""
		set.underline = true
	}
	if strike, ok := n.Attr("strike"); ok {
		out.Strike = strike != "noStrike" && strike != ""
		set.strike = true
	}
	if base_, ok := n.Attr("baseline"); ok {
		out.BaselineOffset = percentStrToDecimal(base_)
		set.baseline = true
	}
	if latin := n.Child("a:latin"); latin != nil {
		if tf, ok := latin.Attr("typeface"); ok {
			out.FontLatin = tf
			set.latin = true
		}
	}
	if ea := n.Child("a:ea"); ea != nil {
		if tf, ok := ea.Attr("typeface"); ok {
			out.FontEA = tf
			set.ea = true
		}
	}
	if cs := n.Child("a:cs"); cs != nil {
		if tf, ok := cs.Attr("typeface"); ok {
			out.FontCS = tf
			set.cs = true
		}
	}
	if fill := n.Child("a:solidFill"); fill != nil {
		if v, ok := resolveColorNode(fill, theme, nil); ok {
			out.Color = v
			set.color = true
		}
	}
	return out, set
}

// parseSpacing returns a positive percent (e.g. 100 == single spacing) or a
// negative number whose absolute value is a fixed line height in points,
// per spec.md §4.10's "signalled by returning negative" rule.
func parseSpacing(n *Node) float64 {
	if pct := n.Child("a:spcPct"); pct != nil {
		return percentStrToDecimal(pct.AttrOr("val", "100000")) * 100
	}
	if pts := n.Child("a:spcPts"); pts != nil {
		return -centipointsToPoints(atoiOr(pts.AttrOr("val", "0"), 0))
	}
	return 100
}

func spacingToPoints(n *Node) float64 {
	if pts := n.Child("a:spcPts"); pts != nil {
		return centipointsToPoints(atoiOr(pts.AttrOr("val", "0"), 0))
	}
	return 0
}

func parseBulletProps(pPr *Node, theme *ColorScheme, defaults RunProps) Bullet {
	b := Bullet{SizePercent: 100}
	if pPr == nil {
		return b
	}
	if pPr.Child("a:buNone") != nil {
		b.Kind = BulletNone
		return b
	}
	if sz := pPr.Child("a:buSzPct"); sz != nil {
		b.SizePercent = percentStrToDecimal(sz.AttrOr("val", "100000")) * 100
	}
	if clr := pPr.Child("a:buClr"); clr != nil {
		if v, ok := resolveColorNode(clr, theme, nil); ok {
			b.Color = &v
		}
	}
	if font := pPr.Child("a:buFont"); font != nil {
		b.Font = font.AttrOr("typeface", "")
	}
	if auto := pPr.Child("a:buAutoNum"); auto != nil {
		b.Kind = BulletAuto
		b.AutoType = auto.AttrOr("type", "arabicPeriod")
		b.StartAt = 1
		if sa, ok := auto.Attr("startAt"); ok {
			b.StartAt = atoiOr(sa, 1)
		}
		return b
	}
	if char := pPr.Child("a:buChar"); char != nil {
		b.Kind = BulletChar
		b.Char = char.AttrOr("char", "•")
		return b
	}
	if blip := pPr.Child("a:buBlip"); blip != nil {
		b.Kind = BulletPicture
		if bl := blip.Child("a:blip"); bl != nil {
			b.PictureRelID = bl.AttrOr("r:embed", "")
		}
		return b
	}
	return b
}

// decodeLegacyFieldText handles a:fld bodies saved by older authoring
// tools that emitted raw GBK bytes inside the XML text node instead of
// valid UTF-8 (seen in slide decks re-saved by legacy Chinese PowerPoint
// builds). Valid UTF-8 passes through unchanged.
func decodeLegacyFieldText(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	decoded, err := simplifiedchinese.GBK.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return decoded
}

// plainText concatenates a TextBody's run text, used by components (e.g.
// chart fallback labels) that just need the raw string.
func (tb *TextBody) plainText() string {
	var sb strings.Builder
	for _, p := range tb.Paragraphs {
		for _, r := range p.Runs {
			sb.WriteString(r.Text)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
