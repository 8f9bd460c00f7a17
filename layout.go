package gopresentation

import "golang.org/x/image/font"

// PositionedRun is one laid-out run, ready to hand to the canvas: baseline
// origin, glyph face, color, and decoration flags.
type PositionedRun struct {
	X, Y           float64
	Text           string
	Face           font.Face
	Color          RGBA
	Underline      bool
	Strike         bool
	WidthPx        float64
	BaselineOffset float64
}

// PositionedBullet is a laid-out bullet glyph for the first line of a
// paragraph.
type PositionedBullet struct {
	X, Y  float64
	Text  string
	Face  font.Face
	Color RGBA
}

// LayoutResult is everything the shape orchestrator needs to paint a text
// body: positioned runs and bullets, plus the total content height
// (pre-anchor-shift) for callers that need it.
type LayoutResult struct {
	Runs          []PositionedRun
	Bullets       []PositionedBullet
	ContentHeight float64
}

// LayoutTextBody assembles tb into positioned runs/bullets within bounds
// (already in pixel space), per spec.md §4.14.
func LayoutTextBody(tb *TextBody, bounds Rect, scale Scale, fonts *FontCache, fontScheme *FontScheme, wrapper *WordWrapper, defaultColor RGBA) LayoutResult {
	if tb == nil || len(tb.Paragraphs) == 0 {
		return LayoutResult{}
	}

	insetL := float64(tb.InsetL) * scale.X / emuPerInch * defaultDPI
	insetT := float64(tb.InsetT) * scale.Y / emuPerInch * defaultDPI
	insetR := float64(tb.InsetR) * scale.X / emuPerInch * defaultDPI
	insetB := float64(tb.InsetB) * scale.Y / emuPerInch * defaultDPI
	inner := bounds.Inset(insetL, insetT, insetR, insetB)

	wrapMode := WrapWord
	if tb.WrapNone {
		wrapMode = WrapNone
	}

	fontScale := shrinkToFit(tb, inner, bounds.H, scale, fonts, fontScheme, wrapper, wrapMode)

	var counters bulletCounters
	var result LayoutResult
	y := inner.Y
	first := true

	for _, para := range tb.Paragraphs {
		effSize := para.DefaultProps.SizePt * fontScale
		baseLH := effSize * 1.2 * defaultDPI / 72 * scale.Y
		lh := baseLH
		if para.LineSpacePct > 0 {
			lh = baseLH * (para.LineSpacePct / 100) * (1 - tb.LnSpcReduction)
		} else if para.LineSpacePct < 0 {
			lh = (-para.LineSpacePct) * defaultDPI / 72 * scale.Y
		}

		marginLeftPx := float64(para.MarginLeftEMU) * scale.X / emuPerInch * defaultDPI
		textLeft := inner.X + marginLeftPx
		maxWidth := inner.X + inner.W - textLeft
		if maxWidth < 0 {
			maxWidth = 0
		}

		if !first {
			y += para.SpaceBeforePt * defaultDPI / 72 * scale.Y
		}

		subRuns := splitAtBreaks(para.Runs)
		paraLineCount := 0
		for si, sub := range subRuns {
			fragments := fragmentsFor(sub, fontScheme, fonts, fontScale, defaultColor)
			lines, _, _ := wrapper.Wrap(fragments, maxWidth, wrapModeFor(wrapMode, si, len(subRuns)))
			for _, line := range lines {
				lineLH := lh
				if line.Metrics.LineHeightPx > 0 && para.LineSpacePct > 0 {
					lineLH = line.Metrics.LineHeightPx * (para.LineSpacePct / 100) * scale.Y * (1 - tb.LnSpcReduction)
				}
				baseline := y + line.Metrics.AscentPx
				x := lineStartX(textLeft, maxWidth, line.WidthPx, para.Align)

				if paraLineCount == 0 && para.Bullet.Kind != BulletNone {
					ordinal := 1
					if para.Bullet.Kind == BulletAuto {
						ordinal = counters.next(para.Level)
					}
					glyph := renderBulletGlyph(para.Bullet, ordinal)
					bColor := defaultColor
					if para.Bullet.Color != nil {
						bColor = *para.Bullet.Color
					} else if len(line.Fragments) > 0 {
						bColor = line.Fragments[0].Props.Color
					}
					bSize := effSize * para.Bullet.SizePercent / 100
					bFamily := para.Bullet.Font
					if bFamily == "" && len(line.Fragments) > 0 {
						bFamily = line.Fragments[0].Props.FontLatin
					}
					bFace := fonts.GetFaceChain(resolveFamilyChain(bFamily, fontScheme), bSize, false, false)
					result.Bullets = append(result.Bullets, PositionedBullet{
						X: textLeft - bulletIndentPx(para, scale), Y: baseline, Text: glyph, Face: bFace, Color: bColor,
					})
				}

				cx := x
				for _, f := range line.Fragments {
					result.Runs = append(result.Runs, PositionedRun{
						X: cx, Y: baseline, Text: f.Text, Face: f.Face, Color: f.Props.Color,
						Underline: f.Props.Underline, Strike: f.Props.Strike, WidthPx: f.WidthPx,
						BaselineOffset: f.Props.BaselineOffset,
					})
					cx += f.WidthPx
				}
				y += lineLH
				paraLineCount++
			}
		}
		y += para.SpaceAfterPt * defaultDPI / 72 * scale.Y
		first = false
	}

	result.ContentHeight = y - inner.Y
	shift := anchorShift(tb.Anchor, inner.H, result.ContentHeight)
	if shift != 0 {
		for i := range result.Runs {
			result.Runs[i].Y += shift
		}
		for i := range result.Bullets {
			result.Bullets[i].Y += shift
		}
	}
	return result
}

func wrapModeFor(base WrapMode, subIdx, subCount int) WrapMode {
	return base
}

// shrinkToFit implements PowerPoint's normAutofit auto-shrink. PowerPoint
// only bakes a non-100% fontScale into the deck after a user has actually
// triggered autofit in the editor; the common case on disk is
// fontScale absent (read as 1.0) with AutoFit true, meaning the renderer
// itself must compute the shrink PowerPoint would apply live. When that is
// the case, and text overflows inner.H, binary-search the largest scale
// that fits, mirroring the teacher's renderer.go shrink loop. A box with
// an explicit noAutofit that still overflows the full (uninset) box gets
// the same treatment, since Go's font metrics are often larger than the
// authoring environment's.
func shrinkToFit(tb *TextBody, inner Rect, fullH float64, scale Scale, fonts *FontCache, fontScheme *FontScheme, wrapper *WordWrapper, wrapMode WrapMode) float64 {
	if tb.FontScale != 1.0 || inner.W <= 0 {
		return tb.FontScale
	}
	switch {
	case tb.AutoFit:
		if inner.H <= 0 || measureParagraphsHeight(tb, inner.W, scale, fonts, fontScheme, wrapper, wrapMode, tb.FontScale) <= inner.H {
			return tb.FontScale
		}
		return binarySearchFontScale(tb, inner.W, inner.H, scale, fonts, fontScheme, wrapper, wrapMode)
	case tb.NoAutofit:
		if fullH <= 0 || measureParagraphsHeight(tb, inner.W, scale, fonts, fontScheme, wrapper, wrapMode, tb.FontScale) <= fullH {
			return tb.FontScale
		}
		return binarySearchFontScale(tb, inner.W, fullH, scale, fonts, fontScheme, wrapper, wrapMode)
	default:
		return tb.FontScale
	}
}

// binarySearchFontScale finds the largest fontScale in [0.1, 1.0] whose
// measured height fits targetH, 10 bisections deep — the same iteration
// count and bounds the teacher's shrink loop uses.
func binarySearchFontScale(tb *TextBody, maxWidth, targetH float64, scale Scale, fonts *FontCache, fontScheme *FontScheme, wrapper *WordWrapper, wrapMode WrapMode) float64 {
	lo, hi := 0.1, 1.0
	for i := 0; i < 10; i++ {
		mid := (lo + hi) / 2
		if measureParagraphsHeight(tb, maxWidth, scale, fonts, fontScheme, wrapper, wrapMode, mid) > targetH {
			hi = mid
		} else {
			lo = mid
		}
	}
	return lo
}

// measureParagraphsHeight computes the total laid-out height of tb's
// paragraphs at the given fontScale within maxWidth, without producing
// positioned runs — the cheap probe the shrink search repeats against.
func measureParagraphsHeight(tb *TextBody, maxWidth float64, scale Scale, fonts *FontCache, fontScheme *FontScheme, wrapper *WordWrapper, wrapMode WrapMode, fontScale float64) float64 {
	y := 0.0
	first := true
	for _, para := range tb.Paragraphs {
		effSize := para.DefaultProps.SizePt * fontScale
		baseLH := effSize * 1.2 * defaultDPI / 72 * scale.Y
		lh := baseLH
		if para.LineSpacePct > 0 {
			lh = baseLH * (para.LineSpacePct / 100) * (1 - tb.LnSpcReduction)
		} else if para.LineSpacePct < 0 {
			lh = (-para.LineSpacePct) * defaultDPI / 72 * scale.Y
		}

		marginLeftPx := float64(para.MarginLeftEMU) * scale.X / emuPerInch * defaultDPI
		lineMaxWidth := maxWidth - marginLeftPx
		if lineMaxWidth < 0 {
			lineMaxWidth = 0
		}

		if !first {
			y += para.SpaceBeforePt * defaultDPI / 72 * scale.Y
		}

		subRuns := splitAtBreaks(para.Runs)
		for _, sub := range subRuns {
			fragments := fragmentsFor(sub, fontScheme, fonts, fontScale, RGBA{})
			lines, _, _ := wrapper.Wrap(fragments, lineMaxWidth, wrapMode)
			for _, line := range lines {
				lineLH := lh
				if line.Metrics.LineHeightPx > 0 && para.LineSpacePct > 0 {
					lineLH = line.Metrics.LineHeightPx * (para.LineSpacePct / 100) * scale.Y * (1 - tb.LnSpcReduction)
				}
				y += lineLH
			}
		}
		y += para.SpaceAfterPt * defaultDPI / 72 * scale.Y
		first = false
	}
	return y
}

func splitAtBreaks(runs []Run) [][]Run {
	var out [][]Run
	var cur []Run
	for _, r := range runs {
		if r.Kind == RunBreak {
			out = append(out, cur)
			cur = nil
			continue
		}
		cur = append(cur, r)
	}
	out = append(out, cur)
	return out
}

func fragmentsFor(runs []Run, fontScheme *FontScheme, fonts *FontCache, fontScale float64, defaultColor RGBA) []Fragment {
	var out []Fragment
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		size := r.Props.SizePt * fontScale
		families := resolveFamilyChain(r.Props.FontLatin, fontScheme)
		face := fonts.GetMeasureFaceChain(families, size, r.Props.Bold, r.Props.Italic)
		props := r.Props
		if props.Color == (RGBA{}) {
			props.Color = defaultColor
		}
		out = append(out, Fragment{Text: r.Text, Props: props, Face: face})
	}
	return out
}

// lineStartX computes a line's left edge for align. Justify/distributed
// fall back to left (the default case) since true justification is not
// implemented, per spec.md §4.14.
func lineStartX(left, maxWidth, lineWidth float64, align Align) float64 {
	switch align {
	case AlignCenter:
		return left + (maxWidth-lineWidth)/2
	case AlignRight:
		return left + maxWidth - lineWidth
	default:
		return left
	}
}

// anchorShift returns the vertical offset applied to the whole laid-out
// block for the body's vertical anchor, never negative (spec.md §4.14).
func anchorShift(a VAnchor, containerH, contentH float64) float64 {
	switch a {
	case AnchorMiddle:
		s := (containerH - contentH) / 2
		if s < 0 {
			return 0
		}
		return s
	case AnchorBottom:
		s := containerH - contentH
		if s < 0 {
			return 0
		}
		return s
	default:
		return 0
	}
}
