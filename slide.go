package gopresentation

import "image/color"

// bgResolution is a slide's resolved background fill plus the archive
// member whose .rels a picture fill's relationship id must be resolved
// against (spec.md §4.19: "track which source level contributed").
type bgResolution struct {
	Fill         *Fill
	SourceMember string
}

// resolveSlideBackground walks slide, then layout, then master p:bg
// elements in that order, substituting a white solid fill when none of the
// three carries one (spec.md §8 boundary behavior).
func resolveSlideBackground(slideCSld, layoutCSld, masterCSld *Node, theme *Theme, slideMember, layoutMember, masterMember string) bgResolution {
	type level struct {
		cSld   *Node
		member string
	}
	for _, lv := range []level{{slideCSld, slideMember}, {layoutCSld, layoutMember}, {masterCSld, masterMember}} {
		if lv.cSld == nil {
			continue
		}
		bg := lv.cSld.Child("p:bg")
		if bg == nil {
			continue
		}
		if f, ok := bgFillFromNode(bg, &theme.Colors, theme.BgFillStyle); ok {
			return bgResolution{Fill: f, SourceMember: lv.member}
		}
	}
	return bgResolution{Fill: &Fill{Kind: FillKindSolid, Solid: RGBA{R: 255, G: 255, B: 255, A: 255}}}
}

func bgFillFromNode(bg *Node, theme *ColorScheme, themeBg []RGBA) (*Fill, bool) {
	if pr := bg.Child("p:bgPr"); pr != nil {
		if pr.Child("a:noFill") != nil {
			return &Fill{Kind: FillKindNone}, true
		}
		if f, ok := parseFill(pr, theme, nil); ok {
			return f, true
		}
		return nil, false
	}
	if ref := bg.Child("p:bgRef"); ref != nil {
		idx := atoiOr(ref.AttrOr("idx", "0"), 0)
		if idx >= 1 && idx <= len(themeBg) {
			return &Fill{Kind: FillKindSolid, Solid: themeBg[idx-1]}, true
		}
	}
	return nil, false
}

// paintBackground fills canvas with res's resolved background, resolving a
// picture fill's relationship id against res.SourceMember's own .rels file.
// A decode failure substitutes white and logs a warning, per spec.md §7.
func paintBackground(canvas *Canvas, res bgResolution, archive *Archive, rels *relResolver, images *ImageEngine, w, h int, log Logger) {
	f := res.Fill
	fullRect := Rect{X: 0, Y: 0, W: float64(w), H: float64(h)}
	fullImgRect := rectToImageRect(fullRect)
	if f == nil || f.Kind == FillKindNone {
		return
	}
	switch f.Kind {
	case FillKindSolid:
		canvas.FillRect(fullImgRect, color.RGBA(f.Solid))
	case FillKindPattern:
		canvas.FillRect(fullImgRect, color.RGBA(f.PatternFg))
	case FillKindGradient:
		canvas.FillPath(rectPath(fullRect, AdjustValues{}), newFillSource(f, fullRect))
	case FillKindPicture:
		if res.SourceMember == "" {
			canvas.FillRect(fullImgRect, color.RGBA{R: 255, G: 255, B: 255, A: 255})
			return
		}
		imgPath, err := rels.Resolve(res.SourceMember, f.PictureRelID)
		if err != nil {
			log.Warnf("background image relationship missing: %v", err)
			canvas.FillRect(fullImgRect, color.RGBA{R: 255, G: 255, B: 255, A: 255})
			return
		}
		bmp, err := images.Load(archive, imgPath, res.SourceMember+"#"+f.PictureRelID)
		if err != nil {
			log.Warnf("background image decode failed: %v", err)
			canvas.FillRect(fullImgRect, color.RGBA{R: 255, G: 255, B: 255, A: 255})
			return
		}
		images.Render(canvas, bmp, f, fullRect)
	}
}

// buildPlaceholderShapes indexes a layout/master's p:cSld/p:spTree direct
// p:sp children for placeholder inheritance lookup (spec.md §4.18).
func buildPlaceholderShapes(spTree *Node) []PlaceholderShape {
	if spTree == nil {
		return nil
	}
	var out []PlaceholderShape
	for _, el := range spTree.ChildrenNamed("p:sp") {
		nvSpPr := el.Child("p:nvSpPr")
		key, ok := placeholderKey(nvSpPr)
		if !ok {
			continue
		}
		ps := PlaceholderShape{Type: key.Type, Idx: key.Idx, HasIdx: key.HasIdx}
		spPr := el.Child("p:spPr")
		if spPr != nil {
			if xfrm := spPr.Child("a:xfrm"); xfrm != nil {
				ps.Transform = parseXfrm(xfrm)
				ps.HasXfrm = true
			}
			if g := spPr.Child("a:prstGeom"); g != nil {
				ps.Geometry = g
			} else if g := spPr.Child("a:custGeom"); g != nil {
				ps.Geometry = g
			}
			ps.SpPr = spPr
		}
		ps.TxBody = el.Child("p:txBody")
		out = append(out, ps)
	}
	return out
}

// slideLayoutMaster resolves a slide's layout path and that layout's master
// path via their respective rels files.
func slideLayoutMaster(rels *relResolver, slideMember string) (layoutMember, masterMember string) {
	layoutMember, _ = rels.ResolveByTypeSuffix(slideMember, relTypeSlideLayout)
	if layoutMember != "" {
		masterMember, _ = rels.ResolveByTypeSuffix(layoutMember, relTypeSlideMaster)
	}
	return layoutMember, masterMember
}
