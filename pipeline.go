package gopresentation

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
)

// RenderSlide renders one slide (0-based index) per spec.md §4.19.
// InvalidSlideIndex is returned as a non-fatal SlideResult, matching the
// §7 propagation policy ("returned in the slide result; other slides
// continue").
func (p *Presentation) RenderSlide(ctx context.Context, index int, opts *RenderOptions) SlideResult {
	opts = opts.normalized()
	log := opts.logger()

	if index < 0 || index >= len(p.Slides) {
		err := fmt.Errorf("%w: %d", ErrInvalidSlideIndex, index)
		return SlideResult{Index: index, Success: false, ErrorMessage: err.Error(), Err: err}
	}
	if err := ctx.Err(); err != nil {
		return SlideResult{Index: index, Success: false, ErrorMessage: err.Error(), Err: err}
	}

	slideMember := p.Slides[index].Member
	result, err := p.renderSlideTo(ctx, slideMember, opts, log)
	if err != nil {
		return SlideResult{Index: index, Success: false, ErrorMessage: err.Error(), Err: err}
	}
	return SlideResult{
		Index:   index,
		Image:   result,
		Width:   result.Width,
		Height:  result.Height,
		Success: true,
	}
}

// RenderAll renders every slide in document order, honoring cancellation
// between slides (spec.md §5 "Cancellation").
func (p *Presentation) RenderAll(ctx context.Context, opts *RenderOptions) *PresentationResult {
	pr := &PresentationResult{Total: len(p.Slides)}
	for i := range p.Slides {
		if err := ctx.Err(); err != nil {
			pr.Slides = append(pr.Slides, SlideResult{Index: i, Success: false, ErrorMessage: err.Error(), Err: err})
			continue
		}
		res := p.RenderSlide(ctx, i, opts)
		if res.Success {
			pr.Successful++
		}
		pr.Slides = append(pr.Slides, res)
	}
	pr.AllSuccessful = pr.Successful == pr.Total
	return pr
}

// RenderPresentationBytes opens data as a PPTX and renders every slide,
// closing the archive before returning. ArchiveOpenFailed/
// InvalidPresentation fail the entire call, per spec.md §7.
func RenderPresentationBytes(ctx context.Context, data []byte, opts *RenderOptions) (*PresentationResult, error) {
	p, err := OpenPresentation(data)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.RenderAll(ctx, opts), nil
}

func (p *Presentation) renderSlideTo(ctx context.Context, slideMember string, opts *RenderOptions, log Logger) (*RenderedImage, error) {
	slideText, err := p.archive.ReadText(slideMember)
	if err != nil {
		return nil, err
	}
	slideRoot, err := ParseOrdered(slideText)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrXMLParseFailed, slideMember, err)
	}
	if slideRoot.Name != "p:sld" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPresentation, slideMember)
	}
	slideCSld := slideRoot.Child("p:cSld")
	spTree := childSpTree(slideCSld)
	if spTree == nil {
		return nil, fmt.Errorf("%w: %s: missing p:spTree", ErrInvalidPresentation, slideMember)
	}

	layoutMember, masterMember := slideLayoutMaster(p.rels, slideMember)
	layoutCSld, layoutPlaceholders := p.loadPlaceholderLevel(layoutMember, log)
	masterCSld, masterPlaceholders := p.loadPlaceholderLevel(masterMember, log)

	width, height := targetPixelSize(p.SlideWidthEMU, p.SlideHeightEMU, opts.Width, opts.Height)
	scale := calcScale(p.SlideWidthEMU, p.SlideHeightEMU, width, height)
	canvas := NewCanvas(width, height)

	bg := resolveSlideBackground(slideCSld, layoutCSld, masterCSld, &p.Theme, slideMember, layoutMember, masterMember)
	if opts.BackgroundColor != nil {
		bg = bgResolution{Fill: &Fill{Kind: FillKindSolid, Solid: RGBA(*opts.BackgroundColor)}}
	}
	images := NewImageEngine()
	paintBackground(canvas, bg, p.archive, p.rels, images, width, height, log)

	fc := opts.FontCache
	if fc == nil {
		fc = NewFontCache(opts.FontDirs...)
	}
	wrapper := NewWordWrapper(fc)

	sctx := &ShapeContext{
		Theme:              &p.Theme.Colors,
		Fonts:              &p.Theme.Fonts,
		FontCache:          fc,
		Wrapper:            wrapper,
		Scale:              scale,
		Archive:            p.archive,
		Images:             images,
		Rels:               p.rels,
		SlideMember:        slideMember,
		LayoutPlaceholders: layoutPlaceholders,
		MasterPlaceholders: masterPlaceholders,
	}

	for _, el := range spTree.Children {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		renderTreeElement(canvas, el, sctx, ShapeTransform{}, ChildCoordBox{}, false)
	}

	if opts.DebugMode {
		drawDebugOverlay(canvas, spTree, sctx)
	}

	return encodeCanvas(canvas, opts)
}

// childSpTree finds p:cSld/p:spTree (slide/layout root) regardless of
// which concrete OOXML part cSld belongs to.
func childSpTree(cSld *Node) *Node {
	if cSld == nil {
		return nil
	}
	return cSld.Child("p:spTree")
}

// loadPlaceholderLevel reads and parses a slideLayout/slideMaster member
// (when non-empty), returning its p:cSld node and indexed placeholder
// shapes. A missing or unparsable member logs a warning and substitutes an
// empty level, per spec.md §7 ("MemberNotFound ... substitute defaults").
func (p *Presentation) loadPlaceholderLevel(member string, log Logger) (*Node, []PlaceholderShape) {
	if member == "" {
		return nil, nil
	}
	text, err := p.archive.ReadText(member)
	if err != nil {
		log.Warnf("placeholder level %s unreadable: %v", member, err)
		return nil, nil
	}
	root, err := ParseOrdered(text)
	if err != nil {
		log.Warnf("placeholder level %s unparsable: %v", member, err)
		return nil, nil
	}
	cSld := root.Child("p:cSld")
	return cSld, buildPlaceholderShapes(childSpTree(cSld))
}

var debugOverlayColor = RGBA{R: 255, G: 0, B: 0, A: 255}

// drawDebugOverlay strokes each top-level shape's own (non-inherited)
// transform box, a diagnostic aid rather than a pixel-exact overlay:
// placeholder-inherited transforms are not resolved here.
func drawDebugOverlay(canvas *Canvas, spTree *Node, sctx *ShapeContext) {
	for _, el := range spTree.Children {
		box, ok := topLevelXfrmBox(el, sctx.Scale)
		if !ok {
			continue
		}
		canvas.StrokePath([]PathSegment{
			MoveTo(Point{box.X, box.Y}),
			LineTo(Point{box.X + box.W, box.Y}),
			LineTo(Point{box.X + box.W, box.Y + box.H}),
			LineTo(Point{box.X, box.Y + box.H}),
			Close(),
		}, debugOverlayColor, 1, nil)
	}
}

func topLevelXfrmBox(el *Node, scale Scale) (Rect, bool) {
	var xfrmHolder *Node
	switch el.Name {
	case "p:sp", "p:cxnSp", "p:pic":
		if spPr := el.Child("p:spPr"); spPr != nil {
			xfrmHolder = spPr.Child("a:xfrm")
		}
	case "p:grpSp":
		if grpSpPr := el.Child("p:grpSpPr"); grpSpPr != nil {
			xfrmHolder = grpSpPr.Child("a:xfrm")
		}
	case "p:graphicFrame":
		xfrmHolder = el.Child("p:xfrm")
	}
	if xfrmHolder == nil {
		return Rect{}, false
	}
	return parseXfrm(xfrmHolder).ToPixels(scale).Rect(), true
}

func encodeCanvas(canvas *Canvas, opts *RenderOptions) (*RenderedImage, error) {
	img := canvas.Image()
	var buf bytes.Buffer
	switch opts.Format {
	case ImageFormatJPEG:
		if err := jpeg.Encode(&buf, flattenAlpha(img), &jpeg.Options{Quality: opts.JPEGQuality}); err != nil {
			return nil, err
		}
	default:
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	}
	b := img.Bounds()
	return &RenderedImage{
		Bytes:  buf.Bytes(),
		Format: opts.Format,
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// flattenAlpha composites img over opaque white: JPEG carries no alpha
// channel, so transparent pixels would otherwise encode as black.
func flattenAlpha(img *image.RGBA) image.Image {
	flat := image.NewRGBA(img.Bounds())
	draw.Draw(flat, flat.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), img, img.Bounds().Min, draw.Over)
	return flat
}
