package gopresentation

import (
	"archive/zip"
	"bytes"
	"context"
	"image/color"
	"image/png"
	"testing"
)

// buildMinimalPPTX assembles a single-slide deck in memory: root and
// presentation relationships are present, but there is no layout, master,
// or theme member, exercising the fallbacks for those (defaults, no error)
// and for an absent bg element (white).
func buildMinimalPPTX(t *testing.T, slideSpTree string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	write := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	write("_rels/.rels", `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>
</Relationships>`)

	write("ppt/presentation.xml", `<?xml version="1.0"?>
<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <p:sldIdLst>
    <p:sldId id="256" r:id="rId1"/>
  </p:sldIdLst>
  <p:sldSz cx="9144000" cy="6858000"/>
</p:presentation>`)

	write("ppt/_rels/presentation.xml.rels", `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide1.xml"/>
</Relationships>`)

	write("ppt/slides/slide1.xml", `<?xml version="1.0"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld>
    <p:spTree>`+slideSpTree+`</p:spTree>
  </p:cSld>
</p:sld>`)

	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

const redRectShape = `
      <p:sp>
        <p:nvSpPr><p:cNvPr id="2" name="Rect 1"/></p:nvSpPr>
        <p:spPr>
          <a:xfrm>
            <a:off x="914400" y="914400"/>
            <a:ext cx="3000000" cy="1000000"/>
          </a:xfrm>
          <a:prstGeom prst="rect"/>
          <a:solidFill><a:srgbClr val="FF0000"/></a:solidFill>
        </p:spPr>
      </p:sp>`

// TestRenderPresentation_MinimalDeck covers spec.md §8 scenario (a): one
// slide, default size, a single red rectangle, rendered at width 1920.
func TestRenderPresentation_MinimalDeck(t *testing.T) {
	data := buildMinimalPPTX(t, redRectShape)

	opts := DefaultRenderOptions()
	opts.Width = 1920
	result, err := RenderPresentationBytes(context.Background(), data, opts)
	if err != nil {
		t.Fatalf("RenderPresentationBytes: %v", err)
	}
	if result.Total != 1 || result.Successful != 1 || !result.AllSuccessful {
		t.Fatalf("unexpected result: %+v", result)
	}
	slide := result.Slides[0]
	if slide.Width != 1920 || slide.Height != 1440 {
		t.Errorf("expected 1920x1440, got %dx%d", slide.Width, slide.Height)
	}
}

// TestRenderSlide_ShapeGeometry checks the shape pixel position/size
// directly against the canvas, independent of PNG encoding.
func TestRenderSlide_ShapeGeometry(t *testing.T) {
	data := buildMinimalPPTX(t, redRectShape)
	p, err := OpenPresentation(data)
	if err != nil {
		t.Fatalf("OpenPresentation: %v", err)
	}
	defer p.Close()

	opts := DefaultRenderOptions()
	opts.Width = 1920
	img, err := p.renderSlideTo(context.Background(), p.Slides[0].Member, opts.normalized(), noopLogger{})
	if err != nil {
		t.Fatalf("renderSlideTo: %v", err)
	}
	if img.Width != 1920 || img.Height != 1440 {
		t.Fatalf("unexpected dimensions: %dx%d", img.Width, img.Height)
	}

	decoded, err := png.Decode(bytes.NewReader(img.Bytes))
	if err != nil {
		t.Fatalf("decode PNG: %v", err)
	}
	// 914400 EMU at scale 2 is 192px and the 3000000x1000000 EMU extent is
	// about 630x210px, so the rectangle spans roughly (192,192)-(822,402).
	isRed := func(x, y int) bool {
		r, g, b, _ := decoded.At(x, y).RGBA()
		return r>>8 == 255 && g>>8 == 0 && b>>8 == 0
	}
	for _, p := range [][2]int{{194, 194}, {500, 300}, {820, 400}} {
		if !isRed(p[0], p[1]) {
			t.Errorf("pixel %v should be inside the red rectangle", p)
		}
	}
	for _, p := range [][2]int{{190, 190}, {824, 300}, {500, 404}} {
		if isRed(p[0], p[1]) {
			t.Errorf("pixel %v should be outside the red rectangle", p)
		}
	}
}

func TestRenderSlide_OutOfRange(t *testing.T) {
	data := buildMinimalPPTX(t, redRectShape)
	p, err := OpenPresentation(data)
	if err != nil {
		t.Fatalf("OpenPresentation: %v", err)
	}
	defer p.Close()

	res := p.RenderSlide(context.Background(), 5, nil)
	if res.Success {
		t.Fatal("expected failure for out-of-range slide index")
	}
	if res.Err == nil {
		t.Fatal("expected non-nil Err")
	}
}

// TestRenderPresentation_NoBackground checks the documented boundary
// behavior: an absent p:bg yields a white background.
func TestRenderPresentation_NoBackground(t *testing.T) {
	data := buildMinimalPPTX(t, "")
	p, err := OpenPresentation(data)
	if err != nil {
		t.Fatalf("OpenPresentation: %v", err)
	}
	defer p.Close()

	opts := DefaultRenderOptions()
	opts.Width = 200
	img, err := p.renderSlideTo(context.Background(), p.Slides[0].Member, opts.normalized(), noopLogger{})
	if err != nil {
		t.Fatalf("renderSlideTo: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(img.Bytes))
	if err != nil {
		t.Fatalf("decode PNG: %v", err)
	}
	if r, g, b, a := decoded.At(100, 75).RGBA(); r>>8 != 255 || g>>8 != 255 || b>>8 != 255 || a>>8 != 255 {
		t.Errorf("background pixel = (%d,%d,%d,%d), want opaque white", r>>8, g>>8, b>>8, a>>8)
	}

	res := p.RenderSlide(context.Background(), 0, opts)
	if !res.Success {
		t.Fatalf("render failed: %s", res.ErrorMessage)
	}
}

func TestRenderOptions_BackgroundColorOverride(t *testing.T) {
	data := buildMinimalPPTX(t, "")
	p, err := OpenPresentation(data)
	if err != nil {
		t.Fatalf("OpenPresentation: %v", err)
	}
	defer p.Close()

	blue := color.RGBA{R: 0, G: 0, B: 255, A: 255}
	opts := DefaultRenderOptions()
	opts.Width = 100
	opts.BackgroundColor = &blue
	res := p.RenderSlide(context.Background(), 0, opts)
	if !res.Success {
		t.Fatalf("render failed: %s", res.ErrorMessage)
	}
}
