package gopresentation

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// DrawText draws text into canvas's backing image with baseline origin
// (x,y), ignoring the canvas's affine transform stack: glyph outlines
// come from golang.org/x/image/font's own rasterizer rather than our path
// rasterizer, so per-glyph rotation isn't applied — only the run's
// computed baseline position is (shape rotation still rotates everything
// else drawn through FillPath/StrokePath/DrawImage).
func (c *Canvas) DrawText(text string, x, y float64, face font.Face, col RGBA) {
	if face == nil || text == "" {
		return
	}
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(color.RGBA(col)),
		Face: face,
		Dot:  fixed.P(int(x), int(y)),
	}
	d.DrawString(text)
}

// DrawRun paints one positioned run, including underline/strikethrough
// rules derived from its metrics.
func (c *Canvas) DrawRun(r PositionedRun) {
	c.DrawText(r.Text, r.X, r.Y, r.Face, r.Color)
	if r.Underline {
		m := r.Face.Metrics()
		thickness := float64(m.Descent) / 64 / 3
		if thickness < 1 {
			thickness = 1
		}
		y := r.Y + float64(m.Descent)/64/2
		c.FillRect(image.Rect(int(r.X), int(y), int(r.X+r.WidthPx), int(y+thickness)), color.RGBA(r.Color))
	}
	if r.Strike {
		m := r.Face.Metrics()
		y := r.Y - float64(m.Ascent)/64*0.3
		c.FillRect(image.Rect(int(r.X), int(y), int(r.X+r.WidthPx), int(y+1)), color.RGBA(r.Color))
	}
}
