package gopresentation

import (
	"bytes"
	"container/list"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Bitmap is a decoded raster image plus its pixel dimensions.
type Bitmap struct {
	Img    image.Image
	Width  int
	Height int
}

// decodeImage sniffs bytes by magic prefix and decodes via the registered
// image codecs (PNG, JPEG, GIF, BMP, WebP), per spec.md §4.15.
func decodeImage(data []byte) (Bitmap, error) {
	if !looksLikeKnownImage(data) {
		return Bitmap{}, fmt.Errorf("image: unrecognized signature: %w", ErrImageDecodeFailed)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Bitmap{}, fmt.Errorf("image: decode: %w", ErrImageDecodeFailed)
	}
	b := img.Bounds()
	return Bitmap{Img: img, Width: b.Dx(), Height: b.Dy()}, nil
}

func looksLikeKnownImage(data []byte) bool {
	sigs := [][]byte{
		{0x89, 'P', 'N', 'G'},
		{0xFF, 0xD8, 0xFF},
		{'G', 'I', 'F', '8'},
		{'B', 'M'},
		{'R', 'I', 'F', 'F'}, // WebP container; 'WEBP' follows at offset 8
		{'I', 'I', 0x2A, 0x00}, // TIFF little-endian
		{'M', 'M', 0x00, 0x2A}, // TIFF big-endian
	}
	for _, sig := range sigs {
		if len(data) >= len(sig) && bytes.Equal(data[:len(sig)], sig) {
			return true
		}
	}
	return false
}

const imageCacheCapacity = 50

// imageCache is an LRU cache of decoded bitmaps keyed by relationship id
// (or any caller-chosen key), capacity 50, evicting least-recently-used.
type imageCache struct {
	mu    sync.Mutex
	cap   int
	ll    *list.List
	items map[string]*list.Element
}

type imageCacheEntry struct {
	key string
	bmp Bitmap
}

func newImageCache() *imageCache {
	return &imageCache{cap: imageCacheCapacity, ll: list.New(), items: make(map[string]*list.Element)}
}

func (c *imageCache) get(key string) (Bitmap, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		return el.Value.(*imageCacheEntry).bmp, true
	}
	return Bitmap{}, false
}

func (c *imageCache) put(key string, bmp Bitmap) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		el.Value.(*imageCacheEntry).bmp = bmp
		return
	}
	el := c.ll.PushFront(&imageCacheEntry{key: key, bmp: bmp})
	c.items[key] = el
	if c.ll.Len() > c.cap {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*imageCacheEntry).key)
		}
	}
}

// ImageEngine decodes and renders blipFill pictures, caching decoded
// bitmaps by relationship id.
type ImageEngine struct {
	cache *imageCache
}

func NewImageEngine() *ImageEngine { return &ImageEngine{cache: newImageCache()} }

// Load decodes (or returns cached) the bitmap for the archive member at
// path, cached under cacheKey (normally the relationship id).
func (e *ImageEngine) Load(archive *Archive, path, cacheKey string) (Bitmap, error) {
	if bmp, ok := e.cache.get(cacheKey); ok {
		return bmp, nil
	}
	data, err := archive.ReadBytes(path)
	if err != nil {
		return Bitmap{}, err
	}
	bmp, err := decodeImage(data)
	if err != nil {
		return Bitmap{}, err
	}
	e.cache.put(cacheKey, bmp)
	return bmp, nil
}

// Render paints fill (a Picture-kind Fill) into dest on canvas, applying
// srcRect crop, stretch/fillRect, or tile per spec.md §4.15.
func (e *ImageEngine) Render(canvas *Canvas, bmp Bitmap, fill *Fill, dest Rect) {
	if fill == nil || bmp.Img == nil {
		return
	}
	srcRect := cropRect(bmp, fill)
	if fill.Tile {
		e.renderTiled(canvas, bmp, fill, srcRect, dest)
		return
	}
	target := dest
	if fill.Stretch {
		target = expandByFillRect(dest, fill)
	}
	cropped := subImage(bmp.Img, srcRect)
	canvas.DrawImage(cropped, target)
}

// cropRect applies the srcRect insets (fractions 0..1, already converted
// from OOXML's 0..100000 at parse time) to bmp's bounds.
func cropRect(bmp Bitmap, fill *Fill) image.Rectangle {
	w, h := float64(bmp.Width), float64(bmp.Height)
	l := fill.SrcRectL * w
	t := fill.SrcRectT * h
	r := w - fill.SrcRectR*w
	b := h - fill.SrcRectB*h
	if r <= l {
		r = l + 1
	}
	if b <= t {
		b = t + 1
	}
	return image.Rect(int(l), int(t), int(r), int(b))
}

func subImage(img image.Image, r image.Rectangle) image.Image {
	type subImager interface {
		SubImage(image.Rectangle) image.Image
	}
	if si, ok := img.(subImager); ok {
		r = r.Intersect(img.Bounds())
		if r.Empty() {
			return img
		}
		return si.SubImage(r)
	}
	return img
}

// expandByFillRect expands dest outward by the stretch fillRect
// percentages (a:stretch/a:fillRect l/t/r/b), per spec.md §4.15: plain
// stretch is fillRect all-zero.
func expandByFillRect(dest Rect, fill *Fill) Rect {
	l := fill.FillRectL * dest.W
	t := fill.FillRectT * dest.H
	r := fill.FillRectR * dest.W
	b := fill.FillRectB * dest.H
	return Rect{X: dest.X - l, Y: dest.Y - t, W: dest.W + l + r, H: dest.H + t + b}
}

func (e *ImageEngine) renderTiled(canvas *Canvas, bmp Bitmap, fill *Fill, srcRect image.Rectangle, dest Rect) {
	tileW := float64(srcRect.Dx()) * fill.TileSX
	tileH := float64(srcRect.Dy()) * fill.TileSY
	if tileW <= 0 || tileH <= 0 {
		return
	}
	cropped := subImage(bmp.Img, srcRect)

	startX, startY := tileOrigin(dest, tileW, tileH, fill.TileAlign)
	// Rows start above startY far enough to reach dest's top edge; row and
	// column parity (&1) keeps flips alternating across negative indices.
	firstY, firstRow := startY, 0
	for firstY > dest.Y {
		firstY -= tileH
		firstRow--
	}
	col := 0
	for x := startX; x < dest.X+dest.W; x += tileW {
		row := firstRow
		for y := firstY; y < dest.Y+dest.H; y += tileH {
			canvas.Save()
			canvas.Clip(dest)
			flipped := applyTileFlip(cropped, fill.TileFlip, col&1, row&1)
			canvas.DrawImage(flipped, Rect{X: x, Y: y, W: tileW, H: tileH})
			canvas.Restore()
			row++
		}
		col++
	}
	// Cover negative-direction tiles back to dest's top-left when the
	// alignment anchor sits mid/right/bottom.
	col = -1
	for x := startX - tileW; x+tileW > dest.X; x -= tileW {
		row := firstRow
		for y := firstY; y < dest.Y+dest.H; y += tileH {
			canvas.Save()
			canvas.Clip(dest)
			flipped := applyTileFlip(cropped, fill.TileFlip, col&1, row&1)
			canvas.DrawImage(flipped, Rect{X: x, Y: y, W: tileW, H: tileH})
			canvas.Restore()
			row++
		}
		col--
	}
}

func tileOrigin(dest Rect, tileW, tileH float64, align string) (float64, float64) {
	x, y := dest.X, dest.Y
	switch align {
	case "tr":
		x = dest.X + dest.W - tileW
	case "bl":
		y = dest.Y + dest.H - tileH
	case "br":
		x = dest.X + dest.W - tileW
		y = dest.Y + dest.H - tileH
	case "ctr":
		x = dest.X + dest.W/2 - tileW/2
		y = dest.Y + dest.H/2 - tileH/2
	}
	return x, y
}

func applyTileFlip(img image.Image, flip string, col, row int) image.Image {
	flipX := (flip == "x" || flip == "xy") && col%2 == 1
	flipY := (flip == "y" || flip == "xy") && row%2 == 1
	if !flipX && !flipY {
		return img
	}
	b := img.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			sx, sy := x, y
			if flipX {
				sx = b.Max.X - 1 - (x - b.Min.X)
			}
			if flipY {
				sy = b.Max.Y - 1 - (y - b.Min.Y)
			}
			out.Set(x, y, img.At(sx, sy))
		}
	}
	return out
}
