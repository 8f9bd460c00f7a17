package gopresentation

import (
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// WrapMode selects how overflowing text is split across lines.
type WrapMode int

const (
	WrapNone WrapMode = iota
	WrapWord
	WrapChar
)

// Fragment is one measured piece of text sharing a single resolved font
// and color, the atomic unit the wrapper arranges into lines.
type Fragment struct {
	Text     string
	Props    RunProps
	Face     font.Face
	WidthPx  float64
	IsBullet bool
}

// Line is a wrapped output line: fragments in order (one per word, space
// or CJK token), total width, and the line's font metrics.
type Line struct {
	Fragments []Fragment
	WidthPx   float64
	Metrics   FontMetrics // the line's dominant (usually first, largest) font
}

// WordWrapper caches measured string widths per (font string, text) so
// repeated words/tokens across a deck aren't re-measured.
type WordWrapper struct {
	mu         sync.Mutex
	widthCache map[string]float64
	spaceCache map[string]float64
	fonts      *FontCache
}

// NewWordWrapper creates a wrapper backed by fonts for glyph measurement.
func NewWordWrapper(fonts *FontCache) *WordWrapper {
	return &WordWrapper{
		widthCache: make(map[string]float64),
		spaceCache: make(map[string]float64),
		fonts:      fonts,
	}
}

func (w *WordWrapper) measure(face font.Face, cssKey, text string) float64 {
	key := cssKey + "\x00" + text
	w.mu.Lock()
	if v, ok := w.widthCache[key]; ok {
		w.mu.Unlock()
		return v
	}
	w.mu.Unlock()

	width := measureString(face, text)

	w.mu.Lock()
	w.widthCache[key] = width
	w.mu.Unlock()
	return width
}

func (w *WordWrapper) spaceWidth(face font.Face, cssKey string) float64 {
	w.mu.Lock()
	if v, ok := w.spaceCache[cssKey]; ok {
		w.mu.Unlock()
		return v
	}
	w.mu.Unlock()
	width := measureString(face, " ")
	w.mu.Lock()
	w.spaceCache[cssKey] = width
	w.mu.Unlock()
	return width
}

func measureString(face font.Face, text string) float64 {
	var total fixed.Int26_6
	prev := rune(-1)
	for _, r := range text {
		if prev >= 0 {
			total += face.Kern(prev, r)
		}
		adv, ok := face.GlyphAdvance(r)
		if ok {
			total += adv
		}
		prev = r
	}
	return fixedToFloat(total)
}

// isCJK reports whether r falls in one of the soft-breakable CJK ranges
// per spec.md §4.12.
func isCJK(r rune) bool {
	switch {
	case r >= 0x4E00 && r <= 0x9FFF:
		return true
	case r >= 0x3400 && r <= 0x4DBF:
		return true
	case r >= 0x3000 && r <= 0x30FF:
		return true
	case r >= 0xAC00 && r <= 0xD7AF:
		return true
	default:
		return false
	}
}

// token is one unit the word wrapper accumulates: either a whitespace-free
// word, a run of CJK characters broken per-rune, or a single space.
type token struct {
	text  string
	props RunProps
	face  font.Face
	cssKey string
	width float64
}

// tokenize splits a fragment's text into word/space/CJK-char tokens
// according to mode.
func (w *WordWrapper) tokenize(frag Fragment, mode WrapMode) []token {
	var out []token
	text := frag.Text
	if mode == WrapNone {
		out = append(out, token{text: text, props: frag.Props, face: frag.Face})
		return out
	}
	runes := []rune(text)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case r == ' ':
			j := i
			for j < len(runes) && runes[j] == ' ' {
				j++
			}
			out = append(out, token{text: string(runes[i:j]), props: frag.Props, face: frag.Face})
			i = j
		case mode == WrapChar || isCJK(r):
			out = append(out, token{text: string(r), props: frag.Props, face: frag.Face})
			i++
		default:
			j := i
			for j < len(runes) && runes[j] != ' ' && !(mode != WrapChar && isCJK(runes[j])) {
				j++
			}
			out = append(out, token{text: string(runes[i:j]), props: frag.Props, face: frag.Face})
			i = j
		}
	}
	return out
}

// Wrap lays fragments (in order, sharing one paragraph) into lines no
// wider than maxWidthPx. mode selects word/char/none wrapping. Returns the
// lines plus total content height and max line width.
func (w *WordWrapper) Wrap(fragments []Fragment, maxWidthPx float64, mode WrapMode) (lines []Line, totalHeight, maxWidth float64) {
	var toks []token
	for _, f := range fragments {
		for _, t := range w.tokenize(f, mode) {
			t.width = w.measure(t.face, t.props.CSSKeyFallback(), t.text)
			toks = append(toks, t)
		}
	}
	if mode == WrapNone || maxWidthPx <= 0 {
		lines = []Line{tokensToLine(toks)}
	} else {
		lines = wrapTokens(toks, maxWidthPx)
	}
	for i := range lines {
		lines[i].Metrics = lineMetrics(lines[i])
		totalHeight += lines[i].Metrics.LineHeightPx
		if lines[i].WidthPx > maxWidth {
			maxWidth = lines[i].WidthPx
		}
	}
	return lines, totalHeight, maxWidth
}

func wrapTokens(toks []token, maxWidthPx float64) []Line {
	var lines []Line
	var cur []token
	var curWidth float64
	flush := func() {
		if len(cur) == 0 {
			return
		}
		// Trim trailing spaces from a wrapped line's visible width.
		lines = append(lines, tokensToLine(trimTrailingSpaceTokens(cur)))
		cur = nil
		curWidth = 0
	}
	for _, t := range toks {
		if t.text == "\n" {
			flush()
			lines = append(lines, Line{})
			continue
		}
		if curWidth+t.width > maxWidthPx && len(cur) > 0 {
			flush()
		}
		cur = append(cur, t)
		curWidth += t.width
	}
	flush()
	return lines
}

func trimTrailingSpaceTokens(toks []token) []token {
	end := len(toks)
	for end > 0 && strings.TrimSpace(toks[end-1].text) == "" {
		end--
	}
	return toks[:end]
}

func tokensToLine(toks []token) Line {
	l := Line{}
	for _, t := range toks {
		l.Fragments = append(l.Fragments, Fragment{Text: t.text, Props: t.props, Face: t.face, WidthPx: t.width})
		l.WidthPx += t.width
	}
	return l
}

func lineMetrics(l Line) FontMetrics {
	var best FontMetrics
	var bestSize float64
	for _, f := range l.Fragments {
		if f.Face == nil {
			continue
		}
		m := metricsFromFace(f.Face, f.Props.SizePt)
		if f.Props.SizePt > bestSize {
			bestSize = f.Props.SizePt
			best = m
		}
	}
	if bestSize == 0 {
		best = FontMetrics{AscentPx: 14, DescentPx: 4, LineHeightPx: 18 * 1.2}
	}
	return best
}

// CSSKeyFallback returns a stable cache key for RunProps when the caller
// hasn't already resolved a CSS font string (used by the wrapper's measure
// cache to disambiguate identical text under different run properties).
func (p RunProps) CSSKeyFallback() string {
	b := ""
	if p.Bold {
		b += "b"
	}
	if p.Italic {
		b += "i"
	}
	return p.FontLatin + "|" + b + "|" + strconv.FormatFloat(p.SizePt, 'f', 1, 64)
}
