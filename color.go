package gopresentation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RGBA is an 8-bit-per-channel color, matching image/color.RGBA's layout
// but kept as our own value type so color math stays independent of the
// image package until the final blend.
type RGBA struct {
	R, G, B, A uint8
}

// FormatHex renders c as an 8-char uppercase AARRGGBB hex string.
func (c RGBA) FormatHex() string {
	return fmt.Sprintf("%02X%02X%02X%02X", c.A, c.R, c.G, c.B)
}

// ParseHex parses an AARRGGBB, RRGGBB, or "#"-prefixed hex string into an
// RGBA. 6-char input is treated as fully opaque. Invalid input returns
// opaque black, matching the teacher's NewColor fallback behavior.
func ParseHex(s string) RGBA {
	s = strings.TrimPrefix(s, "#")
	s = strings.ToUpper(s)
	switch len(s) {
	case 6:
		s = "FF" + s
	case 8:
		// already AARRGGBB
	default:
		return RGBA{A: 255}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGBA{A: 255}
	}
	return RGBA{
		A: uint8(v >> 24),
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}
}

// ColorTransform is the ordered sum of optional rational modifiers applied
// to a base color, per spec.md §3. Every field is a percent in
// 100000ths except HueOff (60000ths of a degree). A zero-value
// ColorTransform is the identity transform.
type ColorTransform struct {
	Tint    *int
	Shade   *int
	SatMod  *int
	LumMod  *int
	LumOff  *int
	HueMod  *int
	HueOff  *int
	Alpha   *int // 100000-scaled percent; nil means "leave source alpha"
}

// hsl is an internal working color in hue-degrees/saturation/lightness,
// all in [0,1] except Hue in [0,360).
type hsl struct {
	H, S, L float64
}

func rgbToHSL(c RGBA) hsl {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l := (max + min) / 2
	if max == min {
		return hsl{H: 0, S: 0, L: l}
	}
	d := max - min
	var s float64
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}
	var h float64
	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	case b:
		h = (r-g)/d + 4
	}
	h *= 60
	return hsl{H: h, S: s, L: l}
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

func (c hsl) toRGB(alpha uint8) RGBA {
	if c.S == 0 {
		v := uint8(math.Round(clamp01(c.L) * 255))
		return RGBA{R: v, G: v, B: v, A: alpha}
	}
	var q float64
	if c.L < 0.5 {
		q = c.L * (1 + c.S)
	} else {
		q = c.L + c.S - c.L*c.S
	}
	p := 2*c.L - q
	hn := c.H / 360
	r := hueToRGB(p, q, hn+1.0/3)
	g := hueToRGB(p, q, hn)
	b := hueToRGB(p, q, hn-1.0/3)
	return RGBA{
		R: uint8(math.Round(clamp01(r) * 255)),
		G: uint8(math.Round(clamp01(g) * 255)),
		B: uint8(math.Round(clamp01(b) * 255)),
		A: alpha,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Apply folds the transform stack over base in the fixed order required by
// spec.md §3: tint -> shade -> satMod -> lumMod -> lumOff -> hueMod ->
// hueOff -> alpha. The empty transform is the identity (property 3, §8).
// Reordering these steps is a semantic bug, not a style choice.
func (t ColorTransform) Apply(base RGBA) RGBA {
	alpha := base.A
	h := rgbToHSL(base)

	if t.Tint != nil {
		// tint: lighten toward white by (1 - pct) of the remaining headroom.
		pct := percentToDecimal(*t.Tint)
		h.L = h.L*pct + (1 - pct)
	}
	if t.Shade != nil {
		// shade: darken toward black by (1 - pct).
		pct := percentToDecimal(*t.Shade)
		h.L = h.L * pct
	}
	if t.SatMod != nil {
		h.S = clamp01(h.S * percentToDecimal(*t.SatMod))
	}
	if t.LumMod != nil {
		h.L = clamp01(h.L * percentToDecimal(*t.LumMod))
	}
	if t.LumOff != nil {
		h.L = clamp01(h.L + percentToDecimal(*t.LumOff))
	}
	if t.HueMod != nil {
		h.H = math.Mod(h.H*percentToDecimal(*t.HueMod), 360)
		if h.H < 0 {
			h.H += 360
		}
	}
	if t.HueOff != nil {
		h.H = math.Mod(h.H+angleUnitsToDegrees(*t.HueOff), 360)
		if h.H < 0 {
			h.H += 360
		}
	}
	if t.Alpha != nil {
		alpha = uint8(math.Round(clamp01(percentToDecimal(*t.Alpha)) * 255))
	}
	return h.toRGB(alpha)
}

// IsDark reports whether c's relative luminance is below 0.5, using the
// standard sRGB coefficients and gamma-expansion threshold from spec.md
// §4.5.
func IsDark(c RGBA) bool { return Luminance(c) < 0.5 }

// Luminance computes the WCAG relative luminance of c.
func Luminance(c RGBA) float64 {
	expand := func(v uint8) float64 {
		f := float64(v) / 255
		if f <= 0.03928 {
			return f / 12.92
		}
		return math.Pow((f+0.055)/1.055, 2.4)
	}
	r, g, b := expand(c.R), expand(c.G), expand(c.B)
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// presetColors maps OOXML prstClr names to literal RGB (opaque).
var presetColors = map[string]RGBA{
	"black":      {R: 0, G: 0, B: 0, A: 255},
	"white":      {R: 255, G: 255, B: 255, A: 255},
	"red":        {R: 255, G: 0, B: 0, A: 255},
	"green":      {R: 0, G: 128, B: 0, A: 255},
	"blue":       {R: 0, G: 0, B: 255, A: 255},
	"yellow":     {R: 255, G: 255, B: 0, A: 255},
	"gray":       {R: 128, G: 128, B: 128, A: 255},
	"grey":       {R: 128, G: 128, B: 128, A: 255},
	"orange":     {R: 255, G: 165, B: 0, A: 255},
	"purple":     {R: 128, G: 0, B: 128, A: 255},
	"darkBlue":   {R: 0, G: 0, B: 139, A: 255},
	"darkRed":    {R: 139, G: 0, B: 0, A: 255},
	"darkGreen":  {R: 0, G: 100, B: 0, A: 255},
	"lightGray":  {R: 211, G: 211, B: 211, A: 255},
	"lightGrey":  {R: 211, G: 211, B: 211, A: 255},
}

// sysColors maps OOXML sysClr names to literal RGB; the set a renderer must
// realistically support is small (window/text chrome colors referenced by
// legacy decks).
var sysColors = map[string]RGBA{
	"window":    {R: 255, G: 255, B: 255, A: 255},
	"windowText": {R: 0, G: 0, B: 0, A: 255},
	"btnFace":   {R: 240, G: 240, B: 240, A: 255},
	"highlight": {R: 0, G: 120, B: 215, A: 255},
}

// resolveColorNode tries schemeClr, srgbClr, scrgbClr, hslClr, prstClr,
// sysClr in that order (spec.md §4.5) and folds the transform stack found
// as children of whichever variant matched. scheme is consulted for
// schemeClr lookups; phClr is the substitution value used when the source
// is a <a:phClr/> placeholder (group/style references resolve it before
// this call, so phClr itself is passed through as the sentinel color).
func resolveColorNode(n *Node, scheme *ColorScheme, phClr *RGBA) (RGBA, bool) {
	if n == nil {
		return RGBA{}, false
	}
	if c := n.Child("a:schemeClr"); c != nil {
		name, ok := c.Attr("val")
		if !ok {
			return RGBA{}, false
		}
		base, ok := lookupSchemeColor(scheme, name, phClr)
		if !ok {
			return RGBA{}, false
		}
		return parseTransform(c).Apply(base), true
	}
	if c := n.Child("a:srgbClr"); c != nil {
		val, ok := c.Attr("val")
		if !ok {
			return RGBA{}, false
		}
		return parseTransform(c).Apply(ParseHex(val)), true
	}
	if c := n.Child("a:scrgbClr"); c != nil {
		r := percentStrToDecimal(c.AttrOr("r", "0"))
		g := percentStrToDecimal(c.AttrOr("g", "0"))
		b := percentStrToDecimal(c.AttrOr("b", "0"))
		base := RGBA{
			R: uint8(math.Round(clamp01(r) * 255)),
			G: uint8(math.Round(clamp01(g) * 255)),
			B: uint8(math.Round(clamp01(b) * 255)),
			A: 255,
		}
		return parseTransform(c).Apply(base), true
	}
	if c := n.Child("a:hslClr"); c != nil {
		hueUnits := atoiOr(c.AttrOr("hue", "0"), 0)
		sat := percentStrToDecimal(c.AttrOr("sat", "0"))
		lum := percentStrToDecimal(c.AttrOr("lum", "0"))
		base := hsl{H: angleUnitsToDegrees(hueUnits), S: clamp01(sat), L: clamp01(lum)}.toRGB(255)
		return parseTransform(c).Apply(base), true
	}
	if c := n.Child("a:prstClr"); c != nil {
		name, ok := c.Attr("val")
		if !ok {
			return RGBA{}, false
		}
		base, ok := presetColors[name]
		if !ok {
			return RGBA{}, false
		}
		return parseTransform(c).Apply(base), true
	}
	if c := n.Child("a:sysClr"); c != nil {
		name, ok := c.Attr("val")
		if !ok {
			return RGBA{}, false
		}
		base, ok := sysColors[name]
		if !ok {
			if v, ok2 := c.Attr("lastClr"); ok2 {
				base = ParseHex(v)
			} else {
				return RGBA{}, false
			}
		}
		return parseTransform(c).Apply(base), true
	}
	return RGBA{}, false
}

// percentStrToDecimal parses an OOXML percent-with-% attribute (e.g.
// "50000" meaning 50%, occasionally written "50%") into a 0..1 decimal.
func percentStrToDecimal(s string) float64 {
	s = strings.TrimSuffix(s, "%")
	v := atoiOr(s, 0)
	return percentToDecimal(v)
}

func atoiOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func atofOr(s string, def float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

// parseTransform reads the modifier children of a color element
// (tint/shade/satMod/lumMod/lumOff/hueMod/hueOff/alpha) into a
// ColorTransform. Unrecognized or absent modifiers are left nil so Apply
// treats them as identity.
func parseTransform(n *Node) ColorTransform {
	var t ColorTransform
	read := func(tag string) *int {
		c := n.Child(tag)
		if c == nil {
			return nil
		}
		v, ok := c.Attr("val")
		if !ok {
			return nil
		}
		iv := atoiOr(v, 0)
		return &iv
	}
	t.Tint = read("a:tint")
	t.Shade = read("a:shade")
	t.SatMod = read("a:satMod")
	t.LumMod = read("a:lumMod")
	t.LumOff = read("a:lumOff")
	t.HueMod = read("a:hueMod")
	t.HueOff = read("a:hueOff")
	t.Alpha = read("a:alpha")
	return t
}
