package gopresentation

import (
	"fmt"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// ResolvedFont is the font.Face-ready, fully-resolved description of a run's
// font: the family chain to try (first match wins), size, weight/slant, and
// the CSS-canvas-form string callers can use as a cache key.
type ResolvedFont struct {
	Families []string
	SizePt   float64
	Bold     bool
	Italic   bool
	CSSString string
}

// fontFallbackChains maps a known family to the chain of substitutes tried
// when the family itself isn't installed, per spec.md §4.11.
var fontFallbackChains = map[string][]string{
	"calibri":          {"Calibri", "Carlito", "Arial", "sans-serif"},
	"arial":            {"Arial", "Helvetica", "sans-serif"},
	"times new roman":  {"Times New Roman", "Times", "Georgia", "serif"},
	"georgia":          {"Georgia", "Times New Roman", "serif"},
	"consolas":         {"Consolas", "Monaco", "Courier New", "monospace"},
	"courier new":      {"Courier New", "Courier", "monospace"},
	"cambria":          {"Cambria", "Georgia", "serif"},
	"verdana":          {"Verdana", "Arial", "sans-serif"},
	"tahoma":           {"Tahoma", "Verdana", "Arial", "sans-serif"},
	"segoe ui":         {"Segoe UI", "Arial", "sans-serif"},
	"trebuchet ms":     {"Trebuchet MS", "Arial", "sans-serif"},
	"comic sans ms":    {"Comic Sans MS", "cursive"},
	"impact":           {"Impact", "Arial Black", "sans-serif"},
}

var defaultFallbackChain = []string{"Arial", "Helvetica", "sans-serif"}

// resolveFont resolves a run's font family (possibly a theme token like
// +mj-lt) plus size/weight/slant into a ResolvedFont.
func resolveFont(family string, theme *FontScheme, sizePt float64, bold, italic bool) ResolvedFont {
	families := resolveFamilyChain(family, theme)
	rf := ResolvedFont{Families: families, SizePt: sizePt, Bold: bold, Italic: italic}
	rf.CSSString = cssFontString(rf)
	return rf
}

func resolveFamilyChain(family string, theme *FontScheme) []string {
	primary := resolveThemeFontToken(family, theme)
	if primary == "" {
		return defaultFallbackChain
	}
	key := strings.ToLower(strings.TrimSpace(primary))
	if chain, ok := fontFallbackChains[key]; ok {
		return chain
	}
	return append([]string{primary}, defaultFallbackChain...)
}

// resolveThemeFontToken maps +mj-lt/+mj-ea/+mj-cs/+mn-lt/+mn-ea/+mn-cs to
// the theme's major/minor font scheme entries; any other string is returned
// unchanged (it's a literal family name).
func resolveThemeFontToken(family string, theme *FontScheme) string {
	if theme == nil {
		return family
	}
	switch family {
	case "+mj-lt":
		return orDefault(theme.MajorLatin, family)
	case "+mj-ea":
		return orDefault(theme.MajorEA, family)
	case "+mj-cs":
		return orDefault(theme.MajorCS, family)
	case "+mn-lt":
		return orDefault(theme.MinorLatin, family)
	case "+mn-ea":
		return orDefault(theme.MinorEA, family)
	case "+mn-cs":
		return orDefault(theme.MinorCS, family)
	default:
		return family
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// cssFontString renders rf in CSS-canvas form, e.g. `bold italic 18pt
// "Calibri", Carlito, Arial, sans-serif`.
func cssFontString(rf ResolvedFont) string {
	var sb strings.Builder
	if rf.Bold {
		sb.WriteString("bold ")
	}
	if rf.Italic {
		sb.WriteString("italic ")
	}
	fmt.Fprintf(&sb, "%gpt ", rf.SizePt)
	for i, f := range rf.Families {
		if i > 0 {
			sb.WriteString(", ")
		}
		if i == 0 || strings.ContainsAny(f, " ") {
			sb.WriteString(`"`)
			sb.WriteString(f)
			sb.WriteString(`"`)
		} else {
			sb.WriteString(f)
		}
	}
	return sb.String()
}

// FontMetrics holds the measurements the layout engine needs: ascent,
// descent, recommended line height, and average character width, all in
// pixels at the face's rendering size.
type FontMetrics struct {
	AscentPx, DescentPx, LineHeightPx, AvgCharWidthPx float64
}

// metricsFromFace derives FontMetrics from a golang.org/x/image/font.Face,
// falling back to a size-proportional estimate when Metrics().Height comes
// back zero.
func metricsFromFace(face font.Face, sizePt float64) FontMetrics {
	m := face.Metrics()
	ascent := fixedToFloat(m.Ascent)
	descent := fixedToFloat(m.Descent)
	height := fixedToFloat(m.Height)
	if height == 0 {
		height = sizePt * 96 / 72 * 1.2
	}
	if ascent == 0 && descent == 0 {
		ascent = height * 0.8
		descent = height * 0.2
	}
	return FontMetrics{
		AscentPx:       ascent,
		DescentPx:      descent,
		LineHeightPx:   height,
		AvgCharWidthPx: sizePt * 96 / 72 * 0.5,
	}
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
