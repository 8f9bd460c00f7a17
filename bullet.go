package gopresentation

import "strings"

// bulletCounters tracks the next auto-number value per indent level,
// reset whenever a shallower paragraph is encountered (spec.md §4.13:
// "reset at level boundaries").
type bulletCounters struct {
	counts [9]int
}

// next returns the 1-based counter for level and advances it, resetting
// every deeper level's counter since a new sibling at a shallower level
// starts a fresh sub-list.
func (c *bulletCounters) next(level int) int {
	if level < 0 {
		level = 0
	}
	if level > 8 {
		level = 8
	}
	for l := level + 1; l < 9; l++ {
		c.counts[l] = 0
	}
	c.counts[level]++
	return c.counts[level]
}

func (c *bulletCounters) reset(level int, startAt int) {
	c.counts[level] = startAt - 1
}

// renderBulletGlyph formats the text of bullet b at a given
// 1-based ordinal (only meaningful for BulletAuto).
func renderBulletGlyph(b Bullet, ordinal int) string {
	switch b.Kind {
	case BulletChar:
		return b.Char
	case BulletAuto:
		return formatAutoNum(b.AutoType, ordinal)
	default:
		return ""
	}
}

func formatAutoNum(autoType string, n int) string {
	switch autoType {
	case "arabicPeriod":
		return itoa(n) + "."
	case "arabicParenR":
		return itoa(n) + ")"
	case "arabicParenBoth":
		return "(" + itoa(n) + ")"
	case "arabicPlain":
		return itoa(n)
	case "romanUcPeriod":
		return toRoman(n, true) + "."
	case "romanLcPeriod":
		return toRoman(n, false) + "."
	case "romanUcParenR":
		return toRoman(n, true) + ")"
	case "romanLcParenR":
		return toRoman(n, false) + ")"
	case "alphaUcPeriod":
		return toAlpha(n, true) + "."
	case "alphaLcPeriod":
		return toAlpha(n, false) + "."
	case "alphaUcParenR":
		return toAlpha(n, true) + ")"
	case "alphaLcParenR":
		return toAlpha(n, false) + ")"
	default:
		return itoa(n) + "."
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}

func toAlpha(n int, upper bool) string {
	if n <= 0 {
		n = 1
	}
	var sb strings.Builder
	for n > 0 {
		n--
		r := rune('a' + n%26)
		if upper {
			r = rune('A' + n%26)
		}
		sb.WriteRune(r)
		n /= 26
	}
	runes := []rune(sb.String())
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

var romanTable = []struct {
	val int
	sym string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func toRoman(n int, upper bool) string {
	if n <= 0 {
		return ""
	}
	var sb strings.Builder
	for _, e := range romanTable {
		for n >= e.val {
			sb.WriteString(e.sym)
			n -= e.val
		}
	}
	s := sb.String()
	if !upper {
		s = strings.ToLower(s)
	}
	return s
}

// bulletIndentPx returns the pixel offset of the bullet glyph from the
// paragraph's text-left margin: the bullet sits at marL + indent (indent
// is usually negative, a hanging indent); the offset -indent is clamped to
// non-negative.
func bulletIndentPx(para Paragraph, scale Scale) float64 {
	hang := -para.IndentEMU
	if hang < 0 {
		hang = 0
	}
	return float64(hang) * scale.X / emuPerInch * defaultDPI
}
