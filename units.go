package gopresentation

import "math"

// EMU (English Metric Unit) and related OOXML unit constants, per spec.md
// §4.4. All conversions that can be exact integer ratios are; conversions
// that must scale to arbitrary target pixel dimensions use float64.
const (
	emuPerInch  = 914400
	emuPerPoint = 12700
	emuPerCM    = 360000

	// angleUnitPerDegree: OOXML angles (rot, hueOff, ...) are stored in
	// 60,000ths of a degree.
	angleUnitPerDegree = 60000

	// percentUnit: OOXML percents (tint, lumMod, adj, srcRect, ...) are
	// stored in 100,000ths of a percent, i.e. 100000 == 100%.
	percentUnit = 100000

	defaultDPI = 96.0
)

// emuToPixels converts an EMU length to pixels at the given DPI (96 is the
// CSS/canvas-pixel reference DPI OOXML renderers target by convention).
func emuToPixels(emu int64, dpi float64) float64 {
	if dpi <= 0 {
		dpi = defaultDPI
	}
	return float64(emu) / emuPerInch * dpi
}

// pixelsToEMU is the inverse of emuToPixels.
func pixelsToEMU(px float64, dpi float64) int64 {
	if dpi <= 0 {
		dpi = defaultDPI
	}
	return int64(math.Round(px / dpi * emuPerInch))
}

// emuToPoints converts EMU to points (1 pt = 12700 EMU).
func emuToPoints(emu int64) float64 { return float64(emu) / emuPerPoint }

// pointsToEMU converts points to EMU.
func pointsToEMU(pt float64) int64 { return int64(math.Round(pt * emuPerPoint)) }

// centipointsToPoints converts hundredths-of-a-point (sz, spcPts) to points.
func centipointsToPoints(v int) float64 { return float64(v) / 100.0 }

// centipointsToEMU converts hundredths-of-a-point to EMU (spcPts spacing:
// multiply by 127 to get EMU, per spec.md §4.10).
func centipointsToEMU(v int) int64 { return int64(v) * 127 }

// angleUnitsToRadians converts 60000ths-of-a-degree to radians.
func angleUnitsToRadians(v int) float64 {
	return float64(v) / angleUnitPerDegree * math.Pi / 180
}

// angleUnitsToDegrees converts 60000ths-of-a-degree to degrees.
func angleUnitsToDegrees(v int) float64 { return float64(v) / angleUnitPerDegree }

// degreesToAngleUnits is the inverse of angleUnitsToDegrees.
func degreesToAngleUnits(deg float64) int { return int(math.Round(deg * angleUnitPerDegree)) }

// percentToDecimal converts a 100000-scaled percent to a 0..1-ish decimal.
// percentToDecimal(100000) == 1.0 exactly.
func percentToDecimal(v int) float64 { return float64(v) / percentUnit }

// decimalToPercent is the exact inverse: decimalToPercent(1.0) == 100000.
func decimalToPercent(d float64) int { return int(math.Round(d * percentUnit)) }

// Scale is a pair of independent X/Y scale factors mapping EMU-space
// lengths to output pixels.
type Scale struct {
	X, Y float64
}

// calcScale computes the X/Y scale factors that map a slide of slideW x
// slideH EMU onto a targetW x targetH pixel canvas. When targetH is 0 (not
// given), the height is derived to preserve the slide's aspect ratio and
// both scale components come out equal.
func calcScale(slideW, slideH int64, targetW int, targetH int) Scale {
	if slideW <= 0 {
		slideW = 9144000
	}
	if slideH <= 0 {
		slideH = 6858000
	}
	sx := float64(targetW) / emuToPixels(slideW, defaultDPI)
	if targetH <= 0 {
		return Scale{X: sx, Y: sx}
	}
	sy := float64(targetH) / emuToPixels(slideH, defaultDPI)
	return Scale{X: sx, Y: sy}
}

// targetPixelSize returns the output image dimensions for a slide of
// slideW x slideH EMU given requested width and an optional height (0
// means "derive from aspect ratio").
func targetPixelSize(slideW, slideH int64, width, height int) (int, int) {
	if width <= 0 {
		width = 1920
	}
	if height > 0 {
		return width, height
	}
	if slideW <= 0 {
		slideW = 9144000
	}
	if slideH <= 0 {
		slideH = 6858000
	}
	h := int(math.Round(float64(width) * float64(slideH) / float64(slideW)))
	return width, h
}
