package gopresentation

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
)

const chartLegendHeightPx = 24
const chartTitleHeightPx = 28
const chartAxisLeftPx = 56
const chartAxisBottomPx = 28
const chartTickCount = 5

// RenderChart lays out and draws data within bounds on canvas, per
// spec.md §4.16: title at top, legend in a strip along the bottom, axes on
// non-pie charts, the remainder is the plot. The legend position is fixed;
// it is not configurable.
func RenderChart(canvas *Canvas, data *ChartData, bounds Rect, fonts *FontCache) {
	area := bounds
	if data.Title != "" {
		drawChartTitle(canvas, data.Title, Rect{X: area.X, Y: area.Y, W: area.W, H: chartTitleHeightPx}, fonts)
		area = area.Inset(0, chartTitleHeightPx, 0, 0)
	}
	if len(data.Series) > 1 || data.Type == ChartPie {
		drawChartLegend(canvas, data.Series, Rect{X: area.X, Y: area.Y + area.H - chartLegendHeightPx, W: area.W, H: chartLegendHeightPx}, fonts)
		area = area.Inset(0, 0, 0, chartLegendHeightPx)
	}

	if data.Type == ChartPie {
		drawPieChart(canvas, data, area)
		return
	}

	plot := area.Inset(chartAxisLeftPx, 4, 4, chartAxisBottomPx)
	minVal, maxVal := chartValueRange(data)
	drawChartAxes(canvas, plot, minVal, maxVal, data, fonts)

	switch data.Type {
	case ChartLine:
		drawLineChart(canvas, data, plot, minVal, maxVal)
	case ChartArea:
		drawAreaChart(canvas, data, plot, minVal, maxVal)
	case ChartBar:
		drawBarChart(canvas, data, plot, minVal, maxVal, true, false)
	case ChartStackedBar:
		drawBarChart(canvas, data, plot, minVal, maxVal, true, true)
	case ChartStackedColumn:
		drawBarChart(canvas, data, plot, minVal, maxVal, false, true)
	default: // ChartColumn
		drawBarChart(canvas, data, plot, minVal, maxVal, false, false)
	}
}

func chartValueRange(data *ChartData) (min, max float64) {
	max = 0
	min = 0
	for _, s := range data.Series {
		for _, v := range s.Values {
			if v > max {
				max = v
			}
			if v < min {
				min = v
			}
		}
	}
	if max == min {
		max = min + 1
	}
	return min, max
}

func drawChartTitle(canvas *Canvas, title string, r Rect, fonts *FontCache) {
	face := fonts.GetFaceChain([]string{"Calibri", "Arial"}, 14, true, false)
	drawSimpleText(canvas, title, r.X+r.W/2, r.Y+r.H/2+5, face, RGBA{A: 255}, true)
}

func drawChartLegend(canvas *Canvas, series []ChartSeries, r Rect, fonts *FontCache) {
	face := fonts.GetFaceChain([]string{"Calibri", "Arial"}, 10, false, false)
	swatch := 10.0
	gap := 8.0
	x := r.X
	y := r.Y + r.H/2
	for _, s := range series {
		canvas.FillRect(rectToImageRect(Rect{X: x, Y: y - swatch/2, W: swatch, H: swatch}), color.RGBA(s.Color))
		x += swatch + 4
		drawSimpleText(canvas, s.Name, x, y+4, face, RGBA{A: 255}, false)
		x += measureString(face, s.Name) + gap
	}
}

func drawChartAxes(canvas *Canvas, plot Rect, minVal, maxVal float64, data *ChartData, fonts *FontCache) {
	face := fonts.GetFaceChain([]string{"Calibri", "Arial"}, 9, false, false)
	axisColor := RGBA{R: 120, G: 120, B: 120, A: 255}
	canvas.StrokePath([]PathSegment{
		MoveTo(Point{plot.X, plot.Y}),
		LineTo(Point{plot.X, plot.Y + plot.H}),
		LineTo(Point{plot.X + plot.W, plot.Y + plot.H}),
	}, axisColor, 1, nil)

	for i := 0; i <= chartTickCount; i++ {
		frac := float64(i) / chartTickCount
		val := minVal + (maxVal-minVal)*frac
		y := plot.Y + plot.H*(1-frac)
		canvas.StrokePath([]PathSegment{
			MoveTo(Point{plot.X - 3, y}),
			LineTo(Point{plot.X, y}),
		}, axisColor, 1, nil)
		drawSimpleText(canvas, formatAxisValue(val), plot.X-6, y+3, face, axisColor, false)
	}

	if len(data.Series) > 0 {
		n := len(data.Series[0].Categories)
		for i, cat := range data.Series[0].Categories {
			x := plot.X + plot.W*(float64(i)+0.5)/float64(maxInt(n, 1))
			drawSimpleText(canvas, cat, x, plot.Y+plot.H+14, face, axisColor, true)
		}
	}
}

// formatAxisValue formats with K/M suffixes per spec.md §4.16.
func formatAxisValue(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fK", v/1_000)
	default:
		return fmt.Sprintf("%g", v)
	}
}

func drawBarChart(canvas *Canvas, data *ChartData, plot Rect, minVal, maxVal float64, horizontal, stacked bool) {
	n := 0
	if len(data.Series) > 0 {
		n = len(data.Series[0].Values)
	}
	if n == 0 {
		return
	}
	catSpan := plot.H / float64(n)
	if !horizontal {
		catSpan = plot.W / float64(n)
	}
	groupCount := len(data.Series)
	if stacked {
		groupCount = 1
	}
	for ci := 0; ci < n; ci++ {
		stackOffset := 0.0
		for si, s := range data.Series {
			if ci >= len(s.Values) {
				continue
			}
			v := s.Values[ci]
			frac := (v - minVal) / (maxVal - minVal)
			if frac < 0 {
				frac = 0
			}
			barFrac := 0.8 / float64(groupCount)
			var r Rect
			if horizontal {
				length := plot.W * frac
				barH := catSpan * barFrac
				y := plot.Y + catSpan*float64(ci) + catSpan*0.1
				if !stacked {
					y += catSpan * barFrac * float64(si)
				}
				x := plot.X + plot.W*(stackOffset-minVal)/(maxVal-minVal)
				r = Rect{X: x, Y: y, W: length, H: barH}
			} else {
				length := plot.H * frac
				barW := catSpan * barFrac
				x := plot.X + catSpan*float64(ci) + catSpan*0.1
				if !stacked {
					x += catSpan * barFrac * float64(si)
				}
				yBase := plot.Y + plot.H*(1-(stackOffset-minVal)/(maxVal-minVal))
				r = Rect{X: x, Y: yBase - length, W: barW, H: length}
			}
			canvas.FillRect(rectToImageRect(r), color.RGBA(s.Color))
			if stacked {
				stackOffset += v
			}
		}
	}
}

func drawLineChart(canvas *Canvas, data *ChartData, plot Rect, minVal, maxVal float64) {
	for _, s := range data.Series {
		n := len(s.Values)
		if n < 2 {
			continue
		}
		var segs []PathSegment
		for i, v := range s.Values {
			x := plot.X + plot.W*float64(i)/float64(n-1)
			frac := (v - minVal) / (maxVal - minVal)
			y := plot.Y + plot.H*(1-frac)
			if i == 0 {
				segs = append(segs, MoveTo(Point{x, y}))
			} else {
				segs = append(segs, LineTo(Point{x, y}))
			}
		}
		canvas.StrokePath(segs, s.Color, 2, nil)
	}
}

func drawAreaChart(canvas *Canvas, data *ChartData, plot Rect, minVal, maxVal float64) {
	for _, s := range data.Series {
		n := len(s.Values)
		if n < 2 {
			continue
		}
		var segs []PathSegment
		for i, v := range s.Values {
			x := plot.X + plot.W*float64(i)/float64(n-1)
			frac := (v - minVal) / (maxVal - minVal)
			y := plot.Y + plot.H*(1-frac)
			if i == 0 {
				segs = append(segs, MoveTo(Point{x, y}))
			} else {
				segs = append(segs, LineTo(Point{x, y}))
			}
		}
		last := plot.X + plot.W
		base := plot.Y + plot.H
		segs = append(segs, LineTo(Point{last, base}), LineTo(Point{plot.X, base}), Close())
		fillColor := s.Color
		fillColor.A = 160
		canvas.FillPath(segs, solidSource(fillColor))
	}
}

func drawPieChart(canvas *Canvas, data *ChartData, area Rect) {
	if len(data.Series) == 0 {
		return
	}
	s := data.Series[0]
	total := 0.0
	for _, v := range s.Values {
		total += v
	}
	if total <= 0 {
		return
	}
	cx, cy := area.X+area.W/2, area.Y+area.H/2
	radius := math.Min(area.W, area.H) / 2 * 0.9
	start := -math.Pi / 2
	for i, v := range s.Values {
		sweep := 2 * math.Pi * v / total
		col := defaultChartPalette[i%len(defaultChartPalette)]
		segs := []PathSegment{MoveTo(Point{cx, cy})}
		steps := maxInt(int(sweep/0.1), 1)
		for j := 0; j <= steps; j++ {
			theta := start + sweep*float64(j)/float64(steps)
			segs = append(segs, LineTo(Point{cx + radius*math.Cos(theta), cy + radius*math.Sin(theta)}))
		}
		segs = append(segs, Close())
		canvas.FillPath(segs, solidSource(col))
		start += sweep
	}
}

func drawSimpleText(canvas *Canvas, text string, x, y float64, face font.Face, col RGBA, centered bool) {
	ox := x
	if centered {
		ox = x - measureString(face, text)/2
	}
	canvas.DrawText(text, ox, y, face, col)
}

func rectToImageRect(r Rect) image.Rectangle {
	return image.Rect(int(r.X), int(r.Y), int(r.X+r.W), int(r.Y+r.H))
}
