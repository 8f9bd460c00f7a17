package gopresentation

import (
	"fmt"
	"sort"
)

// ChartType is the dispatch result from scanning c:plotArea for its first
// chart-kind element, combined with orientation/grouping, per spec.md
// §4.16.
type ChartType int

const (
	ChartBar ChartType = iota
	ChartColumn
	ChartStackedBar
	ChartStackedColumn
	ChartLine
	ChartPie
	ChartArea
)

// ChartSeries is one c:ser: a name, its category labels, and its values,
// plus the color the shape properties (or the default palette) assign it.
type ChartSeries struct {
	Name       string
	Categories []string
	Values     []float64
	Color      RGBA
}

// ChartData is the fully-parsed c:chartSpace, ready for layout.
type ChartData struct {
	Type   ChartType
	Title  string
	Series []ChartSeries
}

// defaultChartPalette cycles when a series has no explicit spPr fill.
var defaultChartPalette = []RGBA{
	{R: 0x43, G: 0x72, B: 0xC6, A: 255},
	{R: 0xED, G: 0x7D, B: 0x31, A: 255},
	{R: 0xA5, G: 0xA5, B: 0xA5, A: 255},
	{R: 0xFF, G: 0xC0, B: 0x00, A: 255},
	{R: 0x5B, G: 0x9B, B: 0xD5, A: 255},
	{R: 0x70, G: 0xAD, B: 0x47, A: 255},
	{R: 0x26, G: 0x4A, B: 0x78, A: 255},
	{R: 0x9E, G: 0x48, B: 0x0E, A: 255},
}

// parseChartSpace parses a c:chartSpace/c:chart/c:plotArea into ChartData.
func parseChartSpace(root *Node, theme *ColorScheme) (*ChartData, error) {
	chart := root.Child("c:chart")
	if chart == nil {
		return nil, fmt.Errorf("chart: missing c:chart element")
	}
	data := &ChartData{}
	if title := chart.Child("c:title"); title != nil {
		data.Title = chartTitleText(title)
	}
	plotArea := chart.Child("c:plotArea")
	if plotArea == nil {
		return nil, fmt.Errorf("chart: missing c:plotArea element")
	}

	kind, elem := firstChartKindElement(plotArea)
	if elem == nil {
		return nil, fmt.Errorf("chart: no recognized chart-type element")
	}
	data.Type = kind

	idx := 0
	for _, ser := range elem.ChildrenNamed("c:ser") {
		s := parseChartSeries(ser, theme, idx)
		data.Series = append(data.Series, s)
		idx++
	}
	return data, nil
}

func chartTitleText(title *Node) string {
	tx := title.Child("c:tx")
	if tx == nil {
		return ""
	}
	rich := tx.Child("c:rich")
	if rich == nil {
		return ""
	}
	var out string
	for _, p := range rich.ChildrenNamed("a:p") {
		for _, r := range p.ChildrenNamed("a:r") {
			if t := r.Child("a:t"); t != nil {
				out += t.Text
			}
		}
	}
	return out
}

// firstChartKindElement scans plotArea's direct children in document order
// for the first chart-kind element, and derives bar/column/stacked
// variants from c:barDir and c:grouping.
func firstChartKindElement(plotArea *Node) (ChartType, *Node) {
	for _, child := range plotArea.Children {
		switch child.Name {
		case "c:barChart":
			return barChartKind(child), child
		case "c:lineChart":
			return ChartLine, child
		case "c:pieChart":
			return ChartPie, child
		case "c:areaChart":
			return ChartArea, child
		}
	}
	return 0, nil
}

func barChartKind(barChart *Node) ChartType {
	horizontal := false
	if dir := barChart.Child("c:barDir"); dir != nil {
		horizontal = dir.AttrOr("val", "col") == "bar"
	}
	stacked := false
	if grouping := barChart.Child("c:grouping"); grouping != nil {
		v := grouping.AttrOr("val", "clustered")
		stacked = v == "stacked" || v == "percentStacked"
	}
	switch {
	case horizontal && stacked:
		return ChartStackedBar
	case horizontal:
		return ChartBar
	case stacked:
		return ChartStackedColumn
	default:
		return ChartColumn
	}
}

func parseChartSeries(ser *Node, theme *ColorScheme, idx int) ChartSeries {
	s := ChartSeries{Color: defaultChartPalette[idx%len(defaultChartPalette)]}
	if tx := ser.Child("c:tx"); tx != nil {
		if strRef := tx.Child("c:strRef"); strRef != nil {
			if cache := strRef.Child("c:strCache"); cache != nil {
				pts := sortedStrPts(cache)
				if len(pts) > 0 {
					s.Name = pts[0].val
				}
			}
		} else if v := tx.Child("c:v"); v != nil {
			s.Name = v.Text
		}
	}
	if cat := ser.Child("c:cat"); cat != nil {
		if strRef := cat.Child("c:strRef"); strRef != nil {
			if cache := strRef.Child("c:strCache"); cache != nil {
				for _, p := range sortedStrPts(cache) {
					s.Categories = append(s.Categories, p.val)
				}
			}
		} else if numRef := cat.Child("c:numRef"); numRef != nil {
			if cache := numRef.Child("c:numCache"); cache != nil {
				for _, p := range sortedNumPts(cache) {
					s.Categories = append(s.Categories, fmt.Sprintf("%g", p.val))
				}
			}
		}
	}
	if val := ser.Child("c:val"); val != nil {
		if numRef := val.Child("c:numRef"); numRef != nil {
			if cache := numRef.Child("c:numCache"); cache != nil {
				for _, p := range sortedNumPts(cache) {
					s.Values = append(s.Values, p.val)
				}
			}
		}
	}
	if spPr := ser.Child("c:spPr"); spPr != nil {
		if f, ok := parseFill(spPr, theme, nil); ok && f.Kind == FillKindSolid {
			s.Color = f.Solid
		}
	}
	return s
}

type strPt struct {
	idx int
	val string
}

type numPt struct {
	idx int
	val float64
}

func sortedStrPts(cache *Node) []strPt {
	var pts []strPt
	for _, pt := range cache.ChildrenNamed("c:pt") {
		idx := atoiOr(pt.AttrOr("idx", "0"), 0)
		text := ""
		if v := pt.Child("c:v"); v != nil {
			text = v.Text
		}
		pts = append(pts, strPt{idx: idx, val: text})
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].idx < pts[j].idx })
	return pts
}

func sortedNumPts(cache *Node) []numPt {
	var pts []numPt
	for _, pt := range cache.ChildrenNamed("c:pt") {
		idx := atoiOr(pt.AttrOr("idx", "0"), 0)
		val := 0.0
		if v := pt.Child("c:v"); v != nil {
			val = atofOr(v.Text, 0)
		}
		pts = append(pts, numPt{idx: idx, val: val})
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].idx < pts[j].idx })
	return pts
}
