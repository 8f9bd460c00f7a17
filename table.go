package gopresentation

import "image/color"

// TableCell is one a:tc, already resolved to its spanning bounds.
type TableCell struct {
	Row, Col         int
	RowSpan, ColSpan int
	Bounds           Rect // pixel space
	Fill             *Fill
	BorderL, BorderR, BorderT, BorderB *Stroke
	MarginL, MarginT, MarginR, MarginB int64 // EMU
	Anchor           *VAnchor // nil => inherit body anchor
	Text             *TextBody
}

// TableData is a fully-parsed a:tbl: column widths, row heights (EMU), and
// the non-covered cells (hMerge/vMerge'd cells are skipped per spec.md
// §4.17).
type TableData struct {
	ColWidthsEMU []int64
	RowHeightsEMU []int64
	Cells        []TableCell
}

const defaultCellMarginEMU = 91440

// parseTable parses an a:tbl/a:graphicFrame graphic data node into
// TableData and lays its cells out in pixel space within bounds.
func parseTable(tblNode *Node, bounds Rect, scale Scale, theme *ColorScheme, lstStyle *Node) *TableData {
	td := &TableData{}
	grid := tblNode.Child("a:tblGrid")
	if grid != nil {
		for _, col := range grid.ChildrenNamed("a:gridCol") {
			td.ColWidthsEMU = append(td.ColWidthsEMU, int64(atoiOr(col.AttrOr("w", "0"), 0)))
		}
	}
	rows := tblNode.ChildrenNamed("a:tr")
	for _, row := range rows {
		h := int64(atoiOr(row.AttrOr("h", "0"), 0))
		td.RowHeightsEMU = append(td.RowHeightsEMU, h)
	}

	totalW := sumInt64(td.ColWidthsEMU)
	totalH := sumInt64(td.RowHeightsEMU)
	if totalW == 0 {
		totalW = 1
	}
	if totalH == 0 {
		totalH = 1
	}
	colX := cumulativePixels(td.ColWidthsEMU, bounds.X, bounds.W, totalW)
	rowY := cumulativePixels(td.RowHeightsEMU, bounds.Y, bounds.H, totalH)

	covered := make(map[[2]int]bool)
	for ri, row := range rows {
		ci := 0
		for _, tc := range row.ChildrenNamed("a:tc") {
			for covered[[2]int{ri, ci}] {
				ci++
			}
			hMerge := tc.AttrOr("hMerge", "0") == "1"
			vMerge := tc.AttrOr("vMerge", "0") == "1"
			gridSpan := atoiOr(tc.AttrOr("gridSpan", "1"), 1)
			rowSpan := atoiOr(tc.AttrOr("rowSpan", "1"), 1)
			if hMerge || vMerge {
				ci++
				continue
			}
			for dr := 0; dr < rowSpan; dr++ {
				for dc := 0; dc < gridSpan; dc++ {
					covered[[2]int{ri + dr, ci + dc}] = true
				}
			}
			cell := buildTableCell(tc, ri, ci, gridSpan, rowSpan, colX, rowY, scale, theme, lstStyle)
			td.Cells = append(td.Cells, cell)
			ci += gridSpan
		}
	}
	return td
}

func sumInt64(xs []int64) int64 {
	var s int64
	for _, v := range xs {
		s += v
	}
	return s
}

// cumulativePixels returns the pixel boundary positions (len(weights)+1
// entries) for weights scaled proportionally to fill originPx..+spanPx.
func cumulativePixels(weights []int64, originPx, spanPx float64, total int64) []float64 {
	bounds := make([]float64, len(weights)+1)
	bounds[0] = originPx
	acc := int64(0)
	for i, w := range weights {
		acc += w
		bounds[i+1] = originPx + spanPx*float64(acc)/float64(total)
	}
	return bounds
}

func buildTableCell(tc *Node, row, col, gridSpan, rowSpan int, colX, rowY []float64, scale Scale, theme *ColorScheme, lstStyle *Node) TableCell {
	cell := TableCell{
		Row: row, Col: col, RowSpan: rowSpan, ColSpan: gridSpan,
		MarginL: defaultCellMarginEMU, MarginR: defaultCellMarginEMU,
		MarginT: defaultCellMarginEMU / 2, MarginB: defaultCellMarginEMU / 2,
	}
	x0 := colX[col]
	x1 := colX[minInt(col+gridSpan, len(colX)-1)]
	y0 := rowY[row]
	y1 := rowY[minInt(row+rowSpan, len(rowY)-1)]
	cell.Bounds = Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}

	if tcPr := tc.Child("a:tcPr"); tcPr != nil {
		cell.MarginL = emuAttrOr(tcPr, "marL", defaultCellMarginEMU)
		cell.MarginR = emuAttrOr(tcPr, "marR", defaultCellMarginEMU)
		cell.MarginT = emuAttrOr(tcPr, "marT", defaultCellMarginEMU/2)
		cell.MarginB = emuAttrOr(tcPr, "marB", defaultCellMarginEMU/2)
		if f, ok := parseFill(tcPr, theme, nil); ok {
			cell.Fill = f
		}
		if ln := tcPr.Child("a:lnL"); ln != nil {
			cell.BorderL, _ = parseStroke(ln, theme, scale)
		}
		if ln := tcPr.Child("a:lnR"); ln != nil {
			cell.BorderR, _ = parseStroke(ln, theme, scale)
		}
		if ln := tcPr.Child("a:lnT"); ln != nil {
			cell.BorderT, _ = parseStroke(ln, theme, scale)
		}
		if ln := tcPr.Child("a:lnB"); ln != nil {
			cell.BorderB, _ = parseStroke(ln, theme, scale)
		}
		if anchor, ok := tcPr.Attr("anchor"); ok {
			var a VAnchor
			switch anchor {
			case "ctr":
				a = AnchorMiddle
			case "b":
				a = AnchorBottom
			default:
				a = AnchorTop
			}
			cell.Anchor = &a
		}
	}
	if txBody := tc.Child("a:txBody"); txBody != nil {
		cell.Text = parseTextBody(txBody, theme, lstStyle)
	}
	return cell
}

// RenderTable draws background, borders, and text for every cell in td.
func RenderTable(canvas *Canvas, td *TableData, scale Scale, fonts *FontCache, fontScheme *FontScheme, wrapper *WordWrapper, defaultColor RGBA) {
	for _, cell := range td.Cells {
		if cell.Fill != nil && cell.Fill.Kind == FillKindSolid {
			canvas.FillRect(rectToImageRect(cell.Bounds), color.RGBA(cell.Fill.Solid))
		}
		drawCellBorder(canvas, cell.Bounds, cell.BorderT, true, false)
		drawCellBorder(canvas, cell.Bounds, cell.BorderB, true, true)
		drawCellBorder(canvas, cell.Bounds, cell.BorderL, false, false)
		drawCellBorder(canvas, cell.Bounds, cell.BorderR, false, true)

		if cell.Text == nil {
			continue
		}
		marL := float64(cell.MarginL) * scale.X / emuPerInch * defaultDPI
		marR := float64(cell.MarginR) * scale.X / emuPerInch * defaultDPI
		marT := float64(cell.MarginT) * scale.Y / emuPerInch * defaultDPI
		marB := float64(cell.MarginB) * scale.Y / emuPerInch * defaultDPI
		inner := cell.Bounds.Inset(marL, marT, marR, marB)
		tb := *cell.Text
		if cell.Anchor != nil {
			tb.Anchor = *cell.Anchor
		}
		result := LayoutTextBody(&tb, inner, scale, fonts, fontScheme, wrapper, defaultColor)
		for _, r := range result.Runs {
			canvas.DrawRun(r)
		}
	}
}

func drawCellBorder(canvas *Canvas, bounds Rect, stroke *Stroke, horizontal bool, far bool) {
	if stroke == nil {
		return
	}
	var p0, p1 Point
	if horizontal {
		y := bounds.Y
		if far {
			y = bounds.Y + bounds.H
		}
		p0, p1 = Point{bounds.X, y}, Point{bounds.X + bounds.W, y}
	} else {
		x := bounds.X
		if far {
			x = bounds.X + bounds.W
		}
		p0, p1 = Point{x, bounds.Y}, Point{x, bounds.Y + bounds.H}
	}
	canvas.StrokePath([]PathSegment{MoveTo(p0), LineTo(p1)}, stroke.Color, stroke.WidthPx, stroke.Dash)
}
