package xlsx

import (
	"strconv"

	"github.com/tsawler/officeconv/model"
)

// readSheet collects the populated cells, merges and dimensions of a
// worksheet. Cells whose reference cannot be parsed are placed after the
// previous cell of their row.
func (c *converter) readSheet(ws *worksheetXML, name string, index int) *Sheet {
	s := &Sheet{
		Name:         name,
		Index:        index,
		ColumnWidths: make(map[int]float64),
		RowHeights:   make(map[int]float64),
		DefaultWidth: model.DefaultColumnWidth,
	}
	if f := ws.FormatPr; f != nil && f.DefaultColWidth > 0 {
		s.DefaultWidth = f.DefaultColWidth
	}
	for _, col := range ws.Cols {
		if col.Width <= 0 || col.Min < 1 {
			continue
		}
		for i := col.Min; i <= min(max(col.Min, col.Max), MaxColumns); i++ {
			s.ColumnWidths[i-1] = col.Width
		}
	}

	row := -1
	for _, rx := range ws.Rows {
		if rx.R > 0 {
			row = rx.R - 1
		} else {
			row++
		}
		if row >= MaxRows {
			c.warn(model.Warnf(c.element(), "row %d beyond the last worksheet row", row+1))
			break
		}
		if rx.Ht > 0 {
			s.RowHeights[row] = rx.Ht
		}

		col := -1
		for i := range rx.Cells {
			cx := &rx.Cells[i]
			r := row
			if cc, rr, err := ParseCellRef(cx.R); err == nil {
				col, r = cc, rr
			} else {
				col++
			}
			if col >= MaxColumns {
				c.warn(model.Warnf(c.element(), "cell %q beyond the last worksheet column", cx.R))
				break
			}
			cell := c.cellValue(cx)
			cell.Row, cell.Col, cell.Style = r, col, cx.S
			s.Cells = append(s.Cells, cell)
		}
	}

	for _, mc := range ws.MergeCells {
		region, err := ParseRangeRef(mc.Ref)
		if err != nil {
			c.warn(model.Warnf(c.element(), "merge %q: %v", mc.Ref, err))
			continue
		}
		s.Merges = append(s.Merges, region)
	}
	return s
}

// cellValue decodes the stored value of a cell into its display text.
func (c *converter) cellValue(cx *cellXML) Cell {
	switch cx.T {
	case "s":
		idx, err := strconv.Atoi(cx.V)
		if err != nil || idx < 0 || idx >= len(c.sst) {
			c.warn(model.Warnf(c.element(), "cell %s: shared string %q out of range", cx.R, cx.V))
			return Cell{Type: CellTypeEmpty}
		}
		return Cell{Value: c.sst[idx], Type: CellTypeString}
	case "inlineStr":
		if cx.Is == nil {
			return Cell{Type: CellTypeEmpty}
		}
		return Cell{Value: cx.Is.text(), Type: CellTypeString}
	case "b":
		if cx.V == "" {
			return Cell{Type: CellTypeEmpty}
		}
		if cx.V == "1" || cx.V == "true" {
			return Cell{Value: "TRUE", Type: CellTypeBoolean}
		}
		return Cell{Value: "FALSE", Type: CellTypeBoolean}
	case "e":
		return Cell{Value: cx.V, Type: CellTypeError}
	case "str", "d":
		return Cell{Value: cx.V, Type: CellTypeString}
	}

	if cx.V == "" {
		return Cell{Type: CellTypeEmpty}
	}
	v, ok := parseFloat(cx.V)
	if !ok {
		return Cell{Value: cx.V, Type: CellTypeString}
	}
	return Cell{
		Value:  formatNumber(v, c.styles.cell(cx.S)),
		Type:   CellTypeNumber,
		Number: v,
	}
}

// buildTable lays the used range of s out as a dense grid. Merged regions
// are clipped to the used range; the top-left cell of each carries the
// spans and the cells it covers become continuations without content.
func (c *converter) buildTable(s *Sheet, used Region) *model.Table {
	table := model.NewTable(used.Rows(), used.Cols())

	for col := used.StartCol; col <= used.EndCol; col++ {
		table.ColumnWidths = append(table.ColumnWidths, model.ColumnWidthToPoints(s.ColumnWidth(col)))
	}
	for row := used.StartRow; row <= used.EndRow; row++ {
		if ht, ok := s.RowHeights[row]; ok {
			table.Rows[row-used.StartRow].Height = model.Float(ht)
		}
	}

	for i := range s.Cells {
		cell := &s.Cells[i]
		if !used.Contains(cell.Row, cell.Col) {
			continue
		}
		tc := &table.Rows[cell.Row-used.StartRow].Cells[cell.Col-used.StartCol]
		st := c.styles.cell(cell.Style)
		tc.Border = st.border
		tc.Background = st.background
		tc.VerticalAlign = st.valign
		if cell.IsEmpty() {
			continue
		}
		para := &model.Paragraph{
			Style: model.ParagraphStyle{Alignment: st.alignment},
			Runs:  []model.Run{{Text: cell.Value, Style: st.text}},
		}
		if cell.Type == CellTypeNumber && !st.aligned {
			para.Style.Alignment = model.AlignRight
		}
		tc.Content = []model.Block{para}
	}

	for _, m := range s.Merges {
		c.merge(table, used, m)
	}
	return table
}

func (c *converter) merge(table *model.Table, used Region, m Region) {
	clip := Region{
		StartRow: max(m.StartRow, used.StartRow),
		StartCol: max(m.StartCol, used.StartCol),
		EndRow:   min(m.EndRow, used.EndRow),
		EndCol:   min(m.EndCol, used.EndCol),
	}
	if clip.StartRow > clip.EndRow || clip.StartCol > clip.EndCol || (clip.Rows() == 1 && clip.Cols() == 1) {
		return
	}

	for row := clip.StartRow; row <= clip.EndRow; row++ {
		for col := clip.StartCol; col <= clip.EndCol; col++ {
			tc := &table.Rows[row-used.StartRow].Cells[col-used.StartCol]
			if tc.IsContinuation() || tc.ColSpan > 1 || tc.RowSpan > 1 {
				c.warn(model.Warnf(c.element(), "merge %s:%s overlaps another merge",
					CellRef(m.StartCol, m.StartRow), CellRef(m.EndCol, m.EndRow)))
				return
			}
		}
	}

	for row := clip.StartRow; row <= clip.EndRow; row++ {
		for col := clip.StartCol; col <= clip.EndCol; col++ {
			tc := &table.Rows[row-used.StartRow].Cells[col-used.StartCol]
			if row == clip.StartRow && col == clip.StartCol {
				tc.ColSpan = clip.Cols()
				tc.RowSpan = clip.Rows()
				continue
			}
			tc.ColSpan, tc.RowSpan = 0, 0
			tc.Content = nil
		}
	}
}
