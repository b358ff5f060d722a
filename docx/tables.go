package docx

import (
	"strconv"
	"strings"

	"github.com/tsawler/officeconv/model"
)

// vMergeState classifies a cell's w:vMerge marker.
type vMergeState int

const (
	vMergeNone vMergeState = iota
	vMergeRestart
	vMergeContinue
)

// rawCell is a cell after the first pass: content converted, grid column
// known, merge marker not yet resolved.
type rawCell struct {
	cell   model.TableCell
	col    int
	vMerge vMergeState
}

// TableParser handles parsing of DOCX tables.
type TableParser struct {
	styleResolver *StyleResolver
	// content converts the block children of a cell.
	content func([]bodyElement) []model.Block
	warn    func(model.Warning)
}

// NewTableParser creates a new table parser.
func NewTableParser(resolver *StyleResolver, content func([]bodyElement) []model.Block, warn func(model.Warning)) *TableParser {
	return &TableParser{
		styleResolver: resolver,
		content:       content,
		warn:          warn,
	}
}

// ParseTable converts a w:tbl element. The first pass collects cells with
// their grid columns and vMerge markers; the second pass turns each restart
// into a row span covering the continue cells below it and drops those.
func (tp *TableParser) ParseTable(tbl tableXML) *model.Table {
	table := &model.Table{ColumnWidths: parseTableGrid(tbl.Grid)}

	borders := tbl.Properties.Borders
	if borders == (tableBordersXML{}) && tp.styleResolver != nil {
		borders = tp.styleResolver.TableBorders(tbl.Properties.Style.Val)
	}

	rows := make([][]rawCell, len(tbl.Rows))
	for r, row := range tbl.Rows {
		rows[r] = tp.parseRow(row)
	}

	cols := len(table.ColumnWidths)
	for _, row := range rows {
		if n := rowWidth(row); n > cols {
			cols = n
		}
	}

	tp.resolveMerges(table, tbl.Rows, rows, borders, cols)
	return table
}

func parseTableGrid(grid tableGridXML) []float64 {
	if len(grid.Cols) == 0 {
		return nil
	}
	widths := make([]float64, len(grid.Cols))
	for i, col := range grid.Cols {
		widths[i] = parseTwips(col.W)
	}
	return widths
}

func rowWidth(row []rawCell) int {
	if len(row) == 0 {
		return 0
	}
	last := row[len(row)-1]
	return last.col + last.cell.ColSpan
}

// parseRow runs the first pass over one row.
func (tp *TableParser) parseRow(row tableRowXML) []rawCell {
	cells := make([]rawCell, 0, len(row.Cells))
	col := 0
	for _, tc := range row.Cells {
		rc := rawCell{cell: tp.parseCell(tc), col: col}
		if v := tc.Properties.VMerge; v != nil {
			if v.Val == "restart" {
				rc.vMerge = vMergeRestart
			} else {
				rc.vMerge = vMergeContinue
			}
		}
		cells = append(cells, rc)
		col += rc.cell.ColSpan
	}
	return cells
}

// parseCell converts a table cell's properties and content.
func (tp *TableParser) parseCell(tc tableCellXML) model.TableCell {
	cell := model.NewTableCell()
	props := tc.Properties

	if props.GridSpan.Val != "" {
		if span, err := strconv.Atoi(props.GridSpan.Val); err == nil && span > 0 {
			cell.ColSpan = min(span, model.MaxTableColumns)
		}
	}

	switch props.VAlign.Val {
	case "center":
		cell.VerticalAlign = model.VAlignMiddle
	case "bottom":
		cell.VerticalAlign = model.VAlignBottom
	}

	cell.Background = shadingColor(props.Shading)

	if tp.content != nil {
		cell.Content = tp.content(tc.Content)
	}
	return cell
}

// resolveMerges runs the second pass and appends the final rows to table.
func (tp *TableParser) resolveMerges(table *model.Table, src []tableRowXML, rows [][]rawCell, borders tableBordersXML, cols int) {
	type origin struct{ row, idx int }
	open := make(map[int]origin) // grid column -> merge origin

	for r, row := range rows {
		out := model.TableRow{}
		if h := src[r].Properties.Height.Val; h != "" {
			out.Height = model.Float(parseTwips(h))
		}

		for i, rc := range row {
			if rc.vMerge == vMergeContinue {
				if o, ok := open[rc.col]; ok {
					table.Rows[o.row].Cells[o.idx].RowSpan++
					continue
				}
				if tp.warn != nil {
					tp.warn(model.Warnf("table row "+strconv.Itoa(r+1), "orphan vertical merge continuation"))
				}
			}

			cell := rc.cell
			tc := src[r].Cells[i]
			cell.Border = cellBorder(tc.Properties.Borders, borders, r, len(rows), rc.col, cell.ColSpan, cols)

			if rc.vMerge == vMergeRestart {
				open[rc.col] = origin{row: r, idx: len(out.Cells)}
			} else {
				delete(open, rc.col)
			}
			out.Cells = append(out.Cells, cell)
		}
		table.Rows = append(table.Rows, out)
	}
}

// cellBorder combines a cell's own borders with the table-level borders
// that apply at its position. Sides declared nowhere are left empty.
func cellBorder(own, table tableBordersXML, row, rows, col, span, cols int) *model.CellBorder {
	pick := func(cell *borderXML, outer, inner *borderXML, isOuter bool) *model.BorderSide {
		if cell != nil {
			return borderSide(cell)
		}
		if isOuter {
			return borderSide(outer)
		}
		return borderSide(inner)
	}

	b := &model.CellBorder{
		Top:    pick(own.Top, table.Top, table.InsideH, row == 0),
		Bottom: pick(own.Bottom, table.Bottom, table.InsideH, row == rows-1),
		Left:   pick(firstBorder(own.Left, own.Start), firstBorder(table.Left, table.Start), table.InsideV, col == 0),
		Right:  pick(firstBorder(own.Right, own.End), firstBorder(table.Right, table.End), table.InsideV, col+span >= cols),
	}
	if b.IsEmpty() {
		return nil
	}
	return b
}

func firstBorder(borders ...*borderXML) *borderXML {
	for _, b := range borders {
		if b != nil {
			return b
		}
	}
	return nil
}

// borderSide converts one border element. nil, none and nil-valued borders
// produce no side; auto colour is black.
func borderSide(b *borderXML) *model.BorderSide {
	if b == nil {
		return nil
	}
	style := model.BorderSolid
	switch b.Val {
	case "", "nil", "none":
		return nil
	case "double", "triple", "thinThickSmallGap", "thickThinSmallGap":
		style = model.BorderDouble
	case "dotted", "dotDotDash":
		style = model.BorderDotted
	case "dashed", "dashSmallGap", "dotDash", "dashDotStroked":
		style = model.BorderDashed
	}

	width := 0.5
	if sz, err := strconv.ParseFloat(b.Sz, 64); err == nil && sz > 0 {
		width = sz / 8
	}

	color := model.Black
	if c, ok := model.ParseHexColor(b.Color); ok {
		color = c
	}
	return &model.BorderSide{Width: width, Color: color, Style: style}
}

// shadingColor returns the background of a w:shd, or nil when the fill is
// absent, auto or the implicit white.
func shadingColor(shd shadingXML) *model.Color {
	fill := strings.ToUpper(shd.Fill)
	if fill == "" || fill == "AUTO" || fill == "FFFFFF" {
		return nil
	}
	c, ok := model.ParseHexColor(fill)
	if !ok {
		return nil
	}
	return &c
}
