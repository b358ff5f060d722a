package model

import "strings"

// Table is a grid of cells organised in rows.
type Table struct {
	Rows []TableRow
	// ColumnWidths are explicit column widths in points. Empty means the
	// renderer chooses.
	ColumnWidths []float64
}

// TableRow is one row of a table.
type TableRow struct {
	Cells  []TableCell
	Height *float64
}

// TableCell is a table cell. ColSpan and RowSpan default to 1; zero on
// either marks a merge continuation.
type TableCell struct {
	Content    []Block
	ColSpan    int
	RowSpan    int
	Border     *CellBorder
	Background *Color
	DataBar    *DataBar
	Icon       string
	// VerticalAlign is applied to the cell content.
	VerticalAlign VerticalAlignment
}

// NewTableCell returns a cell with unit spans holding the given blocks.
func NewTableCell(content ...Block) TableCell {
	return TableCell{Content: content, ColSpan: 1, RowSpan: 1}
}

// IsContinuation reports whether the cell is a merge-continuation marker.
func (c *TableCell) IsContinuation() bool {
	return c.ColSpan == 0 || c.RowSpan == 0
}

// PlainText returns the text of every paragraph in the cell joined by
// newlines.
func (c *TableCell) PlainText() string {
	var parts []string
	for _, b := range c.Content {
		if p, ok := b.(*Paragraph); ok {
			parts = append(parts, p.PlainText())
		}
	}
	return strings.Join(parts, "\n")
}

// VerticalAlignment represents vertical alignment
type VerticalAlignment int

const (
	VAlignTop VerticalAlignment = iota
	VAlignMiddle
	VAlignBottom
)

// BorderStyle is the line style of a border or stroke.
type BorderStyle int

const (
	BorderSolid BorderStyle = iota
	BorderDashed
	BorderDotted
	BorderDouble
)

func (s BorderStyle) String() string {
	switch s {
	case BorderDashed:
		return "dashed"
	case BorderDotted:
		return "dotted"
	case BorderDouble:
		return "double"
	default:
		return "solid"
	}
}

// BorderSide is one edge of a cell border.
type BorderSide struct {
	Width float64 // points
	Color Color
	Style BorderStyle
}

// CellBorder holds the four sides of a cell border. A nil side has no
// border.
type CellBorder struct {
	Top    *BorderSide
	Right  *BorderSide
	Bottom *BorderSide
	Left   *BorderSide
}

// IsEmpty reports whether no side is set.
func (b *CellBorder) IsEmpty() bool {
	return b == nil || (b.Top == nil && b.Right == nil && b.Bottom == nil && b.Left == nil)
}

// DataBar is a conditional-formatting bar drawn behind cell content.
type DataBar struct {
	Color       Color
	FillPercent float64 // 0-100
}

// NewTable creates a table with rows x cols empty unit cells.
func NewTable(rows, cols int) *Table {
	table := &Table{
		Rows: make([]TableRow, rows),
	}
	for i := 0; i < rows; i++ {
		table.Rows[i].Cells = make([]TableCell, cols)
		for j := 0; j < cols; j++ {
			table.Rows[i].Cells[j] = NewTableCell()
		}
	}
	return table
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// MaxTableColumns bounds the logical column count of a table. It matches
// the spreadsheet column limit.
const MaxTableColumns = 16384

// ColumnCount returns the logical number of grid columns: the explicit
// column width count when present, otherwise the widest row once spans and
// active row spans from earlier rows are accounted for. The result never
// exceeds MaxTableColumns; spans reaching past it are cut.
func (t *Table) ColumnCount() int {
	if len(t.ColumnWidths) > 0 {
		return min(len(t.ColumnWidths), MaxTableColumns)
	}

	maxCols := 0
	var pending []int // rows still covered, per column
	for _, row := range t.Rows {
		col := 0
		for _, cell := range row.Cells {
			if cell.IsContinuation() {
				continue
			}
			for col < len(pending) && pending[col] > 0 {
				col++
			}
			if col >= MaxTableColumns {
				break
			}
			span := min(cell.ColSpan, MaxTableColumns-col)
			for i := 0; i < span; i++ {
				for len(pending) <= col+i {
					pending = append(pending, 0)
				}
				if cell.RowSpan > 1 {
					pending[col+i] = cell.RowSpan
				}
			}
			col += span
		}
		if col > maxCols {
			maxCols = col
		}
		for i := range pending {
			if pending[i] > 0 {
				pending[i]--
			}
		}
		if len(pending) > maxCols {
			maxCols = len(pending)
		}
	}
	return maxCols
}

// GetCell returns the cell at the given row and cell index (0-indexed), or
// nil when out of range.
func (t *Table) GetCell(row, col int) *TableCell {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	if col < 0 || col >= len(t.Rows[row].Cells) {
		return nil
	}
	return &t.Rows[row].Cells[col]
}
