package xlsx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tsawler/officeconv/condfmt"
)

// CellType represents the type of data in a cell.
type CellType int

const (
	// CellTypeString indicates a shared, inline or formula string.
	CellTypeString CellType = iota
	// CellTypeNumber indicates a numeric value.
	CellTypeNumber
	// CellTypeBoolean indicates a boolean value.
	CellTypeBoolean
	// CellTypeError indicates an error value such as #DIV/0!.
	CellTypeError
	// CellTypeEmpty indicates a cell that carries only a style.
	CellTypeEmpty
)

// String returns the string representation of the cell type.
func (t CellType) String() string {
	switch t {
	case CellTypeString:
		return "string"
	case CellTypeNumber:
		return "number"
	case CellTypeBoolean:
		return "boolean"
	case CellTypeError:
		return "error"
	case CellTypeEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Cell is a populated cell read from sheetData.
type Cell struct {
	Value  string   // display text
	Type   CellType // kind of the stored value
	Number float64  // numeric value when Type is CellTypeNumber
	Row    int      // 0-indexed
	Col    int      // 0-indexed
	Style  int      // cellXfs index
}

// IsEmpty reports whether the cell has nothing to display.
func (c *Cell) IsEmpty() bool {
	return c.Type == CellTypeEmpty || c.Value == ""
}

// Region is an inclusive rectangle of 0-indexed cells.
type Region struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

// Contains reports whether (row, col) lies inside the region.
func (r Region) Contains(row, col int) bool {
	return row >= r.StartRow && row <= r.EndRow && col >= r.StartCol && col <= r.EndCol
}

// Rows returns the number of rows the region covers.
func (r Region) Rows() int { return r.EndRow - r.StartRow + 1 }

// Cols returns the number of columns the region covers.
func (r Region) Cols() int { return r.EndCol - r.StartCol + 1 }

// limit cuts r to at most cells grid positions by dropping trailing rows.
// At least one row is kept. It reports whether r was cut.
func (r Region) limit(cells int) (Region, bool) {
	if r.Rows()*r.Cols() <= cells {
		return r, false
	}
	r.EndRow = r.StartRow + max(cells/r.Cols(), 1) - 1
	return r, true
}

// extend grows the region to include (row, col).
func (r *Region) extend(row, col int) {
	r.StartRow = min(r.StartRow, row)
	r.StartCol = min(r.StartCol, col)
	r.EndRow = max(r.EndRow, row)
	r.EndCol = max(r.EndCol, col)
}

// Sheet is a worksheet as read from its part, before conversion.
type Sheet struct {
	Name  string
	Index int
	Cells []Cell

	// Merges are the merged regions in document order.
	Merges []Region

	// ColumnWidths maps a 0-indexed column to its width in characters.
	ColumnWidths map[int]float64
	// DefaultWidth is the width in characters of columns without a <col>.
	DefaultWidth float64
	// RowHeights maps a 0-indexed row to its height in points.
	RowHeights map[int]float64
}

// UsedRange returns the smallest region holding every non-empty cell. ok
// is false for a sheet with nothing to display.
func (s *Sheet) UsedRange() (r Region, ok bool) {
	for i := range s.Cells {
		c := &s.Cells[i]
		if c.IsEmpty() {
			continue
		}
		if !ok {
			r = Region{StartRow: c.Row, StartCol: c.Col, EndRow: c.Row, EndCol: c.Col}
			ok = true
			continue
		}
		r.extend(c.Row, c.Col)
	}
	return r, ok
}

// ColumnWidth returns the width of a 0-indexed column in characters.
func (s *Sheet) ColumnWidth(col int) float64 {
	if w, ok := s.ColumnWidths[col]; ok {
		return w
	}
	return s.DefaultWidth
}

// Worksheet grid limits.
const (
	MaxColumns = 16384 // XFD
	MaxRows    = 1048576
)

// ParseCellRef parses a cell reference like "A1" or "$AA$100" into column
// and row indices (0-indexed). References beyond XFD1048576 are rejected.
func ParseCellRef(ref string) (col, row int, err error) {
	ref = strings.ReplaceAll(ref, "$", "")
	if ref == "" {
		return 0, 0, fmt.Errorf("empty cell reference")
	}

	i := 0
	for i < len(ref) && isLetter(ref[i]) {
		i++
	}
	if i == 0 {
		return 0, 0, fmt.Errorf("invalid cell reference %q: no column letters", ref)
	}
	if i == len(ref) {
		return 0, 0, fmt.Errorf("invalid cell reference %q: no row number", ref)
	}

	if i > 3 {
		return 0, 0, fmt.Errorf("invalid column: %s", ref[:i])
	}
	col = ColumnToIndex(ref[:i])
	if col < 0 || col >= MaxColumns {
		return 0, 0, fmt.Errorf("invalid column: %s", ref[:i])
	}

	// Rows are 1-indexed in the file.
	rowNum, err := strconv.Atoi(ref[i:])
	if err != nil || rowNum < 1 || rowNum > MaxRows {
		return 0, 0, fmt.Errorf("invalid row: %s", ref[i:])
	}
	return col, rowNum - 1, nil
}

// ColumnToIndex converts a column letter(s) to a 0-indexed column number.
// A=0, B=1, ..., Z=25, AA=26, AB=27, etc.
func ColumnToIndex(col string) int {
	col = strings.ToUpper(col)
	result := 0
	for _, c := range col {
		if c < 'A' || c > 'Z' {
			return -1
		}
		result = result*26 + int(c-'A') + 1
	}
	return result - 1
}

// IndexToColumn converts a 0-indexed column number to column letter(s).
// 0=A, 1=B, ..., 25=Z, 26=AA, 27=AB, etc.
func IndexToColumn(index int) string {
	if index < 0 {
		return ""
	}

	var buf []byte
	index++
	for index > 0 {
		index--
		buf = append([]byte{byte('A' + index%26)}, buf...)
		index /= 26
	}
	return string(buf)
}

// CellRef creates a cell reference string from column and row indices (0-indexed).
func CellRef(col, row int) string {
	return fmt.Sprintf("%s%d", IndexToColumn(col), row+1)
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// ParseRangeRef parses a range like "A1:D10" into a region. A single cell
// reference is a one-cell region. The corners may be given in any order.
func ParseRangeRef(ref string) (Region, error) {
	from, to, found := strings.Cut(ref, ":")
	if !found {
		to = from
	}

	startCol, startRow, err := ParseCellRef(from)
	if err != nil {
		return Region{}, fmt.Errorf("invalid start cell: %w", err)
	}
	endCol, endRow, err := ParseCellRef(to)
	if err != nil {
		return Region{}, fmt.Errorf("invalid end cell: %w", err)
	}

	r := Region{StartRow: startRow, StartCol: startCol, EndRow: startRow, EndCol: startCol}
	r.extend(endRow, endCol)
	return r, nil
}

// parseSqref parses a space-separated list of ranges into 1-indexed
// conditional formatting ranges, skipping malformed entries.
func parseSqref(sqref string) []condfmt.Range {
	var ranges []condfmt.Range
	for _, field := range strings.Fields(sqref) {
		r, err := ParseRangeRef(field)
		if err != nil {
			continue
		}
		ranges = append(ranges, condfmt.Range{
			From: condfmt.CellRef{Col: r.StartCol + 1, Row: r.StartRow + 1},
			To:   condfmt.CellRef{Col: r.EndCol + 1, Row: r.EndRow + 1},
		})
	}
	return ranges
}
