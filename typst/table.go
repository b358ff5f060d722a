package typst

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tsawler/officeconv/model"
)

// gridSlot is one emitted table cell. A nil cell is padding for a grid
// position no source cell claims.
type gridSlot struct {
	cell    *model.TableCell
	col     int
	colspan int
	rowspan int
}

// gridPlan places every non-continuation cell on the logical grid.
type gridPlan struct {
	columns int
	rows    [][]gridSlot
	// origin[r][c] is the row whose slot covers grid position (r, c).
	origin [][]int
}

// planGrid walks the rows with a per-column count of rows still covered
// by an earlier row span. Covered columns are skipped, each cell's column
// span is clamped to the free columns left at its position, row spans are
// clamped to the end of the table, and free columns after the last cell
// are padded so every row fills the logical column count.
func planGrid(t *model.Table) *gridPlan {
	cols := t.ColumnCount()
	p := &gridPlan{
		columns: cols,
		rows:    make([][]gridSlot, len(t.Rows)),
		origin:  make([][]int, len(t.Rows)),
	}
	remaining := make([]int, cols)
	owner := make([]int, cols)

	for r := range t.Rows {
		p.origin[r] = make([]int, cols)
		col := 0
		for i := range t.Rows[r].Cells {
			cell := &t.Rows[r].Cells[i]
			if cell.IsContinuation() {
				continue
			}
			for col < cols && remaining[col] > 0 {
				col++
			}
			if col >= cols {
				break
			}
			colspan := min(max(cell.ColSpan, 1), freeRun(remaining, col))
			rowspan := min(max(cell.RowSpan, 1), len(t.Rows)-r)
			p.rows[r] = append(p.rows[r], gridSlot{cell: cell, col: col, colspan: colspan, rowspan: rowspan})
			for c := col; c < col+colspan; c++ {
				remaining[c] = rowspan
				owner[c] = r
			}
			col += colspan
		}
		for c := 0; c < cols; c++ {
			if remaining[c] == 0 {
				p.rows[r] = append(p.rows[r], gridSlot{col: c, colspan: 1, rowspan: 1})
				remaining[c] = 1
				owner[c] = r
			}
		}
		sort.SliceStable(p.rows[r], func(i, j int) bool {
			return p.rows[r][i].col < p.rows[r][j].col
		})
		for c := 0; c < cols; c++ {
			p.origin[r][c] = owner[c]
			remaining[c]--
		}
	}
	return p
}

// freeRun counts the consecutive uncovered columns starting at col.
func freeRun(remaining []int, col int) int {
	n := 0
	for c := col; c < len(remaining) && remaining[c] == 0; c++ {
		n++
	}
	return n
}

// slice returns the slots of rows [start, end) as a self-contained grid:
// row spans are cut at end and positions covered by a span that began
// before start are padded.
func (p *gridPlan) slice(start, end int) [][]gridSlot {
	out := make([][]gridSlot, 0, end-start)
	for r := start; r < end; r++ {
		var row []gridSlot
		for _, s := range p.rows[r] {
			s.rowspan = min(s.rowspan, end-r)
			row = append(row, s)
		}
		if r == start {
			for c := 0; c < p.columns; c++ {
				if p.origin[r][c] < start {
					row = append(row, gridSlot{col: c, colspan: 1, rowspan: coveredRows(p, c, start, end)})
				}
			}
		}
		sort.SliceStable(row, func(i, j int) bool { return row[i].col < row[j].col })
		out = append(out, row)
	}
	return out
}

// coveredRows counts the rows from start that column c stays covered by
// the span that began before start.
func coveredRows(p *gridPlan, c, start, end int) int {
	origin := p.origin[start][c]
	n := 0
	for r := start; r < end && p.origin[r][c] == origin; r++ {
		n++
	}
	return n
}

// table renders a complete table.
func (g *generator) table(t *model.Table) string {
	if t == nil || len(t.Rows) == 0 {
		return ""
	}
	return g.tableRows(t, planGrid(t), 0, len(t.Rows))
}

// tableRows renders rows [start, end) of t as one #table.
func (g *generator) tableRows(t *model.Table, plan *gridPlan, start, end int) string {
	if plan.columns == 0 {
		return ""
	}

	var args []string
	if len(t.ColumnWidths) == plan.columns {
		widths := make([]string, len(t.ColumnWidths))
		for i, w := range t.ColumnWidths {
			widths[i] = pt(w)
		}
		args = append(args, "columns: ("+strings.Join(widths, ", ")+",)")
	} else {
		args = append(args, fmt.Sprintf("columns: %d", plan.columns))
	}

	var heights []string
	explicit := false
	for r := start; r < end; r++ {
		if h := t.Rows[r].Height; h != nil {
			heights = append(heights, pt(*h))
			explicit = true
		} else {
			heights = append(heights, "auto")
		}
	}
	if explicit {
		args = append(args, "rows: ("+strings.Join(heights, ", ")+",)")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "#table(\n  %s,\n", strings.Join(args, ", "))
	for _, row := range plan.slice(start, end) {
		for _, s := range row {
			sb.WriteString("  ")
			sb.WriteString(g.tableCell(s))
			sb.WriteString(",\n")
		}
	}
	sb.WriteString(")")
	return sb.String()
}

func (g *generator) tableCell(s gridSlot) string {
	if s.cell == nil {
		if s.rowspan > 1 {
			return fmt.Sprintf("table.cell(rowspan: %d)[]", s.rowspan)
		}
		return "[]"
	}
	cell := s.cell

	var args []string
	if s.colspan > 1 {
		args = append(args, fmt.Sprintf("colspan: %d", s.colspan))
	}
	if s.rowspan > 1 {
		args = append(args, fmt.Sprintf("rowspan: %d", s.rowspan))
	}
	if cell.Background != nil {
		args = append(args, "fill: "+colorValue(*cell.Background))
	}
	if stroke := cellStroke(cell.Border); stroke != "" {
		args = append(args, "stroke: "+stroke)
	}
	switch cell.VerticalAlign {
	case model.VAlignMiddle:
		args = append(args, "align: horizon")
	case model.VAlignBottom:
		args = append(args, "align: bottom")
	}

	body := g.blocks(cell.Content)
	if cell.Icon != "" {
		body = escapeText(cell.Icon) + " " + body
	}
	if bar := cell.DataBar; bar != nil {
		pct := min(max(bar.FillPercent, 0), 100)
		body = fmt.Sprintf("#place(left + horizon, rect(width: %s%%, height: 1em, fill: %s.transparentize(40%%), stroke: none))%s",
			num(pct), colorValue(bar.Color), body)
	}

	if len(args) == 0 {
		return "[" + body + "]"
	}
	return "table.cell(" + strings.Join(args, ", ") + ")[" + body + "]"
}

// cellStroke renders a per-side stroke dictionary.
func cellStroke(b *model.CellBorder) string {
	if b.IsEmpty() {
		return ""
	}
	var sides []string
	add := func(name string, s *model.BorderSide) {
		if s != nil {
			sides = append(sides, name+": "+strokeValue(s.Width, s.Color, s.Style))
		}
	}
	add("top", b.Top)
	add("right", b.Right)
	add("bottom", b.Bottom)
	add("left", b.Left)
	return "(" + strings.Join(sides, ", ") + ")"
}

// strokeValue renders a stroke. Typst has no double line, so a double
// border is drawn as a single line of the full width.
func strokeValue(width float64, c model.Color, style model.BorderStyle) string {
	switch style {
	case model.BorderDashed:
		return fmt.Sprintf("(paint: %s, thickness: %s, dash: \"dashed\")", colorValue(c), pt(width))
	case model.BorderDotted:
		return fmt.Sprintf("(paint: %s, thickness: %s, dash: \"dotted\")", colorValue(c), pt(width))
	default:
		return pt(width) + " + " + colorValue(c)
	}
}
