package xlsx

import (
	"encoding/xml"
	"fmt"

	"github.com/tsawler/officeconv/model"
	"github.com/tsawler/officeconv/opc"
)

// maxGridCells bounds the dense grid a sheet is laid out on.
const maxGridCells = 1 << 20

// converter carries the workbook-wide state used while converting sheets.
type converter struct {
	pkg      *opc.Package
	sst      []string
	styles   *styleSheet
	sheet    string
	warnings []model.Warning
}

func (c *converter) warn(w model.Warning) {
	c.warnings = append(c.warnings, w)
}

// isolate runs fn and converts a panic into a warning for element.
func (c *converter) isolate(element string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.warn(model.Warnf(element, "recovered: %v", r))
		}
	}()
	fn()
}

func (c *converter) element() string {
	return fmt.Sprintf("sheet %q", c.sheet)
}

// convertSheet converts the worksheet stored in part. It returns nil for a
// sheet without any displayable cell.
func (c *converter) convertSheet(index int, name, part string, data []byte) (*model.TablePage, error) {
	c.sheet = name

	var ws worksheetXML
	if err := xml.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", part, err)
	}

	sheet := c.readSheet(&ws, name, index)
	used, ok := sheet.UsedRange()
	if !ok {
		return nil, nil
	}
	if cut, truncated := used.limit(maxGridCells); truncated {
		c.warn(model.Warnf(c.element(), "used range %s:%s truncated to %s:%s",
			CellRef(used.StartCol, used.StartRow), CellRef(used.EndCol, used.EndRow),
			CellRef(cut.StartCol, cut.StartRow), CellRef(cut.EndCol, cut.EndRow)))
		used = cut
	}

	table := c.buildTable(sheet, used)
	applyConditional(table, sheet, used, c.conditionalRules(&ws))

	size, margins := pageGeometry(&ws)
	page := &model.TablePage{
		Name:    name,
		Size:    size,
		Margins: margins,
		Table:   table,
		Charts:  c.charts(part, &ws, used),
	}
	if hf := ws.HeaderFooter; hf != nil {
		page.Header = headerFooter(hf.OddHeader, name)
		page.Footer = headerFooter(hf.OddFooter, name)
	}
	return page, nil
}
