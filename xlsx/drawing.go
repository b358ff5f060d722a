package xlsx

import (
	"encoding/xml"
	"sort"

	"github.com/tsawler/officeconv/chart"
	"github.com/tsawler/officeconv/model"
)

// charts returns the charts of the sheet's drawing, each anchored before
// the table row its top edge sits on. Rows above the used range anchor at
// the top of the table and rows below it at the end.
func (c *converter) charts(sheetPart string, ws *worksheetXML, used Region) []model.AnchoredChart {
	if ws.Drawing == nil || ws.Drawing.ID == "" {
		return nil
	}
	rels, err := c.pkg.Relationships(sheetPart)
	if err != nil {
		c.warn(model.Warnf(c.element(), "relationships: %v", err))
		return nil
	}
	rel, ok := rels[ws.Drawing.ID]
	if !ok || rel.External {
		c.warn(model.Warnf(c.element(), "drawing relationship %q not found", ws.Drawing.ID))
		return nil
	}
	data, err := c.pkg.Read(rel.Target)
	if err != nil {
		c.warn(model.Warnf(c.element(), "drawing: %v", err))
		return nil
	}
	var drawing drawingXML
	if err := xml.Unmarshal(data, &drawing); err != nil {
		c.warn(model.Warnf(c.element(), "parsing %s: %v", rel.Target, err))
		return nil
	}
	drawingRels, err := c.pkg.Relationships(rel.Target)
	if err != nil {
		c.warn(model.Warnf(c.element(), "relationships: %v", err))
		return nil
	}

	var out []model.AnchoredChart
	anchors := append(drawing.TwoCellAnchors, drawing.OneCellAnchors...)
	for _, a := range anchors {
		if a.Chart == nil {
			continue
		}
		target, ok := drawingRels.Target(a.Chart.ID)
		if !ok {
			c.warn(model.Warnf(c.element(), "chart relationship %q not found", a.Chart.ID))
			continue
		}
		data, err := c.pkg.Read(target)
		if err != nil {
			c.warn(model.Warnf(c.element(), "chart: %v", err))
			continue
		}
		ch, err := chart.Parse(data)
		if err != nil {
			c.warn(model.Warnf(c.element(), "chart %s: %v", target, err))
			continue
		}
		row := min(max(a.From.Row-used.StartRow, 0), used.Rows())
		out = append(out, model.AnchoredChart{Row: row, Chart: ch})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Row < out[j].Row })
	return out
}
