package xlsx

import (
	"github.com/tsawler/officeconv/condfmt"
	"github.com/tsawler/officeconv/model"
)

// conditionalRules converts the sheet's conditionalFormatting blocks into
// rules in document order. Rule kinds that cannot be evaluated are skipped.
func (c *converter) conditionalRules(ws *worksheetXML) []condfmt.Rule {
	var rules []condfmt.Rule
	for _, cf := range ws.CondFormats {
		ranges := parseSqref(cf.Sqref)
		if len(ranges) == 0 {
			continue
		}
		for _, x := range cf.Rules {
			rule := condfmt.Rule{
				Type:     condfmt.ParseRuleType(x.Type),
				Ranges:   ranges,
				Formulas: x.Formulas,
			}
			switch rule.Type {
			case condfmt.RuleCellIs:
				op, ok := condfmt.ParseOperator(x.Operator)
				if !ok || x.DxfID == nil {
					continue
				}
				rule.Operator = op
				rule.Style = c.styles.dxf(*x.DxfID)
			case condfmt.RuleColorScale:
				if x.ColorScale == nil {
					continue
				}
				for i := range x.ColorScale.Colors {
					if col, ok := resolveColor(&x.ColorScale.Colors[i]); ok {
						rule.ColorScale = append(rule.ColorScale, col)
					}
				}
			case condfmt.RuleDataBar:
				if x.DataBar != nil {
					if col, ok := resolveColor(&x.DataBar.Color); ok {
						rule.BarColor = model.ColorPtr(col)
					}
				}
			case condfmt.RuleIconSet:
				set := &condfmt.IconSet{Name: "3TrafficLights1"}
				if x.IconSet != nil {
					if x.IconSet.IconSet != "" {
						set.Name = x.IconSet.IconSet
					}
					set.Reverse = x.IconSet.Reverse == "1" || x.IconSet.Reverse == "true"
					for _, v := range x.IconSet.Cfvos {
						set.Thresholds = append(set.Thresholds, condfmt.Cfvo{Type: v.Type, Value: v.Val})
					}
				}
				rule.IconSet = set
			default:
				continue
			}
			rules = append(rules, rule)
		}
	}
	return rules
}

// applyConditional evaluates rules over the numeric cells of s and
// decorates the matching cells of table.
func applyConditional(table *model.Table, s *Sheet, used Region, rules []condfmt.Rule) {
	if len(rules) == 0 {
		return
	}
	values := make(map[condfmt.CellRef]float64)
	for _, cell := range s.Cells {
		if cell.Type == CellTypeNumber {
			values[condfmt.CellRef{Col: cell.Col + 1, Row: cell.Row + 1}] = cell.Number
		}
	}

	for ref, ov := range condfmt.Evaluate(rules, values) {
		row, col := ref.Row-1, ref.Col-1
		if !used.Contains(row, col) {
			continue
		}
		tc := &table.Rows[row-used.StartRow].Cells[col-used.StartCol]
		if tc.IsContinuation() {
			continue
		}
		if ov.Background != nil {
			tc.Background = ov.Background
		}
		if ov.DataBar != nil {
			tc.DataBar = ov.DataBar
		}
		if ov.Icon != "" {
			tc.Icon = ov.Icon
		}
		if ov.FontColor != nil {
			for _, b := range tc.Content {
				p, ok := b.(*model.Paragraph)
				if !ok {
					continue
				}
				for i := range p.Runs {
					p.Runs[i].Style.Color = ov.FontColor
				}
			}
		}
	}
}
