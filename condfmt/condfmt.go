// Package condfmt evaluates spreadsheet conditional formatting rules
// against cell values and reports the decorations each cell receives.
package condfmt

import (
	"math"
	"strconv"
	"strings"

	"github.com/tsawler/officeconv/model"
)

// CellRef is a 1-indexed (column, row) cell position.
type CellRef struct {
	Col int
	Row int
}

// Range is an inclusive rectangle of cells.
type Range struct {
	From CellRef
	To   CellRef
}

// Contains reports whether ref lies inside the range. The corners may be
// given in any order.
func (r Range) Contains(ref CellRef) bool {
	return ref.Col >= min(r.From.Col, r.To.Col) && ref.Col <= max(r.From.Col, r.To.Col) &&
		ref.Row >= min(r.From.Row, r.To.Row) && ref.Row <= max(r.From.Row, r.To.Row)
}

// RuleType is the kind of a conditional formatting rule.
type RuleType int

const (
	RuleCellIs RuleType = iota
	RuleColorScale
	RuleDataBar
	RuleIconSet
	// RuleUnsupported covers expression, text and date rules.
	RuleUnsupported
)

// ParseRuleType maps the cfRule type attribute.
func ParseRuleType(s string) RuleType {
	switch s {
	case "cellIs":
		return RuleCellIs
	case "colorScale":
		return RuleColorScale
	case "dataBar":
		return RuleDataBar
	case "iconSet":
		return RuleIconSet
	default:
		return RuleUnsupported
	}
}

// Operator is a cell-value comparison.
type Operator int

const (
	OpGreaterThan Operator = iota
	OpGreaterThanOrEqual
	OpLessThan
	OpLessThanOrEqual
	OpEqual
	OpNotEqual
	OpBetween
	OpNotBetween
)

// ParseOperator maps the cfRule operator attribute. Unknown operators
// report false.
func ParseOperator(s string) (Operator, bool) {
	switch s {
	case "greaterThan":
		return OpGreaterThan, true
	case "greaterThanOrEqual":
		return OpGreaterThanOrEqual, true
	case "lessThan":
		return OpLessThan, true
	case "lessThanOrEqual":
		return OpLessThanOrEqual, true
	case "equal":
		return OpEqual, true
	case "notEqual":
		return OpNotEqual, true
	case "between":
		return OpBetween, true
	case "notBetween":
		return OpNotBetween, true
	}
	return 0, false
}

// Style is the differential format applied by a cell-value rule.
type Style struct {
	Background *model.Color
	FontColor  *model.Color
}

// Cfvo is a threshold of a data bar or icon set: a type such as "percent",
// "num", "min" or "max" and its value.
type Cfvo struct {
	Type  string
	Value string
}

// IconSet describes an icon-set rule.
type IconSet struct {
	Name       string
	Thresholds []Cfvo
	Reverse    bool
}

// Rule is one conditional formatting rule.
type Rule struct {
	Type       RuleType
	Operator   Operator
	Formulas   []string
	Ranges     []Range
	Style      *Style
	ColorScale []model.Color // two or three stop colours
	BarColor   *model.Color
	IconSet    *IconSet
}

// Override is the decoration a cell receives.
type Override struct {
	Background *model.Color
	FontColor  *model.Color
	DataBar    *model.DataBar
	Icon       string
}

func (o *Override) merge(other Override) {
	if other.Background != nil {
		o.Background = other.Background
	}
	if other.FontColor != nil {
		o.FontColor = other.FontColor
	}
	if other.DataBar != nil {
		o.DataBar = other.DataBar
	}
	if other.Icon != "" {
		o.Icon = other.Icon
	}
}

// Evaluate applies rules in order to the numeric cell values. A cell
// matched by several rules keeps the union of their decorations; a later
// rule replaces a decoration of the same kind.
func Evaluate(rules []Rule, values map[CellRef]float64) map[CellRef]Override {
	out := make(map[CellRef]Override)
	for _, rule := range rules {
		for ref, ov := range evaluateRule(rule, values) {
			cur := out[ref]
			cur.merge(ov)
			out[ref] = cur
		}
	}
	return out
}

// observed holds the numeric cells a rule covers and their extent.
type observed struct {
	cells    []CellRef
	min, max float64
}

func collect(rule Rule, values map[CellRef]float64) observed {
	obs := observed{min: math.Inf(1), max: math.Inf(-1)}
	seen := make(map[CellRef]bool)
	for _, rng := range rule.Ranges {
		for ref, v := range values {
			if seen[ref] || !rng.Contains(ref) {
				continue
			}
			seen[ref] = true
			obs.cells = append(obs.cells, ref)
			obs.min = math.Min(obs.min, v)
			obs.max = math.Max(obs.max, v)
		}
	}
	return obs
}

// fraction normalises v into [0, 1] over the observed extent. ok is false
// when the extent has no spread.
func (o observed) fraction(v float64) (t float64, ok bool) {
	spread := o.max - o.min
	if spread == 0 {
		return 0, false
	}
	t = (v - o.min) / spread
	return math.Max(0, math.Min(1, t)), true
}

func evaluateRule(rule Rule, values map[CellRef]float64) map[CellRef]Override {
	obs := collect(rule, values)
	if len(obs.cells) == 0 {
		return nil
	}
	out := make(map[CellRef]Override)

	switch rule.Type {
	case RuleCellIs:
		if rule.Style == nil {
			return nil
		}
		match, ok := comparison(rule)
		if !ok {
			return nil
		}
		for _, ref := range obs.cells {
			if match(values[ref]) {
				out[ref] = Override{Background: rule.Style.Background, FontColor: rule.Style.FontColor}
			}
		}

	case RuleColorScale:
		if len(rule.ColorScale) < 2 {
			return nil
		}
		for _, ref := range obs.cells {
			t, _ := obs.fraction(values[ref])
			c := scaleColor(rule.ColorScale, t)
			out[ref] = Override{Background: &c}
		}

	case RuleDataBar:
		color := model.Color{R: 0x63, G: 0x8E, B: 0xC6}
		if rule.BarColor != nil {
			color = *rule.BarColor
		}
		for _, ref := range obs.cells {
			pct := 50.0
			if t, ok := obs.fraction(values[ref]); ok {
				pct = t * 100
			}
			out[ref] = Override{DataBar: &model.DataBar{Color: color, FillPercent: pct}}
		}

	case RuleIconSet:
		set := rule.IconSet
		if set == nil {
			set = &IconSet{Name: "3TrafficLights1"}
		}
		glyphs := iconGlyphs(set.Name)
		bounds := iconBounds(set, len(glyphs))
		for _, ref := range obs.cells {
			pct := 50.0
			if t, ok := obs.fraction(values[ref]); ok {
				pct = t * 100
			}
			idx := 0
			for i, b := range bounds {
				if pct >= b {
					idx = i
				}
			}
			if set.Reverse {
				idx = len(glyphs) - 1 - idx
			}
			out[ref] = Override{Icon: glyphs[idx]}
		}

	default:
		return nil
	}
	return out
}

func comparison(rule Rule) (func(float64) bool, bool) {
	thresholds := make([]float64, 0, 2)
	for _, f := range rule.Formulas {
		v, err := ParseThreshold(f)
		if err != nil {
			return nil, false
		}
		thresholds = append(thresholds, v)
	}
	need := 1
	if rule.Operator == OpBetween || rule.Operator == OpNotBetween {
		need = 2
	}
	if len(thresholds) < need {
		return nil, false
	}
	a := thresholds[0]
	switch rule.Operator {
	case OpGreaterThan:
		return func(v float64) bool { return v > a }, true
	case OpGreaterThanOrEqual:
		return func(v float64) bool { return v >= a }, true
	case OpLessThan:
		return func(v float64) bool { return v < a }, true
	case OpLessThanOrEqual:
		return func(v float64) bool { return v <= a }, true
	case OpEqual:
		return func(v float64) bool { return v == a }, true
	case OpNotEqual:
		return func(v float64) bool { return v != a }, true
	}
	lo, hi := a, thresholds[1]
	if lo > hi {
		lo, hi = hi, lo
	}
	if rule.Operator == OpBetween {
		return func(v float64) bool { return v >= lo && v <= hi }, true
	}
	return func(v float64) bool { return v < lo || v > hi }, true
}

// scaleColor interpolates a two or three stop scale. Three-stop scales split
// at the midpoint.
func scaleColor(stops []model.Color, t float64) model.Color {
	if len(stops) == 2 {
		return stops[0].Lerp(stops[1], t)
	}
	if t <= 0.5 {
		return stops[0].Lerp(stops[1], t*2)
	}
	return stops[1].Lerp(stops[2], (t-0.5)*2)
}

var iconSets = map[string][]string{
	"3Arrows":         {"↓", "→", "↑"},
	"3ArrowsGray":     {"↓", "→", "↑"},
	"3Triangles":      {"▼", "▬", "▲"},
	"3TrafficLights1": {"○", "◐", "●"},
	"3TrafficLights2": {"○", "◐", "●"},
	"3Signs":          {"◆", "▲", "●"},
	"3Symbols":        {"✖", "!", "✔"},
	"3Symbols2":       {"✖", "!", "✔"},
	"3Flags":          {"⚐", "⚑", "⚑"},
	"3Stars":          {"☆", "✬", "★"},
	"4Arrows":         {"↓", "↘", "↗", "↑"},
	"4ArrowsGray":     {"↓", "↘", "↗", "↑"},
	"4Rating":         {"▂", "▄", "▆", "█"},
	"4RedToBlack":     {"○", "◔", "◑", "●"},
	"4TrafficLights":  {"○", "◔", "◑", "●"},
	"5Arrows":         {"↓", "↘", "→", "↗", "↑"},
	"5ArrowsGray":     {"↓", "↘", "→", "↗", "↑"},
	"5Rating":         {"▁", "▂", "▄", "▆", "█"},
	"5Quarters":       {"○", "◔", "◑", "◕", "●"},
	"5Boxes":          {"□", "◱", "◧", "◨", "■"},
}

func iconGlyphs(name string) []string {
	if g, ok := iconSets[name]; ok {
		return g
	}
	if strings.HasPrefix(name, "5") {
		return iconSets["5Arrows"]
	}
	if strings.HasPrefix(name, "4") {
		return iconSets["4Arrows"]
	}
	return iconSets["3TrafficLights1"]
}

// iconBounds returns the lower bound, in percent of the observed extent, of
// each icon bucket. Percent cfvo values are used when every threshold is a
// percentage; otherwise the extent is split evenly.
func iconBounds(set *IconSet, n int) []float64 {
	if len(set.Thresholds) == n {
		bounds := make([]float64, n)
		usable := true
		for i, c := range set.Thresholds {
			if c.Type != "percent" {
				usable = false
				break
			}
			v, err := strconv.ParseFloat(c.Value, 64)
			if err != nil {
				usable = false
				break
			}
			bounds[i] = v
		}
		if usable {
			return bounds
		}
	}
	bounds := make([]float64, n)
	for i := range bounds {
		bounds[i] = float64(i) * 100 / float64(n)
	}
	return bounds
}
