package xlsx

import (
	"github.com/tsawler/officeconv/condfmt"
	"github.com/tsawler/officeconv/model"
)

// cellStyle is a resolved cellXfs entry.
type cellStyle struct {
	text       model.TextStyle
	background *model.Color
	border     *model.CellBorder
	alignment  model.TextAlignment
	aligned    bool // horizontal alignment set explicitly
	valign     model.VerticalAlignment
	numFmtID   int
	format     string // custom number format code
}

// styleSheet holds the resolved cell formats and differential formats of a
// workbook.
type styleSheet struct {
	xfs  []cellStyle
	dxfs []*condfmt.Style
}

// indexedColors is the start of the legacy palette addressed by
// color/@indexed.
var indexedColors = []uint32{
	0x000000, 0xFFFFFF, 0xFF0000, 0x00FF00, 0x0000FF, 0xFFFF00, 0xFF00FF, 0x00FFFF,
	0x000000, 0xFFFFFF, 0xFF0000, 0x00FF00, 0x0000FF, 0xFFFF00, 0xFF00FF, 0x00FFFF,
	0x800000, 0x008000, 0x000080, 0x808000, 0x800080, 0x008080, 0xC0C0C0, 0x808080,
}

func newStyleSheet(x *stylesXML) *styleSheet {
	s := &styleSheet{}
	if x == nil {
		return s
	}

	formats := make(map[int]string, len(x.NumFmts))
	for _, nf := range x.NumFmts {
		formats[nf.NumFmtID] = nf.FormatCode
	}

	for _, xf := range x.CellXfs {
		st := cellStyle{numFmtID: xf.NumFmtID, format: formats[xf.NumFmtID]}
		// Font 0 is the workbook default and carries no run formatting.
		if xf.FontID > 0 && xf.FontID < len(x.Fonts) {
			st.text = fontStyle(&x.Fonts[xf.FontID])
		}
		if xf.FillID >= 0 && xf.FillID < len(x.Fills) {
			st.background = solidFill(&x.Fills[xf.FillID], false)
		}
		if xf.BorderID >= 0 && xf.BorderID < len(x.Borders) {
			st.border = cellBorder(&x.Borders[xf.BorderID])
		}
		if a := xf.Alignment; a != nil {
			st.aligned = a.Horizontal != "" && a.Horizontal != "general"
			switch a.Horizontal {
			case "center", "centerContinuous":
				st.alignment = model.AlignCenter
			case "right":
				st.alignment = model.AlignRight
			case "justify", "distributed":
				st.alignment = model.AlignJustify
			}
			switch a.Vertical {
			case "center":
				st.valign = model.VAlignMiddle
			case "bottom":
				st.valign = model.VAlignBottom
			}
		}
		s.xfs = append(s.xfs, st)
	}

	for _, dxf := range x.Dxfs {
		style := &condfmt.Style{}
		if dxf.Font != nil {
			if c, ok := resolveColor(dxf.Font.Color); ok {
				style.FontColor = model.ColorPtr(c)
			}
		}
		if dxf.Fill != nil {
			style.Background = solidFill(dxf.Fill, true)
		}
		s.dxfs = append(s.dxfs, style)
	}
	return s
}

// cell returns the style at index i, or the zero style when i is out of
// range.
func (s *styleSheet) cell(i int) cellStyle {
	if i < 0 || i >= len(s.xfs) {
		return cellStyle{}
	}
	return s.xfs[i]
}

// dxf returns the differential format at index i, or nil.
func (s *styleSheet) dxf(i int) *condfmt.Style {
	if i < 0 || i >= len(s.dxfs) {
		return nil
	}
	return s.dxfs[i]
}

func fontStyle(f *fontXML) model.TextStyle {
	var st model.TextStyle
	st.Bold = isOn(f.B)
	st.Italic = isOn(f.I)
	st.Underline = f.U != nil && f.U.Val != "none"
	st.Strike = isOn(f.Strike)
	if f.Sz != nil {
		if v, ok := parseFloat(f.Sz.Val); ok && v > 0 {
			st.Size = model.Float(v)
		}
	}
	if c, ok := resolveColor(f.Color); ok {
		st.Color = model.ColorPtr(c)
	}
	return st
}

// isOn reads a boolean font property: present without a value means on.
func isOn(v *valXML) bool {
	if v == nil {
		return false
	}
	switch v.Val {
	case "", "1", "true":
		return true
	}
	return false
}

// solidFill returns the colour of a solid pattern fill. Differential
// formats keep the visible colour in bgColor; cell fills keep it in
// fgColor.
func solidFill(f *fillXML, differential bool) *model.Color {
	p := f.Pattern
	if p == nil {
		return nil
	}
	if differential {
		if p.PatternType != "" && p.PatternType != "solid" {
			return nil
		}
		for _, c := range []*colorXML{p.BgColor, p.FgColor} {
			if col, ok := resolveColor(c); ok {
				return model.ColorPtr(col)
			}
		}
		return nil
	}
	if p.PatternType != "solid" {
		return nil
	}
	if c, ok := resolveColor(p.FgColor); ok {
		return model.ColorPtr(c)
	}
	return nil
}

// resolveColor reads an rgb or indexed colour. Theme colours are not
// resolved.
func resolveColor(c *colorXML) (model.Color, bool) {
	if c == nil {
		return model.Color{}, false
	}
	if c.RGB != "" {
		return model.ParseHexColor(c.RGB)
	}
	if c.Indexed != nil && *c.Indexed >= 0 && *c.Indexed < len(indexedColors) {
		v := indexedColors[*c.Indexed]
		return model.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
	}
	return model.Color{}, false
}

func cellBorder(b *borderXML) *model.CellBorder {
	border := &model.CellBorder{
		Top:    borderSide(&b.Top),
		Right:  borderSide(&b.Right),
		Bottom: borderSide(&b.Bottom),
		Left:   borderSide(&b.Left),
	}
	if border.IsEmpty() {
		return nil
	}
	return border
}

func borderSide(s *borderSideXML) *model.BorderSide {
	side := &model.BorderSide{Color: model.Black, Width: 0.5}
	switch s.Style {
	case "", "none":
		return nil
	case "hair":
		side.Width = 0.25
	case "thin":
	case "medium":
		side.Width = 1
	case "thick":
		side.Width = 1.5
	case "dashed", "dashDot", "dashDotDot":
		side.Style = model.BorderDashed
	case "mediumDashed", "mediumDashDot", "mediumDashDotDot", "slantDashDot":
		side.Width = 1
		side.Style = model.BorderDashed
	case "dotted":
		side.Style = model.BorderDotted
	case "double":
		side.Width = 1.5
		side.Style = model.BorderDouble
	}
	if c, ok := resolveColor(s.Color); ok {
		side.Color = c
	}
	return side
}
