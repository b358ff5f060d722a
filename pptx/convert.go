package pptx

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/tsawler/officeconv/chart"
	"github.com/tsawler/officeconv/model"
	"github.com/tsawler/officeconv/opc"
	"github.com/tsawler/officeconv/smartart"
)

// defaultLineWidth is used for outlines that do not declare a width.
const defaultLineWidth = 0.75

// converter turns decoded PresentationML into fixed elements for one
// slide at a time.
type converter struct {
	pkg          *opc.Package
	theme        Theme
	size         model.Size
	slide        int
	part         string
	rels         opc.Relationships
	placeholders map[string]*xfrmXML
	warnings     []model.Warning
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

// setSlide switches to slide number n stored in part, loading its
// relationships and the placeholder frames of its layout.
func (c *converter) setSlide(n int, part string) {
	c.slide = n
	c.part = part
	c.placeholders = make(map[string]*xfrmXML)

	rels, err := c.pkg.Relationships(part)
	if err != nil {
		c.warn(model.Warnf(c.element(), "relationships: %v", err))
		rels = opc.Relationships{}
	}
	c.rels = rels

	layout, ok := rels.FirstOfType(opc.RelSlideLayout)
	if !ok {
		return
	}
	data, err := c.pkg.Read(layout.Target)
	if err != nil {
		return
	}
	var l layoutXML
	if err := xml.Unmarshal(data, &l); err != nil {
		return
	}
	for i := range l.Shapes {
		sp := &l.Shapes[i]
		if sp.NvSpPr.Ph == nil || sp.SpPr.Xfrm == nil {
			continue
		}
		for _, key := range placeholderKeys(sp.NvSpPr.Ph) {
			if _, seen := c.placeholders[key]; !seen {
				c.placeholders[key] = sp.SpPr.Xfrm
			}
		}
	}
}

func (c *converter) element() string {
	return "slide " + strconv.Itoa(c.slide)
}

// placeholderKeys lists lookup keys for a placeholder, most specific
// first.
func placeholderKeys(ph *phXML) []string {
	var keys []string
	if ph.Idx != "" {
		keys = append(keys, "idx:"+ph.Idx)
	}
	typ := ph.Type
	if typ == "" {
		typ = "body"
	}
	return append(keys, "type:"+typ)
}

// frameOf returns the transform of a shape, falling back to the layout
// placeholder it inherits from and then to the whole slide.
func (c *converter) frameOf(sp *spXML) *xfrmXML {
	if sp.SpPr.Xfrm != nil {
		return sp.SpPr.Xfrm
	}
	if ph := sp.NvSpPr.Ph; ph != nil {
		for _, key := range placeholderKeys(ph) {
			if xf, ok := c.placeholders[key]; ok {
				return xf
			}
		}
	}
	return &xfrmXML{Ext: sizeXML{
		Cx: int64(c.size.Width * model.EMUPerPoint),
		Cy: int64(c.size.Height * model.EMUPerPoint),
	}}
}

// shape converts p:sp and p:cxnSp. A shape with visible geometry yields a
// Shape; one with a text body yields a TextBox on top of it, empty when
// the body is blank.
func (c *converter) shape(sp *spXML, tr transform) []model.FixedElement {
	xf := c.frameOf(sp)
	x, y, w, h := tr.frame(xf)

	var out []model.FixedElement
	fill := c.fill(&sp.SpPr.fillXML)
	stroke := c.stroke(sp.SpPr.Line)
	if !fill.IsEmpty() || stroke != nil {
		prst := ""
		if sp.SpPr.PrstGeom != nil {
			prst = sp.SpPr.PrstGeom.Prst
		}
		geom, points := presetGeometry(prst, w, h)
		s := &model.Shape{
			Geometry: geom,
			Points:   points,
			Stroke:   stroke,
			Rotation: float64(xf.Rot) / 60000,
			Shadow:   c.shadow(sp.SpPr.EffectLst),
			FlipH:    isTrue(xf.FlipH),
			FlipV:    isTrue(xf.FlipV),
		}
		if !fill.IsEmpty() {
			s.Fill = fill
		}
		if alpha := c.fillAlpha(&sp.SpPr.fillXML); alpha < 1 {
			s.Opacity = model.Float(alpha)
		}
		out = append(out, model.FixedElement{X: x, Y: y, Width: w, Height: h, Kind: s})
	}

	if sp.TxBody != nil {
		out = append(out, model.FixedElement{X: x, Y: y, Width: w, Height: h, Kind: &model.TextBox{Blocks: c.textBlocks(sp.TxBody)}})
	}
	return out
}

// picture converts p:pic.
func (c *converter) picture(pic *picXML, tr transform) []model.FixedElement {
	if pic.SpPr.Xfrm == nil {
		c.warn(model.Warnf(c.element(), "picture %q has no position", pic.NvPicPr.CNvPr.Name))
		return nil
	}
	data := c.readRelated(pic.BlipFill.Blip.Embed, "image")
	if data == nil {
		return nil
	}
	x, y, w, h := tr.frame(pic.SpPr.Xfrm)
	img := model.NewImage(data)
	img.Width = model.Float(w)
	img.Height = model.Float(h)
	img.AltText = pic.NvPicPr.CNvPr.Descr
	if img.AltText == "" {
		img.AltText = pic.NvPicPr.CNvPr.Name
	}
	return []model.FixedElement{{X: x, Y: y, Width: w, Height: h, Kind: &model.ImageElement{Image: img}}}
}

// graphicFrame converts tables, charts and diagrams.
func (c *converter) graphicFrame(gf *graphicFrameXML, tr transform) []model.FixedElement {
	if gf.Xfrm == nil {
		c.warn(model.Warnf(c.element(), "graphic frame %q has no position", gf.NvGraphicFramePr.CNvPr.Name))
		return nil
	}
	x, y, w, h := tr.frame(gf.Xfrm)
	at := func(kind model.FixedKind) []model.FixedElement {
		return []model.FixedElement{{X: x, Y: y, Width: w, Height: h, Kind: kind}}
	}

	g := &gf.GraphicData
	switch {
	case g.Table != nil:
		return at(&model.TableElement{Table: c.table(g.Table, tr)})
	case g.Chart != nil:
		data := c.readRelated(g.Chart.RID, "chart")
		if data == nil {
			return nil
		}
		ch, err := chart.Parse(data)
		if err != nil {
			c.warn(model.Warnf(c.element(), "chart: %v", err))
			return nil
		}
		return at(&model.ChartElement{Chart: ch})
	case g.Diagram != nil:
		data := c.readRelated(g.Diagram.DM, "diagram")
		if data == nil {
			return nil
		}
		nodes, err := smartart.Parse(data)
		if err != nil {
			c.warn(model.Warnf(c.element(), "diagram: %v", err))
			return nil
		}
		return at(&model.Diagram{Nodes: nodes})
	default:
		c.warn(model.Warnf(c.element(), "unsupported graphic frame content %q", g.URI))
		return nil
	}
}

// readRelated reads the part behind relationship relID of the current
// slide, warning when it cannot be found.
func (c *converter) readRelated(relID, what string) []byte {
	rel, ok := c.rels[relID]
	if !ok || rel.External {
		c.warn(model.Warnf(c.element(), "%s relationship %q not found", what, relID))
		return nil
	}
	data, err := c.pkg.Read(rel.Target)
	if err != nil {
		c.warn(model.Warnf(c.element(), "%s %s: %v", what, rel.Target, err))
		return nil
	}
	return data
}

// table converts a DrawingML table. Merge continuations stay in place with
// a zero span so the grid keeps its shape.
func (c *converter) table(tbl *tblXML, tr transform) *model.Table {
	t := &model.Table{}
	for _, col := range tbl.Grid {
		t.ColumnWidths = append(t.ColumnWidths, tr.width(col.W))
	}

	for _, r := range tbl.Rows {
		var row model.TableRow
		if r.H > 0 {
			row.Height = model.Float(tr.height(r.H))
		}
		for i := range r.Cells {
			tc := &r.Cells[i]
			cell := model.NewTableCell()
			if tc.GridSpan > 1 {
				cell.ColSpan = tc.GridSpan
			}
			if tc.RowSpan > 1 {
				cell.RowSpan = tc.RowSpan
			}
			if isTrue(tc.HMerge) {
				cell.ColSpan = 0
			}
			if isTrue(tc.VMerge) {
				cell.RowSpan = 0
			}
			if !cell.IsContinuation() {
				cell.Content = c.textBlocks(tc.TxBody)
			}
			if f := c.fill(&tc.TcPr.fillXML); f != nil && f.Solid != nil {
				cell.Background = f.Solid
			}
			cell.Border = c.cellBorder(&tc.TcPr)
			switch tc.TcPr.Anchor {
			case "ctr":
				cell.VerticalAlign = model.VAlignMiddle
			case "b":
				cell.VerticalAlign = model.VAlignBottom
			}
			row.Cells = append(row.Cells, cell)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func (c *converter) cellBorder(pr *tcPrXML) *model.CellBorder {
	side := func(ln *lineXML) *model.BorderSide {
		s := c.stroke(ln)
		if s == nil {
			return nil
		}
		return &model.BorderSide{Width: s.Width, Color: s.Color, Style: s.Dash}
	}
	b := &model.CellBorder{Top: side(pr.LnT), Right: side(pr.LnR), Bottom: side(pr.LnB), Left: side(pr.LnL)}
	if b.IsEmpty() {
		return nil
	}
	return b
}

// background converts p:bg. Only the slide's own background is read.
func (c *converter) background(bg *bgXML) *model.Fill {
	if bg.BgPr != nil {
		return c.fill(&bg.BgPr.fillXML)
	}
	if bg.BgRef != nil {
		if col, _, ok := c.theme.resolve(&bg.BgRef.colorXML); ok {
			return model.SolidFill(col)
		}
	}
	return nil
}

// fill converts a fill choice; the gradient wins over a solid colour.
func (c *converter) fill(f *fillXML) *model.Fill {
	if f.NoFill != nil {
		return nil
	}
	if f.GradFill != nil {
		g := &model.Gradient{}
		if f.GradFill.Lin != nil {
			g.Angle = float64(f.GradFill.Lin.Ang) / 60000
		}
		for i := range f.GradFill.Stops {
			gs := &f.GradFill.Stops[i]
			col, _, ok := c.theme.resolve(&gs.colorXML)
			if !ok {
				continue
			}
			g.Stops = append(g.Stops, model.GradientStop{Offset: float64(gs.Pos) / 100000, Color: col})
		}
		if len(g.Stops) > 0 {
			return &model.Fill{Gradient: g}
		}
	}
	if f.SolidFill != nil {
		if col, _, ok := c.theme.resolve(f.SolidFill); ok {
			return model.SolidFill(col)
		}
	}
	return nil
}

// fillAlpha is the opacity of a solid fill, 1 when none is declared.
func (c *converter) fillAlpha(f *fillXML) float64 {
	if f.NoFill != nil || f.GradFill != nil || f.SolidFill == nil {
		return 1
	}
	_, alpha, _ := c.theme.resolve(f.SolidFill)
	return alpha
}

// stroke converts a:ln. An outline needs an explicit colour.
func (c *converter) stroke(ln *lineXML) *model.Stroke {
	if ln == nil || ln.NoFill != nil || ln.SolidFill == nil {
		return nil
	}
	col, _, ok := c.theme.resolve(ln.SolidFill)
	if !ok {
		return nil
	}
	s := &model.Stroke{Width: defaultLineWidth, Color: col}
	if ln.W > 0 {
		s.Width = model.EMUToPoints(float64(ln.W))
	}
	if ln.PrstDash != nil {
		s.Dash = dashStyle(ln.PrstDash.Val)
	}
	return s
}

func dashStyle(v string) model.BorderStyle {
	switch v {
	case "dot", "sysDot":
		return model.BorderDotted
	case "dash", "lgDash", "sysDash", "dashDot", "lgDashDot", "lgDashDotDot", "sysDashDot", "sysDashDotDot":
		return model.BorderDashed
	default:
		return model.BorderSolid
	}
}

func (c *converter) shadow(eff *effectLstXML) *model.Shadow {
	if eff == nil || eff.OuterShdw == nil {
		return nil
	}
	sh := eff.OuterShdw
	col, alpha, ok := c.theme.resolve(&sh.colorXML)
	if !ok {
		col, alpha = model.Black, 1
	}
	return &model.Shadow{
		Color:      col,
		BlurRadius: model.EMUToPoints(float64(sh.BlurRad)),
		Distance:   model.EMUToPoints(float64(sh.Dist)),
		Direction:  float64(sh.Dir) / 60000,
		Opacity:    alpha,
	}
}

// textBlocks converts a text body. It returns nil when the body holds no
// text at all. Bulleted paragraphs are grouped into lists.
func (c *converter) textBlocks(body *txBodyXML) []model.Block {
	if body == nil || !hasText(body) {
		return nil
	}

	var (
		out  []model.Block
		list *model.List
	)
	for i := range body.Paragraphs {
		p := &body.Paragraphs[i]
		para := c.paragraph(p)
		kind, start, ok := bullet(&p.Properties)
		if !ok {
			list = nil
			out = append(out, para)
			continue
		}
		if list == nil || list.Kind != kind {
			list = &model.List{Kind: kind, Start: start}
			out = append(out, list)
		}
		list.Items = append(list.Items, model.ListItem{Content: []model.Block{para}, Level: p.Properties.Lvl})
	}
	return out
}

func hasText(body *txBodyXML) bool {
	for _, p := range body.Paragraphs {
		for _, item := range p.Items {
			if strings.TrimSpace(item.Text) != "" {
				return true
			}
		}
	}
	return false
}

// bullet reports the list kind of a paragraph with an explicit bullet.
func bullet(ppr *pPrXML) (model.ListKind, int, bool) {
	switch {
	case ppr.BuNone != nil:
		return 0, 0, false
	case ppr.BuAutoNum != nil:
		start := ppr.BuAutoNum.StartAt
		if start < 1 {
			start = 1
		}
		return model.ListOrdered, start, true
	case ppr.BuChar != nil:
		return model.ListUnordered, 1, true
	}
	return 0, 0, false
}

func (c *converter) paragraph(p *pXML) *model.Paragraph {
	ppr := &p.Properties
	para := &model.Paragraph{}
	switch ppr.Algn {
	case "ctr":
		para.Style.Alignment = model.AlignCenter
	case "r":
		para.Style.Alignment = model.AlignRight
	case "just", "dist", "justLow", "thaiDist":
		para.Style.Alignment = model.AlignJustify
	}
	para.Style.IndentLeft = model.EMUToPoints(float64(ppr.MarL))
	para.Style.IndentFirstLine = model.EMUToPoints(float64(ppr.Indent))
	if ppr.LnSpc != nil {
		switch {
		case ppr.LnSpc.Pct != nil:
			para.Style.LineSpacing = &model.LineSpacing{Kind: model.LineSpacingProportional, Value: percentage(ppr.LnSpc.Pct, 1)}
		case ppr.LnSpc.Pts != nil:
			para.Style.LineSpacing = &model.LineSpacing{Kind: model.LineSpacingExact, Value: hundredths(ppr.LnSpc.Pts.Val)}
		}
	}
	if ppr.SpcBef != nil && ppr.SpcBef.Pts != nil {
		para.Style.SpaceBefore = model.Float(hundredths(ppr.SpcBef.Pts.Val))
	}
	if ppr.SpcAft != nil && ppr.SpcAft.Pts != nil {
		para.Style.SpaceAfter = model.Float(hundredths(ppr.SpcAft.Pts.Val))
	}

	for _, item := range p.Items {
		text := item.Text
		if item.Break {
			text = "\n"
		}
		if text == "" {
			continue
		}
		para.Runs = append(para.Runs, model.Run{
			Text:  text,
			Style: c.runStyle(&item.Properties),
			Href:  c.hyperlink(&item.Properties),
		})
	}
	return para
}

func (c *converter) runStyle(rpr *rPrXML) model.TextStyle {
	var s model.TextStyle
	s.Bold = isTrue(rpr.B)
	s.Italic = isTrue(rpr.I)
	s.Underline = rpr.U != "" && rpr.U != "none"
	s.Strike = rpr.Strike != "" && rpr.Strike != "noStrike"
	if rpr.Sz != "" {
		if v := hundredths(rpr.Sz); v > 0 {
			s.Size = model.Float(v)
		}
	}
	if col, _, ok := c.theme.resolve(rpr.SolidFill); ok {
		s.Color = model.ColorPtr(col)
	}
	// "+mn-lt" and friends name theme fonts.
	if rpr.Latin != nil && !strings.HasPrefix(rpr.Latin.Typeface, "+") {
		s.FontFamily = rpr.Latin.Typeface
	}
	return s
}

func (c *converter) hyperlink(rpr *rPrXML) string {
	if rpr.HlinkClick == nil {
		return ""
	}
	rel, ok := c.rels[rpr.HlinkClick.RID]
	if !ok || !rel.External {
		return ""
	}
	return rel.Target
}

func hundredths(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v / 100
}

func isTrue(s string) bool {
	return s == "1" || s == "true" || s == "on"
}
