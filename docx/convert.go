package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/tsawler/officeconv/chart"
	"github.com/tsawler/officeconv/model"
	"github.com/tsawler/officeconv/omml"
	"github.com/tsawler/officeconv/opc"
	"github.com/tsawler/officeconv/smartart"
)

// maxFootnoteDepth bounds footnotes referenced from inside footnotes.
const maxFootnoteDepth = 2

// converter turns decoded WordprocessingML into IR blocks. It carries the
// relationships of the part currently being converted.
type converter struct {
	pkg       *opc.Package
	part      string
	rels      opc.Relationships
	styles    *StyleResolver
	numbering *NumberingResolver
	tables    *TableParser
	footnotes map[string][]bodyElement
	depth     int
	warnings  []model.Warning
}

func newConverter(pkg *opc.Package, part string, styles *StyleResolver, numbering *NumberingResolver) *converter {
	c := &converter{
		pkg:       pkg,
		styles:    styles,
		numbering: numbering,
		footnotes: make(map[string][]bodyElement),
	}
	c.tables = NewTableParser(styles, c.convertBlocks, c.warn)
	c.setPart(part)
	return c
}

func (c *converter) warn(w model.Warning) {
	c.warnings = append(c.warnings, w)
}

// setPart switches relationship resolution to part.
func (c *converter) setPart(part string) {
	c.part = part
	rels, err := c.pkg.Relationships(part)
	if err != nil {
		c.warn(model.Warnf(part, "relationships: %v", err))
		rels = opc.Relationships{}
	}
	c.rels = rels
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

// blockSink accumulates converted blocks, grouping list paragraphs.
type blockSink struct {
	c     *converter
	lists listBuilder
	out   []model.Block
}

func (c *converter) newSink() *blockSink {
	return &blockSink{c: c, lists: listBuilder{resolver: c.numbering}}
}

func (s *blockSink) add(el bodyElement) {
	if p := el.Paragraph; p != nil {
		numID := p.Properties.NumPr.NumID.Val
		if IsListParagraph(numID) {
			level, _ := strconv.Atoi(p.Properties.NumPr.ILvl.Val)
			content := s.c.paragraph(p)
			if closed := s.lists.add(numID, level, content); closed != nil {
				s.out = append(s.out, closed)
			}
			return
		}
	}
	s.flushList()
	s.out = append(s.out, s.c.element(el)...)
}

func (s *blockSink) flushList() {
	if list := s.lists.flush(); list != nil {
		s.out = append(s.out, list)
	}
}

func (s *blockSink) blocks() []model.Block {
	s.flushList()
	return s.out
}

// convertBlocks converts a nested block sequence such as a cell, header or
// footnote body.
func (c *converter) convertBlocks(elems []bodyElement) []model.Block {
	sink := c.newSink()
	for _, el := range elems {
		sink.add(el)
	}
	return sink.blocks()
}

func (c *converter) element(el bodyElement) []model.Block {
	switch {
	case el.Paragraph != nil:
		return c.paragraph(el.Paragraph)
	case el.Table != nil:
		return []model.Block{c.tables.ParseTable(*el.Table)}
	}
	return nil
}

// paragraph converts a w:p. Drawings are emitted before the paragraph;
// math, page breaks and charts referenced by runs follow it.
func (c *converter) paragraph(p *paragraphXML) []model.Block {
	para := &model.Paragraph{Style: c.styles.ResolveParagraph(p.Properties)}
	styleID := p.Properties.Style.Val

	var before, after []model.Block
	if p.Properties.PageBreak.set() && p.Properties.PageBreak.on() {
		before = append(before, &model.PageBreak{})
	}

	for _, item := range p.Items {
		switch {
		case item.Run != nil:
			c.run(para, &before, &after, item.Run, styleID, "")
		case item.Hyperlink != nil:
			href := c.hyperlinkTarget(item.Hyperlink)
			for i := range item.Hyperlink.Runs {
				c.run(para, &before, &after, &item.Hyperlink.Runs[i], styleID, href)
			}
		case item.Math != nil:
			if eq := c.math(item.Math); eq != nil {
				after = append(after, eq)
			}
		}
	}

	blocks := before
	if len(para.Runs) > 0 || len(before)+len(after) == 0 {
		blocks = append(blocks, para)
	}
	return append(blocks, after...)
}

// run appends the content of one w:r to para. Consecutive text inside the
// run shares one model.Run.
func (c *converter) run(para *model.Paragraph, before, after *[]model.Block, r *runXML, styleID, href string) {
	style := c.styles.ResolveRun(styleID, r.Properties)
	var text strings.Builder
	flush := func() {
		if text.Len() == 0 {
			return
		}
		para.Runs = append(para.Runs, model.Run{Text: text.String(), Style: style, Href: href})
		text.Reset()
	}

	for _, rc := range r.Content {
		switch rc.Kind {
		case runText:
			text.WriteString(rc.Text)
		case runTab:
			text.WriteByte('\t')
		case runBreak:
			text.WriteByte('\n')
		case runPageBreak:
			*after = append(*after, &model.PageBreak{})
		case runDrawing:
			*before = append(*before, c.drawing(rc.Drawing)...)
		case runFootnote:
			flush()
			para.Runs = append(para.Runs, model.Run{
				Text:     rc.FootnoteID,
				Style:    style,
				Footnote: c.footnote(rc.FootnoteID),
			})
		}
	}
	flush()
}

func (c *converter) hyperlinkTarget(h *hyperlinkXML) string {
	if h.ID == "" {
		return ""
	}
	rel, ok := c.rels[h.ID]
	if !ok || !rel.External {
		return ""
	}
	return rel.Target
}

// math converts an Office Math element. The captured inner XML is
// re-wrapped so the converter sees the root element.
func (c *converter) math(m *mathXML) model.Block {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<%s>", m.Name)
	buf.Write(m.Inner)
	fmt.Fprintf(&buf, "</%s>", m.Name)

	content, err := omml.Convert(buf.Bytes())
	if err != nil {
		c.warn(model.Warnf("math", "%v", err))
		return nil
	}
	if strings.TrimSpace(content) == "" {
		return nil
	}
	return &model.MathEquation{Content: content, Display: m.Display}
}

func (c *converter) footnote(id string) []model.Block {
	body, ok := c.footnotes[id]
	if !ok || c.depth >= maxFootnoteDepth {
		return []model.Block{}
	}
	c.depth++
	defer func() { c.depth-- }()
	return c.convertBlocks(body)
}

// drawing converts a w:drawing into image, floating image, chart or
// diagram blocks.
func (c *converter) drawing(d *drawingXML) []model.Block {
	var (
		extent  extentXML
		docPr   docPrXML
		graphic graphicDataXML
	)
	switch {
	case d.Inline != nil:
		extent, docPr, graphic = d.Inline.Extent, d.Inline.DocPr, d.Inline.Graphic
	case d.Anchor != nil:
		extent, docPr, graphic = d.Anchor.Extent, d.Anchor.DocPr, d.Anchor.Graphic
	default:
		return nil
	}

	switch {
	case graphic.Blip != nil:
		img := c.image(graphic.Blip.Embed, extent, docPr)
		if img == nil {
			return nil
		}
		if d.Anchor != nil {
			return []model.Block{&model.FloatingImage{
				Image:   *img,
				Wrap:    wrapMode(d.Anchor),
				OffsetX: parseEMU(d.Anchor.PositionH.PosOffset),
				OffsetY: parseEMU(d.Anchor.PositionV.PosOffset),
			}}
		}
		return []model.Block{img}
	case graphic.Chart != nil:
		if ch := c.chart(graphic.Chart.ID); ch != nil {
			return []model.Block{ch}
		}
	case graphic.Diagram != nil:
		if list := c.diagram(graphic.Diagram.DM); list != nil {
			return []model.Block{list}
		}
	}
	return nil
}

func (c *converter) image(relID string, extent extentXML, docPr docPrXML) *model.Image {
	data, target, ok := c.readRelated(relID, "image")
	if !ok {
		return nil
	}
	img := model.NewImage(data)
	if img.Format == model.ImageFormatUnknown {
		c.warn(model.Warnf("image "+target, "unrecognised image data"))
	}
	if w := parseEMU(extent.CX); w > 0 {
		img.Width = model.Float(w)
	}
	if h := parseEMU(extent.CY); h > 0 {
		img.Height = model.Float(h)
	}
	img.AltText = firstNonEmpty(docPr.Descr, docPr.Name)
	return &img
}

func (c *converter) chart(relID string) *model.Chart {
	data, target, ok := c.readRelated(relID, "chart")
	if !ok {
		return nil
	}
	ch, err := chart.Parse(data)
	if err != nil {
		c.warn(model.Warnf("chart "+target, "%v", err))
		return nil
	}
	return ch
}

// diagram flattens a SmartArt data model into a bulleted list whose levels
// follow the node depths.
func (c *converter) diagram(relID string) *model.List {
	data, target, ok := c.readRelated(relID, "diagram")
	if !ok {
		return nil
	}
	nodes, err := smartart.Parse(data)
	if err != nil {
		c.warn(model.Warnf("diagram "+target, "%v", err))
		return nil
	}
	if len(nodes) == 0 {
		return nil
	}
	list := &model.List{Kind: model.ListUnordered, Start: 1}
	for _, n := range nodes {
		list.Items = append(list.Items, model.ListItem{
			Content: []model.Block{&model.Paragraph{Runs: []model.Run{{Text: n.Text}}}},
			Level:   n.Depth,
		})
	}
	return list
}

// readRelated loads the part behind a relationship of the current part,
// recording a warning when either is missing.
func (c *converter) readRelated(relID, what string) ([]byte, string, bool) {
	rel, ok := c.rels[relID]
	if !ok || rel.External {
		c.warn(model.Warnf(what+" "+relID, "relationship not found in %s", c.part))
		return nil, "", false
	}
	data, err := c.pkg.Read(rel.Target)
	if err != nil {
		c.warn(model.Warnf(what+" "+rel.Target, "%v", err))
		return nil, rel.Target, false
	}
	return data, rel.Target, true
}

func wrapMode(a *anchorXML) model.WrapMode {
	behind := a.BehindDoc == "1" || a.BehindDoc == "true"
	switch {
	case a.WrapSquare != nil:
		return model.WrapSquare
	case a.WrapTight != nil, a.WrapThrough != nil:
		return model.WrapTight
	case a.WrapTopAndBottom != nil:
		return model.WrapTopAndBottom
	case behind:
		return model.WrapBehind
	case a.WrapNone != nil:
		return model.WrapInFront
	}
	return model.WrapNone
}

// headerFooter loads the default header or footer part referenced by refs.
func (c *converter) headerFooter(refs []hdrFtrRefXML) *model.HeaderFooter {
	var ref *hdrFtrRefXML
	for i := range refs {
		if refs[i].Type == "default" || refs[i].Type == "" {
			ref = &refs[i]
			break
		}
	}
	if ref == nil {
		return nil
	}

	data, target, ok := c.readRelated(ref.ID, "header/footer")
	if !ok {
		return nil
	}
	var part blockPartXML
	if err := xml.Unmarshal(data, &part); err != nil {
		c.warn(model.Warnf(target, "%v", err))
		return nil
	}

	saved := c.part
	c.setPart(target)
	defer c.setPart(saved)

	blocks := c.convertBlocks(part.Content)
	if len(blocks) == 0 {
		return nil
	}
	return &model.HeaderFooter{Blocks: blocks}
}
