package docx

import "encoding/xml"

// bodyElement is one block-level child of a body, cell, header, footer or
// footnote: a paragraph or a table.
type bodyElement struct {
	Paragraph *paragraphXML
	Table     *tableXML
}

// transparent containers are descended into as if their children belonged
// to the parent.
var transparentBlocks = map[string]bool{
	"sdt": true, "sdtContent": true, "customXml": true,
}

var skippedBlocks = map[string]bool{
	"sdtPr": true, "sdtEndPr": true,
}

// decodeBlocks reads the ordered block children of start until its end
// element. Elements the caller wants are offered to other first; it must
// consume them and report true.
func decodeBlocks(d *xml.Decoder, start xml.StartElement, other func(xml.StartElement) (bool, error)) ([]bodyElement, error) {
	var blocks []bodyElement
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return blocks, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "p":
				var p paragraphXML
				if err := d.DecodeElement(&p, &t); err != nil {
					return blocks, err
				}
				blocks = append(blocks, bodyElement{Paragraph: &p})
			case t.Name.Local == "tbl":
				var tbl tableXML
				if err := d.DecodeElement(&tbl, &t); err != nil {
					return blocks, err
				}
				blocks = append(blocks, bodyElement{Table: &tbl})
			case transparentBlocks[t.Name.Local]:
				depth++
			case skippedBlocks[t.Name.Local]:
				if err := d.Skip(); err != nil {
					return blocks, err
				}
			default:
				handled := false
				if other != nil && depth == 0 {
					if handled, err = other(t); err != nil {
						return blocks, err
					}
				}
				if !handled {
					if err := d.Skip(); err != nil {
						return blocks, err
					}
				}
			}
		case xml.EndElement:
			if depth == 0 {
				return blocks, nil
			}
			depth--
		}
	}
}

// paragraphXML represents a paragraph element (<w:p>). Items keeps runs,
// hyperlinks and math in document order.
type paragraphXML struct {
	Properties paragraphPropsXML
	Items      []inlineItem
}

// inlineItem is one ordered child of a paragraph.
type inlineItem struct {
	Run       *runXML
	Hyperlink *hyperlinkXML
	Math      *mathXML
}

// transparent inline containers.
var transparentInline = map[string]bool{
	"ins": true, "smartTag": true, "fldSimple": true, "sdt": true,
	"sdtContent": true, "customXml": true, "moveTo": true,
}

// UnmarshalXML implements xml.Unmarshaler.
func (p *paragraphXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "pPr":
				if err := d.DecodeElement(&p.Properties, &t); err != nil {
					return err
				}
			case t.Name.Local == "r":
				var r runXML
				if err := d.DecodeElement(&r, &t); err != nil {
					return err
				}
				p.Items = append(p.Items, inlineItem{Run: &r})
			case t.Name.Local == "hyperlink":
				var h hyperlinkXML
				if err := d.DecodeElement(&h, &t); err != nil {
					return err
				}
				p.Items = append(p.Items, inlineItem{Hyperlink: &h})
			case t.Name.Local == "oMath" || t.Name.Local == "oMathPara":
				m := mathXML{Display: t.Name.Local == "oMathPara", Name: t.Name.Local}
				if err := d.DecodeElement(&m, &t); err != nil {
					return err
				}
				p.Items = append(p.Items, inlineItem{Math: &m})
			case transparentInline[t.Name.Local]:
				depth++
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}

// paragraphPropsXML represents paragraph properties (<w:pPr>).
type paragraphPropsXML struct {
	Style         styleRefXML       `xml:"pStyle"`
	NumPr         numberingPropsXML `xml:"numPr"`
	Justification justificationXML  `xml:"jc"`
	Spacing       spacingXML        `xml:"spacing"`
	Indent        indentXML         `xml:"ind"`
	OutlineLvl    outlineLvlXML     `xml:"outlineLvl"`
	SectPr        *sectPrXML        `xml:"sectPr"`
	PageBreak     boolXML           `xml:"pageBreakBefore"`
	RPr           runPropsXML       `xml:"rPr"`
}

// styleRefXML represents a style reference.
type styleRefXML struct {
	Val string `xml:"val,attr"`
}

// numberingPropsXML represents numbering properties for lists.
type numberingPropsXML struct {
	ILvl  valXML `xml:"ilvl"`
	NumID valXML `xml:"numId"`
}

// valXML is any element carrying a single w:val.
type valXML struct {
	Val string `xml:"val,attr"`
}

// justificationXML represents text justification.
type justificationXML struct {
	Val string `xml:"val,attr"` // left, center, right, both
}

// spacingXML represents paragraph spacing.
type spacingXML struct {
	Before   string `xml:"before,attr"`   // twips
	After    string `xml:"after,attr"`    // twips
	Line     string `xml:"line,attr"`     // 240ths of a line, or twips
	LineRule string `xml:"lineRule,attr"` // auto, exact, atLeast
}

// indentXML represents paragraph indentation.
type indentXML struct {
	Left      string `xml:"left,attr"`
	Start     string `xml:"start,attr"`
	Right     string `xml:"right,attr"`
	End       string `xml:"end,attr"`
	FirstLine string `xml:"firstLine,attr"`
	Hanging   string `xml:"hanging,attr"`
}

// outlineLvlXML represents outline level.
type outlineLvlXML struct {
	Val string `xml:"val,attr"`
}

// runContentKind identifies an ordered child of a run.
type runContentKind int

const (
	runText runContentKind = iota
	runTab
	runBreak
	runPageBreak
	runDrawing
	runFootnote
)

// runContent is one ordered child of a run.
type runContent struct {
	Kind       runContentKind
	Text       string
	Drawing    *drawingXML
	FootnoteID string
}

// runXML represents a text run (<w:r>).
type runXML struct {
	Properties runPropsXML
	Content    []runContent
}

// UnmarshalXML implements xml.Unmarshaler.
func (r *runXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rPr":
				if err := d.DecodeElement(&r.Properties, &t); err != nil {
					return err
				}
			case "t":
				var text textXML
				if err := d.DecodeElement(&text, &t); err != nil {
					return err
				}
				r.Content = append(r.Content, runContent{Kind: runText, Text: text.Value})
			case "tab", "ptab":
				r.Content = append(r.Content, runContent{Kind: runTab})
				if err := d.Skip(); err != nil {
					return err
				}
			case "br", "cr":
				kind := runBreak
				if attr(t, "type") == "page" {
					kind = runPageBreak
				}
				r.Content = append(r.Content, runContent{Kind: kind})
				if err := d.Skip(); err != nil {
					return err
				}
			case "noBreakHyphen":
				r.Content = append(r.Content, runContent{Kind: runText, Text: "‑"})
				if err := d.Skip(); err != nil {
					return err
				}
			case "sym":
				if ch := symbolText(attr(t, "char")); ch != "" {
					r.Content = append(r.Content, runContent{Kind: runText, Text: ch})
				}
				if err := d.Skip(); err != nil {
					return err
				}
			case "drawing":
				var dr drawingXML
				if err := d.DecodeElement(&dr, &t); err != nil {
					return err
				}
				r.Content = append(r.Content, runContent{Kind: runDrawing, Drawing: &dr})
			case "footnoteReference":
				r.Content = append(r.Content, runContent{Kind: runFootnote, FootnoteID: attr(t, "id")})
				if err := d.Skip(); err != nil {
					return err
				}
			case "AlternateContent", "Choice":
				depth++
			default:
				// Fallback content duplicates Choice; deleted and field
				// instruction text is not displayed.
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}

// runPropsXML represents run properties (<w:rPr>).
type runPropsXML struct {
	Style     styleRefXML  `xml:"rStyle"`
	Bold      boolXML      `xml:"b"`
	Italic    boolXML      `xml:"i"`
	Underline underlineXML `xml:"u"`
	Strike    boolXML      `xml:"strike"`
	DStrike   boolXML      `xml:"dstrike"`
	FontSize  sizeXML      `xml:"sz"`
	Font      fontXML      `xml:"rFonts"`
	Color     colorXML     `xml:"color"`
}

// boolXML represents a toggle property; presence without val means on.
type boolXML struct {
	XMLName xml.Name
	Val     string `xml:"val,attr"`
}

// set reports whether the element was present.
func (b boolXML) set() bool {
	return b.XMLName.Local != ""
}

// on reports the effective value of a present toggle.
func (b boolXML) on() bool {
	return b.Val != "false" && b.Val != "0" && b.Val != "off"
}

// underlineXML represents underline style.
type underlineXML struct {
	Val string `xml:"val,attr"` // single, double, none, ...
}

// sizeXML represents font size (in half-points).
type sizeXML struct {
	Val string `xml:"val,attr"`
}

// fontXML represents font settings.
type fontXML struct {
	ASCII    string `xml:"ascii,attr"`
	HAnsi    string `xml:"hAnsi,attr"`
	CS       string `xml:"cs,attr"`
	EastAsia string `xml:"eastAsia,attr"`
}

// family picks the font in ascii, east-asian, complex-script, high-ANSI
// order.
func (f fontXML) family() string {
	for _, name := range []string{f.ASCII, f.EastAsia, f.CS, f.HAnsi} {
		if name != "" {
			return name
		}
	}
	return ""
}

// colorXML represents text color.
type colorXML struct {
	Val string `xml:"val,attr"` // Hex color or "auto"
}

// textXML represents text content (<w:t>).
type textXML struct {
	Space string `xml:"space,attr"` // preserve
	Value string `xml:",chardata"`
}

// mathXML captures an Office Math element verbatim for the math converter.
type mathXML struct {
	Name    string `xml:"-"`
	Display bool   `xml:"-"`
	Inner   []byte `xml:",innerxml"`
}

// drawingXML represents an embedded drawing.
type drawingXML struct {
	Inline *inlineXML `xml:"inline"`
	Anchor *anchorXML `xml:"anchor"`
}

// graphicDataXML is the payload of a drawing: a picture, chart or diagram.
type graphicDataXML struct {
	URI     string     `xml:"uri,attr"`
	Blip    *blipXML   `xml:"pic>blipFill>blip"`
	Chart   *relIDXML  `xml:"chart"`
	Diagram *relIdsXML `xml:"relIds"`
}

// inlineXML represents an inline drawing.
type inlineXML struct {
	Extent  extentXML      `xml:"extent"`
	DocPr   docPrXML       `xml:"docPr"`
	Graphic graphicDataXML `xml:"graphic>graphicData"`
}

// anchorXML represents a floating drawing.
type anchorXML struct {
	BehindDoc        string         `xml:"behindDoc,attr"`
	Extent           extentXML      `xml:"extent"`
	DocPr            docPrXML       `xml:"docPr"`
	PositionH        positionXML    `xml:"positionH"`
	PositionV        positionXML    `xml:"positionV"`
	WrapNone         *struct{}      `xml:"wrapNone"`
	WrapSquare       *struct{}      `xml:"wrapSquare"`
	WrapTight        *struct{}      `xml:"wrapTight"`
	WrapThrough      *struct{}      `xml:"wrapThrough"`
	WrapTopAndBottom *struct{}      `xml:"wrapTopAndBottom"`
	Graphic          graphicDataXML `xml:"graphic>graphicData"`
}

// positionXML is a wp:positionH or wp:positionV.
type positionXML struct {
	RelativeFrom string `xml:"relativeFrom,attr"`
	PosOffset    string `xml:"posOffset"` // EMU
}

// extentXML represents drawing dimensions.
type extentXML struct {
	CX string `xml:"cx,attr"` // Width in EMUs
	CY string `xml:"cy,attr"` // Height in EMUs
}

// docPrXML represents document properties of a drawing.
type docPrXML struct {
	ID    string `xml:"id,attr"`
	Name  string `xml:"name,attr"`
	Descr string `xml:"descr,attr"` // Alt text
}

// blipXML represents an image reference.
type blipXML struct {
	Embed string `xml:"embed,attr"` // Relationship ID
}

// relIDXML is an element carrying r:id.
type relIDXML struct {
	ID string `xml:"id,attr"`
}

// relIdsXML references the parts of a diagram.
type relIdsXML struct {
	DM string `xml:"dm,attr"` // data model
}

// hyperlinkXML represents a hyperlink.
type hyperlinkXML struct {
	ID     string   `xml:"id,attr"`
	Anchor string   `xml:"anchor,attr"`
	Runs   []runXML `xml:"r"`
}

// tableXML represents a table (<w:tbl>).
type tableXML struct {
	Properties tablePropsXML `xml:"tblPr"`
	Grid       tableGridXML  `xml:"tblGrid"`
	Rows       []tableRowXML `xml:"tr"`
}

// tablePropsXML represents table properties.
type tablePropsXML struct {
	Style   styleRefXML     `xml:"tblStyle"`
	Width   tableSizeXML    `xml:"tblW"`
	Borders tableBordersXML `xml:"tblBorders"`
}

// tableSizeXML represents table/cell size.
type tableSizeXML struct {
	W    string `xml:"w,attr"`    // Width value
	Type string `xml:"type,attr"` // dxa (twips), pct, auto
}

// tableBordersXML represents table or cell borders.
type tableBordersXML struct {
	Top     *borderXML `xml:"top"`
	Bottom  *borderXML `xml:"bottom"`
	Left    *borderXML `xml:"left"`
	Right   *borderXML `xml:"right"`
	Start   *borderXML `xml:"start"`
	End     *borderXML `xml:"end"`
	InsideH *borderXML `xml:"insideH"`
	InsideV *borderXML `xml:"insideV"`
}

// borderXML represents a single border.
type borderXML struct {
	Val   string `xml:"val,attr"`   // single, double, dashed, nil, none, ...
	Sz    string `xml:"sz,attr"`    // eighths of a point
	Color string `xml:"color,attr"` // hex or auto
}

// tableGridXML represents table grid definition.
type tableGridXML struct {
	Cols []gridColXML `xml:"gridCol"`
}

// gridColXML represents a grid column.
type gridColXML struct {
	W string `xml:"w,attr"` // Width in twips
}

// tableRowXML represents a table row (<w:tr>).
type tableRowXML struct {
	Properties rowPropsXML    `xml:"trPr"`
	Cells      []tableCellXML `xml:"tc"`
}

// rowPropsXML represents row properties.
type rowPropsXML struct {
	Height rowHeightXML `xml:"trHeight"`
}

// rowHeightXML represents row height.
type rowHeightXML struct {
	Val  string `xml:"val,attr"`
	Rule string `xml:"hRule,attr"` // exact, atLeast, auto
}

// tableCellXML represents a table cell (<w:tc>) with ordered content.
type tableCellXML struct {
	Properties cellPropsXML
	Content    []bodyElement
}

// UnmarshalXML implements xml.Unmarshaler.
func (c *tableCellXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	blocks, err := decodeBlocks(d, start, func(t xml.StartElement) (bool, error) {
		if t.Name.Local != "tcPr" {
			return false, nil
		}
		return true, d.DecodeElement(&c.Properties, &t)
	})
	c.Content = blocks
	return err
}

// cellPropsXML represents cell properties.
type cellPropsXML struct {
	Width    tableSizeXML    `xml:"tcW"`
	GridSpan valXML          `xml:"gridSpan"`
	VMerge   *vMergeXML      `xml:"vMerge"`
	Borders  tableBordersXML `xml:"tcBorders"`
	Shading  shadingXML      `xml:"shd"`
	VAlign   valXML          `xml:"vAlign"`
}

// vMergeXML represents vertical merge.
type vMergeXML struct {
	Val string `xml:"val,attr"` // "restart", or empty for continue
}

// shadingXML represents cell shading.
type shadingXML struct {
	Val   string `xml:"val,attr"`   // Pattern
	Color string `xml:"color,attr"` // Pattern color
	Fill  string `xml:"fill,attr"`  // Background color
}

// blockPartXML is a header, footer or footnote body.
type blockPartXML struct {
	Content []bodyElement
}

// UnmarshalXML implements xml.Unmarshaler.
func (b *blockPartXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	blocks, err := decodeBlocks(d, start, nil)
	b.Content = blocks
	return err
}

func attr(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
