package docx

import "encoding/xml"

// stylesXML represents the structure of word/styles.xml
type stylesXML struct {
	XMLName     xml.Name       `xml:"styles"`
	DocDefaults docDefaultsXML `xml:"docDefaults"`
	Styles      []styleDefXML  `xml:"style"`
}

// docDefaultsXML represents document default styles.
type docDefaultsXML struct {
	RPrDefault rPrDefaultXML `xml:"rPrDefault"`
	PPrDefault pPrDefaultXML `xml:"pPrDefault"`
}

// rPrDefaultXML represents default run properties.
type rPrDefaultXML struct {
	RPr runPropsXML `xml:"rPr"`
}

// pPrDefaultXML represents default paragraph properties.
type pPrDefaultXML struct {
	PPr paragraphPropsXML `xml:"pPr"`
}

// styleDefXML represents a style definition.
type styleDefXML struct {
	Type    string            `xml:"type,attr"` // paragraph, character, table, numbering
	StyleID string            `xml:"styleId,attr"`
	Default string            `xml:"default,attr"` // "1" if default style
	Name    valXML            `xml:"name"`
	BasedOn valXML            `xml:"basedOn"`
	PPr     paragraphPropsXML `xml:"pPr"`
	RPr     runPropsXML       `xml:"rPr"`
	TblPr   tablePropsXML     `xml:"tblPr"`
}

// numberingXML represents word/numbering.xml
type numberingXML struct {
	XMLName      xml.Name         `xml:"numbering"`
	AbstractNums []abstractNumXML `xml:"abstractNum"`
	Nums         []numXML         `xml:"num"`
}

// abstractNumXML represents an abstract numbering definition.
type abstractNumXML struct {
	AbstractNumID string   `xml:"abstractNumId,attr"`
	Levels        []lvlXML `xml:"lvl"`
}

// lvlXML represents a numbering level.
type lvlXML struct {
	ILvl    string `xml:"ilvl,attr"`
	Start   valXML `xml:"start"`
	NumFmt  valXML `xml:"numFmt"`  // decimal, bullet, lowerLetter, upperLetter, lowerRoman, upperRoman
	LvlText valXML `xml:"lvlText"` // e.g., "%1.", "%1.%2"
}

// numXML represents a numbering instance.
type numXML struct {
	NumID         string           `xml:"numId,attr"`
	AbstractNumID valXML           `xml:"abstractNumId"`
	Overrides     []lvlOverrideXML `xml:"lvlOverride"`
}

// lvlOverrideXML restarts or redefines one level of a numbering instance.
type lvlOverrideXML struct {
	ILvl          string `xml:"ilvl,attr"`
	StartOverride valXML `xml:"startOverride"`
}

// sectPrXML represents section properties (<w:sectPr>).
type sectPrXML struct {
	PageSize   pageSizeXML    `xml:"pgSz"`
	PageMargin pageMarginXML  `xml:"pgMar"`
	Headers    []hdrFtrRefXML `xml:"headerReference"`
	Footers    []hdrFtrRefXML `xml:"footerReference"`
}

// pageSizeXML is the page size in twips.
type pageSizeXML struct {
	W      string `xml:"w,attr"`
	H      string `xml:"h,attr"`
	Orient string `xml:"orient,attr"`
}

// pageMarginXML is the page margin set in twips.
type pageMarginXML struct {
	Top    string `xml:"top,attr"`
	Right  string `xml:"right,attr"`
	Bottom string `xml:"bottom,attr"`
	Left   string `xml:"left,attr"`
}

// hdrFtrRefXML references a header or footer part.
type hdrFtrRefXML struct {
	Type string `xml:"type,attr"` // default, first, even
	ID   string `xml:"id,attr"`
}

// footnotesXML represents word/footnotes.xml.
type footnotesXML struct {
	Footnotes []footnoteXML `xml:"footnote"`
}

// footnoteXML is one footnote body.
type footnoteXML struct {
	ID   string
	Type string // separator, continuationSeparator, or empty
	Body []bodyElement
}

// UnmarshalXML implements xml.Unmarshaler.
func (f *footnoteXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	f.ID = attr(start, "id")
	f.Type = attr(start, "type")
	blocks, err := decodeBlocks(d, start, nil)
	f.Body = blocks
	return err
}
